package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/models"
)

// Log receives middleware warnings. main replaces it with the application logger.
var Log = logger.Nop()

// GenerateJWT signs a token bound to a server-side session
func GenerateJWT(session *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"userId": session.UserID,
		"sid":    session.SessionKey,
		"name":   session.Name,
		"role":   session.Role,
		"email":  session.Email,
		"iat":    time.Now().Unix(),
		"exp":    session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return JsonResponse(c, fiber.StatusUnauthorized, false, message, nil)
}

// JWTMiddleware checks the bearer token and loads its session. Revoked and
// expired sessions are rejected even when the token itself is still valid.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "Missing or invalid Authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized(c, "Invalid Authorization header format")
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return unauthorized(c, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(c, "Invalid token payload")
	}
	sid, _ := claims["sid"].(string)
	userID, _ := claims["userId"].(string)
	if sid == "" || userID == "" {
		return unauthorized(c, "Invalid token payload")
	}

	var session models.Session
	err = database.Database.Db.Where("session_key = ? AND user_id = ?", sid, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return unauthorized(c, "Session not found!")
	}
	if err != nil {
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking the session!", nil)
	}

	now := time.Now()
	if !session.Active(now) {
		return unauthorized(c, "Session has expired. Please sign in again.")
	}

	if err := database.Database.Db.Model(&session).Update("last_seen_at", now).Error; err != nil {
		Log.Warn("failed to update session last_seen_at", "session_id", session.ID, "error", err)
	}

	c.Locals("userId", session.UserID)
	c.Locals("session", &session)
	return c.Next()
}

// CurrentSession returns the session loaded by JWTMiddleware
func CurrentSession(c *fiber.Ctx) (*models.Session, bool) {
	s, ok := c.Locals("session").(*models.Session)
	return s, ok && s != nil
}

// RequireInstructor must run after JWTMiddleware
func RequireInstructor(c *fiber.Ctx) error {
	s, ok := CurrentSession(c)
	if !ok {
		return unauthorized(c, "Unauthorized!")
	}
	if !s.CanAuthor() {
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
