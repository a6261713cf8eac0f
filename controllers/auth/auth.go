package authController

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	"lms/upstream"
	authValidator "lms/validators/auth"
)

// Authenticator exchanges learner credentials with the LMS backend
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, *upstream.User, error)
}

type Handler struct {
	auth Authenticator
	log  *logger.Logger
}

func NewHandler(auth Authenticator, log *logger.Logger) *Handler {
	return &Handler{auth: auth, log: log}
}

func normalizeRole(role string) string {
	switch role {
	case models.RoleInstructor, "TEACHER":
		return models.RoleInstructor
	case models.RoleAdmin:
		return models.RoleAdmin
	default:
		return models.RoleStudent
	}
}

// Login signs in upstream and opens a gateway session holding the upstream token
func (h *Handler) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	token, user, err := h.auth.SignIn(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) && (ue.Status == fiber.StatusUnauthorized || ue.Status == fiber.StatusBadRequest) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}
		h.log.Error("sign in failed", "email", reqData.Email, "error", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Could not reach the learning platform. Please try again.", nil)
	}

	session := models.Session{
		SessionKey:    uuid.NewString(),
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          normalizeRole(user.Role),
		UpstreamToken: token,
		ExpiresAt:     time.Now().Add(config.AppConfig.SessionTTL),
		IPAddress:     c.IP(),
		Device:        c.Get(fiber.HeaderUserAgent),
	}
	if session.UserID == "" {
		session.UserID = user.Email
	}

	if err := database.Database.Db.Create(&session).Error; err != nil {
		h.log.Error("error saving session", "user_id", session.UserID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign in!", nil)
	}

	jwtToken, err := middleware.GenerateJWT(&session)
	if err != nil {
		h.log.Error("error generating token", "user_id", session.UserID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	h.log.Info("user signed in", "user_id", session.UserID, "role", session.Role, "ip", session.IPAddress)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token":      jwtToken,
		"expires_at": session.ExpiresAt,
		"user": fiber.Map{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
	})
}

// Logout revokes the current session; its token stops working immediately
func (h *Handler) Logout(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := database.Database.Db.Model(session).Update("is_revoked", true).Error; err != nil {
		h.log.Error("error revoking session", "session_id", session.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign out!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully!", nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session fetched successfully!", session)
}
