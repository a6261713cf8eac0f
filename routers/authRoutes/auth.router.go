package authRoutes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	authControllers "lms/controllers/auth"
	"lms/middleware"
	authValidators "lms/validators/auth"
)

func SetupAuthRoutes(app *fiber.App, h *authControllers.Handler) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", middleware.RateLimit(10, time.Minute), authValidators.Login(), h.Login)
	authGroup.Post("/logout", middleware.JWTMiddleware, h.Logout)
	authGroup.Get("/me", middleware.JWTMiddleware, h.Me)
}
