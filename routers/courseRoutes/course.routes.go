package courseRoutes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up the learner-facing and public course routes
func SetupCourseRoutes(app *fiber.App, h *controllers.Handler) {
	// Public
	app.Get("/certificates/verify/:code", middleware.RateLimit(30, time.Minute), validators.Params("code"), h.VerifyCertificate)

	userGroup := app.Group("/course", middleware.JWTMiddleware)

	userGroup.Get("/:id", validators.Params("id"), h.GetCourseDetails)
	userGroup.Get("/:id/progress", validators.Params("id"), h.GetCourseProgress)
	userGroup.Post("/:id/enroll", validators.Params("id"), h.EnrollInCourse)
	userGroup.Get("/:id/live", validators.Params("id"), h.ListLiveSessions)

	// Waiting room (server-sent events)
	app.Get("/live/:session_id/wait", middleware.JWTMiddleware, validators.Params("session_id"), h.WaitForLiveSession)
}
