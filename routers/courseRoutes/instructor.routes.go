package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupInstructorRoutes sets up course authoring routes
func SetupInstructorRoutes(app *fiber.App, h *controllers.Handler) {
	courseGroup := app.Group("/instructor/course/:course_id", middleware.JWTMiddleware, middleware.RequireInstructor, validators.Params("course_id"))

	// Module Management
	courseGroup.Post("/module", validators.CreateModule(), h.CreateModule)
	courseGroup.Post("/modules/reorder", validators.ReorderModules(), h.ReorderModules)
	courseGroup.Put("/module/:module_id", validators.Params("module_id"), validators.UpdateModule(), h.UpdateModule)
	courseGroup.Delete("/module/:module_id", validators.Params("module_id"), h.DeleteModule)

	// Lesson Management
	courseGroup.Post("/module/:module_id/lesson", validators.Params("module_id"), validators.CreateLesson(), h.CreateLesson)
	courseGroup.Put("/module/:module_id/lesson/:lesson_id", validators.Params("module_id", "lesson_id"), validators.UpdateLesson(), h.UpdateLesson)
	courseGroup.Delete("/module/:module_id/lesson/:lesson_id", validators.Params("module_id", "lesson_id"), h.DeleteLesson)

	// Media
	courseGroup.Post("/media", validators.UploadMedia(), h.UploadMedia)

	// Module quiz
	courseGroup.Get("/module/:module_id/quiz", validators.Params("module_id"), h.GetQuiz)
	courseGroup.Put("/module/:module_id/quiz", validators.Params("module_id"), validators.SaveQuiz(), h.SaveQuiz)
	courseGroup.Post("/module/:module_id/quiz/question", validators.Params("module_id"), validators.Question(), h.AddQuestion)
	courseGroup.Put("/module/:module_id/quiz/question/:question_id", validators.Params("module_id", "question_id"), validators.Question(), h.EditQuestion)
	courseGroup.Delete("/module/:module_id/quiz/question/:question_id", validators.Params("module_id", "question_id"), h.DeleteQuestion)

	// Course evaluation
	courseGroup.Get("/evaluation", h.GetQuiz)
	courseGroup.Put("/evaluation", validators.SaveQuiz(), h.SaveQuiz)
	courseGroup.Post("/evaluation/question", validators.Question(), h.AddQuestion)
	courseGroup.Put("/evaluation/question/:question_id", validators.Params("question_id"), validators.Question(), h.EditQuestion)
	courseGroup.Delete("/evaluation/question/:question_id", validators.Params("question_id"), h.DeleteQuestion)

	// Publication
	courseGroup.Post("/request-publication", h.RequestPublication)

	// Live sessions
	courseGroup.Get("/live", h.ListLiveSessions)
	courseGroup.Post("/live", validators.ScheduleLiveSession(), h.ScheduleLiveSession)
}
