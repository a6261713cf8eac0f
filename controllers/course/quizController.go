package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models"
	"lms/models/course"
	"lms/quiz"
	courseValidator "lms/validators/course"
)

// loadQuiz returns the module quiz when the route names a module and the course
// evaluation otherwise. Both are created upstream on first access.
func (h *Handler) loadQuiz(c *fiber.Ctx, sess *models.Session) (*course.Quiz, error) {
	courseID := local(c, "courseID")
	if moduleID := local(c, "moduleID"); moduleID != "" {
		return h.lms.GetOrCreateModuleQuiz(c.UserContext(), sess.UpstreamToken, courseID, moduleID)
	}
	return h.lms.GetOrCreateEvaluation(c.UserContext(), sess.UpstreamToken, courseID)
}

func quizLabel(q *course.Quiz) string {
	if q.Kind == course.KindEvaluation {
		return "Evaluation"
	}
	return "Quiz"
}

func (h *Handler) GetQuiz(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	q, err := h.loadQuiz(c, sess)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, quizLabel(q)+" fetched successfully!", q)
}

// SaveQuiz replaces all questions at once
func (h *Handler) SaveQuiz(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	req := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)

	q, err := h.loadQuiz(c, sess)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the quiz!")
	}
	if req.Title != "" {
		q.Title = req.Title
	}
	if req.PassingScore != nil {
		q.PassingScore = *req.PassingScore
	}
	q.Questions = req.Questions

	return h.storeQuiz(c, sess, q, fiber.StatusOK, "saved")
}

func (h *Handler) AddQuestion(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	question := c.Locals("validatedQuestion").(*course.Question)

	q, err := h.loadQuiz(c, sess)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the quiz!")
	}
	q.Questions = quiz.Add(q.Questions, *question)

	return h.storeQuiz(c, sess, q, fiber.StatusCreated, "question added")
}

func (h *Handler) EditQuestion(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	question := c.Locals("validatedQuestion").(*course.Question)
	question.ID = local(c, "questionID")

	q, err := h.loadQuiz(c, sess)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the quiz!")
	}
	questions, found := quiz.Replace(q.Questions, *question)
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	q.Questions = questions

	return h.storeQuiz(c, sess, q, fiber.StatusOK, "question updated")
}

// DeleteQuestion removes a question and renumbers the rest densely
func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	q, err := h.loadQuiz(c, sess)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the quiz!")
	}
	questions, found := quiz.Delete(q.Questions, local(c, "questionID"))
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	q.Questions = questions

	return h.storeQuiz(c, sess, q, fiber.StatusOK, "question deleted")
}

func (h *Handler) storeQuiz(c *fiber.Ctx, sess *models.Session, q *course.Quiz, status int, action string) error {
	saved, err := h.lms.SaveQuiz(c.UserContext(), sess.UpstreamToken, q)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to save the quiz!")
	}
	return middleware.JsonResponse(c, status, true, quizLabel(saved)+" "+action+" successfully!", saved)
}
