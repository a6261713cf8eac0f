package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/utils"
)

// RequestPublication submits a course for review. A course cannot be submitted
// before its evaluation has at least one question.
func (h *Handler) RequestPublication(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	courseID := local(c, "courseID")

	co, err := h.lms.GetCourse(c.UserContext(), sess.UpstreamToken, courseID)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the course!")
	}

	evaluation, err := h.lms.GetOrCreateEvaluation(c.UserContext(), sess.UpstreamToken, co.ID)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the course evaluation!")
	}
	if len(evaluation.Questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Add at least one question to the course evaluation before requesting publication!", fiber.Map{
			"section": "evaluation",
		})
	}

	if err := h.lms.RequestPublication(c.UserContext(), sess.UpstreamToken, co.ID); err != nil {
		return h.upstreamFailure(c, err, "Failed to request publication!")
	}

	if sess.Email != "" {
		utils.SendPublicationRequestedEmail(h.mailer, h.appName, sess.Email, sess.Name, co.Title)
	}
	h.log.Info("publication requested", "user_id", sess.UserID, "course_id", co.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Publication requested successfully!", fiber.Map{
		"course_id": co.ID,
	})
}
