package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms/enrollment"
	"lms/middleware"
)

func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	co, err := h.lms.GetCourse(c.UserContext(), sess.UpstreamToken, local(c, "courseID"))
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the course!")
	}

	student := enrollment.Student{Name: sess.Name, Email: sess.Email}
	e, err := h.enroll.Enroll(c.UserContext(), sess.UpstreamToken, student, co)
	switch {
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", e)
	case errors.Is(err, enrollment.ErrDeadlinePassed):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The enrollment deadline for this course has passed!", fiber.Map{
			"section":             "enrollment",
			"enrollment_deadline": co.EnrollmentDeadline.In(h.loc).Format("2006-01-02"),
		})
	case err != nil:
		return h.upstreamFailure(c, err, "Failed to enroll in course!")
	}

	h.log.Info("enrolled", "user_id", sess.UserID, "course_id", co.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", e)
}
