package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
)

func (h *Handler) CreateModule(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	in := c.Locals("validatedModule").(*upstream.ModuleInput)

	m, err := h.lms.CreateModule(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), *in)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to create module!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", m)
}

func (h *Handler) UpdateModule(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	in := c.Locals("validatedModule").(*upstream.ModuleInput)

	m, err := h.lms.UpdateModule(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), local(c, "moduleID"), *in)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to update module!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", m)
}

func (h *Handler) DeleteModule(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.lms.DeleteModule(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), local(c, "moduleID")); err != nil {
		return h.upstreamFailure(c, err, "Failed to delete module!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// ReorderModules persists the new order and returns it sorted
func (h *Handler) ReorderModules(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	order := c.Locals("validatedOrder").([]course.ModuleOrder)

	if err := h.lms.ReorderModules(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), order); err != nil {
		return h.upstreamFailure(c, err, "Failed to reorder modules!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", fiber.Map{
		"modules": order,
	})
}

// --- Lessons ---

func (h *Handler) CreateLesson(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	in := c.Locals("validatedLesson").(*upstream.LessonInput)

	l, err := h.lms.CreateLesson(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), local(c, "moduleID"), *in)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to create lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", l)
}

func (h *Handler) UpdateLesson(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	in := c.Locals("validatedLesson").(*upstream.LessonInput)

	l, err := h.lms.UpdateLesson(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), local(c, "moduleID"), local(c, "lessonID"), *in)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to update lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", l)
}

func (h *Handler) DeleteLesson(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	err := h.lms.DeleteLesson(c.UserContext(), sess.UpstreamToken, local(c, "courseID"), local(c, "moduleID"), local(c, "lessonID"))
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to delete lesson!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
