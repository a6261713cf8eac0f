package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/enrollment"
	"lms/learning"
	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
)

// CourseView is everything the learner view of a course needs, resolved once
type CourseView struct {
	Course             *course.Course          `json:"course"`
	Modules            []learning.ModuleAccess `json:"modules"`
	Progress           learning.CourseProgress `json:"progress"`
	DurationMinutes    int                     `json:"duration_minutes"`
	NextLesson         *course.Lesson          `json:"next_lesson"`
	EnrollmentOpen     bool                    `json:"enrollment_open"`
	UnlockStatusFailed bool                    `json:"unlock_status_unavailable,omitempty"`
}

// buildCourseView loads the course with progress and unlock state. When the
// unlock status cannot be fetched, access is derived from progress alone.
func (h *Handler) buildCourseView(c *fiber.Ctx, token, courseID string) (*CourseView, error) {
	ctx := c.UserContext()

	co, err := h.lms.GetCourse(ctx, token, courseID)
	if err != nil {
		return nil, err
	}

	records, err := h.lms.GetProgress(ctx, token, co.ID)
	if err != nil && !upstream.IsNotFound(err) {
		return nil, err
	}
	p := learning.IndexProgress(records)

	view := &CourseView{Course: co}

	fetched, err := h.lms.GetModuleUnlocks(ctx, token, co.ID)
	if err != nil {
		h.log.Warn("unlock status unavailable, using local progress", "course_id", co.ID, "error", err)
		fetched = nil
		view.UnlockStatusFailed = true
	}
	unlocks := learning.MergeUnlocks(co.Modules, fetched)

	view.Modules = learning.ResolveModuleAccess(co.Modules, p, unlocks)
	view.Progress = learning.ComputeCourseProgress(co.Modules, p)
	view.DurationMinutes = learning.ComputeCourseDuration(*co, co.Modules)
	view.NextLesson = learning.NextLesson(co.Modules, p, unlocks)
	view.EnrollmentOpen = !enrollment.DeadlinePassed(co.EnrollmentDeadline, time.Now())
	return view, nil
}

// GetCourseDetails returns the learner view of a course
func (h *Handler) GetCourseDetails(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	view, err := h.buildCourseView(c, sess.UpstreamToken, local(c, "courseID"))
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load the course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", view)
}

// GetCourseProgress returns progress per module and for the whole course
func (h *Handler) GetCourseProgress(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}

	view, err := h.buildCourseView(c, sess.UpstreamToken, local(c, "courseID"))
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load course progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"course_id":   view.Course.ID,
		"modules":     view.Modules,
		"progress":    view.Progress,
		"next_lesson": view.NextLesson,
	})
}
