package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
	"lms/utils"
	courseValidator "lms/validators/course"
)

const mediaLimitsTTL = time.Hour

// mediaLimits returns the upload limits of a category, cached per category
func (h *Handler) mediaLimits(ctx context.Context, token string, category course.MediaCategory) (*course.MediaLimits, error) {
	key := "media:limits:" + string(category)

	var cached course.MediaLimits
	if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	limits, err := h.lms.GetMediaLimits(ctx, token, category)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, key, limits, mediaLimitsTTL); err != nil {
		h.log.Warn("media limits cache write failed", "category", category, "error", err)
	}
	return limits, nil
}

// UploadMedia checks the file against the server-declared limits and forwards it
func (h *Handler) UploadMedia(c *fiber.Ctx) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return unauthorized(c)
	}
	req := c.Locals("validatedUpload").(*courseValidator.UploadRequest)

	limits, err := h.mediaLimits(c.UserContext(), sess.UpstreamToken, req.Category)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to load upload limits!")
	}

	up, err := utils.OpenUpload(req.File, *limits)
	switch {
	case errors.Is(err, utils.ErrFileTooLarge):
		return middleware.ValidationErrorResponse(c, map[string]string{
			"file": "File is too large! Maximum size is " + utils.HumanSize(limits.MaxSizeBytes) + ".",
		})
	case errors.Is(err, utils.ErrUnsupportedType):
		return middleware.ValidationErrorResponse(c, map[string]string{
			"file": "This file type is not accepted for " + string(req.Category) + "!",
		})
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read the uploaded file!", nil)
	}
	defer up.File.Close()

	target := upstream.MediaTarget{
		CourseID: local(c, "courseID"),
		ModuleID: req.ModuleID,
		LessonID: req.LessonID,
	}
	media, err := h.lms.UploadMedia(c.UserContext(), sess.UpstreamToken, target, req.Category, up.Filename, up.File)
	if err != nil {
		return h.upstreamFailure(c, err, "Failed to upload media!")
	}
	if media.MimeType == "" {
		media.MimeType = up.MimeType
	}
	if media.Size == 0 {
		media.Size = up.Size
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Media uploaded successfully!", media)
}
