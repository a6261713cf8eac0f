package courseValidator

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
	"lms/validators/shared"
)

type lessonRequest struct {
	Title           string `json:"title" validate:"notblank,max=200"`
	ContentType     string `json:"content_type"`
	Content         string `json:"content"`
	MediaID         string `json:"media_id"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	IsRequired      *bool  `json:"is_required"`
	IsPublished     bool   `json:"is_published"`
	OrderIndex      *int   `json:"order_index" validate:"omitempty,min=0"`
}

func parseLesson(c *fiber.Ctx) error {
	reqData := new(lessonRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	reqData.Title = strings.TrimSpace(reqData.Title)
	contentType := course.ContentType(strings.ToLower(strings.TrimSpace(reqData.ContentType)))

	errors := shared.Struct(reqData)
	if contentType == "" {
		errors["content_type"] = "Content type is required!"
	} else if !contentType.Valid() {
		errors["content_type"] = "Unknown content type!"
	}
	if contentType == course.ContentText && strings.TrimSpace(reqData.Content) == "" && reqData.MediaID == "" {
		errors["content"] = "Text lessons need content!"
	}

	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	required := true
	if reqData.IsRequired != nil {
		required = *reqData.IsRequired
	}
	c.Locals("validatedLesson", &upstream.LessonInput{
		Title:           reqData.Title,
		ContentType:     contentType,
		Content:         reqData.Content,
		MediaID:         strings.TrimSpace(reqData.MediaID),
		DurationMinutes: reqData.DurationMinutes,
		IsRequired:      required,
		IsPublished:     reqData.IsPublished,
		OrderIndex:      reqData.OrderIndex,
	})
	return c.Next()
}

func CreateLesson() fiber.Handler {
	return parseLesson
}

func UpdateLesson() fiber.Handler {
	return parseLesson
}

// UploadRequest is a validated multipart media upload
type UploadRequest struct {
	Category course.MediaCategory
	ModuleID string
	LessonID string
	File     *multipart.FileHeader
}

// UploadMedia validates the multipart form of a media upload. A module must
// be selected; the file itself is checked against the category limits later.
func UploadMedia() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		category := course.MediaCategory(strings.ToLower(strings.TrimSpace(c.FormValue("category"))))
		if category == "" {
			errors["category"] = "Category is required!"
		} else if !category.Valid() {
			errors["category"] = "Unknown media category!"
		}

		moduleID := strings.TrimSpace(c.FormValue("module_id"))
		if moduleID == "" {
			errors["module_id"] = "Please select a module!"
		}

		file, err := c.FormFile("file")
		if err != nil || file == nil {
			errors["file"] = "File is required!"
		} else if file.Size == 0 {
			errors["file"] = "File is empty!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpload", &UploadRequest{
			Category: category,
			ModuleID: moduleID,
			LessonID: strings.TrimSpace(c.FormValue("lesson_id")),
			File:     file,
		})
		return c.Next()
	}
}
