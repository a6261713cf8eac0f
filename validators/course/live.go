package courseValidator

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/config"
	"lms/livesession"
	"lms/middleware"
	"lms/upstream"
	"lms/utils"
)

// ScheduleLiveSession validates a new live session. starts_at is read in the
// configured time zone when it carries no offset.
func ScheduleLiveSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title           string `json:"title"`
			StartsAt        string `json:"starts_at"`
			DurationMinutes int    `json:"duration_minutes"`
			Description     string `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		loc := config.AppConfig.Location
		var startsAt time.Time
		raw := strings.TrimSpace(reqData.StartsAt)
		if raw != "" {
			t, ok := utils.ParseTime(raw, loc)
			if !ok {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"starts_at": "Start time must be a date and time!",
				})
			}
			startsAt = t
		}

		errors := livesession.ValidateSchedule(reqData.Title, startsAt, reqData.DurationMinutes, time.Now())
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLive", &upstream.LiveSessionInput{
			Title:           strings.TrimSpace(reqData.Title),
			StartsAt:        startsAt.UTC().Format(time.RFC3339),
			DurationMinutes: reqData.DurationMinutes,
			Description:     strings.TrimSpace(reqData.Description),
		})
		return c.Next()
	}
}
