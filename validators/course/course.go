package courseValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// params maps route parameter names to the Locals key and label used for them
var params = map[string][2]string{
	"id":          {"courseID", "Course ID"},
	"course_id":   {"courseID", "Course ID"},
	"module_id":   {"moduleID", "Module ID"},
	"lesson_id":   {"lessonID", "Lesson ID"},
	"question_id": {"questionID", "Question ID"},
	"session_id":  {"sessionID", "Session ID"},
	"code":        {"certificateCode", "Certificate code"},
}

// Params requires the named path parameters to be non-blank and stores them
// in Locals ("courseID", "moduleID", ...).
func Params(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			p, ok := params[name]
			if !ok {
				p = [2]string{name, name}
			}
			v := strings.TrimSpace(c.Params(name))
			if v == "" {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, p[1]+" is required!", nil)
			}
			c.Locals(p[0], v)
		}
		return c.Next()
	}
}
