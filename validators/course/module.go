package courseValidator

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
	"lms/validators/shared"
)

type moduleRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	OrderIndex  *int   `json:"order_index" validate:"omitempty,min=0"`
}

func parseModule(c *fiber.Ctx) error {
	reqData := new(moduleRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	reqData.Title = strings.TrimSpace(reqData.Title)
	reqData.Description = strings.TrimSpace(reqData.Description)

	if errors := shared.Struct(reqData); len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	c.Locals("validatedModule", &upstream.ModuleInput{
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	})
	return c.Next()
}

// CreateModule validates a new module
func CreateModule() fiber.Handler {
	return parseModule
}

// UpdateModule validates a module edit
func UpdateModule() fiber.Handler {
	return parseModule
}

type reorderRequest struct {
	Modules []course.ModuleOrder `json:"modules" validate:"required,min=1"`
}

// ReorderModules validates an ordered list of {id, order_index} pairs. Ids and
// order indexes must both be unique.
func ReorderModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(reorderRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := shared.Struct(reqData)
		seenIDs := make(map[string]bool, len(reqData.Modules))
		seenOrder := make(map[int]bool, len(reqData.Modules))
		for i, m := range reqData.Modules {
			key := fmt.Sprintf("modules[%d]", i)
			id := strings.TrimSpace(m.ID)
			switch {
			case id == "":
				errors[key+".id"] = "Module ID is required!"
			case seenIDs[id]:
				errors[key+".id"] = "Module appears more than once!"
			}
			seenIDs[id] = true

			switch {
			case m.OrderIndex < 0:
				errors[key+".order_index"] = "Order index cannot be negative!"
			case seenOrder[m.OrderIndex]:
				errors[key+".order_index"] = "Order index is used more than once!"
			}
			seenOrder[m.OrderIndex] = true
			reqData.Modules[i].ID = id
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOrder", reqData.Modules)
		return c.Next()
	}
}
