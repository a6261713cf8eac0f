package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
	"lms/quiz"
)

// QuizRequest is a validated full save of a module quiz or the evaluation
type QuizRequest struct {
	Title        string
	PassingScore *int
	Questions    []course.Question
}

// SaveQuiz normalizes and validates every question of a quiz save
func SaveQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string                   `json:"title"`
			PassingScore *int                     `json:"passing_score"`
			Questions    []map[string]interface{} `json:"questions"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		questions := quiz.Renumber(quiz.NormalizeQuestions(reqData.Questions))
		errors := quiz.ValidateAll(questions)
		if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", &QuizRequest{
			Title:        reqData.Title,
			PassingScore: reqData.PassingScore,
			Questions:    questions,
		})
		return c.Next()
	}
}

// Question normalizes and validates a single question for add or edit
func Question() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := make(map[string]interface{})
		if err := c.BodyParser(&raw); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		q := quiz.NormalizeQuestion(raw, 0)
		if errors := quiz.Validate(q); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", &q)
		return c.Next()
	}
}
