package quiz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"lms/models/course"
)

const temporaryIDPrefix = "new-"

// IsTemporaryID reports whether id was assigned locally and is unknown to the backend.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, temporaryIDPrefix)
}

// Renumber returns a copy of qs with order indexes 1..N in slice order.
func Renumber(qs []course.Question) []course.Question {
	out := make([]course.Question, len(qs))
	for i, q := range qs {
		q.OrderIndex = i + 1
		out[i] = q
	}
	return out
}

// Add appends q at the end of the list. A question without id gets a temporary one.
func Add(qs []course.Question, q course.Question) []course.Question {
	if q.ID == "" {
		q.ID = temporaryIDPrefix + uuid.NewString()
	}
	out := make([]course.Question, len(qs), len(qs)+1)
	copy(out, qs)
	Sort(out)
	out = append(out, q)
	return Renumber(out)
}

// Replace swaps the question with the same id, keeping its position.
func Replace(qs []course.Question, q course.Question) ([]course.Question, bool) {
	out := make([]course.Question, len(qs))
	copy(out, qs)
	for i := range out {
		if out[i].ID == q.ID {
			q.OrderIndex = out[i].OrderIndex
			out[i] = q
			return out, true
		}
	}
	return out, false
}

// Delete removes the question with the given id and renumbers the rest densely from 1.
func Delete(qs []course.Question, id string) ([]course.Question, bool) {
	out := make([]course.Question, 0, len(qs))
	found := false
	for _, q := range qs {
		if !found && q.ID == id {
			found = true
			continue
		}
		out = append(out, q)
	}
	Sort(out)
	return Renumber(out), found
}

// Validate checks a question before it is sent to the backend. The returned
// map is keyed by JSON field name and is empty for a valid question.
func Validate(q course.Question) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(q.QuestionText) == "" {
		errors["question_text"] = "Question text is required!"
	}
	if q.Points <= 0 {
		errors["points"] = "Points must be a positive number!"
	}

	switch q.QuestionType {
	case course.MultipleChoice:
		filled := 0
		for i, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				errors["options"] = fmt.Sprintf("Option %d is empty!", i+1)
				continue
			}
			filled++
		}
		if filled < 2 {
			errors["options"] = "At least two non-empty options are required!"
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			errors["correct_answer"] = "Correct answer is required!"
		} else if !contains(q.Options, q.CorrectAnswer) {
			errors["correct_answer"] = "Correct answer must be one of the options!"
		}
	case course.TrueFalse:
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			errors["correct_answer"] = "Correct answer must be true or false!"
		}
	case course.ShortAnswer:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			errors["correct_answer"] = "Correct answer is required!"
		}
	default:
		errors["question_type"] = "Question type must be multiple_choice, true_false, or short_answer!"
	}
	return errors
}

// ValidateAll validates every question and prefixes errors with the question position.
func ValidateAll(qs []course.Question) map[string]string {
	errors := make(map[string]string)
	for i, q := range qs {
		for field, msg := range Validate(q) {
			errors[fmt.Sprintf("questions[%d].%s", i, field)] = msg
		}
	}
	return errors
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
