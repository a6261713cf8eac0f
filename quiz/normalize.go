// Package quiz maps module quiz and course evaluation questions from whatever
// shape the backend returns into course.Question, and keeps question lists in
// a stable, densely numbered order.
package quiz

import (
	"sort"
	"strings"

	"lms/models/course"
	"lms/utils"
)

var typeAliases = map[string]course.QuestionType{
	"multiple_choice": course.MultipleChoice,
	"multiple-choice": course.MultipleChoice,
	"multiplechoice":  course.MultipleChoice,
	"mcq":             course.MultipleChoice,
	"true_false":      course.TrueFalse,
	"true-false":      course.TrueFalse,
	"truefalse":       course.TrueFalse,
	"boolean":         course.TrueFalse,
	"short_answer":    course.ShortAnswer,
	"short-answer":    course.ShortAnswer,
	"shortanswer":     course.ShortAnswer,
}

// normalizeType resolves the question type. Unknown values are kept lowercased
// so that Validate can report them.
func normalizeType(f utils.Fields) course.QuestionType {
	raw := strings.ToLower(strings.TrimSpace(f.String("question_type", "questionType", "type")))
	if raw == "" {
		return course.MultipleChoice
	}
	if t, ok := typeAliases[raw]; ok {
		return t
	}
	return course.QuestionType(raw)
}

// optionText maps one options/answers entry to a plain string. Entries are
// never dropped: an object without a text field becomes "".
func optionText(v interface{}) string {
	switch o := v.(type) {
	case string:
		return strings.TrimSpace(o)
	case map[string]interface{}:
		return strings.TrimSpace(utils.Fields(o).String("text", "label", "option"))
	default:
		return strings.TrimSpace(utils.ToString(v))
	}
}

// flaggedOption returns the text of the first option object marked correct.
func flaggedOption(entries []interface{}) (string, bool) {
	for _, e := range entries {
		o, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if correct, ok := utils.Fields(o).Bool("is_correct", "isCorrect", "correct"); ok && correct {
			return optionText(o), true
		}
	}
	return "", false
}

// CanonicalTrueFalse collapses a true/false answer to "true" or "false".
// Booleans map directly; anything else is trimmed and lowercased and only
// "true" or "1" count as true. Unrecognized values become "false".
func CanonicalTrueFalse(v interface{}) string {
	if b, ok := v.(bool); ok {
		if b {
			return "true"
		}
		return "false"
	}
	s := strings.ToLower(strings.TrimSpace(utils.ToString(v)))
	if s == "true" || s == "1" {
		return "true"
	}
	return "false"
}

// NormalizeQuestion converts a raw question payload. position is the 1-based
// list position, used as order index when the payload has none.
func NormalizeQuestion(raw map[string]interface{}, position int) course.Question {
	f := utils.Fields(raw)

	q := course.Question{
		ID:           f.String("id", "question_id", "questionId", "_id"),
		QuestionText: strings.TrimSpace(f.String("question_text", "questionText", "question", "text")),
		QuestionType: normalizeType(f),
		Points:       1,
		OrderIndex:   position,
	}

	if points, ok := f.Int("points", "score"); ok {
		q.Points = points
	}
	if order, ok := f.Int("order_index", "orderIndex", "order", "position"); ok && order > 0 {
		q.OrderIndex = order
	}

	entries := f.List("options", "answers")
	answer, hasAnswer := f.Value("correct_answer", "correctAnswer", "answer")
	if !hasAnswer {
		if text, ok := flaggedOption(entries); ok {
			answer, hasAnswer = text, true
		}
	}

	switch q.QuestionType {
	case course.TrueFalse:
		q.CorrectAnswer = CanonicalTrueFalse(answer)
	case course.MultipleChoice:
		q.Options = make([]string, len(entries))
		for i, e := range entries {
			q.Options[i] = optionText(e)
		}
		if hasAnswer {
			q.CorrectAnswer = optionText(answer)
		}
	default:
		if hasAnswer {
			q.CorrectAnswer = strings.TrimSpace(utils.ToString(answer))
		}
	}
	return q
}

// NormalizeQuestions normalizes a question list and orders it by order index.
func NormalizeQuestions(raws []map[string]interface{}) []course.Question {
	out := make([]course.Question, len(raws))
	for i, raw := range raws {
		out[i] = NormalizeQuestion(raw, i+1)
	}
	Sort(out)
	return out
}

// Sort orders questions by order index in place, keeping ties stable.
func Sort(qs []course.Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].OrderIndex < qs[j].OrderIndex
	})
}
