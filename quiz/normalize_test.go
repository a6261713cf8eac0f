package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/models/course"
)

func TestNormalizeQuestionTypePriority(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want course.QuestionType
	}{
		{name: "snake case wins", raw: map[string]interface{}{"question_type": "true_false", "questionType": "short_answer", "type": "multiple_choice"}, want: course.TrueFalse},
		{name: "camel case before type", raw: map[string]interface{}{"questionType": "short_answer", "type": "true_false"}, want: course.ShortAnswer},
		{name: "plain type", raw: map[string]interface{}{"type": "true_false"}, want: course.TrueFalse},
		{name: "empty value falls through", raw: map[string]interface{}{"question_type": "", "type": "short_answer"}, want: course.ShortAnswer},
		{name: "default", raw: map[string]interface{}{}, want: course.MultipleChoice},
		{name: "alias", raw: map[string]interface{}{"type": "MCQ"}, want: course.MultipleChoice},
		{name: "unknown kept", raw: map[string]interface{}{"type": "Essay"}, want: course.QuestionType("essay")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuestion(tt.raw, 1).QuestionType)
		})
	}
}

func TestNormalizeQuestionOptions(t *testing.T) {
	raw := map[string]interface{}{
		"questionText": "  Pick one ",
		"answers": []interface{}{
			"Alpha",
			map[string]interface{}{"text": "Beta"},
			map[string]interface{}{"label": "Gamma"},
			map[string]interface{}{"option": "Delta", "is_correct": true},
			map[string]interface{}{"unrelated": "x"},
			float64(42),
		},
	}

	q := NormalizeQuestion(raw, 3)
	assert.Equal(t, "Pick one", q.QuestionText)
	require.Len(t, q.Options, 6)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma", "Delta", "", "42"}, q.Options)
	assert.Equal(t, "Delta", q.CorrectAnswer, "flagged option is used when no explicit answer is given")
	assert.Equal(t, 3, q.OrderIndex)
	assert.Equal(t, 1, q.Points)
}

func TestNormalizeQuestionExplicitAnswerWinsOverFlag(t *testing.T) {
	q := NormalizeQuestion(map[string]interface{}{
		"options":        []interface{}{map[string]interface{}{"text": "A", "isCorrect": true}, "B"},
		"correct_answer": "B",
	}, 1)
	assert.Equal(t, "B", q.CorrectAnswer)
}

func TestCanonicalTrueFalse(t *testing.T) {
	truthy := []interface{}{true, "true", "TRUE", " True ", "1", float64(1)}
	for _, v := range truthy {
		q := NormalizeQuestion(map[string]interface{}{"question_type": "true_false", "correct_answer": v}, 1)
		assert.Equal(t, "true", q.CorrectAnswer, "value %#v", v)
	}

	falsy := []interface{}{false, "false", "FALSE", "0", "yes", "verdadero", float64(2), "", nil}
	for _, v := range falsy {
		q := NormalizeQuestion(map[string]interface{}{"question_type": "true_false", "correct_answer": v}, 1)
		assert.Equal(t, "false", q.CorrectAnswer, "value %#v", v)
	}
}

func TestNormalizeTrueFalseAnswerAliases(t *testing.T) {
	q := NormalizeQuestion(map[string]interface{}{"type": "true_false", "correctAnswer": "TRUE"}, 1)
	assert.Equal(t, "true", q.CorrectAnswer)

	q = NormalizeQuestion(map[string]interface{}{"type": "true_false", "answer": true}, 1)
	assert.Equal(t, "true", q.CorrectAnswer)
	assert.Nil(t, q.Options)
}

func TestNormalizeQuestionsOrdering(t *testing.T) {
	qs := NormalizeQuestions([]map[string]interface{}{
		{"id": "q1", "order_index": float64(3)},
		{"id": "q2"},
		{"id": "q3", "orderIndex": "1"},
	})
	require.Len(t, qs, 3)
	assert.Equal(t, "q3", qs[0].ID)
	assert.Equal(t, "q2", qs[1].ID)
	assert.Equal(t, 2, qs[1].OrderIndex, "missing order index defaults to the 1-based position")
	assert.Equal(t, "q1", qs[2].ID)
}

func TestNormalizeQuestionNumericID(t *testing.T) {
	q := NormalizeQuestion(map[string]interface{}{"id": float64(17), "points": float64(5)}, 1)
	assert.Equal(t, "17", q.ID)
	assert.Equal(t, 5, q.Points)
}
