package course

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// Question is the canonical quiz/evaluation question
type Question struct {
	ID            string       `json:"id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Points        int          `json:"points"`
	OrderIndex    int          `json:"order_index"`
}

type QuizKind string

const (
	KindModuleQuiz QuizKind = "module_quiz"
	KindEvaluation QuizKind = "evaluation"
)

// Quiz is either an optional module quiz or the mandatory course evaluation
type Quiz struct {
	ID           string     `json:"id"`
	Kind         QuizKind   `json:"kind"`
	CourseID     string     `json:"course_id"`
	ModuleID     string     `json:"module_id,omitempty"`
	Title        string     `json:"title"`
	PassingScore int        `json:"passing_score"`
	Questions    []Question `json:"questions"`
}
