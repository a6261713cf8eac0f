package course

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// ProgressRecord is the completion state of one lesson for one enrollment
type ProgressRecord struct {
	EnrollmentID string         `json:"enrollment_id"`
	LessonID     string         `json:"lesson_id"`
	Status       ProgressStatus `json:"status"`
}
