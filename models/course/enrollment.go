package course

import "time"

// Enrollment tracks a user's registration in a course
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"` // completion percentage (0-100) as reported by the backend
	EnrolledAt time.Time `json:"enrolled_at"`
}
