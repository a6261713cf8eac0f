package course

import "time"

// Course is the canonical course record returned by the upstream course fetch.
type Course struct {
	ID                 string     `json:"id"`
	Slug               string     `json:"slug"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	InstructorID       string     `json:"instructor_id"`
	DurationMinutes    int        `json:"duration_minutes"` // explicit duration, 0 when the backend has none
	IsPublished        bool       `json:"is_published"`
	EnrollmentDeadline *time.Time `json:"enrollment_deadline,omitempty"`
	Modules            []Module   `json:"modules"`
	Lessons            []Lesson   `json:"lessons,omitempty"` // flat list, kept as a duration fallback
}
