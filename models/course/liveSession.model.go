package course

import "time"

// LiveSession is a scheduled live class for a course
type LiveSession struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	Title           string    `json:"title"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"` // scheduled, live, ended, cancelled
	JoinURL         string    `json:"join_url,omitempty"`
}
