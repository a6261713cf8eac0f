package livesession

import (
	"strings"
	"time"

	"lms/models/course"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusStarted Status = "started"
	StatusEnded   Status = "ended"
)

// Statuses reported by the backend
const (
	UpstreamScheduled = "scheduled"
	UpstreamLive      = "live"
	UpstreamEnded     = "ended"
	UpstreamCancelled = "cancelled"
)

// Evaluate derives the waiting-room status of s at t. A live report from the
// backend wins over the clock, the end of the slot wins over both.
func Evaluate(s *course.LiveSession, t time.Time) Status {
	if s == nil {
		return StatusWaiting
	}
	switch strings.ToLower(s.Status) {
	case UpstreamEnded, UpstreamCancelled:
		return StatusEnded
	}
	if !s.StartsAt.IsZero() && s.DurationMinutes > 0 {
		end := s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
		if !t.Before(end) {
			return StatusEnded
		}
	}
	if strings.EqualFold(s.Status, UpstreamLive) {
		return StatusStarted
	}
	if !s.StartsAt.IsZero() && !t.Before(s.StartsAt) {
		return StatusStarted
	}
	return StatusWaiting
}

// ValidateSchedule checks a new live session before it is sent upstream
func ValidateSchedule(title string, startsAt time.Time, durationMinutes int, now time.Time) map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(title) == "" {
		errors["title"] = "Title is required!"
	}
	if startsAt.IsZero() {
		errors["starts_at"] = "Start time is required!"
	} else if !startsAt.After(now) {
		errors["starts_at"] = "Start time must be in the future!"
	}
	if durationMinutes <= 0 {
		errors["duration_minutes"] = "Duration must be greater than zero!"
	}
	return errors
}
