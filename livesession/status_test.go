package livesession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lms/models/course"
)

func TestEvaluate(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := func(status string, duration int) *course.LiveSession {
		return &course.LiveSession{ID: "s1", StartsAt: start, DurationMinutes: duration, Status: status}
	}

	tests := []struct {
		name string
		s    *course.LiveSession
		at   time.Time
		want Status
	}{
		{"before start", sess(UpstreamScheduled, 60), start.Add(-time.Minute), StatusWaiting},
		{"at start", sess(UpstreamScheduled, 60), start, StatusStarted},
		{"reported live early", sess(UpstreamLive, 60), start.Add(-5 * time.Minute), StatusStarted},
		{"slot over", sess(UpstreamLive, 60), start.Add(time.Hour), StatusEnded},
		{"ended upstream", sess(UpstreamEnded, 60), start.Add(-time.Hour), StatusEnded},
		{"cancelled", sess("Cancelled", 60), start.Add(-time.Hour), StatusEnded},
		{"no duration stays open", sess(UpstreamScheduled, 0), start.Add(48 * time.Hour), StatusStarted},
		{"nil session", nil, start, StatusWaiting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.s, tt.at))
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Empty(t, ValidateSchedule("Office hours", now.Add(time.Hour), 30, now))

	errs := ValidateSchedule(" ", now, 0, now)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "starts_at")
	assert.Contains(t, errs, "duration_minutes")

	errs = ValidateSchedule("x", time.Time{}, 10, now)
	assert.Equal(t, "Start time is required!", errs["starts_at"])
}
