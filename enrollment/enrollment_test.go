package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/logger"
	"lms/models/course"
	"lms/utils"
)

func TestDeadlinePassed(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	deadline, err := ParseDeadline("2025-01-10", loc)
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day before", time.Date(2025, 1, 9, 12, 0, 0, 0, loc), false},
		{"deadline evening", time.Date(2025, 1, 10, 22, 0, 0, 0, loc), false},
		{"last second", time.Date(2025, 1, 10, 23, 59, 59, 0, loc), false},
		{"next day", time.Date(2025, 1, 11, 0, 1, 0, 0, loc), true},
		{"next day in UTC terms", time.Date(2025, 1, 10, 21, 1, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeadlinePassed(deadline, tt.now))
		})
	}
}

func TestDeadlineUnset(t *testing.T) {
	assert.False(t, DeadlinePassed(nil, time.Now()))
	assert.False(t, DeadlinePassed(&time.Time{}, time.Now()))
}

func TestParseDeadline(t *testing.T) {
	d, err := ParseDeadline("", time.UTC)
	assert.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDeadline("2025-01-10T15:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 15, d.Hour())

	_, err = ParseDeadline("next friday", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDeadline)
}

type fakeUpstream struct {
	existing  *course.Enrollment
	getErr    error
	created   int
	createErr error
}

func (f *fakeUpstream) GetEnrollment(context.Context, string, string) (*course.Enrollment, error) {
	return f.existing, f.getErr
}

func (f *fakeUpstream) CreateEnrollment(_ context.Context, _, courseID string) (*course.Enrollment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &course.Enrollment{ID: "e1", CourseID: courseID, Status: "active"}, nil
}

func newService(up Upstream, at time.Time) (*Service, *utils.ConsoleMailer) {
	mailer := utils.NewConsoleMailer("LMS", "no-reply@lms.local", logger.Nop())
	s := NewService(up, mailer, "LMS")
	s.now = func() time.Time { return at }
	return s, mailer
}

func TestEnroll(t *testing.T) {
	deadline := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	c := &course.Course{ID: "c1", Title: "Go 101", EnrollmentDeadline: &deadline}
	student := Student{Name: "Ada", Email: "ada@example.com"}

	t.Run("before deadline", func(t *testing.T) {
		up := &fakeUpstream{}
		s, mailer := newService(up, time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC))
		e, err := s.Enroll(context.Background(), "tok", student, c)
		require.NoError(t, err)
		assert.Equal(t, "c1", e.CourseID)
		assert.Equal(t, 1, up.created)
		require.Len(t, mailer.Sent(), 1)
		assert.Equal(t, "ada@example.com", mailer.Sent()[0].ToEmail)
	})

	t.Run("after deadline", func(t *testing.T) {
		up := &fakeUpstream{}
		s, mailer := newService(up, time.Date(2025, 1, 11, 0, 1, 0, 0, time.UTC))
		_, err := s.Enroll(context.Background(), "tok", student, c)
		assert.ErrorIs(t, err, ErrDeadlinePassed)
		assert.Equal(t, 0, up.created)
		assert.Empty(t, mailer.Sent())
	})

	t.Run("already enrolled", func(t *testing.T) {
		up := &fakeUpstream{existing: &course.Enrollment{ID: "e0"}}
		s, _ := newService(up, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		e, err := s.Enroll(context.Background(), "tok", student, c)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		assert.Equal(t, "e0", e.ID)
		assert.Equal(t, 0, up.created)
	})

	t.Run("upstream failure", func(t *testing.T) {
		boom := errors.New("boom")
		s, _ := newService(&fakeUpstream{createErr: boom}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		_, err := s.Enroll(context.Background(), "tok", student, c)
		assert.ErrorIs(t, err, boom)
	})
}
