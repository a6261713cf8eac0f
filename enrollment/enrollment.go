package enrollment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"lms/models/course"
	"lms/utils"
)

var (
	ErrDeadlinePassed  = errors.New("enrollment deadline has passed")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrInvalidDeadline = errors.New("invalid enrollment deadline")
)

// DeadlinePassed reports whether t falls after the deadline day. The whole
// deadline day stays open, up to 23:59:59 in the deadline's location.
func DeadlinePassed(deadline *time.Time, t time.Time) bool {
	if deadline == nil || deadline.IsZero() {
		return false
	}
	end := now.With(*deadline).EndOfDay()
	return t.After(end)
}

// ParseDeadline reads a date ("2006-01-02") or a full timestamp in loc
func ParseDeadline(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, ok := utils.ParseTime(s, loc)
	if !ok {
		return nil, ErrInvalidDeadline
	}
	t = t.In(loc)
	return &t, nil
}

// Upstream is the slice of the LMS API enrollment needs
type Upstream interface {
	GetEnrollment(ctx context.Context, token, courseID string) (*course.Enrollment, error)
	CreateEnrollment(ctx context.Context, token, courseID string) (*course.Enrollment, error)
}

type Student struct {
	Name  string
	Email string
}

type Service struct {
	upstream Upstream
	mailer   utils.Mailer
	appName  string
	now      func() time.Time
}

func NewService(up Upstream, mailer utils.Mailer, appName string) *Service {
	return &Service{upstream: up, mailer: mailer, appName: appName, now: time.Now}
}

// Enroll creates an enrollment for the student in c. c must already carry the
// enrollment deadline, read in the configured location.
func (s *Service) Enroll(ctx context.Context, token string, student Student, c *course.Course) (*course.Enrollment, error) {
	existing, err := s.upstream.GetEnrollment(ctx, token, c.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrAlreadyEnrolled
	}

	if DeadlinePassed(c.EnrollmentDeadline, s.now()) {
		return nil, ErrDeadlinePassed
	}

	e, err := s.upstream.CreateEnrollment(ctx, token, c.ID)
	if err != nil {
		return nil, err
	}

	if student.Email != "" {
		utils.SendEnrollmentEmail(s.mailer, s.appName, student.Email, student.Name, c.Title)
	}
	return e, nil
}
