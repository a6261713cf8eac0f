package controllers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/cache"
	"lms/certificate"
	"lms/enrollment"
	"lms/logger"
	"lms/middleware"
	"lms/models/course"
	"lms/upstream"
	"lms/utils"
)

// LMS is the upstream API surface used by the course handlers
type LMS interface {
	GetCourse(ctx context.Context, token, idOrSlug string) (*course.Course, error)
	GetProgress(ctx context.Context, token, courseID string) ([]course.ProgressRecord, error)
	GetModuleUnlocks(ctx context.Context, token, courseID string) (map[string]bool, error)

	CreateModule(ctx context.Context, token, courseID string, in upstream.ModuleInput) (*course.Module, error)
	UpdateModule(ctx context.Context, token, courseID, moduleID string, in upstream.ModuleInput) (*course.Module, error)
	DeleteModule(ctx context.Context, token, courseID, moduleID string) error
	ReorderModules(ctx context.Context, token, courseID string, order []course.ModuleOrder) error

	CreateLesson(ctx context.Context, token, courseID, moduleID string, in upstream.LessonInput) (*course.Lesson, error)
	UpdateLesson(ctx context.Context, token, courseID, moduleID, lessonID string, in upstream.LessonInput) (*course.Lesson, error)
	DeleteLesson(ctx context.Context, token, courseID, moduleID, lessonID string) error

	GetMediaLimits(ctx context.Context, token string, category course.MediaCategory) (*course.MediaLimits, error)
	UploadMedia(ctx context.Context, token string, target upstream.MediaTarget, category course.MediaCategory, filename string, file io.Reader) (*course.Media, error)

	GetOrCreateModuleQuiz(ctx context.Context, token, courseID, moduleID string) (*course.Quiz, error)
	GetOrCreateEvaluation(ctx context.Context, token, courseID string) (*course.Quiz, error)
	SaveQuiz(ctx context.Context, token string, q *course.Quiz) (*course.Quiz, error)

	VerifyCertificate(ctx context.Context, code string) (*course.CertificateVerification, error)

	GetEnrollment(ctx context.Context, token, courseID string) (*course.Enrollment, error)
	CreateEnrollment(ctx context.Context, token, courseID string) (*course.Enrollment, error)
	RequestPublication(ctx context.Context, token, courseID string) error

	ListLiveSessions(ctx context.Context, token, courseID string) ([]course.LiveSession, error)
	GetLiveSession(ctx context.Context, token, sessionID string) (*course.LiveSession, error)
	CreateLiveSession(ctx context.Context, token, courseID string, in upstream.LiveSessionInput) (*course.LiveSession, error)
}

type Deps struct {
	LMS          LMS
	Cache        cache.Cache
	Mailer       utils.Mailer
	Log          *logger.Logger
	AppName      string
	PollInterval time.Duration
	Location     *time.Location
}

// Handler serves the student and instructor course endpoints
type Handler struct {
	lms          LMS
	cache        cache.Cache
	mailer       utils.Mailer
	verifier     *certificate.Verifier
	enroll       *enrollment.Service
	log          *logger.Logger
	appName      string
	pollInterval time.Duration
	loc          *time.Location
}

func NewHandler(d Deps) *Handler {
	if d.Location == nil {
		d.Location = time.UTC
	}
	return &Handler{
		lms:          d.LMS,
		cache:        d.Cache,
		mailer:       d.Mailer,
		verifier:     certificate.NewVerifier(d.LMS, d.Cache, d.Log),
		enroll:       enrollment.NewService(d.LMS, d.Mailer, d.AppName),
		log:          d.Log,
		appName:      d.AppName,
		pollInterval: d.PollInterval,
		loc:          d.Location,
	}
}

func unauthorized(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
}

// upstreamFailure keeps upstream 4xx statuses and messages and turns anything
// else into a 502 with message.
func (h *Handler) upstreamFailure(c *fiber.Ctx, err error, message string) error {
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.Status >= 400 && ue.Status < 500 {
		return middleware.JsonResponse(c, ue.Status, false, ue.Message, nil)
	}
	h.log.Error(message, "path", c.Path(), "error", err)
	return middleware.JsonResponse(c, fiber.StatusBadGateway, false, message, nil)
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
