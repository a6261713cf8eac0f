package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"lms/models/course"
	"lms/utils"
)

// User is the authenticated account returned on sign-in
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// SignIn exchanges credentials for an upstream token
func (c *Client) SignIn(ctx context.Context, email, password string) (string, *User, error) {
	body, err := c.send(ctx, "", resty.MethodPost, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}
	f := asFields(body)
	token := f.String("token", "access", "access_token", "accessToken")
	if tokens := f.Object("tokens"); token == "" && tokens != nil {
		token = tokens.String("access", "access_token")
	}
	if token == "" {
		return "", nil, &Error{Status: 502, Message: "The learning platform did not return a token."}
	}

	uf := f.Object("user")
	if uf == nil {
		uf = f
	}
	u := &User{
		ID:    uf.String("id", "user_id", "userId"),
		Name:  uf.String("full_name", "fullName", "name", "username"),
		Email: uf.String("email"),
		Role:  strings.ToUpper(uf.String("role", "user_type", "userType")),
	}
	if u.Name == "" {
		u.Name = strings.TrimSpace(uf.String("first_name", "firstName") + " " + uf.String("last_name", "lastName"))
	}
	if u.Email == "" {
		u.Email = email
	}
	return token, u, nil
}

func coursePath(courseID string, parts ...string) string {
	p := "/courses/" + url.PathEscape(courseID) + "/"
	for _, s := range parts {
		p += url.PathEscape(s) + "/"
	}
	return p
}

// GetCourse loads a course by id or slug with its modules and lessons
func (c *Client) GetCourse(ctx context.Context, token, idOrSlug string) (*course.Course, error) {
	body, err := c.get(ctx, token, coursePath(idOrSlug))
	if err != nil {
		return nil, err
	}
	return adaptCourse(asFields(body), c.loc), nil
}

func (c *Client) GetProgress(ctx context.Context, token, courseID string) ([]course.ProgressRecord, error) {
	body, err := c.get(ctx, token, coursePath(courseID, "progress"))
	if err != nil {
		return nil, err
	}
	return adaptProgress(asList(body)), nil
}

// GetModuleUnlocks returns the server-asserted unlock state per module id
func (c *Client) GetModuleUnlocks(ctx context.Context, token, courseID string) (map[string]bool, error) {
	body, err := c.get(ctx, token, coursePath(courseID, "modules", "unlock-status"))
	if err != nil {
		return nil, err
	}
	return adaptUnlocks(body), nil
}

// --- Modules ---

type ModuleInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OrderIndex  *int   `json:"order_index,omitempty"`
}

func (c *Client) CreateModule(ctx context.Context, token, courseID string, in ModuleInput) (*course.Module, error) {
	body, err := c.send(ctx, token, resty.MethodPost, coursePath(courseID, "modules"), in)
	if err != nil {
		return nil, err
	}
	m := adaptModule(asFields(body), courseID, 0)
	return &m, nil
}

func (c *Client) UpdateModule(ctx context.Context, token, courseID, moduleID string, in ModuleInput) (*course.Module, error) {
	body, err := c.send(ctx, token, resty.MethodPatch, coursePath(courseID, "modules", moduleID), in)
	if err != nil {
		return nil, err
	}
	m := adaptModule(asFields(body), courseID, 0)
	if m.ID == "" {
		m.ID = moduleID
	}
	return &m, nil
}

func (c *Client) DeleteModule(ctx context.Context, token, courseID, moduleID string) error {
	_, err := c.send(ctx, token, resty.MethodDelete, coursePath(courseID, "modules", moduleID), nil)
	return err
}

// ReorderModules persists a new module ordering
func (c *Client) ReorderModules(ctx context.Context, token, courseID string, order []course.ModuleOrder) error {
	_, err := c.send(ctx, token, resty.MethodPost, coursePath(courseID, "modules", "reorder"), map[string]interface{}{
		"modules": order,
	})
	return err
}

// --- Lessons ---

type LessonInput struct {
	Title           string             `json:"title"`
	ContentType     course.ContentType `json:"content_type"`
	Content         string             `json:"content,omitempty"`
	MediaID         string             `json:"media_id,omitempty"`
	DurationMinutes int                `json:"duration_minutes"`
	IsRequired      bool               `json:"is_required"`
	IsPublished     bool               `json:"is_published"`
	OrderIndex      *int               `json:"order_index,omitempty"`
}

func lessonPath(courseID, moduleID string, lessonID ...string) string {
	return coursePath(courseID, append([]string{"modules", moduleID, "lessons"}, lessonID...)...)
}

func (c *Client) CreateLesson(ctx context.Context, token, courseID, moduleID string, in LessonInput) (*course.Lesson, error) {
	body, err := c.send(ctx, token, resty.MethodPost, lessonPath(courseID, moduleID), in)
	if err != nil {
		return nil, err
	}
	l := adaptLesson(asFields(body), moduleID, 0)
	return &l, nil
}

func (c *Client) UpdateLesson(ctx context.Context, token, courseID, moduleID, lessonID string, in LessonInput) (*course.Lesson, error) {
	body, err := c.send(ctx, token, resty.MethodPatch, lessonPath(courseID, moduleID, lessonID), in)
	if err != nil {
		return nil, err
	}
	l := adaptLesson(asFields(body), moduleID, 0)
	if l.ID == "" {
		l.ID = lessonID
	}
	return &l, nil
}

func (c *Client) DeleteLesson(ctx context.Context, token, courseID, moduleID, lessonID string) error {
	_, err := c.send(ctx, token, resty.MethodDelete, lessonPath(courseID, moduleID, lessonID), nil)
	return err
}

// --- Media ---

func (c *Client) GetMediaLimits(ctx context.Context, token string, category course.MediaCategory) (*course.MediaLimits, error) {
	r := c.request(ctx, token).SetQueryParam("category", string(category))
	body, err := c.do(r, resty.MethodGet, "/media/limits/")
	if err != nil {
		return nil, err
	}
	return adaptMediaLimits(asFields(body), category), nil
}

// MediaTarget scopes an upload to a course and optionally a module and lesson
type MediaTarget struct {
	CourseID string
	ModuleID string
	LessonID string
}

func (c *Client) UploadMedia(ctx context.Context, token string, target MediaTarget, category course.MediaCategory, filename string, file io.Reader) (*course.Media, error) {
	form := map[string]string{
		"category":  string(category),
		"course_id": target.CourseID,
	}
	if target.ModuleID != "" {
		form["module_id"] = target.ModuleID
	}
	if target.LessonID != "" {
		form["lesson_id"] = target.LessonID
	}
	r := c.request(ctx, token).
		SetFileReader("file", filename, file).
		SetFormData(form)
	body, err := c.do(r, resty.MethodPost, "/media/upload/")
	if err != nil {
		return nil, err
	}
	return adaptMedia(asFields(body), category), nil
}

// --- Quizzes and evaluations ---

// getOrCreate fetches path and creates the resource with payload when it does not exist yet
func (c *Client) getOrCreate(ctx context.Context, token, path string, payload interface{}) (utils.Fields, error) {
	body, err := c.get(ctx, token, path)
	if err == nil {
		return asFields(body), nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	body, err = c.send(ctx, token, resty.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return asFields(body), nil
}

func (c *Client) GetOrCreateModuleQuiz(ctx context.Context, token, courseID, moduleID string) (*course.Quiz, error) {
	f, err := c.getOrCreate(ctx, token, coursePath(courseID, "modules", moduleID, "quiz"), map[string]interface{}{
		"title": "Module quiz",
	})
	if err != nil {
		return nil, err
	}
	q := adaptQuiz(f, course.KindModuleQuiz, courseID, moduleID)
	return &q, nil
}

func (c *Client) GetOrCreateEvaluation(ctx context.Context, token, courseID string) (*course.Quiz, error) {
	f, err := c.getOrCreate(ctx, token, coursePath(courseID, "evaluation"), map[string]interface{}{
		"title": "Final evaluation",
	})
	if err != nil {
		return nil, err
	}
	q := adaptQuiz(f, course.KindEvaluation, courseID, "")
	return &q, nil
}

// SaveQuiz replaces the questions of q and returns the stored, re-normalized quiz
func (c *Client) SaveQuiz(ctx context.Context, token string, q *course.Quiz) (*course.Quiz, error) {
	if q.ID == "" {
		return nil, fmt.Errorf("save quiz: missing quiz id")
	}
	questions := make([]map[string]interface{}, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = questionPayload(question)
	}
	payload := map[string]interface{}{
		"title":         q.Title,
		"passing_score": q.PassingScore,
		"questions":     questions,
	}
	body, err := c.send(ctx, token, resty.MethodPut, "/quizzes/"+url.PathEscape(q.ID)+"/", payload)
	if err != nil {
		return nil, err
	}
	saved := adaptQuiz(asFields(body), q.Kind, q.CourseID, q.ModuleID)
	if saved.ID == "" {
		saved.ID = q.ID
	}
	return &saved, nil
}

// --- Certificates ---

// VerifyCertificate looks a certificate up by code. A 404 is a lookup
// outcome, not an error.
func (c *Client) VerifyCertificate(ctx context.Context, code string) (*course.CertificateVerification, error) {
	body, err := c.get(ctx, "", "/certificates/verify/"+url.PathEscape(code)+"/")
	if err != nil {
		var ue *Error
		if IsNotFound(err) {
			return &course.CertificateVerification{NotFound: true}, nil
		}
		if errors.As(err, &ue) && ue.Status >= 400 && ue.Status < 500 {
			return &course.CertificateVerification{Message: ue.Message}, nil
		}
		return nil, err
	}
	return adaptVerification(asFields(body)), nil
}

// --- Enrollments ---

// GetEnrollment returns nil without error when the caller is not enrolled
func (c *Client) GetEnrollment(ctx context.Context, token, courseID string) (*course.Enrollment, error) {
	body, err := c.get(ctx, token, coursePath(courseID, "enrollment"))
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f := asFields(body)
	if enrolled, ok := f.Bool("is_enrolled", "isEnrolled", "enrolled"); ok && !enrolled {
		return nil, nil
	}
	if e := f.Object("enrollment"); e != nil {
		f = e
	}
	en := adaptEnrollment(f)
	if en.CourseID == "" {
		en.CourseID = courseID
	}
	return en, nil
}

func (c *Client) CreateEnrollment(ctx context.Context, token, courseID string) (*course.Enrollment, error) {
	body, err := c.send(ctx, token, resty.MethodPost, coursePath(courseID, "enroll"), map[string]string{
		"course_id": courseID,
	})
	if err != nil {
		return nil, err
	}
	en := adaptEnrollment(asFields(body))
	if en.CourseID == "" {
		en.CourseID = courseID
	}
	return en, nil
}

// --- Publication ---

func (c *Client) RequestPublication(ctx context.Context, token, courseID string) error {
	_, err := c.send(ctx, token, resty.MethodPost, coursePath(courseID, "request-publication"), nil)
	return err
}

// --- Live sessions ---

type LiveSessionInput struct {
	Title           string `json:"title"`
	StartsAt        string `json:"starts_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description,omitempty"`
}

func (c *Client) ListLiveSessions(ctx context.Context, token, courseID string) ([]course.LiveSession, error) {
	body, err := c.get(ctx, token, coursePath(courseID, "live-sessions"))
	if err != nil {
		return nil, err
	}
	items := asList(body)
	out := make([]course.LiveSession, 0, len(items))
	for _, f := range items {
		s := adaptLiveSession(f)
		if s.CourseID == "" {
			s.CourseID = courseID
		}
		out = append(out, *s)
	}
	return out, nil
}

func (c *Client) GetLiveSession(ctx context.Context, token, sessionID string) (*course.LiveSession, error) {
	body, err := c.get(ctx, token, "/live-sessions/"+url.PathEscape(sessionID)+"/")
	if err != nil {
		return nil, err
	}
	return adaptLiveSession(asFields(body)), nil
}

func (c *Client) CreateLiveSession(ctx context.Context, token, courseID string, in LiveSessionInput) (*course.LiveSession, error) {
	body, err := c.send(ctx, token, resty.MethodPost, coursePath(courseID, "live-sessions"), in)
	if err != nil {
		return nil, err
	}
	s := adaptLiveSession(asFields(body))
	if s.CourseID == "" {
		s.CourseID = courseID
	}
	return s, nil
}
