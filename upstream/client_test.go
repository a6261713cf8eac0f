package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/learning"
	"lms/logger"
	"lms/models/course"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, time.UTC, logger.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetCourseAttachesFlatLessons(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/courses/go-101/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]interface{}{
			"data": map[string]interface{}{
				"id":                 7,
				"slug":               "go-101",
				"name":               "Go 101",
				"enrollmentDeadline": "2025-01-10",
				"modules": []interface{}{
					map[string]interface{}{"id": "m2", "title": "Two", "orderIndex": 1},
					map[string]interface{}{"id": "m1", "title": "One", "order_index": 0, "is_unlocked": true,
						"lessons": []interface{}{map[string]interface{}{"id": "l0", "duration": 5}}},
				},
				"lessons": []interface{}{
					map[string]interface{}{"id": "l1", "moduleId": "m2", "durationMinutes": 10},
					map[string]interface{}{"id": "l2", "module_id": "m1", "duration_minutes": 20},
				},
			},
		})
	})

	got, err := c.GetCourse(context.Background(), "tok", "go-101")
	require.NoError(t, err)
	assert.Equal(t, "7", got.ID)
	assert.Equal(t, "Go 101", got.Title)
	require.NotNil(t, got.EnrollmentDeadline)
	assert.Equal(t, 10, got.EnrollmentDeadline.Day())

	require.Len(t, got.Modules, 2)
	assert.Equal(t, "m1", got.Modules[0].ID)
	require.NotNil(t, got.Modules[0].IsUnlocked)
	// m1 brought its own lessons, the flat list is not merged in
	require.Len(t, got.Modules[0].Lessons, 1)
	assert.Equal(t, "l0", got.Modules[0].Lessons[0].ID)
	assert.Equal(t, "m1", got.Modules[0].Lessons[0].ModuleID)

	require.Len(t, got.Modules[1].Lessons, 1)
	assert.Equal(t, "l1", got.Modules[1].Lessons[0].ID)
	assert.Nil(t, got.Modules[1].IsUnlocked)
	assert.Len(t, got.Lessons, 2)
}

func TestGetCourseEmptyLessonListsUseFlatLessons(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"id": "c1",
			"modules": []interface{}{
				map[string]interface{}{"id": "m1", "order_index": 0, "lessons": []interface{}{}},
				map[string]interface{}{"id": "m2", "order_index": 1, "lessons": []interface{}{}},
			},
			"lessons": []interface{}{
				map[string]interface{}{"id": "l1", "module_id": "m1", "duration_minutes": 10},
				map[string]interface{}{"id": "l2", "module_id": "m2", "duration_minutes": 15},
			},
		})
	})

	got, err := c.GetCourse(context.Background(), "tok", "c1")
	require.NoError(t, err)
	require.Len(t, got.Modules, 2)
	require.Len(t, got.Modules[0].Lessons, 1)
	assert.Equal(t, "l1", got.Modules[0].Lessons[0].ID)
	require.Len(t, got.Modules[1].Lessons, 1)
	assert.Equal(t, "l2", got.Modules[1].Lessons[0].ID)

	// without progress the second module stays locked
	unlocks := learning.MergeUnlocks(got.Modules, nil)
	assert.False(t, learning.IsModuleUnlocked(got.Modules, 1, learning.Progress{}, unlocks))
}

func TestErrorsKeepStatusAndMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/missing/":
			writeJSON(w, 404, map[string]string{"detail": "Not found."})
		default:
			writeJSON(w, 400, map[string]interface{}{"title": []string{"This field is required."}})
		}
	})

	_, err := c.GetCourse(context.Background(), "", "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 404, StatusOf(err))
	assert.Contains(t, err.Error(), "Not found.")

	_, err = c.CreateModule(context.Background(), "", "c1", ModuleInput{})
	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "This field is required.", ue.Message)
	assert.False(t, ue.NotFound)
}

func TestUnreachableIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, 503, map[string]string{"message": "down"})
	}))
	defer srv.Close()
	c := New(srv.URL, time.Second, time.UTC, logger.Nop())

	_, err := c.GetProgress(context.Background(), "", "c1")
	assert.Equal(t, 503, StatusOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	srv.Close()
	_, err = c.GetProgress(context.Background(), "", "c1")
	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 0, ue.Status)
}

func TestGetProgressAndUnlocks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/c1/progress/":
			writeJSON(w, 200, map[string]interface{}{"results": []interface{}{
				map[string]interface{}{"lesson_id": "l1", "status": "completed"},
				map[string]interface{}{"lesson": map[string]interface{}{"id": "l2"}, "status": "in-progress"},
				map[string]interface{}{"lessonId": 3, "is_completed": true},
			}})
		case "/courses/c1/modules/unlock-status/":
			writeJSON(w, 200, []interface{}{
				map[string]interface{}{"module_id": "m2", "is_unlocked": true},
				map[string]interface{}{"moduleId": "m3", "isUnlocked": "false"},
			})
		case "/courses/c2/modules/unlock-status/":
			writeJSON(w, 200, map[string]interface{}{"m2": false})
		}
	})
	ctx := context.Background()

	records, err := c.GetProgress(ctx, "", "c1")
	require.NoError(t, err)
	assert.Equal(t, []course.ProgressRecord{
		{LessonID: "l1", Status: course.StatusCompleted},
		{LessonID: "l2", Status: course.StatusInProgress},
		{LessonID: "3", Status: course.StatusCompleted},
	}, records)

	unlocks, err := c.GetModuleUnlocks(ctx, "", "c1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"m2": true, "m3": false}, unlocks)

	unlocks, err = c.GetModuleUnlocks(ctx, "", "c2")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"m2": false}, unlocks)
}

func TestVerifyCertificate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/certificates/verify/GOOD/":
			writeJSON(w, 200, map[string]interface{}{"valid": true, "certificate": map[string]interface{}{
				"id": 1, "code": "GOOD", "student_name": "Ada", "course": map[string]interface{}{"id": 9, "title": "Go"},
				"issued_at": "2024-06-01T10:00:00Z",
			}})
		case "/certificates/verify/OLD/":
			writeJSON(w, 200, map[string]interface{}{"valid": false, "message": "Certificate expired"})
		case "/certificates/verify/GONE/":
			writeJSON(w, 404, map[string]string{"detail": "Not found."})
		default:
			writeJSON(w, 500, nil)
		}
	})
	ctx := context.Background()

	v, err := c.VerifyCertificate(ctx, "GOOD")
	require.NoError(t, err)
	assert.True(t, v.Valid)
	require.NotNil(t, v.Certificate)
	assert.Equal(t, "Ada", v.Certificate.HolderName)
	assert.Equal(t, "9", v.Certificate.CourseID)
	assert.Equal(t, "Go", v.Certificate.CourseTitle)

	v, err = c.VerifyCertificate(ctx, "OLD")
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "Certificate expired", v.Message)

	v, err = c.VerifyCertificate(ctx, "GONE")
	require.NoError(t, err)
	assert.True(t, v.NotFound)

	_, err = c.VerifyCertificate(ctx, "BROKEN")
	assert.Error(t, err)
}

func TestGetOrCreateEvaluation(t *testing.T) {
	var created int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, 404, map[string]string{"detail": "Not found."})
			return
		}
		atomic.AddInt32(&created, 1)
		writeJSON(w, 201, map[string]interface{}{"id": "ev1", "title": "Final", "questions": []interface{}{
			map[string]interface{}{"id": "q2", "question": "B?", "type": "TRUE_FALSE", "answer": "TRUE", "order": 2},
			map[string]interface{}{"id": "q1", "questionText": "A?", "options": []interface{}{"x", "y"}, "correctAnswer": "x", "order": 1},
		}})
	})

	q, err := c.GetOrCreateEvaluation(context.Background(), "tok", "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&created))
	assert.Equal(t, course.KindEvaluation, q.Kind)
	assert.Equal(t, "c1", q.CourseID)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "q1", q.Questions[0].ID)
	assert.Equal(t, "true", q.Questions[1].CorrectAnswer)
	assert.Equal(t, course.TrueFalse, q.Questions[1].QuestionType)
}

func TestSaveQuizStripsTemporaryIDs(t *testing.T) {
	var payload map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/quizzes/qz1/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeJSON(w, 200, map[string]interface{}{"id": "qz1", "questions": payload["questions"]})
	})

	q := &course.Quiz{ID: "qz1", Kind: course.KindModuleQuiz, CourseID: "c1", ModuleID: "m1", Questions: []course.Question{
		{ID: "q1", QuestionText: "A?", QuestionType: course.ShortAnswer, CorrectAnswer: "a", Points: 1, OrderIndex: 1},
		{ID: "new-123", QuestionText: "B?", QuestionType: course.TrueFalse, CorrectAnswer: "false", Points: 2, OrderIndex: 2},
	}}
	saved, err := c.SaveQuiz(context.Background(), "tok", q)
	require.NoError(t, err)

	questions := payload["questions"].([]interface{})
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].(map[string]interface{})["id"])
	assert.NotContains(t, questions[1].(map[string]interface{}), "id")

	assert.Equal(t, "m1", saved.ModuleID)
	require.Len(t, saved.Questions, 2)
	assert.Equal(t, "false", saved.Questions[1].CorrectAnswer)
}

func TestGetEnrollment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/c1/enrollment/":
			writeJSON(w, 200, map[string]interface{}{"is_enrolled": true, "enrollment": map[string]interface{}{
				"id": "e1", "status": "ACTIVE", "progress_percentage": 42.5,
			}})
		case "/courses/c2/enrollment/":
			writeJSON(w, 200, map[string]interface{}{"is_enrolled": false})
		default:
			writeJSON(w, 404, map[string]string{"detail": "Not enrolled."})
		}
	})
	ctx := context.Background()

	e, err := c.GetEnrollment(ctx, "tok", "c1")
	require.NoError(t, err)
	assert.Equal(t, "active", e.Status)
	assert.Equal(t, "c1", e.CourseID)
	assert.Equal(t, 42.5, e.Progress)

	e, err = c.GetEnrollment(ctx, "tok", "c2")
	assert.NoError(t, err)
	assert.Nil(t, e)

	e, err = c.GetEnrollment(ctx, "tok", "c3")
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestUploadMedia(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "video", r.FormValue("category"))
		assert.Equal(t, "c1", r.FormValue("course_id"))
		assert.Equal(t, "m1", r.FormValue("module_id"))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			writeJSON(w, 400, nil)
			return
		}
		data, _ := io.ReadAll(f)
		writeJSON(w, 201, map[string]interface{}{"id": "md1", "file_url": "https://cdn/x.mp4", "size": len(data), "mimeType": "video/mp4", "name": hdr.Filename})
	})

	m, err := c.UploadMedia(context.Background(), "tok", MediaTarget{CourseID: "c1", ModuleID: "m1"}, course.MediaVideo, "x.mp4", strings.NewReader("abcd"))
	require.NoError(t, err)
	assert.Equal(t, "md1", m.ID)
	assert.Equal(t, "https://cdn/x.mp4", m.URL)
	assert.EqualValues(t, 4, m.Size)
	assert.Equal(t, course.MediaVideo, m.Category)
}

func TestGetMediaLimits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "document", r.URL.Query().Get("category"))
		writeJSON(w, 200, map[string]interface{}{"max_size_mb": 2, "allowed_types": []string{"application/pdf", " Text/* "}})
	})
	l, err := c.GetMediaLimits(context.Background(), "tok", course.MediaDocument)
	require.NoError(t, err)
	assert.EqualValues(t, 2*1024*1024, l.MaxSizeBytes)
	assert.Equal(t, []string{"application/pdf", "text/*"}, l.AcceptedTypes)
}

func TestLiveSessions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/courses/c1/live-sessions/":
			if r.Method == http.MethodPost {
				var in map[string]interface{}
				_ = json.NewDecoder(r.Body).Decode(&in)
				writeJSON(w, 201, map[string]interface{}{"id": "s9", "title": in["title"], "start_time": in["starts_at"], "duration": in["duration_minutes"]})
				return
			}
			writeJSON(w, 200, []interface{}{map[string]interface{}{"id": "s1", "startsAt": "2025-03-01T10:00:00Z", "is_live": true}})
		case "/live-sessions/s1/":
			writeJSON(w, 200, map[string]interface{}{"id": "s1", "status": "ENDED", "meetingUrl": "https://meet/x"})
		}
	})
	ctx := context.Background()

	list, err := c.ListLiveSessions(ctx, "tok", "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].Status)
	assert.Equal(t, "c1", list[0].CourseID)

	s, err := c.GetLiveSession(ctx, "tok", "s1")
	require.NoError(t, err)
	assert.Equal(t, "ended", s.Status)
	assert.Equal(t, "https://meet/x", s.JoinURL)

	created, err := c.CreateLiveSession(ctx, "tok", "c1", LiveSessionInput{Title: "Q&A", StartsAt: "2025-03-02T10:00:00Z", DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, "s9", created.ID)
	assert.Equal(t, 45, created.DurationMinutes)
	assert.Equal(t, "scheduled", created.Status)
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			writeJSON(w, 401, map[string]string{"detail": "Invalid credentials"})
			return
		}
		writeJSON(w, 200, map[string]interface{}{"tokens": map[string]interface{}{"access": "abc"},
			"user": map[string]interface{}{"id": 5, "first_name": "Ada", "last_name": "Lovelace", "role": "instructor"}})
	})

	token, u, err := c.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, "5", u.ID)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "INSTRUCTOR", u.Role)
	assert.Equal(t, "ada@example.com", u.Email)

	_, _, err = c.SignIn(context.Background(), "ada@example.com", "nope")
	assert.Equal(t, 401, StatusOf(err))
}
