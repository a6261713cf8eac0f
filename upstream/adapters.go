package upstream

import (
	"sort"
	"strings"
	"time"

	"lms/learning"
	"lms/models/course"
	"lms/quiz"
	"lms/utils"
)

// Every alias the backend has been seen to use is resolved here and nowhere else.

func adaptLesson(f utils.Fields, moduleID string, position int) course.Lesson {
	l := course.Lesson{
		ID:          f.String("id", "lesson_id", "lessonId"),
		ModuleID:    f.String("module_id", "moduleId", "module"),
		Title:       f.String("title", "name"),
		ContentType: course.ContentType(strings.ToLower(f.String("content_type", "contentType", "type"))),
	}
	if l.ModuleID == "" {
		l.ModuleID = moduleID
	}
	if l.ContentType == "" {
		l.ContentType = course.ContentText
	}
	if d, ok := f.Int("duration_minutes", "durationMinutes", "duration"); ok && d > 0 {
		l.DurationMinutes = d
	}
	l.IsRequired, _ = f.Bool("is_required", "isRequired", "required")
	l.IsPublished, _ = f.Bool("is_published", "isPublished", "published")
	if o, ok := f.Int("order_index", "orderIndex", "order", "position"); ok {
		l.OrderIndex = o
	} else {
		l.OrderIndex = position
	}
	return l
}

func adaptLessons(items []utils.Fields, moduleID string) []course.Lesson {
	out := make([]course.Lesson, 0, len(items))
	for i, f := range items {
		out = append(out, adaptLesson(f, moduleID, i))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func adaptModule(f utils.Fields, courseID string, position int) course.Module {
	m := course.Module{
		ID:       f.String("id", "module_id", "moduleId"),
		CourseID: f.String("course_id", "courseId", "course"),
		Title:    f.String("title", "name"),
	}
	if m.CourseID == "" {
		m.CourseID = courseID
	}
	if o, ok := f.Int("order_index", "orderIndex", "order", "position"); ok {
		m.OrderIndex = o
	} else {
		m.OrderIndex = position
	}
	if u, ok := f.Bool("is_unlocked", "isUnlocked", "unlocked"); ok {
		m.IsUnlocked = &u
	}
	if f.Has("lessons") {
		m.Lessons = adaptLessons(asList(f.List("lessons")), m.ID)
	}
	if q := f.Object("quiz"); q != nil {
		adapted := adaptQuiz(q, course.KindModuleQuiz, m.CourseID, m.ID)
		m.Quiz = &adapted
	}
	return m
}

func adaptCourse(f utils.Fields, loc *time.Location) *course.Course {
	c := &course.Course{
		ID:           f.String("id", "course_id", "courseId"),
		Slug:         f.String("slug"),
		Title:        f.String("title", "name"),
		Description:  f.String("description", "summary"),
		InstructorID: f.String("instructor_id", "instructorId", "instructor"),
	}
	if inst := f.Object("instructor"); inst != nil {
		c.InstructorID = inst.String("id")
	}
	if d, ok := f.Int("duration_minutes", "durationMinutes", "duration", "estimated_duration"); ok && d > 0 {
		c.DurationMinutes = d
	}
	c.IsPublished, _ = f.Bool("is_published", "isPublished", "published")
	if s := f.String("enrollment_deadline", "enrollmentDeadline"); s != "" {
		if t, ok := utils.ParseTime(strings.TrimSpace(s), loc); ok {
			t = t.In(loc)
			c.EnrollmentDeadline = &t
		}
	}

	c.Lessons = adaptLessons(asList(f.List("lessons")), "")

	modules := asList(f.List("modules", "sections"))
	c.Modules = make([]course.Module, 0, len(modules))
	byID := make(map[string]int, len(modules))
	ownLessons := make([]bool, 0, len(modules))
	for i, mf := range modules {
		m := adaptModule(mf, c.ID, i)
		byID[m.ID] = len(c.Modules)
		c.Modules = append(c.Modules, m)
		ownLessons = append(ownLessons, len(m.Lessons) > 0)
	}

	// modules that came without lessons, or with an empty list, get theirs
	// from the flat list
	for _, l := range c.Lessons {
		idx, ok := byID[l.ModuleID]
		if !ok || ownLessons[idx] {
			continue
		}
		c.Modules[idx].Lessons = append(c.Modules[idx].Lessons, l)
	}
	for i := range c.Modules {
		if c.Modules[i].Lessons == nil {
			c.Modules[i].Lessons = []course.Lesson{}
		}
	}
	c.Modules = learning.SortModules(c.Modules)
	return c
}

func adaptProgressStatus(f utils.Fields) course.ProgressStatus {
	switch strings.ToLower(strings.ReplaceAll(f.String("status", "state"), "-", "_")) {
	case "completed", "complete", "done":
		return course.StatusCompleted
	case "in_progress", "started":
		return course.StatusInProgress
	}
	if done, ok := f.Bool("completed", "is_completed", "isCompleted"); ok && done {
		return course.StatusCompleted
	}
	return course.StatusNotStarted
}

func adaptProgress(items []utils.Fields) []course.ProgressRecord {
	out := make([]course.ProgressRecord, 0, len(items))
	for _, f := range items {
		lessonID := f.String("lesson_id", "lessonId")
		if lessonID == "" {
			if l := f.Object("lesson"); l != nil {
				lessonID = l.String("id")
			} else {
				lessonID = f.String("lesson")
			}
		}
		out = append(out, course.ProgressRecord{
			EnrollmentID: f.String("enrollment_id", "enrollmentId", "enrollment"),
			LessonID:     lessonID,
			Status:       adaptProgressStatus(f),
		})
	}
	return out
}

// adaptUnlocks accepts either [{module_id, is_unlocked}] or {"<module id>": bool}
func adaptUnlocks(body interface{}) map[string]bool {
	out := make(map[string]bool)
	if obj, ok := body.(map[string]interface{}); ok {
		f := utils.Fields(obj)
		if !f.Has("results", "modules", "items") {
			for k := range obj {
				if v, ok := f.Bool(k); ok {
					out[k] = v
				}
			}
			return out
		}
		body = f.List("results", "modules", "items")
	}
	for _, f := range asList(body) {
		id := f.String("module_id", "moduleId", "id")
		if v, ok := f.Bool("is_unlocked", "isUnlocked", "unlocked"); ok && id != "" {
			out[id] = v
		}
	}
	return out
}

func adaptEnrollment(f utils.Fields) *course.Enrollment {
	e := &course.Enrollment{
		ID:       f.String("id", "enrollment_id", "enrollmentId"),
		UserID:   f.String("user_id", "userId", "student_id", "user"),
		CourseID: f.String("course_id", "courseId", "course"),
		Status:   strings.ToLower(f.String("status")),
	}
	if e.Status == "" {
		e.Status = "active"
	}
	if p, ok := f.Float("progress", "progress_percentage", "progressPercentage"); ok {
		e.Progress = p
	}
	if t, ok := f.Time("enrolled_at", "enrolledAt", "created_at", "createdAt"); ok {
		e.EnrolledAt = t
	}
	return e
}

func adaptCertificate(f utils.Fields) *course.Certificate {
	c := &course.Certificate{
		ID:              f.String("id"),
		UserID:          f.String("user_id", "userId", "user"),
		CourseID:        f.String("course_id", "courseId"),
		CertificateCode: f.String("certificate_code", "certificateCode", "code"),
		HolderName:      f.String("holder_name", "holderName", "student_name", "studentName", "user_name"),
		CourseTitle:     f.String("course_title", "courseTitle", "course_name"),
	}
	if co := f.Object("course"); co != nil {
		if c.CourseID == "" {
			c.CourseID = co.String("id")
		}
		if c.CourseTitle == "" {
			c.CourseTitle = co.String("title", "name")
		}
	} else if c.CourseID == "" {
		c.CourseID = f.String("course")
	}
	if t, ok := f.Time("issued_at", "issuedAt", "issue_date", "created_at"); ok {
		c.IssuedAt = t
	}
	if t, ok := f.Time("expires_at", "expiresAt", "expiry_date"); ok {
		c.ExpiresAt = &t
	}
	c.Verified, _ = f.Bool("verified", "is_verified", "isVerified", "is_valid")
	return c
}

func adaptVerification(f utils.Fields) *course.CertificateVerification {
	v := &course.CertificateVerification{
		Message: f.String("message", "detail", "error"),
	}
	v.Valid, _ = f.Bool("valid", "is_valid", "isValid")
	v.NotFound, _ = f.Bool("notFound", "not_found")
	if cf := f.Object("certificate"); cf != nil {
		v.Certificate = adaptCertificate(cf)
	}
	if v.Valid {
		v.NotFound = false
	}
	return v
}

func adaptLiveSession(f utils.Fields) *course.LiveSession {
	s := &course.LiveSession{
		ID:       f.String("id", "session_id", "sessionId"),
		CourseID: f.String("course_id", "courseId", "course"),
		Title:    f.String("title", "name"),
		Status:   strings.ToLower(f.String("status", "state")),
		JoinURL:  f.String("join_url", "joinUrl", "meeting_url", "meetingUrl", "url"),
	}
	if t, ok := f.Time("starts_at", "startsAt", "start_time", "startTime", "scheduled_at"); ok {
		s.StartsAt = t
	}
	if d, ok := f.Int("duration_minutes", "durationMinutes", "duration"); ok && d > 0 {
		s.DurationMinutes = d
	}
	if live, ok := f.Bool("is_live", "isLive"); ok && live && s.Status == "" {
		s.Status = "live"
	}
	if s.Status == "" {
		s.Status = "scheduled"
	}
	return s
}

func adaptMediaLimits(f utils.Fields, category course.MediaCategory) *course.MediaLimits {
	l := &course.MediaLimits{Category: category}
	if n, ok := f.Float("max_size_bytes", "maxSizeBytes", "max_size", "maxSize"); ok && n > 0 {
		l.MaxSizeBytes = int64(n)
	} else if mb, ok := f.Float("max_size_mb", "maxSizeMb"); ok && mb > 0 {
		l.MaxSizeBytes = int64(mb * 1024 * 1024)
	}
	for _, t := range f.List("accepted_types", "acceptedTypes", "allowed_types", "allowedTypes", "mime_types") {
		if s := strings.ToLower(strings.TrimSpace(utils.ToString(t))); s != "" {
			l.AcceptedTypes = append(l.AcceptedTypes, s)
		}
	}
	return l
}

func adaptMedia(f utils.Fields, category course.MediaCategory) *course.Media {
	m := &course.Media{
		ID:       f.String("id", "media_id", "mediaId"),
		URL:      f.String("url", "file_url", "fileUrl", "file"),
		Category: course.MediaCategory(f.String("category", "media_type")),
		MimeType: f.String("mime_type", "mimeType", "content_type"),
	}
	if m.Category == "" {
		m.Category = category
	}
	if n, ok := f.Float("size", "file_size", "fileSize"); ok {
		m.Size = int64(n)
	}
	return m
}

func adaptQuiz(f utils.Fields, kind course.QuizKind, courseID, moduleID string) course.Quiz {
	q := course.Quiz{
		ID:       f.String("id", "quiz_id", "quizId", "evaluation_id"),
		Kind:     kind,
		CourseID: f.String("course_id", "courseId", "course"),
		ModuleID: f.String("module_id", "moduleId", "module"),
		Title:    f.String("title", "name"),
	}
	if q.CourseID == "" {
		q.CourseID = courseID
	}
	if q.ModuleID == "" {
		q.ModuleID = moduleID
	}
	if s, ok := f.Int("passing_score", "passingScore", "pass_mark"); ok {
		q.PassingScore = s
	}

	raws := make([]map[string]interface{}, 0)
	for _, it := range f.List("questions", "items") {
		if obj, ok := it.(map[string]interface{}); ok {
			raws = append(raws, obj)
		}
	}
	q.Questions = quiz.NormalizeQuestions(raws)
	return q
}

// questionPayload is the write shape of a question. Temporary ids never reach the backend.
func questionPayload(q course.Question) map[string]interface{} {
	p := map[string]interface{}{
		"question_text":  q.QuestionText,
		"question_type":  q.QuestionType,
		"correct_answer": q.CorrectAnswer,
		"points":         q.Points,
		"order_index":    q.OrderIndex,
	}
	if q.ID != "" && !quiz.IsTemporaryID(q.ID) {
		p["id"] = q.ID
	}
	if q.QuestionType == course.MultipleChoice {
		p["options"] = q.Options
	}
	return p
}
