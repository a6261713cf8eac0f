package learning

import (
	"lms/models/course"
)

// Progress indexes lesson completion state by lesson id. A lesson without an
// entry is not started.
type Progress map[string]course.ProgressStatus

// IndexProgress builds a Progress from raw records. When a lesson has several
// records, a completed one wins.
func IndexProgress(records []course.ProgressRecord) Progress {
	p := make(Progress, len(records))
	for _, r := range records {
		if r.LessonID == "" {
			continue
		}
		if p[r.LessonID] == course.StatusCompleted {
			continue
		}
		p[r.LessonID] = r.Status
	}
	return p
}

// Status returns the lesson status, defaulting to not_started
func (p Progress) Status(lessonID string) course.ProgressStatus {
	if s, ok := p[lessonID]; ok && s != "" {
		return s
	}
	return course.StatusNotStarted
}

func (p Progress) Completed(lessonID string) bool {
	return p.Status(lessonID) == course.StatusCompleted
}

func completedLessons(lessons []course.Lesson, p Progress) int {
	k := 0
	for _, l := range lessons {
		if p.Completed(l.ID) {
			k++
		}
	}
	return k
}

// ComputeModuleProgress returns the percentage of the module's lessons that are
// completed. A module without lessons yields 0.
func ComputeModuleProgress(m course.Module, p Progress) float64 {
	n := len(m.Lessons)
	if n == 0 {
		return 0
	}
	return 100 * float64(completedLessons(m.Lessons, p)) / float64(n)
}

// ModuleCompleted reports whether every lesson of m is completed. A module
// without lessons is complete.
func ModuleCompleted(m course.Module, p Progress) bool {
	return completedLessons(m.Lessons, p) == len(m.Lessons)
}

// CourseProgress aggregates lesson completion over all modules of a course
type CourseProgress struct {
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	CompletedModules int     `json:"completed_modules"`
	TotalModules     int     `json:"total_modules"`
	Percentage       float64 `json:"percentage"`
	IsCompleted      bool    `json:"is_completed"`
}

func ComputeCourseProgress(modules []course.Module, p Progress) CourseProgress {
	cp := CourseProgress{TotalModules: len(modules)}
	for _, m := range modules {
		cp.TotalLessons += len(m.Lessons)
		cp.CompletedLessons += completedLessons(m.Lessons, p)
		if len(m.Lessons) > 0 && ModuleCompleted(m, p) {
			cp.CompletedModules++
		}
	}
	if cp.TotalLessons > 0 {
		cp.Percentage = 100 * float64(cp.CompletedLessons) / float64(cp.TotalLessons)
		cp.IsCompleted = cp.CompletedLessons == cp.TotalLessons
	}
	return cp
}

// ComputeCourseDuration returns the course length in minutes. It prefers the
// explicit course duration, then the lessons of the modules, then the flat
// course lesson list, and returns 0 when none of them is positive.
func ComputeCourseDuration(c course.Course, modules []course.Module) int {
	if c.DurationMinutes > 0 {
		return c.DurationMinutes
	}
	total := 0
	for _, m := range modules {
		total += sumDurations(m.Lessons)
	}
	if total > 0 {
		return total
	}
	return sumDurations(c.Lessons)
}

func sumDurations(lessons []course.Lesson) int {
	total := 0
	for _, l := range lessons {
		if l.DurationMinutes > 0 {
			total += l.DurationMinutes
		}
	}
	return total
}
