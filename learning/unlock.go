package learning

import (
	"sort"

	"lms/models/course"
)

// UnlockMap holds server-asserted unlock overrides keyed by module id.
type UnlockMap map[string]bool

// MergeUnlocks combines the is_unlocked flags carried by the modules with the
// separately fetched unlock status. Fetched values win. When the fetch failed,
// pass a nil fetched map: only the embedded flags are kept, and modules without
// one fall back to local completion data.
func MergeUnlocks(modules []course.Module, fetched map[string]bool) UnlockMap {
	u := make(UnlockMap, len(modules)+len(fetched))
	for _, m := range modules {
		if m.IsUnlocked != nil {
			u[m.ID] = *m.IsUnlocked
		}
	}
	for id, v := range fetched {
		u[id] = v
	}
	return u
}

// SortModules returns a copy of modules ordered by order_index. Ties keep the
// backend order.
func SortModules(modules []course.Module) []course.Module {
	out := make([]course.Module, len(modules))
	copy(out, modules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out
}

// IsModuleUnlocked reports whether modules[index] is accessible. modules must
// already be ordered. The first module is always open, a server override wins
// for the others, and otherwise every lesson of the previous module must be
// completed.
func IsModuleUnlocked(modules []course.Module, index int, p Progress, unlocks UnlockMap) bool {
	if index < 0 || index >= len(modules) {
		return false
	}
	if index == 0 {
		return true
	}
	if v, ok := unlocks[modules[index].ID]; ok {
		return v
	}
	return ModuleCompleted(modules[index-1], p)
}

// ModuleAccess is the resolved state of one module for a learner
type ModuleAccess struct {
	ModuleID         string  `json:"module_id"`
	Title            string  `json:"title"`
	OrderIndex       int     `json:"order_index"`
	Unlocked         bool    `json:"unlocked"`
	Progress         float64 `json:"progress"`
	Completed        bool    `json:"completed"`
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
}

// ResolveModuleAccess evaluates every module of a course in order.
func ResolveModuleAccess(modules []course.Module, p Progress, unlocks UnlockMap) []ModuleAccess {
	ordered := SortModules(modules)
	out := make([]ModuleAccess, len(ordered))
	for i, m := range ordered {
		out[i] = ModuleAccess{
			ModuleID:         m.ID,
			Title:            m.Title,
			OrderIndex:       m.OrderIndex,
			Unlocked:         IsModuleUnlocked(ordered, i, p, unlocks),
			Progress:         ComputeModuleProgress(m, p),
			Completed:        len(m.Lessons) > 0 && ModuleCompleted(m, p),
			TotalLessons:     len(m.Lessons),
			CompletedLessons: completedLessons(m.Lessons, p),
		}
	}
	return out
}

// NextLesson finds where the learner should resume: the first lesson that is
// not completed in the first accessible module that still has work left.
// It returns nil when nothing accessible is left.
func NextLesson(modules []course.Module, p Progress, unlocks UnlockMap) *course.Lesson {
	ordered := SortModules(modules)
	for i, m := range ordered {
		if !IsModuleUnlocked(ordered, i, p, unlocks) {
			continue
		}
		for _, l := range m.Lessons {
			if !p.Completed(l.ID) {
				lesson := l
				return &lesson
			}
		}
	}
	return nil
}
