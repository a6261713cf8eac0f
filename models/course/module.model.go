package course

// Module represents an ordered section of a course
type Module struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"course_id"`
	Title      string   `json:"title"`
	OrderIndex int      `json:"order_index"`
	IsUnlocked *bool    `json:"is_unlocked,omitempty"` // server-asserted override, nil when absent
	Lessons    []Lesson `json:"lessons"`
	Quiz       *Quiz    `json:"quiz,omitempty"`
}

// ModuleOrder is one entry of a reorder request
type ModuleOrder struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}
