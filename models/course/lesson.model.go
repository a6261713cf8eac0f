package course

type ContentType string

const (
	ContentVideo        ContentType = "video"
	ContentText         ContentType = "text"
	ContentDocument     ContentType = "document"
	ContentAudio        ContentType = "audio"
	ContentPresentation ContentType = "presentation"
	ContentH5P          ContentType = "h5p"
	ContentQuiz         ContentType = "quiz"
	ContentAssignment   ContentType = "assignment"
	ContentForum        ContentType = "forum"
)

var contentTypes = map[ContentType]bool{
	ContentVideo: true, ContentText: true, ContentDocument: true,
	ContentAudio: true, ContentPresentation: true, ContentH5P: true,
	ContentQuiz: true, ContentAssignment: true, ContentForum: true,
}

// Valid reports whether t is a known lesson content type
func (t ContentType) Valid() bool {
	return contentTypes[t]
}

// Lesson is an atomic content unit that belongs to exactly one module
type Lesson struct {
	ID              string      `json:"id"`
	ModuleID        string      `json:"module_id"`
	Title           string      `json:"title"`
	ContentType     ContentType `json:"content_type"`
	DurationMinutes int         `json:"duration_minutes"`
	IsRequired      bool        `json:"is_required"`
	IsPublished     bool        `json:"is_published"`
	OrderIndex      int         `json:"order_index"`
}
