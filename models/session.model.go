package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is the server-side auth state created on sign-in and revoked on sign-out
type Session struct {
	gorm.Model
	SessionKey    string     `json:"session_key" gorm:"uniqueIndex;size:36;not null"`
	UserID        string     `json:"user_id" gorm:"index;not null"`
	Name          string     `json:"name" gorm:"default:''"`
	Email         string     `json:"email" gorm:"default:''"`
	Role          string     `json:"role" gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR, ADMIN
	UpstreamToken string     `json:"-" gorm:"not null"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"index"`
	LastSeenAt    *time.Time `json:"last_seen_at"`
	IPAddress     string     `json:"ip_address" gorm:"size:64"`
	Device        string     `json:"device"`
	IsRevoked     bool       `json:"is_revoked" gorm:"default:false"`
}

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

// Active reports whether the session can still authenticate requests at t
func (s *Session) Active(t time.Time) bool {
	return !s.IsRevoked && t.Before(s.ExpiresAt)
}

// CanAuthor reports whether the session may use instructor endpoints
func (s *Session) CanAuthor() bool {
	return s.Role == RoleInstructor || s.Role == RoleAdmin
}
