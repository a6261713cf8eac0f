package course

import "time"

// Certificate is a backend-issued, code-verifiable proof of course completion
type Certificate struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	CourseID        string     `json:"course_id"`
	CertificateCode string     `json:"certificate_code"`
	HolderName      string     `json:"holder_name,omitempty"`
	CourseTitle     string     `json:"course_title,omitempty"`
	IssuedAt        time.Time  `json:"issued_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	Verified        bool       `json:"verified"`
}

// CertificateVerification is the backend answer to a verify-by-code lookup
type CertificateVerification struct {
	Valid       bool         `json:"valid"`
	Certificate *Certificate `json:"certificate,omitempty"`
	Message     string       `json:"message,omitempty"`
	NotFound    bool         `json:"not_found,omitempty"`
}
