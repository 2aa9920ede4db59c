package models

import (
	"time"
)

// User is a login identity from the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	Password    string     `json:"-" db:"password"` // bcrypt hash
	FirstName   string     `json:"firstName" db:"first_name"`
	LastName    string     `json:"lastName" db:"last_name"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// Profile binds a user to a role and, depending on the role, to a student.
type Profile struct {
	ID               int64       `json:"id" db:"id"`
	UserID           int64       `json:"userId" db:"user_id"`
	Role             ProfileRole `json:"role" db:"role"`
	StudentID        *int64      `json:"studentId,omitempty" db:"student_id"`
	RelatedStudentID *int64      `json:"relatedStudentId,omitempty" db:"related_student_id"`
}

// Session is the server-side record of an issued session token.
type Session struct {
	ID        string     `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	ExpiresAt time.Time  `json:"expiresAt" db:"expires_at"`
	RevokedAt *time.Time `json:"revokedAt,omitempty" db:"revoked_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// Active reports whether the session may still authenticate requests at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
