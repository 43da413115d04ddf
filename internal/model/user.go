package model

import "time"

// User roles.  ADMIN users manage facilities and can see every
// reservation; MEMBER users book facilities and only see their own.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// User mirrors the users table.  The password hash never leaves the
// server; JSON serialization omits it.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password_hash
	FullName     string    `json:"full_name"`  // users.full_name
	Role         string    `json:"role"`       // users.role
	IsActive     bool      `json:"is_active"`  // users.is_active
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}
