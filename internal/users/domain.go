package users

import (
	"errors"
	"time"
)

// User is an application account. PasswordHash never leaves the
// package; API responses carry the json-tagged fields only.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	ErrUserNotFound      = errors.New("users: user not found")
	ErrDuplicateUsername = errors.New("users: username already taken")
)
