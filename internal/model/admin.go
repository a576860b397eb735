package model

import "time"

// Role enumerates dashboard roles. Presenters have read-only access across
// the entire system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RolePresenter Role = "presenter"
)

// CanWrite reports whether the role may create or mutate resources.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleManager
}

// Admin represents a dashboard user.
type Admin struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the dashboard login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
