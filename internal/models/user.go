package models

import "time"

// Role is the closed set of access roles known to the system.
type Role string

const (
	// RoleAdmin has full administrative access, including global settings.
	RoleAdmin Role = "ADMIN"
	// RoleAdminHR manages evaluation templates and staff records but not global settings.
	RoleAdminHR Role = "ADMIN_HR"
	// RoleUser is a regular employee or reviewer.
	RoleUser Role = "USER"
)

// Valid reports whether the role is one of the declared constants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAdminHR, RoleUser:
		return true
	}
	return false
}

// IsAdminScoped reports whether the role may enter admin-scoped paths.
func (r Role) IsAdminScoped() bool {
	return r == RoleAdmin || r == RoleAdminHR
}

// User represents an employee account that can sign in and take part in evaluations.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Position     string    `gorm:"size:128" json:"position"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
