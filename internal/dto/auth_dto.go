package dto

import "github.com/noah-isme/kinerja-go-api/internal/models"

// LoginRequest carries the credentials posted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Remember bool   `json:"remember"`
}

// LoginResult is returned by the auth service on a successful login.
type LoginResult struct {
	Token    string       `json:"-"`
	Remember bool         `json:"-"`
	User     UserResponse `json:"user"`
}

// PasswordResetRequest asks for a reset token to be delivered.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm carries the reset token and the replacement password.
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserResponse serializes a user account without credential material.
type UserResponse struct {
	ID       uint        `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Position string      `json:"position"`
	IsActive bool        `json:"is_active"`
}

// NewUserResponse maps a user model onto its response shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Position: user.Position,
		IsActive: user.IsActive,
	}
}
