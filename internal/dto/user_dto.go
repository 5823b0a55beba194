package dto

// UserCreateRequest is used by administrators to provision accounts.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ADMIN ADMIN_HR USER"`
	Position string `json:"position" validate:"omitempty,max=128"`
}

// UserUpdateRequest updates mutable account fields.
type UserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN ADMIN_HR USER"`
	Position *string `json:"position" validate:"omitempty,max=128"`
	IsActive *bool   `json:"is_active"`
}

// UserFilterRequest describes query string filters for listing users.
type UserFilterRequest struct {
	Role     *string `query:"role" validate:"omitempty,oneof=ADMIN ADMIN_HR USER"`
	IsActive *bool   `query:"is_active"`
	Search   string  `query:"search"`
}
