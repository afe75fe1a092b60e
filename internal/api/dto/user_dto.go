package dto

import "github.com/spec-kit/pizza-service/internal/domain"

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdateRequest payload for PUT /api/auth/:userId. Omitted fields are unchanged.
type UserUpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID    int64                   `json:"id"`
	Name  string                  `json:"name"`
	Email string                  `json:"email"`
	Roles []domain.RoleAssignment `json:"roles"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	roles := user.Roles
	if roles == nil {
		roles = []domain.RoleAssignment{}
	}
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Roles: roles}
}
