package dto

import (
	"strings"
	"time"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/service"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=64,strongpassword"`
	FullName *string `json:"full_name" validate:"omitempty,max=80"`
}

// Normalize trims the email and name.
func (r *UserRegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	trimPtr(r.FullName)
}

// ToInput converts the request for the auth service.
func (r UserRegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{Email: r.Email, Password: r.Password, FullName: r.FullName}
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=64"`
}

// Normalize trims the email.
func (r *UserLoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// UserSummaryResponse is the creator projection embedded in tickets.
type UserSummaryResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	FullName *string     `json:"full_name"`
	Role     domain.Role `json:"role"`
}

// UserResponse describes the authenticated account.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  *string     `json:"full_name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// NewUserSummaryResponse maps a creator summary.
func NewUserSummaryResponse(summary domain.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{ID: summary.ID, Email: summary.Email, FullName: summary.FullName, Role: summary.Role}
}

// NewAuthResponse maps an auth result. The password hash is never exposed.
func NewAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User: UserResponse{
			ID:        result.User.ID,
			Email:     result.User.Email,
			FullName:  result.User.FullName,
			Role:      result.User.Role,
			CreatedAt: result.User.CreatedAt,
		},
	}
}
