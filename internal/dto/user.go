package dto

import (
	"time"

	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/services"
)

// SignupRequest is the body of POST /api/auth/signup
type SignupRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the body of PATCH /api/me
type UpdateProfileRequest struct {
	UserName *string `json:"user_name"`
	Email    *string `json:"email"`
}

// ChangePasswordRequest is the body of PUT /api/me/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UserDTO represents another user in API responses
type UserDTO struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// ProfileDTO represents the authenticated user
type ProfileDTO struct {
	UserDTO
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionDTO is returned by a successful login
type SessionDTO struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      ProfileDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		UserID:   user.UserID,
		UserName: user.UserName,
	}
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		UserDTO:   ToUserDTO(user),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToSessionDTO combines an issued session with its user
func ToSessionDTO(session services.Session, user models.User) SessionDTO {
	return SessionDTO{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      ToProfileDTO(user),
	}
}
