package models

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// User represents an account visible in the admin dashboard. The JSON
// field names match the legacy persisted documents so existing data
// stays loadable.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CityID       string    `json:"cityId"`
	IsAdmin      bool      `json:"isAdmin"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user without the password hash, for
// inclusion in API responses.
func (u *User) Sanitized() *User {
	cp := *u
	cp.PasswordHash = ""
	return &cp
}

// CreateUserRequest represents the request to create a user. Password
// is optional; when present a login credential is provisioned.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	CityID   string `json:"cityId" binding:"required"`
	Password string `json:"password,omitempty"`
}

// Validate validates the create user request.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !emailPattern.MatchString(r.Email) {
		return NewValidationError("email", "must be a valid email address")
	}
	if r.CityID == "" {
		return NewValidationError("cityId", "is required")
	}
	return nil
}

// UpdateUserRequest represents the request to update a user's profile.
type UpdateUserRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	CityID  string `json:"cityId" binding:"required"`
	IsAdmin bool   `json:"isAdmin"`
}

// Validate validates the update user request.
func (r *UpdateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !emailPattern.MatchString(r.Email) {
		return NewValidationError("email", "must be a valid email address")
	}
	if r.CityID == "" {
		return NewValidationError("cityId", "is required")
	}
	return nil
}

// LoginRequest represents an admin login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}
