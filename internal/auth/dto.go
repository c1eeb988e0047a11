// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterRequest creates a learner account. Age is range checked by the
// tier resolver so the error carries its own code.
type RegisterRequest struct {
	Email        string   `json:"email"         validate:"required,email,max=255"`
	Password     string   `json:"password"      validate:"required,min=8,max=128"`
	Name         string   `json:"name"          validate:"required,min=1,max=100"`
	Age          int      `json:"age"           validate:"required"`
	ParentEmail  string   `json:"parent_email"  validate:"required,email,max=255"`
	StudentEmail *string  `json:"student_email" validate:"omitempty,email,max=255"`
	Phone        *string  `json:"phone"         validate:"omitempty,max=32"`
	School       *string  `json:"school"        validate:"omitempty,max=200"`
	Grade        *int     `json:"grade"         validate:"omitempty,gte=1,lte=13"`
	Interests    []string `json:"interests"     validate:"max=20,dive,max=50"`
	CareerGoals  []string `json:"career_goals"  validate:"max=20,dive,max=100"`
	Avatar       *string  `json:"avatar"        validate:"omitempty,max=255"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Age       int       `json:"age"`
	AgeLevel  string    `json:"age_level"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}
