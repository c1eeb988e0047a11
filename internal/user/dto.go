// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/angelamos/tecai-kids/internal/agetier"
)

type CreateUserRequest struct {
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

type UpdateUserRequest struct {
	Name         *string  `json:"name,omitempty"          validate:"omitempty,min=1,max=100"`
	Age          *int     `json:"age,omitempty"`
	ParentEmail  *string  `json:"parent_email,omitempty"  validate:"omitempty,email,max=255"`
	StudentEmail *string  `json:"student_email,omitempty" validate:"omitempty,email,max=255"`
	Phone        *string  `json:"phone,omitempty"         validate:"omitempty,max=32"`
	School       *string  `json:"school,omitempty"        validate:"omitempty,max=200"`
	Grade        *int     `json:"grade,omitempty"         validate:"omitempty,gte=1,lte=13"`
	Interests    []string `json:"interests,omitempty"     validate:"omitempty,max=20,dive,max=50"`
	CareerGoals  []string `json:"career_goals,omitempty"  validate:"omitempty,max=20,dive,max=100"`
	Avatar       *string  `json:"avatar,omitempty"        validate:"omitempty,max=255"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UserResponse struct {
	ID             string        `json:"id"`
	Email          string        `json:"email"`
	Name           string        `json:"name"`
	Age            int           `json:"age"`
	AgeLevel       agetier.Level `json:"age_level"`
	AgeLevelName   string        `json:"age_level_name"`
	ParentEmail    string        `json:"parent_email"`
	StudentEmail   *string       `json:"student_email,omitempty"`
	Phone          *string       `json:"phone,omitempty"`
	School         *string       `json:"school,omitempty"`
	Grade          *int          `json:"grade,omitempty"`
	Interests      []string      `json:"interests"`
	CareerGoals    []string      `json:"career_goals"`
	Avatar         *string       `json:"avatar,omitempty"`
	Role           string        `json:"role"`
	TotalPoints    int64         `json:"total_points"`
	StreakDays     int           `json:"streak_days"`
	LastActivity   *time.Time    `json:"last_activity,omitempty"`
	SubscriptionID *string       `json:"subscription_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
	AgeLevel string `json:"age_level"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Age:            u.Age,
		AgeLevel:       u.AgeLevel,
		AgeLevelName:   u.AgeLevel.Name(),
		ParentEmail:    u.ParentEmail,
		StudentEmail:   u.StudentEmail,
		Phone:          u.Phone,
		School:         u.School,
		Grade:          u.Grade,
		Interests:      u.Interests,
		CareerGoals:    u.CareerGoals,
		Avatar:         u.Avatar,
		Role:           u.Role,
		TotalPoints:    u.TotalPoints,
		StreakDays:     u.StreakDays,
		LastActivity:   u.LastActivity,
		SubscriptionID: u.SubscriptionID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
