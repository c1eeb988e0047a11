// AngelaMos | 2026
// dto.go

package tutor

import (
	"time"
)

type AskRequest struct {
	Message     string  `json:"message"                validate:"required,max=2000"`
	ContextType string  `json:"context_type"           validate:"omitempty,max=20"`
	LessonID    *string `json:"lesson_id,omitempty"    validate:"omitempty,max=100"`
	CourseID    *string `json:"course_id,omitempty"    validate:"omitempty,max=100"`
	CodeContext string  `json:"code_context,omitempty" validate:"max=20000"`
}

type AskResponse struct {
	ID          string     `json:"id"`
	Response    string     `json:"response"`
	ContextType string     `json:"context_type"`
	Suggestions []string   `json:"suggestions"`
	Resources   []Resource `json:"helpful_resources"`
	CreatedAt   time.Time  `json:"timestamp"`
}

type MessageResponse struct {
	ID          string    `json:"id"`
	ContextType string    `json:"context_type"`
	LessonID    *string   `json:"lesson_id,omitempty"`
	CourseID    *string   `json:"course_id,omitempty"`
	Message     string    `json:"message"`
	Response    string    `json:"response"`
	Suggestions []string  `json:"suggestions"`
	CreatedAt   time.Time `json:"timestamp"`
}

func toAskResponse(r *Reply) AskResponse {
	return AskResponse{
		ID:          r.Message.ID,
		Response:    r.Message.Answer,
		ContextType: string(r.Message.ContextType),
		Suggestions: r.Message.Suggestions,
		Resources:   r.Resources,
		CreatedAt:   r.Message.CreatedAt,
	}
}

func ToMessageResponseList(ms []Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(ms))
	for _, m := range ms {
		suggestions := []string(m.Suggestions)
		if suggestions == nil {
			suggestions = []string{}
		}
		out = append(out, MessageResponse{
			ID:          m.ID,
			ContextType: string(m.ContextType),
			LessonID:    m.LessonID,
			CourseID:    m.CourseID,
			Message:     m.Question,
			Response:    m.Answer,
			Suggestions: suggestions,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}
