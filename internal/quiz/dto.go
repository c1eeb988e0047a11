// AngelaMos | 2026
// dto.go

package quiz

import (
	"time"
)

type AnswerRequest struct {
	QuestionID     string `json:"question_id"     validate:"required,max=64"`
	SelectedAnswer string `json:"selected_answer" validate:"max=500"`
}

type SubmitAttemptRequest struct {
	QuizID           string          `json:"quiz_id"            validate:"required,uuid"`
	Answers          []AnswerRequest `json:"answers"            validate:"max=100,dive"`
	TimeTakenSeconds int             `json:"time_taken_seconds" validate:"gte=0,lte=86400"`
}

type AttemptResponse struct {
	ID               string    `json:"id"`
	QuizID           string    `json:"quiz_id"`
	Answers          []Answer  `json:"answers"`
	Score            int       `json:"score"`
	Percentage       float64   `json:"percentage"`
	Passed           bool      `json:"passed"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CompletedAt      time.Time `json:"completed_at"`
}

type ResultResponse struct {
	Attempt              AttemptResponse `json:"quiz_attempt"`
	CorrectAnswers       int             `json:"correct_answers"`
	TotalQuestions       int             `json:"total_questions"`
	TimeTaken            string          `json:"time_taken"`
	AchievementsUnlocked []Achievement   `json:"achievements_unlocked"`
}

func ToAttemptResponse(a *Attempt) AttemptResponse {
	return AttemptResponse{
		ID:               a.ID,
		QuizID:           a.QuizID,
		Answers:          a.Answers.V,
		Score:            a.Score,
		Percentage:       a.Percentage,
		Passed:           a.Passed,
		TimeTakenSeconds: a.TimeTakenSeconds,
		CompletedAt:      a.CompletedAt,
	}
}

func ToAttemptResponseList(attempts []Attempt) []AttemptResponse {
	out := make([]AttemptResponse, 0, len(attempts))
	for i := range attempts {
		out = append(out, ToAttemptResponse(&attempts[i]))
	}
	return out
}
