// AngelaMos | 2026
// scoring.go

package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/angelamos/tecai-kids/internal/catalog"
)

var ErrInvalidQuiz = errors.New("quiz has no questions")

type Submission struct {
	QuestionID     string
	SelectedAnswer string
}

type Result struct {
	Answers        []Answer
	CorrectCount   int
	TotalQuestions int
	Score          int
	Percentage     float64
	Passed         bool
}

// Score marks submissions against the stored questions. Unanswered
// questions count as wrong. It has no side effects.
func Score(questions []catalog.Question, passingScore int, subs []Submission) (Result, error) {
	if len(questions) == 0 {
		return Result{}, fmt.Errorf("score quiz: %w", ErrInvalidQuiz)
	}

	selected := make(map[string]string, len(subs))
	for _, s := range subs {
		if _, dup := selected[s.QuestionID]; !dup {
			selected[s.QuestionID] = s.SelectedAnswer
		}
	}

	res := Result{
		Answers:        make([]Answer, 0, len(questions)),
		TotalQuestions: len(questions),
	}

	for _, q := range questions {
		choice := selected[q.ID]
		a := Answer{
			QuestionID:     q.ID,
			SelectedAnswer: choice,
			IsCorrect:      isCorrect(q, choice),
		}
		if a.IsCorrect {
			a.PointsEarned = q.Points
			res.CorrectCount++
		}
		res.Score += a.PointsEarned
		res.Answers = append(res.Answers, a)
	}

	res.Percentage = 100 * float64(res.CorrectCount) / float64(res.TotalQuestions)
	res.Passed = res.Percentage >= float64(passingScore)

	return res, nil
}

// isCorrect compares the learner's answer to the stored one. The answer may
// be given as the option text or the option id.
func isCorrect(q catalog.Question, choice string) bool {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return false
	}

	if strings.EqualFold(choice, strings.TrimSpace(q.CorrectAnswer)) {
		return true
	}

	for _, o := range q.Options {
		if o.ID == choice {
			return o.IsCorrect
		}
	}

	return false
}

func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
