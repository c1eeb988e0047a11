// AngelaMos | 2026
// service.go

package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/catalog"
	"github.com/angelamos/tecai-kids/internal/core"
)

type QuizSource interface {
	GetQuiz(ctx context.Context, id string) (*catalog.Quiz, error)
}

// Learner is the caller taking a quiz. Admins may attempt any tier's quiz.
type Learner struct {
	ID       string
	AgeLevel agetier.Level
	Admin    bool
}

type Outcome struct {
	Attempt      *Attempt
	Result       Result
	Achievements []Achievement
}

type Service struct {
	repo    Repository
	tx      core.Transactor
	quizzes QuizSource
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	tx core.Transactor,
	quizzes QuizSource,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		tx:      tx,
		quizzes: quizzes,
		logger:  logger,
	}
}

// Submit scores an attempt against the stored quiz and records it together
// with the points and any achievement in one transaction. Unpublished quizzes
// and quizzes of another tier are not found.
func (s *Service) Submit(
	ctx context.Context,
	learner Learner,
	req SubmitAttemptRequest,
) (*Outcome, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished || (!learner.Admin && quiz.AgeLevel != learner.AgeLevel) {
		return nil, fmt.Errorf("submit quiz %s: %w", quiz.ID, core.ErrNotFound)
	}
	userID := learner.ID

	subs := make([]Submission, 0, len(req.Answers))
	for _, a := range req.Answers {
		subs = append(subs, Submission{
			QuestionID:     a.QuestionID,
			SelectedAnswer: a.SelectedAnswer,
		})
	}

	result, err := Score(quiz.Questions.V, quiz.PassingScore, subs)
	if err != nil {
		return nil, err
	}

	attempt := &Attempt{
		ID:               uuid.New().String(),
		UserID:           userID,
		QuizID:           quiz.ID,
		Answers:          core.NewJSONB(result.Answers),
		Score:            result.Score,
		Percentage:       result.Percentage,
		Passed:           result.Passed,
		TimeTakenSeconds: req.TimeTakenSeconds,
	}

	out := &Outcome{
		Attempt:      attempt,
		Result:       result,
		Achievements: []Achievement{},
	}

	err = s.tx.RunInTx(ctx, func(db core.DBTX) error {
		repo := s.repo.WithTx(db)

		if err := repo.CreateAttempt(ctx, attempt); err != nil {
			return err
		}

		if err := repo.AddPoints(ctx, userID, result.Score); err != nil {
			return err
		}

		if result.CorrectCount == result.TotalQuestions {
			a, err := repo.Award(ctx, userID, AchievementPerfectScore)
			if err != nil {
				return err
			}
			if a != nil {
				out.Achievements = append(out.Achievements, *a)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz attempt recorded",
		"user_id", userID,
		"quiz_id", quiz.ID,
		"score", result.Score,
		"percentage", result.Percentage,
	)

	return out, nil
}

func (s *Service) ListAttempts(
	ctx context.Context,
	userID string,
	limit int,
) ([]Attempt, error) {
	return s.repo.ListAttempts(ctx, userID, limit)
}
