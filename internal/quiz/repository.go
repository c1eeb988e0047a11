// AngelaMos | 2026
// repository.go

package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	WithTx(db core.DBTX) Repository
	CreateAttempt(ctx context.Context, a *Attempt) error
	ListAttempts(ctx context.Context, userID string, limit int) ([]Attempt, error)
	AddPoints(ctx context.Context, userID string, points int) error
	Award(ctx context.Context, userID, achievementID string) (*Achievement, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAttempt(ctx context.Context, a *Attempt) error {
	query := `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, answers, score,
			percentage, passed, time_taken_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING completed_at`

	err := r.db.GetContext(ctx, &a.CompletedAt, query,
		a.ID,
		a.UserID,
		a.QuizID,
		a.Answers,
		a.Score,
		a.Percentage,
		a.Passed,
		a.TimeTakenSeconds,
	)
	if err != nil {
		return fmt.Errorf("create quiz attempt: %w", err)
	}

	return nil
}

func (r *repository) ListAttempts(
	ctx context.Context,
	userID string,
	limit int,
) ([]Attempt, error) {
	query := `
		SELECT id, user_id, quiz_id, answers, score, percentage, passed,
		       time_taken_seconds, completed_at
		FROM quiz_attempts
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2`

	attempts := []Attempt{}
	if err := r.db.SelectContext(ctx, &attempts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}

	return attempts, nil
}

// AddPoints increments the running total in place so concurrent attempts
// never lose an update.
func (r *repository) AddPoints(ctx context.Context, userID string, points int) error {
	query := `
		UPDATE users
		SET total_points = total_points + $2,
		    last_activity = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID, points)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("add points: %w", core.ErrNotFound)
	}

	return nil
}

// Award records the achievement once per user. It returns nil when the
// user already had it.
func (r *repository) Award(
	ctx context.Context,
	userID, achievementID string,
) (*Achievement, error) {
	query := `
		WITH awarded AS (
			INSERT INTO user_achievements (user_id, achievement_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
			RETURNING achievement_id
		)
		SELECT a.id, a.title, a.description, a.icon, a.category, a.rarity
		FROM achievements a
		JOIN awarded ON awarded.achievement_id = a.id`

	var a Achievement
	err := r.db.GetContext(ctx, &a, query, userID, achievementID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("award achievement: %w", err)
	}

	return &a, nil
}
