// AngelaMos | 2026
// repository.go

package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, u Update) (*Progress, error)
	ListForUser(ctx context.Context, userID string) ([]Progress, error)
	Stats(ctx context.Context, userID string) (*Stats, error)
	Leaderboard(ctx context.Context, level agetier.Level, limit int) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, userID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const progressColumns = `user_id, course_id, lesson_id, completed_lessons,
	time_spent_minutes, progress_percentage, last_accessed`

// Upsert writes the (user, course) row in a single statement so concurrent
// reports for the same course never race on insert.
func (r *repository) Upsert(ctx context.Context, u Update) (*Progress, error) {
	query := `
		INSERT INTO user_progress (user_id, course_id, lesson_id, completed_lessons,
			time_spent_minutes, progress_percentage, last_accessed)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, course_id) DO UPDATE SET
			lesson_id = COALESCE(EXCLUDED.lesson_id, user_progress.lesson_id),
			completed_lessons = ARRAY(
				SELECT DISTINCT l
				FROM unnest(user_progress.completed_lessons || EXCLUDED.completed_lessons) AS l
				ORDER BY l
			),
			time_spent_minutes = user_progress.time_spent_minutes + EXCLUDED.time_spent_minutes,
			progress_percentage = EXCLUDED.progress_percentage,
			last_accessed = NOW()
		RETURNING ` + progressColumns

	var p Progress
	err := r.db.GetContext(ctx, &p, query,
		u.UserID,
		u.CourseID,
		u.LessonID,
		core.TextArray(u.CompletedLessons),
		u.TimeSpentMinutes,
		u.ProgressPercentage,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	return &p, nil
}

func (r *repository) ListForUser(ctx context.Context, userID string) ([]Progress, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1
		ORDER BY last_accessed DESC`

	out := []Progress{}
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	return out, nil
}

func (r *repository) Stats(ctx context.Context, userID string) (*Stats, error) {
	query := `
		SELECT u.total_points,
		       u.streak_days,
		       (SELECT COUNT(*) FROM quiz_attempts qa
		         WHERE qa.user_id = u.id) AS quizzes_taken,
		       (SELECT COALESCE(AVG(qa.percentage), 0) FROM quiz_attempts qa
		         WHERE qa.user_id = u.id) AS average_percentage,
		       (SELECT COUNT(*) FROM user_progress p
		         WHERE p.user_id = u.id AND p.progress_percentage < 100) AS courses_in_progress,
		       (SELECT COUNT(*) FROM user_progress p
		         WHERE p.user_id = u.id AND p.progress_percentage >= 100) AS courses_completed,
		       (SELECT COUNT(*) FROM user_achievements ua
		         WHERE ua.user_id = u.id) AS achievements,
		       (SELECT COALESCE(SUM(p.time_spent_minutes), 0) FROM user_progress p
		         WHERE p.user_id = u.id) AS minutes_learned,
		       COALESCE((
		           SELECT c.category
		           FROM user_progress p
		           JOIN courses c ON c.id = p.course_id
		           WHERE p.user_id = u.id
		           GROUP BY c.category
		           ORDER BY SUM(p.time_spent_minutes) DESC, c.category
		           LIMIT 1
		       ), '') AS favorite_category
		FROM users u
		WHERE u.id = $1 AND u.deleted_at IS NULL`

	var s Stats
	err := r.db.GetContext(ctx, &s, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user stats: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	return &s, nil
}

func (r *repository) Leaderboard(
	ctx context.Context,
	level agetier.Level,
	limit int,
) ([]LeaderboardEntry, error) {
	query := `
		SELECT ROW_NUMBER() OVER (ORDER BY total_points DESC, created_at) AS rank,
		       id AS user_id, name, avatar, total_points, streak_days
		FROM users
		WHERE age_level = $1 AND deleted_at IS NULL
		ORDER BY total_points DESC, created_at
		LIMIT $2`

	out := []LeaderboardEntry{}
	if err := r.db.SelectContext(ctx, &out, query, string(level), limit); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	return out, nil
}

// Rank is one plus the number of same-tier learners with more points.
func (r *repository) Rank(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT 1 + (
			SELECT COUNT(*) FROM users o
			WHERE o.age_level = u.age_level
			  AND o.deleted_at IS NULL
			  AND o.total_points > u.total_points
		)
		FROM users u
		WHERE u.id = $1 AND u.deleted_at IS NULL`

	var rank int
	err := r.db.GetContext(ctx, &rank, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("leaderboard rank: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("leaderboard rank: %w", err)
	}

	return rank, nil
}
