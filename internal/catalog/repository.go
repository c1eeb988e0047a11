// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	CreateCourse(ctx context.Context, c *Course) error
	GetCourse(ctx context.Context, id string, publishedOnly bool) (*Course, error)
	UpdateCourse(ctx context.Context, c *Course) error
	ListCourses(ctx context.Context, f Filter) ([]Course, error)

	CreateQuiz(ctx context.Context, q *Quiz) error
	GetQuiz(ctx context.Context, id string, publishedOnly bool) (*Quiz, error)
	ListQuizzes(ctx context.Context, f Filter) ([]Quiz, error)

	CreateActivity(ctx context.Context, a *Activity) error
	ListActivities(ctx context.Context, f Filter) ([]Activity, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const courseColumns = `id, title, description, category, age_level, difficulty,
	duration_minutes, total_lessons, instructor, image_emoji, color_gradient,
	skills, is_premium, is_published, created_at, updated_at`

const quizColumns = `id, title, description, category, age_level, difficulty,
	questions, time_limit_minutes, passing_score, image_emoji, color_gradient,
	is_published, created_at`

const activityColumns = `id, title, description, category, age_level,
	activity_type, instructions, materials, estimated_minutes, is_published,
	created_at`

func (r *repository) CreateCourse(ctx context.Context, c *Course) error {
	query := `
		INSERT INTO courses (id, title, description, category, age_level,
			difficulty, duration_minutes, total_lessons, instructor,
			image_emoji, color_gradient, skills, is_premium, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		c.Category,
		c.AgeLevel,
		c.Difficulty,
		c.DurationMinutes,
		c.TotalLessons,
		c.Instructor,
		c.ImageEmoji,
		c.ColorGradient,
		c.Skills,
		c.IsPremium,
		c.IsPublished,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetCourse reads one course. With publishedOnly an unpublished course is
// reported as not found.
func (r *repository) GetCourse(
	ctx context.Context,
	id string,
	publishedOnly bool,
) (*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses
		WHERE id = $1 AND (is_published OR NOT $2)`

	var c Course
	err := r.db.GetContext(ctx, &c, query, id, publishedOnly)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get course: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	return &c, nil
}

func (r *repository) UpdateCourse(ctx context.Context, c *Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, difficulty = $4,
		    duration_minutes = $5, total_lessons = $6, instructor = $7,
		    image_emoji = $8, color_gradient = $9, skills = $10,
		    is_premium = $11, is_published = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &c.UpdatedAt, query,
		c.ID,
		c.Title,
		c.Description,
		c.Difficulty,
		c.DurationMinutes,
		c.TotalLessons,
		c.Instructor,
		c.ImageEmoji,
		c.ColorGradient,
		c.Skills,
		c.IsPremium,
		c.IsPublished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update course: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

func (r *repository) ListCourses(ctx context.Context, f Filter) ([]Course, error) {
	where, args := filterClause(f)
	query := `SELECT ` + courseColumns + ` FROM courses WHERE ` + where +
		` ORDER BY created_at`

	courses := []Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return courses, nil
}

func (r *repository) CreateQuiz(ctx context.Context, q *Quiz) error {
	query := `
		INSERT INTO quizzes (id, title, description, category, age_level,
			difficulty, questions, time_limit_minutes, passing_score,
			image_emoji, color_gradient, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &q.CreatedAt, query,
		q.ID,
		q.Title,
		q.Description,
		q.Category,
		q.AgeLevel,
		q.Difficulty,
		q.Questions,
		q.TimeLimitMinutes,
		q.PassingScore,
		q.ImageEmoji,
		q.ColorGradient,
		q.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	return nil
}

func (r *repository) GetQuiz(
	ctx context.Context,
	id string,
	publishedOnly bool,
) (*Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes
		WHERE id = $1 AND (is_published OR NOT $2)`

	var q Quiz
	err := r.db.GetContext(ctx, &q, query, id, publishedOnly)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get quiz: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	return &q, nil
}

func (r *repository) ListQuizzes(ctx context.Context, f Filter) ([]Quiz, error) {
	where, args := filterClause(f)
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE ` + where +
		` ORDER BY created_at`

	quizzes := []Quiz{}
	if err := r.db.SelectContext(ctx, &quizzes, query, args...); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	return quizzes, nil
}

func (r *repository) CreateActivity(ctx context.Context, a *Activity) error {
	query := `
		INSERT INTO activities (id, title, description, category, age_level,
			activity_type, instructions, materials, estimated_minutes,
			is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &a.CreatedAt, query,
		a.ID,
		a.Title,
		a.Description,
		a.Category,
		a.AgeLevel,
		a.ActivityType,
		a.Instructions,
		a.Materials,
		a.EstimatedMinutes,
		a.IsPublished,
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	return nil
}

func (r *repository) ListActivities(
	ctx context.Context,
	f Filter,
) ([]Activity, error) {
	where, args := filterClause(f)
	query := `SELECT ` + activityColumns + ` FROM activities WHERE ` + where +
		` ORDER BY created_at`

	activities := []Activity{}
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return activities, nil
}

// filterClause builds the shared WHERE for content reads. Only published
// rows are ever visible to learners.
func filterClause(f Filter) (string, []any) {
	conditions := []string{"is_published"}
	var args []any

	if f.AgeLevel != "" {
		args = append(args, f.AgeLevel)
		conditions = append(conditions, fmt.Sprintf("age_level = $%d", len(args)))
	}

	if f.Category != "" {
		args = append(args, f.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}
