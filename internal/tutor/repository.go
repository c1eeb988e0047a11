// AngelaMos | 2026
// repository.go

package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	History(ctx context.Context, f HistoryFilter) ([]Message, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO tutor_messages (id, user_id, context_type, lesson_id, course_id,
			question, answer, suggestions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &m.CreatedAt, query,
		m.ID,
		m.UserID,
		m.ContextType,
		m.LessonID,
		m.CourseID,
		m.Question,
		m.Answer,
		m.Suggestions,
	)
	if err != nil {
		return fmt.Errorf("create tutor message: %w", err)
	}

	return nil
}

// History returns the newest exchanges first.
func (r *repository) History(ctx context.Context, f HistoryFilter) ([]Message, error) {
	conds := []string{"user_id = $1"}
	args := []any{f.UserID}

	if f.ContextType != "" {
		args = append(args, f.ContextType)
		conds = append(conds, fmt.Sprintf("context_type = $%d", len(args)))
	}
	if f.LessonID != nil {
		args = append(args, *f.LessonID)
		conds = append(conds, fmt.Sprintf("lesson_id = $%d", len(args)))
	}
	if f.CourseID != nil {
		args = append(args, *f.CourseID)
		conds = append(conds, fmt.Sprintf("course_id = $%d", len(args)))
	}
	args = append(args, f.Limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, context_type, lesson_id, course_id, question, answer,
		       suggestions, created_at
		FROM tutor_messages
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d`, strings.Join(conds, " AND "), len(args))

	out := []Message{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("tutor history: %w", err)
	}

	return out, nil
}
