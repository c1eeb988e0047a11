// AngelaMos | 2026
// entity.go

package tutor

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/angelamos/tecai-kids/internal/core"
)

type ContextType string

const (
	ContextGeneral ContextType = "general"
	ContextLesson  ContextType = "lesson"
	ContextCoding  ContextType = "coding"
	ContextQuiz    ContextType = "quiz"
)

var contextAliases = map[string]ContextType{
	"":            ContextGeneral,
	"general":     ContextGeneral,
	"lesson":      ContextLesson,
	"lesson_help": ContextLesson,
	"coding":      ContextCoding,
	"code_help":   ContextCoding,
	"quiz":        ContextQuiz,
	"quiz_help":   ContextQuiz,
}

// ParseContextType accepts the short names and the "<kind>_help" forms the
// web client sends. Empty means general.
func ParseContextType(s string) (ContextType, error) {
	c, ok := contextAliases[s]
	if !ok {
		return "", fmt.Errorf("context type %q: %w", s, core.ErrInvalidInput)
	}
	return c, nil
}

type Message struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	ContextType ContextType    `db:"context_type"`
	LessonID    *string        `db:"lesson_id"`
	CourseID    *string        `db:"course_id"`
	Question    string         `db:"question"`
	Answer      string         `db:"answer"`
	Suggestions pq.StringArray `db:"suggestions"`
	CreatedAt   time.Time      `db:"created_at"`
}

type HistoryFilter struct {
	UserID      string
	ContextType ContextType
	LessonID    *string
	CourseID    *string
	Limit       int
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
