// AngelaMos | 2026
// entity.go

package quiz

import (
	"time"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Answer struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
}

type Attempt struct {
	ID               string               `db:"id"`
	UserID           string               `db:"user_id"`
	QuizID           string               `db:"quiz_id"`
	Answers          core.JSONB[[]Answer] `db:"answers"`
	Score            int                  `db:"score"`
	Percentage       float64              `db:"percentage"`
	Passed           bool                 `db:"passed"`
	TimeTakenSeconds int                  `db:"time_taken_seconds"`
	CompletedAt      time.Time            `db:"completed_at"`
}

type Achievement struct {
	ID          string `db:"id"          json:"id"`
	Title       string `db:"title"       json:"title"`
	Description string `db:"description" json:"description"`
	Icon        string `db:"icon"        json:"icon"`
	Category    string `db:"category"    json:"category"`
	Rarity      string `db:"rarity"      json:"rarity"`
}

const AchievementPerfectScore = "perfect-score"
