// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"

	"github.com/lib/pq"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
)

type Category string

const (
	CategoryMath                Category = "Math"
	CategoryScience             Category = "Science"
	CategoryEnglish             Category = "English"
	CategoryArt                 Category = "Art"
	CategoryCoding              Category = "Coding"
	CategoryMusic               Category = "Music"
	CategoryLogicalThinking     Category = "Logical Thinking"
	CategoryAlgorithmicThinking Category = "Algorithmic Thinking"
)

var categories = []Category{
	CategoryMath,
	CategoryScience,
	CategoryEnglish,
	CategoryArt,
	CategoryCoding,
	CategoryMusic,
	CategoryLogicalThinking,
	CategoryAlgorithmicThinking,
}

func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

type Course struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	Category        Category       `db:"category"`
	AgeLevel        agetier.Level  `db:"age_level"`
	Difficulty      string         `db:"difficulty"`
	DurationMinutes int            `db:"duration_minutes"`
	TotalLessons    int            `db:"total_lessons"`
	Instructor      string         `db:"instructor"`
	ImageEmoji      string         `db:"image_emoji"`
	ColorGradient   string         `db:"color_gradient"`
	Skills          pq.StringArray `db:"skills"`
	IsPremium       bool           `db:"is_premium"`
	IsPublished     bool           `db:"is_published"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionFillBlank      = "fill_blank"
	QuestionMatching       = "matching"
)

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	QuestionType  string   `json:"question_type"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	Points        int      `json:"points"`
}

type Quiz struct {
	ID               string                 `db:"id"`
	Title            string                 `db:"title"`
	Description      string                 `db:"description"`
	Category         Category               `db:"category"`
	AgeLevel         agetier.Level          `db:"age_level"`
	Difficulty       string                 `db:"difficulty"`
	Questions        core.JSONB[[]Question] `db:"questions"`
	TimeLimitMinutes int                    `db:"time_limit_minutes"`
	PassingScore     int                    `db:"passing_score"`
	ImageEmoji       string                 `db:"image_emoji"`
	ColorGradient    string                 `db:"color_gradient"`
	IsPublished      bool                   `db:"is_published"`
	CreatedAt        time.Time              `db:"created_at"`
}

type Activity struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Category         Category       `db:"category"`
	AgeLevel         agetier.Level  `db:"age_level"`
	ActivityType     string         `db:"activity_type"`
	Instructions     pq.StringArray `db:"instructions"`
	Materials        pq.StringArray `db:"materials"`
	EstimatedMinutes int            `db:"estimated_minutes"`
	IsPublished      bool           `db:"is_published"`
	CreatedAt        time.Time      `db:"created_at"`
}

// Filter narrows content reads. AgeLevel is an exact match; there is no
// "this tier or below" widening.
type Filter struct {
	AgeLevel agetier.Level
	Category Category
}
