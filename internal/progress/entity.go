// AngelaMos | 2026
// entity.go

package progress

import (
	"time"

	"github.com/lib/pq"
)

type Progress struct {
	UserID             string         `db:"user_id"`
	CourseID           string         `db:"course_id"`
	LessonID           *string        `db:"lesson_id"`
	CompletedLessons   pq.StringArray `db:"completed_lessons"`
	TimeSpentMinutes   int            `db:"time_spent_minutes"`
	ProgressPercentage float64        `db:"progress_percentage"`
	LastAccessed       time.Time      `db:"last_accessed"`
}

// Update is one progress report. TimeSpentMinutes is added to the running
// total; CompletedLessons is merged into the stored set.
type Update struct {
	UserID             string
	CourseID           string
	LessonID           *string
	CompletedLessons   []string
	TimeSpentMinutes   int
	ProgressPercentage float64
}

type Stats struct {
	TotalPoints       int64   `db:"total_points"       json:"total_points"`
	StreakDays        int     `db:"streak_days"        json:"streak_days"`
	QuizzesTaken      int     `db:"quizzes_taken"      json:"total_quizzes_taken"`
	AveragePercentage float64 `db:"average_percentage" json:"average_score"`
	CoursesInProgress int     `db:"courses_in_progress" json:"courses_in_progress"`
	CoursesCompleted  int     `db:"courses_completed"  json:"courses_completed"`
	Achievements      int     `db:"achievements"       json:"total_achievements"`
	MinutesLearned    int     `db:"minutes_learned"    json:"total_learning_time"`
	FavoriteCategory  string  `db:"favorite_category"  json:"favorite_category,omitempty"`
}

type LeaderboardEntry struct {
	Rank        int     `db:"rank"         json:"rank"`
	UserID      string  `db:"user_id"      json:"user_id"`
	Name        string  `db:"name"         json:"name"`
	Avatar      *string `db:"avatar"       json:"avatar,omitempty"`
	TotalPoints int64   `db:"total_points" json:"total_points"`
	StreakDays  int     `db:"streak_days"  json:"streak_days"`
}
