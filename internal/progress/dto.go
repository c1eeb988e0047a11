// AngelaMos | 2026
// dto.go

package progress

import (
	"time"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/catalog"
	"github.com/angelamos/tecai-kids/internal/quiz"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/user"
)

const recommendedCount = 3

type UpdateProgressRequest struct {
	CourseID           string   `json:"course_id"           validate:"required,uuid"`
	LessonID           *string  `json:"lesson_id,omitempty" validate:"omitempty,max=100"`
	CompletedLessons   []string `json:"completed_lessons"   validate:"omitempty,max=500,dive,max=100"`
	TimeSpentMinutes   int      `json:"time_spent_minutes"  validate:"gte=0,lte=1440"`
	ProgressPercentage float64  `json:"progress_percentage" validate:"gte=0,lte=100"`
}

type ProgressResponse struct {
	CourseID           string    `json:"course_id"`
	LessonID           *string   `json:"lesson_id,omitempty"`
	CompletedLessons   []string  `json:"completed_lessons"`
	TimeSpentMinutes   int       `json:"time_spent_minutes"`
	ProgressPercentage float64   `json:"progress_percentage"`
	LastAccessed       time.Time `json:"last_accessed"`
}

type LeaderboardResponse struct {
	AgeLevel agetier.Level      `json:"age_level"`
	Entries  []LeaderboardEntry `json:"leaderboard"`
}

type RecommendedResponse struct {
	Quizzes []catalog.QuizResponse   `json:"quizzes"`
	Courses []catalog.CourseResponse `json:"courses"`
}

type DashboardResponse struct {
	User           user.UserResponse                  `json:"user"`
	Stats          *Stats                             `json:"stats"`
	Content        catalog.ContentResponse            `json:"content"`
	RecentAttempts []quiz.AttemptResponse             `json:"recent_quiz_attempts"`
	Rank           int                                `json:"leaderboard_position"`
	Subscription   *subscription.SubscriptionResponse `json:"subscription"`
	Recommended    RecommendedResponse                `json:"recommended"`
	Tier           agetier.Info                       `json:"age_level_info"`
}

func ToProgressResponse(p *Progress) ProgressResponse {
	lessons := []string(p.CompletedLessons)
	if lessons == nil {
		lessons = []string{}
	}

	return ProgressResponse{
		CourseID:           p.CourseID,
		LessonID:           p.LessonID,
		CompletedLessons:   lessons,
		TimeSpentMinutes:   p.TimeSpentMinutes,
		ProgressPercentage: p.ProgressPercentage,
		LastAccessed:       p.LastAccessed,
	}
}

func ToProgressResponseList(ps []Progress) []ProgressResponse {
	out := make([]ProgressResponse, len(ps))
	for i := range ps {
		out[i] = ToProgressResponse(&ps[i])
	}
	return out
}

func ToDashboardResponse(d *Dashboard) DashboardResponse {
	content := catalog.ToContentResponse(d.Content)

	return DashboardResponse{
		User:           user.ToUserResponse(d.User),
		Stats:          d.Stats,
		Content:        content,
		RecentAttempts: quiz.ToAttemptResponseList(d.RecentAttempts),
		Rank:           d.Rank,
		Subscription:   subscription.ToSubscriptionResponse(d.Subscription),
		Recommended: RecommendedResponse{
			Quizzes: content.Quizzes[:min(recommendedCount, len(content.Quizzes))],
			Courses: content.Courses[:min(recommendedCount, len(content.Courses))],
		},
		Tier: d.Tier,
	}
}
