// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/angelamos/tecai-kids/internal/agetier"
)

type CreateCourseRequest struct {
	Title           string   `json:"title"            validate:"required,min=1,max=200"`
	Description     string   `json:"description"      validate:"required,max=2000"`
	Category        string   `json:"category"         validate:"required,oneof='Math' 'Science' 'English' 'Art' 'Coding' 'Music' 'Logical Thinking' 'Algorithmic Thinking'"`
	AgeLevel        string   `json:"age_level"        validate:"required"`
	Difficulty      string   `json:"difficulty"       validate:"required,oneof=Easy Medium Hard"`
	DurationMinutes int      `json:"duration_minutes" validate:"gte=0"`
	TotalLessons    int      `json:"total_lessons"    validate:"gte=0"`
	Instructor      string   `json:"instructor"       validate:"max=100"`
	ImageEmoji      string   `json:"image_emoji"      validate:"max=16"`
	ColorGradient   string   `json:"color_gradient"   validate:"max=100"`
	Skills          []string `json:"skills"           validate:"max=20,dive,max=100"`
	IsPremium       bool     `json:"is_premium"`
}

type UpdateCourseRequest struct {
	Title           *string  `json:"title,omitempty"            validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description,omitempty"      validate:"omitempty,max=2000"`
	Difficulty      *string  `json:"difficulty,omitempty"       validate:"omitempty,oneof=Easy Medium Hard"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,gte=0"`
	TotalLessons    *int     `json:"total_lessons,omitempty"    validate:"omitempty,gte=0"`
	Instructor      *string  `json:"instructor,omitempty"       validate:"omitempty,max=100"`
	ImageEmoji      *string  `json:"image_emoji,omitempty"      validate:"omitempty,max=16"`
	ColorGradient   *string  `json:"color_gradient,omitempty"   validate:"omitempty,max=100"`
	Skills          []string `json:"skills,omitempty"           validate:"omitempty,max=20,dive,max=100"`
	IsPremium       *bool    `json:"is_premium,omitempty"`
	IsPublished     *bool    `json:"is_published,omitempty"`
}

type QuestionRequest struct {
	ID            string   `json:"id"             validate:"max=64"`
	Question      string   `json:"question"       validate:"required,max=1000"`
	QuestionType  string   `json:"question_type"  validate:"required,oneof=multiple_choice true_false fill_blank matching"`
	Options       []Option `json:"options"        validate:"max=10"`
	CorrectAnswer string   `json:"correct_answer" validate:"required,max=500"`
	Explanation   string   `json:"explanation"    validate:"max=1000"`
	Points        int      `json:"points"         validate:"gte=0,lte=100"`
}

type CreateQuizRequest struct {
	Title            string            `json:"title"              validate:"required,min=1,max=200"`
	Description      string            `json:"description"        validate:"max=2000"`
	Category         string            `json:"category"           validate:"required,oneof='Math' 'Science' 'English' 'Art' 'Coding' 'Music' 'Logical Thinking' 'Algorithmic Thinking'"`
	AgeLevel         string            `json:"age_level"          validate:"required"`
	Difficulty       string            `json:"difficulty"         validate:"required,oneof=Easy Medium Hard"`
	Questions        []QuestionRequest `json:"questions"          validate:"required,min=1,max=100,dive"`
	TimeLimitMinutes int               `json:"time_limit_minutes" validate:"gte=0"`
	PassingScore     int               `json:"passing_score"      validate:"gte=0,lte=100"`
	ImageEmoji       string            `json:"image_emoji"        validate:"max=16"`
	ColorGradient    string            `json:"color_gradient"     validate:"max=100"`
}

type CreateActivityRequest struct {
	Title            string   `json:"title"             validate:"required,min=1,max=200"`
	Description      string   `json:"description"       validate:"max=2000"`
	Category         string   `json:"category"          validate:"required,oneof='Math' 'Science' 'English' 'Art' 'Coding' 'Music' 'Logical Thinking' 'Algorithmic Thinking'"`
	AgeLevel         string   `json:"age_level"         validate:"required"`
	ActivityType     string   `json:"activity_type"     validate:"required,oneof=game puzzle creative experiment"`
	Instructions     []string `json:"instructions"      validate:"max=50,dive,max=500"`
	Materials        []string `json:"materials"         validate:"max=50,dive,max=200"`
	EstimatedMinutes int      `json:"estimated_minutes" validate:"gte=0"`
}

type CourseResponse struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        Category      `json:"category"`
	AgeLevel        agetier.Level `json:"age_level"`
	Difficulty      string        `json:"difficulty"`
	DurationMinutes int           `json:"duration_minutes"`
	TotalLessons    int           `json:"total_lessons"`
	Instructor      string        `json:"instructor"`
	ImageEmoji      string        `json:"image_emoji"`
	ColorGradient   string        `json:"color_gradient"`
	Skills          []string      `json:"skills"`
	IsPremium       bool          `json:"is_premium"`
	IsPublished     bool          `json:"is_published"`
	CreatedAt       time.Time     `json:"created_at"`
}

type QuestionResponse struct {
	ID            string           `json:"id"`
	Question      string           `json:"question"`
	QuestionType  string           `json:"question_type"`
	Options       []OptionResponse `json:"options"`
	CorrectAnswer string           `json:"correct_answer,omitempty"`
	Explanation   string           `json:"explanation,omitempty"`
	Points        int              `json:"points"`
}

type OptionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type QuizResponse struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Category         Category           `json:"category"`
	AgeLevel         agetier.Level      `json:"age_level"`
	Difficulty       string             `json:"difficulty"`
	Questions        []QuestionResponse `json:"questions"`
	TotalQuestions   int                `json:"total_questions"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	PassingScore     int                `json:"passing_score"`
	ImageEmoji       string             `json:"image_emoji"`
	ColorGradient    string             `json:"color_gradient"`
	CreatedAt        time.Time          `json:"created_at"`
}

type ActivityResponse struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Category         Category      `json:"category"`
	AgeLevel         agetier.Level `json:"age_level"`
	ActivityType     string        `json:"activity_type"`
	Instructions     []string      `json:"instructions"`
	Materials        []string      `json:"materials"`
	EstimatedMinutes int           `json:"estimated_minutes"`
}

type ContentResponse struct {
	AgeLevel   agetier.Level      `json:"recommended_for_age"`
	Courses    []CourseResponse   `json:"courses"`
	Quizzes    []QuizResponse     `json:"quizzes"`
	Activities []ActivityResponse `json:"activities"`
}

func ToCourseResponse(c *Course) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		AgeLevel:        c.AgeLevel,
		Difficulty:      c.Difficulty,
		DurationMinutes: c.DurationMinutes,
		TotalLessons:    c.TotalLessons,
		Instructor:      c.Instructor,
		ImageEmoji:      c.ImageEmoji,
		ColorGradient:   c.ColorGradient,
		Skills:          c.Skills,
		IsPremium:       c.IsPremium,
		IsPublished:     c.IsPublished,
		CreatedAt:       c.CreatedAt,
	}
}

// ToQuizResponse renders q for a client. Answers are included only when
// withAnswers is set, which is reserved for admins.
func ToQuizResponse(q *Quiz, withAnswers bool) QuizResponse {
	questions := make([]QuestionResponse, 0, len(q.Questions.V))
	for _, qq := range q.Questions.V {
		options := make([]OptionResponse, 0, len(qq.Options))
		for _, o := range qq.Options {
			or := OptionResponse{ID: o.ID, Text: o.Text}
			if withAnswers {
				correct := o.IsCorrect
				or.IsCorrect = &correct
			}
			options = append(options, or)
		}

		qr := QuestionResponse{
			ID:           qq.ID,
			Question:     qq.Question,
			QuestionType: qq.QuestionType,
			Options:      options,
			Points:       qq.Points,
		}
		if withAnswers {
			qr.CorrectAnswer = qq.CorrectAnswer
			qr.Explanation = qq.Explanation
		}
		questions = append(questions, qr)
	}

	return QuizResponse{
		ID:               q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		AgeLevel:         q.AgeLevel,
		Difficulty:       q.Difficulty,
		Questions:        questions,
		TotalQuestions:   len(questions),
		TimeLimitMinutes: q.TimeLimitMinutes,
		PassingScore:     q.PassingScore,
		ImageEmoji:       q.ImageEmoji,
		ColorGradient:    q.ColorGradient,
		CreatedAt:        q.CreatedAt,
	}
}

func ToActivityResponse(a *Activity) ActivityResponse {
	return ActivityResponse{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		Category:         a.Category,
		AgeLevel:         a.AgeLevel,
		ActivityType:     a.ActivityType,
		Instructions:     a.Instructions,
		Materials:        a.Materials,
		EstimatedMinutes: a.EstimatedMinutes,
	}
}

func ToCourseResponseList(courses []Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, ToCourseResponse(&courses[i]))
	}
	return out
}

func ToQuizResponseList(quizzes []Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, ToQuizResponse(&quizzes[i], false))
	}
	return out
}

func ToContentResponse(c *Content) ContentResponse {
	activities := make([]ActivityResponse, 0, len(c.Activities))
	for i := range c.Activities {
		activities = append(activities, ToActivityResponse(&c.Activities[i]))
	}

	return ContentResponse{
		AgeLevel:   c.AgeLevel,
		Courses:    ToCourseResponseList(c.Courses),
		Quizzes:    ToQuizResponseList(c.Quizzes),
		Activities: activities,
	}
}
