// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
)

type Content struct {
	AgeLevel   agetier.Level `json:"recommended_for_age"`
	Courses    []Course      `json:"courses"`
	Quizzes    []Quiz        `json:"quizzes"`
	Activities []Activity    `json:"activities"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// VisibleContent returns the published content of exactly tier l, narrowed
// to category when one is given. An empty result is not an error.
func (s *Service) VisibleContent(
	ctx context.Context,
	l agetier.Level,
	category Category,
) (*Content, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("visible content %q: %w", l, agetier.ErrUnknownTier)
	}
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf(
			"visible content: category %q: %w",
			category,
			core.ErrInvalidInput,
		)
	}

	f := Filter{AgeLevel: l, Category: category}

	courses, err := s.repo.ListCourses(ctx, f)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.repo.ListQuizzes(ctx, f)
	if err != nil {
		return nil, err
	}

	activities, err := s.repo.ListActivities(ctx, f)
	if err != nil {
		return nil, err
	}

	return &Content{
		AgeLevel:   l,
		Courses:    courses,
		Quizzes:    quizzes,
		Activities: activities,
	}, nil
}

func (s *Service) ListCourses(ctx context.Context, f Filter) ([]Course, error) {
	return s.repo.ListCourses(ctx, f)
}

// GetCourse is the learner read: unpublished courses do not exist.
func (s *Service) GetCourse(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetCourse(ctx, id, true)
}

// GetAnyCourse includes unpublished drafts, for admins.
func (s *Service) GetAnyCourse(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetCourse(ctx, id, false)
}

func (s *Service) ListQuizzes(ctx context.Context, f Filter) ([]Quiz, error) {
	return s.repo.ListQuizzes(ctx, f)
}

func (s *Service) GetQuiz(ctx context.Context, id string) (*Quiz, error) {
	return s.repo.GetQuiz(ctx, id, true)
}

func (s *Service) GetAnyQuiz(ctx context.Context, id string) (*Quiz, error) {
	return s.repo.GetQuiz(ctx, id, false)
}

func (s *Service) CreateCourse(
	ctx context.Context,
	req CreateCourseRequest,
) (*Course, error) {
	level, err := parseAuthoredLevel(req.AgeLevel)
	if err != nil {
		return nil, err
	}

	c := &Course{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		Category:        Category(req.Category),
		AgeLevel:        level,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		TotalLessons:    req.TotalLessons,
		Instructor:      req.Instructor,
		ImageEmoji:      req.ImageEmoji,
		ColorGradient:   req.ColorGradient,
		Skills:          core.TextArray(req.Skills),
		IsPremium:       req.IsPremium,
		IsPublished:     true,
	}

	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// UpdateCourse edits metadata only. Tier and category are fixed once
// authored.
func (s *Service) UpdateCourse(
	ctx context.Context,
	id string,
	req UpdateCourseRequest,
) (*Course, error) {
	c, err := s.repo.GetCourse(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Difficulty != nil {
		c.Difficulty = *req.Difficulty
	}
	if req.DurationMinutes != nil {
		c.DurationMinutes = *req.DurationMinutes
	}
	if req.TotalLessons != nil {
		c.TotalLessons = *req.TotalLessons
	}
	if req.Instructor != nil {
		c.Instructor = *req.Instructor
	}
	if req.ImageEmoji != nil {
		c.ImageEmoji = *req.ImageEmoji
	}
	if req.ColorGradient != nil {
		c.ColorGradient = *req.ColorGradient
	}
	if req.Skills != nil {
		c.Skills = core.TextArray(req.Skills)
	}
	if req.IsPremium != nil {
		c.IsPremium = *req.IsPremium
	}
	if req.IsPublished != nil {
		c.IsPublished = *req.IsPublished
	}

	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) CreateQuiz(
	ctx context.Context,
	req CreateQuizRequest,
) (*Quiz, error) {
	level, err := parseAuthoredLevel(req.AgeLevel)
	if err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(req.Questions))
	for _, qr := range req.Questions {
		q := Question{
			ID:            qr.ID,
			Question:      qr.Question,
			QuestionType:  qr.QuestionType,
			Options:       qr.Options,
			CorrectAnswer: qr.CorrectAnswer,
			Explanation:   qr.Explanation,
			Points:        qr.Points,
		}
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		if q.Points == 0 {
			q.Points = defaultQuestionPoints
		}
		questions = append(questions, q)
	}

	passing := req.PassingScore
	if passing == 0 {
		passing = defaultPassingScore
	}

	q := &Quiz{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Category:         Category(req.Category),
		AgeLevel:         level,
		Difficulty:       req.Difficulty,
		Questions:        core.NewJSONB(questions),
		TimeLimitMinutes: req.TimeLimitMinutes,
		PassingScore:     passing,
		ImageEmoji:       req.ImageEmoji,
		ColorGradient:    req.ColorGradient,
		IsPublished:      true,
	}

	if err := s.repo.CreateQuiz(ctx, q); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Service) CreateActivity(
	ctx context.Context,
	req CreateActivityRequest,
) (*Activity, error) {
	level, err := parseAuthoredLevel(req.AgeLevel)
	if err != nil {
		return nil, err
	}

	a := &Activity{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Category:         Category(req.Category),
		AgeLevel:         level,
		ActivityType:     req.ActivityType,
		Instructions:     core.TextArray(req.Instructions),
		Materials:        core.TextArray(req.Materials),
		EstimatedMinutes: req.EstimatedMinutes,
		IsPublished:      true,
	}

	if err := s.repo.CreateActivity(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

const (
	defaultQuestionPoints = 10
	defaultPassingScore   = 70
)

func parseAuthoredLevel(s string) (agetier.Level, error) {
	level, err := agetier.Parse(s)
	if err != nil {
		return "", core.ValidationError("unknown age_level: " + s)
	}
	return level, nil
}
