// AngelaMos | 2026
// catalog_test.go

package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

type memRepo struct {
	courses    []Course
	quizzes    []Quiz
	activities []Activity
}

func (m *memRepo) match(level agetier.Level, cat Category, published bool, f Filter) bool {
	if !published {
		return false
	}
	if f.AgeLevel != "" && level != f.AgeLevel {
		return false
	}
	return f.Category == "" || cat == f.Category
}

func (m *memRepo) CreateCourse(_ context.Context, c *Course) error {
	m.courses = append(m.courses, *c)
	return nil
}

func (m *memRepo) GetCourse(_ context.Context, id string, publishedOnly bool) (*Course, error) {
	for i := range m.courses {
		if m.courses[i].ID == id && (m.courses[i].IsPublished || !publishedOnly) {
			c := m.courses[i]
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) UpdateCourse(_ context.Context, c *Course) error {
	for i := range m.courses {
		if m.courses[i].ID == c.ID {
			m.courses[i] = *c
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memRepo) ListCourses(_ context.Context, f Filter) ([]Course, error) {
	out := []Course{}
	for _, c := range m.courses {
		if m.match(c.AgeLevel, c.Category, c.IsPublished, f) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) CreateQuiz(_ context.Context, q *Quiz) error {
	m.quizzes = append(m.quizzes, *q)
	return nil
}

func (m *memRepo) GetQuiz(_ context.Context, id string, publishedOnly bool) (*Quiz, error) {
	for i := range m.quizzes {
		if m.quizzes[i].ID == id && (m.quizzes[i].IsPublished || !publishedOnly) {
			q := m.quizzes[i]
			return &q, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) ListQuizzes(_ context.Context, f Filter) ([]Quiz, error) {
	out := []Quiz{}
	for _, q := range m.quizzes {
		if m.match(q.AgeLevel, q.Category, q.IsPublished, f) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memRepo) CreateActivity(_ context.Context, a *Activity) error {
	m.activities = append(m.activities, *a)
	return nil
}

func (m *memRepo) ListActivities(_ context.Context, f Filter) ([]Activity, error) {
	out := []Activity{}
	for _, a := range m.activities {
		if m.match(a.AgeLevel, a.Category, a.IsPublished, f) {
			out = append(out, a)
		}
	}
	return out, nil
}

func seeded() *memRepo {
	return &memRepo{
		courses: []Course{
			{ID: "c1", AgeLevel: agetier.LittleLearners, Category: CategoryMath, IsPublished: true},
			{ID: "c2", AgeLevel: agetier.YoungExplorers, Category: CategoryMath, IsPublished: true},
			{ID: "c3", AgeLevel: agetier.LittleLearners, Category: CategoryArt, IsPublished: true},
			{ID: "c4", AgeLevel: agetier.LittleLearners, Category: CategoryMath, IsPublished: false},
		},
		quizzes: []Quiz{
			{ID: "q1", AgeLevel: agetier.LittleLearners, Category: CategoryMath, IsPublished: true},
		},
	}
}

func TestVisibleContentExactTier(t *testing.T) {
	svc := NewService(seeded())

	content, err := svc.VisibleContent(context.Background(), agetier.LittleLearners, "")
	require.NoError(t, err)

	ids := []string{}
	for _, c := range content.Courses {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"c1", "c3"}, ids)
	assert.Len(t, content.Quizzes, 1)
	assert.Empty(t, content.Activities)
}

func TestVisibleContentCategoryAndEmpty(t *testing.T) {
	svc := NewService(seeded())

	content, err := svc.VisibleContent(
		context.Background(), agetier.LittleLearners, CategoryArt)
	require.NoError(t, err)
	require.Len(t, content.Courses, 1)
	assert.Equal(t, "c3", content.Courses[0].ID)
	assert.Empty(t, content.Quizzes)

	content, err = svc.VisibleContent(
		context.Background(), agetier.FutureLeaders, CategoryMusic)
	require.NoError(t, err)
	assert.NotNil(t, content.Courses)
	assert.Empty(t, content.Courses)
}

func TestVisibleContentRejectsUnknown(t *testing.T) {
	svc := NewService(seeded())

	_, err := svc.VisibleContent(context.Background(), agetier.Level("PRESCHOOL"), "")
	assert.ErrorIs(t, err, agetier.ErrUnknownTier)

	_, err = svc.VisibleContent(context.Background(), agetier.SmartKids, Category("Cooking"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateQuizDefaults(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	q, err := svc.CreateQuiz(context.Background(), CreateQuizRequest{
		Title:      "Shapes",
		Category:   string(CategoryMath),
		AgeLevel:   "4-6",
		Difficulty: DifficultyEasy,
		Questions: []QuestionRequest{
			{Question: "Sides of a triangle?", QuestionType: QuestionMultipleChoice, CorrectAnswer: "3"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 70, q.PassingScore)
	require.Len(t, q.Questions.V, 1)
	assert.Equal(t, 10, q.Questions.V[0].Points)
	assert.NotEmpty(t, q.Questions.V[0].ID)

	_, err = svc.CreateQuiz(context.Background(), CreateQuizRequest{AgeLevel: "3-4"})
	assert.True(t, core.IsAppError(err))
}

func TestUpdateCourseKeepsTier(t *testing.T) {
	repo := seeded()
	svc := NewService(repo)

	title := "Counting"
	published := false
	c, err := svc.UpdateCourse(context.Background(), "c1", UpdateCourseRequest{
		Title:       &title,
		IsPublished: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, "Counting", c.Title)
	assert.Equal(t, agetier.LittleLearners, c.AgeLevel)
	assert.False(t, c.IsPublished)
}

func TestToQuizResponseHidesAnswers(t *testing.T) {
	q := &Quiz{
		ID: "q",
		Questions: core.NewJSONB([]Question{{
			ID:            "1",
			CorrectAnswer: "4",
			Options:       []Option{{ID: "a", Text: "4", IsCorrect: true}},
			Points:        10,
		}}),
	}

	learner := ToQuizResponse(q, false)
	assert.Empty(t, learner.Questions[0].CorrectAnswer)
	assert.Nil(t, learner.Questions[0].Options[0].IsCorrect)

	admin := ToQuizResponse(q, true)
	assert.Equal(t, "4", admin.Questions[0].CorrectAnswer)
	require.NotNil(t, admin.Questions[0].Options[0].IsCorrect)
	assert.True(t, *admin.Questions[0].Options[0].IsCorrect)
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	NewHandler(NewService(seeded())).RegisterRoutes(r, passthrough)
	return r
}

func TestPricingEndpoint(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pricing/10-12", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data agetier.PricingPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, agetier.SmartKids, body.Data.AgeLevel)
	assert.Equal(t, int64(1500), body.Data.MonthlyPrice)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pricing/PRESCHOOL", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "UNKNOWN_TIER"))
}

func TestContentEndpoint(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/content/4-6?category=Art", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data ContentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Courses, 1)
	assert.Equal(t, "c3", body.Data.Courses[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/age-levels", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Little Learners")
}

func TestUnpublishedCourseHiddenFromLearners(t *testing.T) {
	svc := NewService(seeded())

	_, err := svc.GetCourse(context.Background(), "c4")
	assert.ErrorIs(t, err, core.ErrNotFound)

	c, err := svc.GetAnyCourse(context.Background(), "c4")
	require.NoError(t, err)
	assert.False(t, c.IsPublished)
}

func TestQuizEndpointHidesDrafts(t *testing.T) {
	repo := seeded()
	repo.quizzes = append(repo.quizzes, Quiz{
		ID:          "q2",
		AgeLevel:    agetier.SmartKids,
		Category:    CategoryMath,
		IsPublished: false,
	})

	asRole := func(role string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), middleware.UserRoleKey, role)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	tests := []struct {
		name string
		role string
		path string
		want int
	}{
		{"learner quiz draft", "user", "/quizzes/q2", http.StatusNotFound},
		{"learner course draft", "user", "/courses/c4", http.StatusNotFound},
		{"learner published quiz", "user", "/quizzes/q1", http.StatusOK},
		{"admin quiz draft", "admin", "/quizzes/q2", http.StatusOK},
		{"admin course draft", "admin", "/courses/c4", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewHandler(NewService(repo)).RegisterRoutes(r, asRole(tt.role))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
