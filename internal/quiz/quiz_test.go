// AngelaMos | 2026
// quiz_test.go

package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/catalog"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

func fourQuestions() []catalog.Question {
	qs := make([]catalog.Question, 0, 4)
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		qs = append(qs, catalog.Question{
			ID:            id,
			CorrectAnswer: "yes",
			Points:        10,
			Options: []catalog.Option{
				{ID: id + "-a", Text: "yes", IsCorrect: true},
				{ID: id + "-b", Text: "no"},
			},
		})
	}
	return qs
}

func TestScoreThreeOfFour(t *testing.T) {
	res, err := Score(fourQuestions(), 70, []Submission{
		{QuestionID: "q1", SelectedAnswer: "yes"},
		{QuestionID: "q2", SelectedAnswer: "YES "},
		{QuestionID: "q3", SelectedAnswer: "q3-a"},
		{QuestionID: "q4", SelectedAnswer: "no"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 4, res.TotalQuestions)
	assert.InDelta(t, 75.0, res.Percentage, 1e-9)
	assert.True(t, res.Passed)
	assert.Equal(t, 30, res.Score)
	assert.Len(t, res.Answers, 4)
	assert.Equal(t, 0, res.Answers[3].PointsEarned)
}

func TestScoreUnansweredAndDuplicate(t *testing.T) {
	res, err := Score(fourQuestions(), 70, []Submission{
		{QuestionID: "q1", SelectedAnswer: "no"},
		{QuestionID: "q1", SelectedAnswer: "yes"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 0.0, res.Percentage)
	assert.False(t, res.Passed)
}

func TestScoreEmptyQuiz(t *testing.T) {
	_, err := Score(nil, 70, []Submission{{QuestionID: "x", SelectedAnswer: "y"}})
	assert.ErrorIs(t, err, ErrInvalidQuiz)
}

func TestScoreExactPassBoundary(t *testing.T) {
	qs := fourQuestions()[:2]
	res, err := Score(qs, 50, []Submission{{QuestionID: "q1", SelectedAnswer: "yes"}})
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2m 5s", FormatDuration(125))
	assert.Equal(t, "0m 0s", FormatDuration(-3))
}

type memRepo struct {
	attempts []Attempt
	points   map[string]int
	awarded  map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{points: map[string]int{}, awarded: map[string]bool{}}
}

func (m *memRepo) WithTx(core.DBTX) Repository { return m }

func (m *memRepo) CreateAttempt(_ context.Context, a *Attempt) error {
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *memRepo) ListAttempts(_ context.Context, userID string, limit int) ([]Attempt, error) {
	out := []Attempt{}
	for _, a := range m.attempts {
		if a.UserID == userID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) AddPoints(_ context.Context, userID string, points int) error {
	m.points[userID] += points
	return nil
}

func (m *memRepo) Award(_ context.Context, userID, id string) (*Achievement, error) {
	key := userID + "/" + id
	if m.awarded[key] {
		return nil, nil
	}
	m.awarded[key] = true
	return &Achievement{ID: id, Title: "Perfect Score!", Category: "Quiz Master", Rarity: "Rare"}, nil
}

type directTx struct{}

func (directTx) RunInTx(_ context.Context, fn func(core.DBTX) error) error {
	return fn(nil)
}

type quizSource map[string]*catalog.Quiz

func (q quizSource) GetQuiz(_ context.Context, id string) (*catalog.Quiz, error) {
	if quiz, ok := q[id]; ok {
		return quiz, nil
	}
	return nil, core.ErrNotFound
}

func newService(repo *memRepo) *Service {
	quizzes := quizSource{
		"11111111-1111-1111-1111-111111111111": {
			ID:           "11111111-1111-1111-1111-111111111111",
			AgeLevel:     agetier.SmartKids,
			Questions:    core.NewJSONB(fourQuestions()),
			PassingScore: 70,
			IsPublished:  true,
		},
		"22222222-2222-2222-2222-222222222222": {
			ID:           "22222222-2222-2222-2222-222222222222",
			AgeLevel:     agetier.SmartKids,
			Questions:    core.NewJSONB([]catalog.Question{}),
			PassingScore: 70,
			IsPublished:  true,
		},
		"33333333-3333-3333-3333-333333333333": {
			ID:           "33333333-3333-3333-3333-333333333333",
			AgeLevel:     agetier.SmartKids,
			Questions:    core.NewJSONB(fourQuestions()),
			PassingScore: 70,
		},
		"44444444-4444-4444-4444-444444444444": {
			ID:           "44444444-4444-4444-4444-444444444444",
			AgeLevel:     agetier.FutureLeaders,
			Questions:    core.NewJSONB(fourQuestions()),
			PassingScore: 70,
			IsPublished:  true,
		},
	}
	return NewService(repo, directTx{}, quizzes, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var smartKid = Learner{ID: "u1", AgeLevel: agetier.SmartKids}

func allCorrect() []AnswerRequest {
	return []AnswerRequest{
		{QuestionID: "q1", SelectedAnswer: "yes"},
		{QuestionID: "q2", SelectedAnswer: "yes"},
		{QuestionID: "q3", SelectedAnswer: "yes"},
		{QuestionID: "q4", SelectedAnswer: "yes"},
	}
}

func TestSubmitAwardsPerfectScoreOnce(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)
	req := SubmitAttemptRequest{
		QuizID:           "11111111-1111-1111-1111-111111111111",
		Answers:          allCorrect(),
		TimeTakenSeconds: 90,
	}

	out, err := svc.Submit(context.Background(), smartKid, req)
	require.NoError(t, err)
	assert.Equal(t, 40, out.Result.Score)
	require.Len(t, out.Achievements, 1)
	assert.Equal(t, "Perfect Score!", out.Achievements[0].Title)

	out, err = svc.Submit(context.Background(), smartKid, req)
	require.NoError(t, err)
	assert.Empty(t, out.Achievements)

	assert.Equal(t, 80, repo.points["u1"])
	assert.Len(t, repo.attempts, 2)
}

func TestSubmitEmptyQuizRecordsNothing(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	_, err := svc.Submit(context.Background(), smartKid, SubmitAttemptRequest{
		QuizID: "22222222-2222-2222-2222-222222222222",
	})
	assert.ErrorIs(t, err, ErrInvalidQuiz)
	assert.Empty(t, repo.attempts)
	assert.Zero(t, repo.points["u1"])
}

func TestSubmitRejectsUnpublishedQuiz(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)

	_, err := svc.Submit(context.Background(), smartKid, SubmitAttemptRequest{
		QuizID:  "33333333-3333-3333-3333-333333333333",
		Answers: allCorrect(),
	})
	assert.ErrorIs(t, err, core.ErrNotFound)

	admin := Learner{ID: "a1", Admin: true}
	_, err = svc.Submit(context.Background(), admin, SubmitAttemptRequest{
		QuizID:  "33333333-3333-3333-3333-333333333333",
		Answers: allCorrect(),
	})
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Empty(t, repo.attempts)
	assert.Empty(t, repo.points)
}

func TestSubmitRejectsOtherTiersQuiz(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo)
	req := SubmitAttemptRequest{
		QuizID:  "44444444-4444-4444-4444-444444444444",
		Answers: allCorrect(),
	}

	_, err := svc.Submit(context.Background(), smartKid, req)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, repo.attempts)
	assert.Zero(t, repo.points["u1"])

	out, err := svc.Submit(context.Background(), Learner{ID: "a1", Admin: true}, req)
	require.NoError(t, err)
	assert.Equal(t, 40, out.Result.Score)
}

func withUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			ctx = context.WithValue(ctx, middleware.UserAgeLevelKey, string(agetier.SmartKids))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestSubmitHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(newService(newMemRepo())).RegisterRoutes(r, withUser("u1"))

	body, err := json.Marshal(SubmitAttemptRequest{
		QuizID:           "11111111-1111-1111-1111-111111111111",
		Answers:          allCorrect()[:3],
		TimeTakenSeconds: 125,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quiz-attempts", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data ResultResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2m 5s", resp.Data.TimeTaken)
	assert.Equal(t, 3, resp.Data.CorrectAnswers)
	assert.InDelta(t, 75.0, resp.Data.Attempt.Percentage, 1e-9)
	assert.True(t, resp.Data.Attempt.Passed)

	empty, err := json.Marshal(SubmitAttemptRequest{
		QuizID: "22222222-2222-2222-2222-222222222222",
	})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quiz-attempts", bytes.NewReader(empty)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_QUIZ")

	other, err := json.Marshal(SubmitAttemptRequest{
		QuizID:  "44444444-4444-4444-4444-444444444444",
		Answers: allCorrect(),
	})
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quiz-attempts", bytes.NewReader(other)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
