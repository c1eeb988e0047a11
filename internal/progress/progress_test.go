// AngelaMos | 2026
// progress_test.go

package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/catalog"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
	"github.com/angelamos/tecai-kids/internal/quiz"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/user"
)

const (
	learnerID = "0b6f6f5e-8f4e-4a43-9a55-1f5b7e0c2d11"
	courseID  = "6d1f3c8e-2f7a-4b1e-9c0d-5a4e3b2c1d00"
)

type fakeRepo struct {
	board       []LeaderboardEntry
	boardCalls  int
	lastLimit   int
	upserts     []Update
	stats       Stats
	rank        int
	missingUser bool
}

func (f *fakeRepo) Upsert(_ context.Context, u Update) (*Progress, error) {
	f.upserts = append(f.upserts, u)
	return &Progress{
		UserID:             u.UserID,
		CourseID:           u.CourseID,
		CompletedLessons:   u.CompletedLessons,
		TimeSpentMinutes:   u.TimeSpentMinutes,
		ProgressPercentage: u.ProgressPercentage,
	}, nil
}

func (f *fakeRepo) ListForUser(context.Context, string) ([]Progress, error) {
	return []Progress{}, nil
}

func (f *fakeRepo) Stats(context.Context, string) (*Stats, error) {
	if f.missingUser {
		return nil, core.ErrNotFound
	}
	s := f.stats
	return &s, nil
}

func (f *fakeRepo) Leaderboard(_ context.Context, _ agetier.Level, limit int) ([]LeaderboardEntry, error) {
	f.boardCalls++
	f.lastLimit = limit
	return f.board[:min(limit, len(f.board))], nil
}

func (f *fakeRepo) Rank(context.Context, string) (int, error) {
	return f.rank, nil
}

type mapCache struct {
	data    map[string][]byte
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	if c.failGet {
		return false, errors.New("redis: connection refused")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

type fakeCatalog struct {
	content *catalog.Content
}

func (f *fakeCatalog) GetCourse(_ context.Context, id string) (*catalog.Course, error) {
	if id != courseID {
		return nil, core.ErrNotFound
	}
	return &catalog.Course{ID: id}, nil
}

func (f *fakeCatalog) VisibleContent(
	_ context.Context,
	l agetier.Level,
	_ catalog.Category,
) (*catalog.Content, error) {
	c := *f.content
	c.AgeLevel = l
	return &c, nil
}

type accounts map[string]*user.User

func (a accounts) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := a[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

type noAttempts struct{}

func (noAttempts) ListAttempts(context.Context, string, int) ([]quiz.Attempt, error) {
	return []quiz.Attempt{}, nil
}

type noSubscription struct{}

func (noSubscription) Active(context.Context, string) (*subscription.Subscription, error) {
	return nil, nil
}

func board(n int) []LeaderboardEntry {
	out := make([]LeaderboardEntry, n)
	for i := range out {
		out[i] = LeaderboardEntry{Rank: i + 1, TotalPoints: int64(1000 - i)}
	}
	return out
}

func newTestService(repo *fakeRepo, cache Cache) *Service {
	courses := make([]catalog.Course, 5)
	quizzes := make([]catalog.Quiz, 4)
	for i := range courses {
		courses[i] = catalog.Course{ID: string(rune('a' + i)), Title: "course"}
	}
	for i := range quizzes {
		quizzes[i] = catalog.Quiz{ID: string(rune('p' + i)), Title: "quiz"}
	}

	return NewService(Deps{
		Repo:  repo,
		Cache: cache,
		Accounts: accounts{learnerID: {
			ID:       learnerID,
			Name:     "Kavindu",
			Age:      9,
			AgeLevel: agetier.YoungExplorers,
		}},
		Catalog:       &fakeCatalog{content: &catalog.Content{Courses: courses, Quizzes: quizzes}},
		Attempts:      noAttempts{},
		Subscriptions: noSubscription{},
		Logger:        slog.New(slog.DiscardHandler),
	})
}

func TestLeaderboardLimits(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 10},
		{"negative", -5, 10},
		{"explicit", 25, 25},
		{"capped", 500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{board: board(150)}
			svc := newTestService(repo, nil)

			entries, err := svc.Leaderboard(context.Background(), agetier.SmartKids, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo.lastLimit)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestLeaderboardIsCached(t *testing.T) {
	repo := &fakeRepo{board: board(3)}
	cache := newMapCache()
	svc := newTestService(repo, cache)
	ctx := context.Background()

	first, err := svc.Leaderboard(ctx, agetier.TechTeens, 0)
	require.NoError(t, err)
	second, err := svc.Leaderboard(ctx, agetier.TechTeens, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.boardCalls)
	assert.Equal(t, first, second)
	assert.Contains(t, cache.data, "leaderboard:13-15:10")

	_, err = svc.Leaderboard(ctx, agetier.TechTeens, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.boardCalls)
}

func TestLeaderboardCacheFailureFallsThrough(t *testing.T) {
	repo := &fakeRepo{board: board(3)}
	cache := newMapCache()
	cache.failGet = true
	svc := newTestService(repo, cache)

	entries, err := svc.Leaderboard(context.Background(), agetier.SmartKids, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, 1, repo.boardCalls)
}

func TestLeaderboardUnknownTier(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(learnerID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard/19-21", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_TIER")
}

func TestLeaderboardAcceptsTierKey(t *testing.T) {
	repo := &fakeRepo{board: board(2)}
	svc := newTestService(repo, nil)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(learnerID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard/SMART_KIDS?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"age_level":"10-12"`)
	assert.Equal(t, 2, repo.lastLimit)
}

func TestRecordProgress(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(learnerID))

	body := `{"course_id":"` + courseID + `","completed_lessons":["l1","l2"],` +
		`"time_spent_minutes":15,"progress_percentage":40}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/progress", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, learnerID, repo.upserts[0].UserID)
	assert.Equal(t, 15, repo.upserts[0].TimeSpentMinutes)
	assert.Equal(t, []string{"l1", "l2"}, repo.upserts[0].CompletedLessons)
}

func TestRecordProgressRejects(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(learnerID))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"percentage over 100", `{"course_id":"` + courseID + `","progress_percentage":120}`, http.StatusBadRequest},
		{"negative minutes", `{"course_id":"` + courseID + `","time_spent_minutes":-1}`, http.StatusBadRequest},
		{"unknown course", `{"course_id":"2c4d0b1e-0000-4000-8000-000000000000"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/progress",
				bytes.NewBufferString(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Empty(t, repo.upserts)
}

func TestStatsForMissingUser(t *testing.T) {
	svc := newTestService(&fakeRepo{missingUser: true}, nil)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(learnerID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+courseID+"/stats", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	repo := &fakeRepo{rank: 4, stats: Stats{TotalPoints: 120, QuizzesTaken: 3}}
	svc := newTestService(repo, nil)

	d, err := svc.Dashboard(context.Background(), learnerID)
	require.NoError(t, err)

	assert.Equal(t, agetier.YoungExplorers, d.Content.AgeLevel)
	assert.Equal(t, "Young Explorers", d.Tier.Name)
	assert.Equal(t, 4, d.Rank)
	assert.Nil(t, d.Subscription)

	resp := ToDashboardResponse(d)
	assert.Len(t, resp.Recommended.Courses, 3)
	assert.Len(t, resp.Recommended.Quizzes, 3)
	assert.Equal(t, int64(120), resp.Stats.TotalPoints)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"subscription":null`)
	assert.Contains(t, string(raw), `"leaderboard_position":4`)
}

func withUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
