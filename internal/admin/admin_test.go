// AngelaMos | 2026
// admin_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/middleware"
)

type fixedRepo struct {
	stats *PlatformStats
	err   error
}

func (f fixedRepo) PlatformStats(context.Context) (*PlatformStats, error) {
	return f.stats, f.err
}

func asRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, "u-1")
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(h *Handler, role string) http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r, asRole(role), middleware.RequireAdmin)
	return r
}

func TestStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Repo: fixedRepo{stats: &PlatformStats{
			UsersByTier:          map[string]int64{"7-9": 4, "13-15": 2},
			TotalUsers:           6,
			ActiveSubscriptions:  3,
			CompletedRevenue:     475000,
			CompletedPayments:    2,
			PendingBankTransfers: 1,
		}},
		DBStats:   func() sql.DBStats { return sql.DBStats{OpenConnections: 5, InUse: 2} },
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return errors.New("down") },
	})

	rec := httptest.NewRecorder()
	newRouter(h, "admin").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data StatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	p := body.Data.Platform
	assert.Equal(t, int64(6), p.TotalUsers)
	assert.Equal(t, int64(4), p.UsersByTier["7-9"])
	assert.Equal(t, int64(475000), p.CompletedRevenue)
	assert.Equal(t, int64(1), p.PendingBankTransfers)

	assert.True(t, body.Data.Database.Healthy)
	require.NotNil(t, body.Data.Database.Stats)
	assert.Equal(t, 2, body.Data.Database.Stats.InUse)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Nil(t, body.Data.Redis.Stats)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestStatsAdminOnly(t *testing.T) {
	h := NewHandler(HandlerConfig{Repo: fixedRepo{stats: &PlatformStats{}}})

	rec := httptest.NewRecorder()
	newRouter(h, "student").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStatsRepoFailure(t *testing.T) {
	h := NewHandler(HandlerConfig{Repo: fixedRepo{err: errors.New("db gone")}})

	rec := httptest.NewRecorder()
	newRouter(h, "admin").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
