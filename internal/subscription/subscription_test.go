// AngelaMos | 2026
// subscription_test.go

package subscription_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/subscription/subscriptiontest"
)

var fixedNow = time.Date(2026, time.February, 10, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*subscription.Service, *subscriptiontest.Repository) {
	t.Helper()
	repo := subscriptiontest.NewRepository()
	svc := subscription.NewService(repo, subscriptiontest.DirectTx{}, slog.New(slog.DiscardHandler))
	svc.SetNow(func() time.Time { return fixedNow })
	return svc, repo
}

func activation(txID string, cycle agetier.Cycle, physical bool) subscription.Activation {
	return subscription.Activation{
		UserID:        "user-1",
		TransactionID: txID,
		AgeLevel:      agetier.SmartKids,
		Cycle:         cycle,
		Amount:        3250,
		Physical:      physical,
	}
}

func TestNextQuarter(t *testing.T) {
	tests := []struct {
		at      time.Time
		quarter string
		year    int
		month   time.Month
	}{
		{time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "Q2", 2026, time.April},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "Q3", 2026, time.July},
		{time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC), "Q4", 2026, time.October},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), "Q1", 2027, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.at.Format("2006-01-02"), func(t *testing.T) {
			q, y, start := subscription.NextQuarter(tt.at)
			assert.Equal(t, tt.quarter, q)
			assert.Equal(t, tt.year, y)
			assert.Equal(t, tt.month, start.Month())
			assert.Equal(t, 1, start.Day())
		})
	}
}

func TestActivateComputesPeriod(t *testing.T) {
	tests := []struct {
		cycle agetier.Cycle
		days  int
	}{
		{agetier.Monthly, 30},
		{agetier.Quarterly, 90},
	}

	for _, tt := range tests {
		t.Run(string(tt.cycle), func(t *testing.T) {
			svc, repo := newService(t)

			sub, created, err := svc.ActivateTx(context.Background(), nil, activation("tx-"+string(tt.cycle), tt.cycle, false))
			require.NoError(t, err)
			assert.True(t, created)

			assert.Equal(t, subscription.StatusActive, sub.Status)
			assert.Equal(t, fixedNow, sub.StartDate)
			assert.Equal(t, fixedNow.AddDate(0, 0, tt.days), sub.EndDate)
			assert.Equal(t, sub.EndDate, sub.NextBillingDate)
			assert.Equal(t, sub.ID, repo.UserLinks["user-1"])

			ds, err := repo.ListDeliveries(context.Background(), sub.ID)
			require.NoError(t, err)
			assert.Empty(t, ds)
		})
	}
}

func TestActivateQuarterlyPhysicalSchedulesWorkbook(t *testing.T) {
	svc, repo := newService(t)

	sub, _, err := svc.ActivateTx(context.Background(), nil, activation("tx-1", agetier.Quarterly, true))
	require.NoError(t, err)

	ds, err := repo.ListDeliveries(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, ds, 1)

	assert.Equal(t, "Q2", ds[0].Quarter)
	assert.Equal(t, 2026, ds[0].Year)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), ds[0].ScheduledDate)
	assert.Equal(t, subscription.DeliveryScheduled, ds[0].Status)
	assert.Equal(t, "Address to be provided", ds[0].DeliveryAddress)
}

func TestActivateMonthlyPhysicalSchedulesNothing(t *testing.T) {
	svc, repo := newService(t)

	sub, _, err := svc.ActivateTx(context.Background(), nil, activation("tx-1", agetier.Monthly, true))
	require.NoError(t, err)

	ds, err := repo.ListDeliveries(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestActivateIsIdempotentPerTransaction(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	first, created, err := svc.ActivateTx(ctx, nil, activation("tx-1", agetier.Monthly, false))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.ActivateTx(ctx, nil, activation("tx-1", agetier.Monthly, false))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.Count())
}

func TestActivateRejectsBadInput(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	in := activation("tx-1", agetier.Monthly, false)
	in.AgeLevel = "19-21"
	_, _, err := svc.ActivateTx(ctx, nil, in)
	assert.ErrorIs(t, err, agetier.ErrUnknownTier)

	in = activation("tx-1", "yearly", false)
	_, _, err = svc.ActivateTx(ctx, nil, in)
	assert.ErrorIs(t, err, agetier.ErrUnknownCycle)

	in = activation("", agetier.Monthly, false)
	_, _, err = svc.ActivateTx(ctx, nil, in)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	assert.Zero(t, repo.Count())
}

func TestCancelTransitions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sub, _, err := svc.ActivateTx(ctx, nil, activation("tx-1", agetier.Monthly, false))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, "someone-else", sub.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	cancelled, err := svc.Cancel(ctx, "user-1", sub.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = svc.Cancel(ctx, "user-1", sub.ID)
	assert.ErrorIs(t, err, subscription.ErrInvalidTransition)

	active, err := svc.Active(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestExpireDue(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sub, _, err := svc.ActivateTx(ctx, nil, activation("tx-1", agetier.Monthly, false))
	require.NoError(t, err)

	n, err := svc.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	svc.SetNow(func() time.Time { return sub.EndDate.Add(time.Minute) })

	n, err = svc.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Cancel(ctx, "user-1", sub.ID)
	assert.ErrorIs(t, err, subscription.ErrInvalidTransition)
}

func withUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestHandlerCancelTwiceConflicts(t *testing.T) {
	svc, _ := newService(t)

	sub, _, err := svc.ActivateTx(context.Background(), nil, activation("tx-1", agetier.Quarterly, true))
	require.NoError(t, err)

	r := chi.NewRouter()
	subscription.NewHandler(svc).RegisterRoutes(r, withUser("user-1"))

	cancel := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(
			http.MethodPost, "/subscriptions/"+sub.ID+"/cancel", nil))
		return rec
	}

	rec := cancel()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)

	rec = cancel()
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/subscriptions/"+sub.ID+"/deliveries", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quarter":"Q2"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subscriptions/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":null`)
}
