// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/payment"
	"github.com/angelamos/tecai-kids/internal/subscription"
)

type PlatformStats struct {
	UsersByTier          map[string]int64
	TotalUsers           int64
	ActiveSubscriptions  int64
	CompletedRevenue     int64
	CompletedPayments    int64
	PendingBankTransfers int64
}

type Repository interface {
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var tiers []struct {
		AgeLevel string `db:"age_level"`
		Count    int64  `db:"count"`
	}
	err := r.db.SelectContext(ctx, &tiers, `
		SELECT age_level, COUNT(*) AS count
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY age_level`)
	if err != nil {
		return nil, fmt.Errorf("count users by tier: %w", err)
	}

	stats := &PlatformStats{UsersByTier: make(map[string]int64, len(tiers))}
	for _, t := range tiers {
		stats.UsersByTier[t.AgeLevel] = t.Count
		stats.TotalUsers += t.Count
	}

	var totals struct {
		Active   int64 `db:"active"`
		Revenue  int64 `db:"revenue"`
		Payments int64 `db:"payments"`
		Pending  int64 `db:"pending"`
	}
	err = r.db.GetContext(ctx, &totals, `
		SELECT
			(SELECT COUNT(*) FROM subscriptions
			 WHERE status = $1 AND end_date > NOW()) AS active,
			(SELECT COALESCE(SUM(amount), 0) FROM payment_transactions
			 WHERE status = $2) AS revenue,
			(SELECT COUNT(*) FROM payment_transactions
			 WHERE status = $2) AS payments,
			(SELECT COUNT(*) FROM payment_transactions
			 WHERE method = $3 AND status = $4) AS pending`,
		subscription.StatusActive,
		payment.StatusCompleted,
		payment.MethodBankTransfer,
		payment.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("platform totals: %w", err)
	}

	stats.ActiveSubscriptions = totals.Active
	stats.CompletedRevenue = totals.Revenue
	stats.CompletedPayments = totals.Payments
	stats.PendingBankTransfers = totals.Pending

	return stats, nil
}
