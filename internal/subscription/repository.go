// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	WithTx(db core.DBTX) Repository
	Create(ctx context.Context, s *Subscription) (bool, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	GetByTransaction(ctx context.Context, transactionID string) (*Subscription, error)
	ActiveForUser(ctx context.Context, userID string, now time.Time) (*Subscription, error)
	ListForUser(ctx context.Context, userID string) ([]Subscription, error)
	Cancel(ctx context.Context, id string, at time.Time) (*Subscription, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	SetUserSubscription(ctx context.Context, userID, subscriptionID string) error
	ScheduleDelivery(ctx context.Context, d *WorkbookDelivery) error
	ListDeliveries(ctx context.Context, subscriptionID string) ([]WorkbookDelivery, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(db core.DBTX) Repository {
	return &repository{db: db}
}

const subscriptionColumns = `
	id, user_id, transaction_id, age_level, cycle, status, amount, physical,
	delivery_address, start_date, end_date, next_billing_date, cancelled_at,
	created_at, updated_at`

// Create inserts s unless a subscription already exists for its
// transaction. It reports whether a row was written; on conflict s is
// replaced with the stored subscription.
func (r *repository) Create(ctx context.Context, s *Subscription) (bool, error) {
	query := `
		INSERT INTO subscriptions (id, user_id, transaction_id, age_level, cycle,
			status, amount, physical, delivery_address, start_date, end_date,
			next_billing_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (transaction_id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.UserID,
		s.TransactionID,
		s.AgeLevel,
		s.Cycle,
		s.Status,
		s.Amount,
		s.Physical,
		s.DeliveryAddress,
		s.StartDate,
		s.EndDate,
		s.NextBillingDate,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		existing, err := r.GetByTransaction(ctx, s.TransactionID)
		if err != nil {
			return false, err
		}
		*s = *existing
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create subscription: %w", err)
	}

	return true, nil
}

func (r *repository) get(ctx context.Context, op, where string, args ...any) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE ` + where

	var s Subscription
	err := r.db.GetContext(ctx, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	return r.get(ctx, "get subscription", "id = $1", id)
}

func (r *repository) GetByTransaction(
	ctx context.Context,
	transactionID string,
) (*Subscription, error) {
	return r.get(ctx, "get subscription by transaction", "transaction_id = $1", transactionID)
}

func (r *repository) ActiveForUser(
	ctx context.Context,
	userID string,
	now time.Time,
) (*Subscription, error) {
	return r.get(ctx, "get active subscription",
		`user_id = $1 AND status = 'active' AND end_date > $2
		 ORDER BY end_date DESC LIMIT 1`,
		userID, now,
	)
}

func (r *repository) ListForUser(ctx context.Context, userID string) ([]Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	subs := []Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return subs, nil
}

// Cancel moves an active subscription to cancelled in one conditional
// update. Any other current status is ErrInvalidTransition.
func (r *repository) Cancel(ctx context.Context, id string, at time.Time) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = 'cancelled', cancelled_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + subscriptionColumns

	var s Subscription
	err := r.db.GetContext(ctx, &s, query, id, at)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("cancel subscription: %w", err)
		}
		return nil, fmt.Errorf("cancel subscription: %w", ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}

	return &s, nil
}

func (r *repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date <= $1`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}

	return result.RowsAffected()
}

func (r *repository) SetUserSubscription(ctx context.Context, userID, subscriptionID string) error {
	query := `
		UPDATE users
		SET subscription_id = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID, subscriptionID)
	if err != nil {
		return fmt.Errorf("link subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("link subscription: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("link subscription: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ScheduleDelivery(ctx context.Context, d *WorkbookDelivery) error {
	query := `
		INSERT INTO workbook_deliveries (id, subscription_id, user_id, quarter,
			year, status, scheduled_date, delivery_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subscription_id, quarter, year) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.SubscriptionID,
		d.UserID,
		d.Quarter,
		d.Year,
		d.Status,
		d.ScheduledDate,
		d.DeliveryAddress,
	)
	if err != nil {
		return fmt.Errorf("schedule workbook delivery: %w", err)
	}

	return nil
}

func (r *repository) ListDeliveries(
	ctx context.Context,
	subscriptionID string,
) ([]WorkbookDelivery, error) {
	query := `
		SELECT id, subscription_id, user_id, quarter, year, status,
		       scheduled_date, delivery_address, created_at
		FROM workbook_deliveries
		WHERE subscription_id = $1
		ORDER BY scheduled_date`

	out := []WorkbookDelivery{}
	if err := r.db.SelectContext(ctx, &out, query, subscriptionID); err != nil {
		return nil, fmt.Errorf("list workbook deliveries: %w", err)
	}

	return out, nil
}
