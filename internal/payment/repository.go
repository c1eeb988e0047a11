// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	WithTx(db core.DBTX) Repository
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetBySession(ctx context.Context, sessionID string) (*Transaction, error)
	SetSession(ctx context.Context, id, sessionID string) error
	MarkFailed(ctx context.Context, id, message string) error
	Complete(ctx context.Context, id string) (bool, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]Transaction, error)
	List(ctx context.Context, params ListParams) ([]Transaction, int, error)
	RecordEvent(ctx context.Context, e *WebhookEvent) error
	SetEventStatus(ctx context.Context, id string, status EventStatus, errMsg *string) error
	ListDeferredEvents(ctx context.Context, limit int) ([]WebhookEvent, error)
}

type ListParams struct {
	Status   Status
	Method   Method
	Page     int
	PageSize int
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

const transactionColumns = `
	id, user_id, session_id, amount, currency, method, status, cycle,
	age_level, physical, delivery_address, bank_reference, gateway_message,
	metadata, created_at, updated_at`

func (r *repository) Create(ctx context.Context, t *Transaction) error {
	query := `
		INSERT INTO payment_transactions (id, user_id, session_id, amount,
			currency, method, status, cycle, age_level, physical,
			delivery_address, bank_reference, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		t.ID,
		t.UserID,
		t.SessionID,
		t.Amount,
		t.Currency,
		t.Method,
		t.Status,
		t.Cycle,
		t.AgeLevel,
		t.Physical,
		t.DeliveryAddress,
		t.BankReference,
		t.Metadata,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create transaction: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}

func (r *repository) get(ctx context.Context, op, where string, arg any) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE ` + where

	var t Transaction
	err := r.db.GetContext(ctx, &t, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &t, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	return r.get(ctx, "get transaction", "id = $1", id)
}

func (r *repository) GetBySession(ctx context.Context, sessionID string) (*Transaction, error) {
	return r.get(ctx, "get transaction by session", "session_id = $1", sessionID)
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetSession(ctx context.Context, id, sessionID string) error {
	return r.execOne(ctx, "set transaction session", `
		UPDATE payment_transactions
		SET session_id = $2, updated_at = NOW()
		WHERE id = $1`,
		id, sessionID,
	)
}

func (r *repository) MarkFailed(ctx context.Context, id, message string) error {
	return r.execOne(ctx, "fail transaction", `
		UPDATE payment_transactions
		SET status = 'failed', gateway_message = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'processing')`,
		id, message,
	)
}

// Complete marks an open transaction completed. It reports false when the
// transaction was already completed, so concurrent deliveries settle once.
func (r *repository) Complete(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE payment_transactions
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'processing')`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("complete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete transaction: %w", err)
	}

	return rows == 1, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM payment_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	out := []Transaction{}
	if err := r.db.SelectContext(ctx, &out, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return out, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Transaction, int, error) {
	where := `WHERE ($1 = '' OR status = $1) AND ($2 = '' OR method = $2)`

	var total int
	countQuery := `SELECT COUNT(*) FROM payment_transactions ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, params.Status, params.Method); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM payment_transactions ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	offset := (params.Page - 1) * params.PageSize
	out := []Transaction{}
	err := r.db.SelectContext(ctx, &out, query,
		params.Status,
		params.Method,
		params.PageSize,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	return out, total, nil
}

// RecordEvent stores the first delivery for (provider, session_id). Any
// later delivery is ErrDuplicateWebhookEvent.
func (r *repository) RecordEvent(ctx context.Context, e *WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (id, provider, session_id, event_type,
			payload, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, session_id) DO NOTHING
		RETURNING received_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID,
		e.Provider,
		e.SessionID,
		e.EventType,
		e.Payload,
		e.Status,
	).Scan(&e.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record webhook event: %w", ErrDuplicateWebhookEvent)
	}
	if err != nil {
		return fmt.Errorf("record webhook event: %w", err)
	}

	return nil
}

func (r *repository) SetEventStatus(
	ctx context.Context,
	id string,
	status EventStatus,
	errMsg *string,
) error {
	return r.execOne(ctx, "set webhook event status", `
		UPDATE webhook_events
		SET status = $2, error = $3
		WHERE id = $1`,
		id, status, errMsg,
	)
}

func (r *repository) ListDeferredEvents(ctx context.Context, limit int) ([]WebhookEvent, error) {
	query := `
		SELECT id, provider, session_id, event_type, payload, status, error,
		       received_at
		FROM webhook_events
		WHERE status = 'deferred'
		ORDER BY received_at
		LIMIT $1`

	out := []WebhookEvent{}
	if err := r.db.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, fmt.Errorf("list deferred webhook events: %w", err)
	}

	return out, nil
}
