// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/tecai-kids/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Rotate(ctx context.Context, usedID string, next *RefreshToken) error
	Revoke(ctx context.Context, scope RevokeScope, value string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const tokenColumns = `id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

func tokenArgs(t *RefreshToken) []any {
	return []any{
		t.ID,
		t.UserID,
		t.TokenHash,
		t.FamilyID,
		t.ExpiresAt,
		t.UserAgent,
		t.IPAddress,
	}
}

func (r *repository) Create(ctx context.Context, t *RefreshToken) error {
	err := r.db.GetContext(ctx, &t.CreatedAt, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, family_id, expires_at,
			user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`, tokenArgs(t)...)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	var t RefreshToken
	err := r.db.GetContext(ctx, &t,
		`SELECT `+tokenColumns+` FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &t, nil
}

// Rotate marks usedID as spent and stores next in its place in a single
// statement. If usedID was already spent or revoked nothing is written and
// core.ErrConflict is returned, so two racing refreshes cannot both win.
func (r *repository) Rotate(ctx context.Context, usedID string, next *RefreshToken) error {
	args := append(tokenArgs(next), usedID)

	err := r.db.GetContext(ctx, &next.CreatedAt, `
		WITH spent AS (
			UPDATE refresh_tokens
			SET is_used = TRUE, used_at = NOW(), replaced_by_id = $1
			WHERE id = $8 AND NOT is_used AND revoked_at IS NULL
			RETURNING id
		)
		INSERT INTO refresh_tokens (id, user_id, token_hash, family_id, expires_at,
			user_agent, ip_address)
		SELECT $1, $2, $3, $4, $5, $6, $7 FROM spent
		RETURNING created_at`, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("rotate refresh token: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}

	return nil
}

func (r *repository) Revoke(ctx context.Context, scope RevokeScope, value string) (int64, error) {
	switch scope {
	case RevokeToken, RevokeFamily, RevokeUser:
	default:
		return 0, fmt.Errorf("revoke by %q: %w", scope, core.ErrInvalidInput)
	}

	//nolint:gosec // column comes from the closed RevokeScope set
	query := `UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE ` + string(scope) + ` = $1 AND revoked_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens by %s: %w", scope, err)
	}

	return result.RowsAffected()
}

// DeleteExpired removes tokens that expired before the cutoff. Spent tokens
// are kept until then so reuse is still recognised.
func (r *repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return result.RowsAffected()
}
