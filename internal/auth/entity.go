// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

type TokenState int

const (
	TokenActive TokenState = iota
	TokenUsed
	TokenRevoked
	TokenExpired
)

// RefreshToken is one link in a rotation family. Only its hash is stored.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

// State reports whether t can still be exchanged at now. A used token wins
// over every other state so reuse is always detected.
func (t *RefreshToken) State(now time.Time) TokenState {
	switch {
	case t.IsUsed:
		return TokenUsed
	case t.RevokedAt != nil:
		return TokenRevoked
	case !now.Before(t.ExpiresAt):
		return TokenExpired
	}
	return TokenActive
}

// RevokeScope selects which refresh tokens a revoke reaches.
type RevokeScope string

const (
	RevokeToken  RevokeScope = "id"
	RevokeFamily RevokeScope = "family_id"
	RevokeUser   RevokeScope = "user_id"
)
