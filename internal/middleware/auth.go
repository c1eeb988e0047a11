// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
)

type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	UserRoleKey     contextKey = "user_role"
	UserAgeLevelKey contextKey = "user_age_level"
	ClaimsKey       contextKey = "jwt_claims"
)

const roleAdmin = "admin"

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

// AccessTokenClaims is the learner identity an access token carries.
type AccessTokenClaims struct {
	ID           string
	UserID       string
	Role         string
	AgeLevel     string
	TokenVersion int
	ExpiresAt    time.Time
}

// Authenticator rejects requests without a valid bearer token.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				core.JSONError(w, core.UnauthorizedError("missing authorization token"))
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, authError(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches the learner when the token verifies and otherwise
// serves the request anonymously.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if claims, err := verifier.VerifyAccessToken(r.Context(), token); err == nil {
					r = r.WithContext(withIdentity(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case !IsAuthenticated(r.Context()):
			core.JSONError(w, core.UnauthorizedError("authentication required"))
		case !IsAdmin(r.Context()):
			core.JSONError(w, core.ForbiddenError("insufficient permissions"))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireTier admits learners whose token tier is one of levels. Admins
// always pass.
func RequireTier(message string, levels ...agetier.Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if IsAdmin(ctx) || slices.Contains(levels, GetUserAgeLevel(ctx)) {
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.ForbiddenError(message))
		})
	}
}

var RequireTeen = RequireTier(
	"available to ages 13-18 only",
	agetier.TechTeens,
	agetier.FutureLeaders,
)

func withIdentity(ctx context.Context, c *AccessTokenClaims) context.Context {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("user.id", c.UserID),
		attribute.String("user.age_level", c.AgeLevel),
	)

	ctx = context.WithValue(ctx, UserIDKey, c.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, c.Role)
	ctx = context.WithValue(ctx, UserAgeLevelKey, c.AgeLevel)
	return context.WithValue(ctx, ClaimsKey, c)
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func authError(err error) error {
	var appErr *core.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	}
	return core.TokenInvalidError()
}

func value[T any](ctx context.Context, key contextKey) T {
	v, _ := ctx.Value(key).(T)
	return v
}

func GetUserID(ctx context.Context) string { return value[string](ctx, UserIDKey) }

func GetUserRole(ctx context.Context) string { return value[string](ctx, UserRoleKey) }

// GetUserAgeLevel returns the tier carried by the access token. It is
// refreshed on every token rotation.
func GetUserAgeLevel(ctx context.Context) agetier.Level {
	return agetier.Level(value[string](ctx, UserAgeLevelKey))
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	return value[*AccessTokenClaims](ctx, ClaimsKey)
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == roleAdmin
}
