// AngelaMos | 2026
// auth_test.go

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/config"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: map[string]*RefreshToken{}}
}

func (m *memTokens) Create(_ context.Context, t *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = time.Now()
	cp := *t
	m.tokens[t.ID] = &cp
	return nil
}

func (m *memTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memTokens) Rotate(_ context.Context, usedID string, next *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.tokens[usedID]
	if !ok || old.IsUsed || old.RevokedAt != nil {
		return core.ErrConflict
	}
	now := time.Now()
	old.IsUsed = true
	old.UsedAt = &now
	old.ReplacedByID = &next.ID
	next.CreatedAt = now
	cp := *next
	m.tokens[next.ID] = &cp
	return nil
}

func (m *memTokens) Revoke(_ context.Context, scope RevokeScope, value string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for _, t := range m.tokens {
		var field string
		switch scope {
		case RevokeToken:
			field = t.ID
		case RevokeFamily:
			field = t.FamilyID
		case RevokeUser:
			field = t.UserID
		}
		if field == value && t.RevokedAt == nil {
			t.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *memTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(before) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*UserInfo
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (m *memUsers) Create(ctx context.Context, in NewUser) (*UserInfo, error) {
	level, err := agetier.Resolve(in.Age)
	if err != nil {
		return nil, err
	}
	if _, err := m.GetByEmail(ctx, in.Email); err == nil {
		return nil, core.ErrDuplicateKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u := &UserInfo{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(in.Email),
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         "user",
		Age:          in.Age,
		AgeLevel:     string(level),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) IncrementTokenVersion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TokenVersion++
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].PasswordHash = hash
	return nil
}

type memBlacklist map[string]time.Time

func (b memBlacklist) Revoke(_ context.Context, jti string, exp time.Time) error {
	b[jti] = exp
	return nil
}

func (b memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := b[jti]
	return ok, nil
}

type fixture struct {
	svc    *Service
	tokens *memTokens
	users  *memUsers
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	pem, err := GenerateSigningKey()
	require.NoError(t, err)

	jwtManager, err := NewJWTManagerFromPEM(pem, config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "tecai-kids",
		Audience:           "tecai-kids-api",
	})
	require.NoError(t, err)

	tokens := newMemTokens()
	users := &memUsers{users: map[string]*UserInfo{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return fixture{
		svc:    NewService(tokens, jwtManager, users, memBlacklist{}, logger),
		tokens: tokens,
		users:  users,
	}
}

func registerRequest(age int) RegisterRequest {
	return RegisterRequest{
		Email:       "kid@example.com",
		Password:    "correct-horse",
		Name:        "Nimal",
		Age:         age,
		ParentEmail: "parent@example.com",
	}
}

func TestRegisterCarriesAgeLevelIntoToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerRequest(11), "test", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, string(agetier.SmartKids), resp.User.AgeLevel)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "10-12", claims.AgeLevel)
	assert.NotEmpty(t, claims.ID)
}

func TestRegisterRejectsOutOfRangeAge(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), registerRequest(19), "", "")
	require.ErrorIs(t, err, agetier.ErrOutOfRangeAge)
	assert.Empty(t, f.users.users)
	assert.Empty(t, f.tokens.tokens)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerRequest(8), "", "")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "kid@example.com", Password: "wrong-password"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever1"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.svc.Login(ctx, LoginRequest{Email: "KID@example.com", Password: "correct-horse"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "7-9", resp.User.AgeLevel)
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, registerRequest(14), "", "")
	require.NoError(t, err)

	second, err := f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	require.ErrorIs(t, err, ErrTokenReuse)

	_, err = f.svc.Refresh(ctx, second.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerRequest(16), "", "")
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, resp.Tokens.RefreshToken, claims))

	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, resp.Tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestTokenVersionBumpRevokesAccessTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerRequest(5), "", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.LogoutAll(ctx, resp.User.ID))

	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyAccessToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRegisterHandlerOutOfRangeAge(t *testing.T) {
	f := newFixture(t)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.svc))

	tests := []struct {
		name   string
		age    int
		status int
		code   string
	}{
		{name: "too young", age: 3, status: http.StatusBadRequest, code: "OUT_OF_RANGE_AGE"},
		{name: "too old", age: 19, status: http.StatusBadRequest, code: "OUT_OF_RANGE_AGE"},
		{name: "in range", age: 4, status: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(registerRequest(tt.age))
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body)))

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Contains(t, rec.Body.String(), tt.code)
			}
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	f := newFixture(t)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.svc))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp, err := f.svc.Register(context.Background(), registerRequest(12), "", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Tokens.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"age_level":"10-12"`)
}

func TestTokenState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token RefreshToken
		want  TokenState
	}{
		{"active", RefreshToken{ExpiresAt: now.Add(time.Hour)}, TokenActive},
		{"expired at boundary", RefreshToken{ExpiresAt: now}, TokenExpired},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, TokenRevoked},
		{
			"used beats revoked",
			RefreshToken{ExpiresAt: now.Add(-time.Hour), IsUsed: true, RevokedAt: &revoked},
			TokenUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.State(now))
		})
	}
}

func TestPurgeExpiredKeepsRecentTokens(t *testing.T) {
	repo := newMemTokens()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &RefreshToken{ID: "old", ExpiresAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &RefreshToken{ID: "recent", ExpiresAt: time.Now().Add(-time.Hour)}))

	svc := &Service{repo: repo}
	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, repo.tokens, "recent")
}

func TestRotateRejectsSpentToken(t *testing.T) {
	repo := newMemTokens()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &RefreshToken{ID: "a", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Rotate(ctx, "a", &RefreshToken{ID: "b"}))
	assert.ErrorIs(t, repo.Rotate(ctx, "a", &RefreshToken{ID: "c"}), core.ErrConflict)
	assert.NotContains(t, repo.tokens, "c")
}

func TestKeyIDStableForSameKey(t *testing.T) {
	pem, err := GenerateSigningKey()
	require.NoError(t, err)

	cfg := config.JWTConfig{Issuer: "tecai-kids", Audience: "tecai-kids-api"}
	a, err := NewJWTManagerFromPEM(pem, cfg)
	require.NoError(t, err)
	b, err := NewJWTManagerFromPEM(pem, cfg)
	require.NoError(t, err)

	assert.Len(t, a.KeyID(), keyIDLength)
	assert.Equal(t, a.KeyID(), b.KeyID())

	rec := httptest.NewRecorder()
	a.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.Keys, 1)
	assert.Equal(t, a.KeyID(), set.Keys[0]["kid"])
	assert.NotContains(t, set.Keys[0], "d")
}
