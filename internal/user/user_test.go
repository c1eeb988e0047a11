// AngelaMos | 2026
// user_test.go

package user

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/auth"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

type memRepo struct {
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*User{}}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok || u.IsDeleted() {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email && !u.IsDeleted() {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.Role = role
	u.TokenVersion++
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memRepo) SoftDelete(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.Role = "deleted"
	return nil
}

func (m *memRepo) List(_ context.Context, p ListUsersParams) ([]User, int, error) {
	out := []User{}
	for _, u := range m.users {
		if p.AgeLevel == "" || string(u.AgeLevel) == p.AgeLevel {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func newUser(age int) auth.NewUser {
	return auth.NewUser{
		Email:        "Kid@Example.com",
		PasswordHash: "hash",
		Name:         "Kavya",
		Age:          age,
		ParentEmail:  "Parent@Example.com",
	}
}

func TestCreateResolvesTier(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	info, err := svc.Create(context.Background(), newUser(13))
	require.NoError(t, err)

	assert.Equal(t, string(agetier.TechTeens), info.AgeLevel)
	assert.Equal(t, "kid@example.com", info.Email)

	stored := repo.users[info.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "parent@example.com", stored.ParentEmail)
	assert.NotNil(t, stored.Interests)
	assert.Equal(t, RoleUser, stored.Role)
}

func TestCreateRejectsOutOfRangeBeforeWriting(t *testing.T) {
	for _, age := range []int{0, 3, 19, 42} {
		repo := newMemRepo()
		_, err := NewService(repo).Create(context.Background(), newUser(age))

		assert.ErrorIs(t, err, agetier.ErrOutOfRangeAge, "age %d", age)
		assert.Empty(t, repo.users, "age %d", age)
	}
}

func TestUpdateAgeReresolvesTier(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	info, err := svc.Create(ctx, newUser(9))
	require.NoError(t, err)

	age := 10
	updated, err := svc.UpdateMe(ctx, info.ID, UpdateUserRequest{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, agetier.SmartKids, updated.AgeLevel)

	bad := 2
	_, err = svc.UpdateMe(ctx, info.ID, UpdateUserRequest{Age: &bad})
	require.ErrorIs(t, err, agetier.ErrOutOfRangeAge)
	assert.Equal(t, agetier.SmartKids, repo.users[info.ID].AgeLevel)
	assert.Equal(t, 10, repo.users[info.ID].Age)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	info, err := svc.Create(context.Background(), newUser(7))
	require.NoError(t, err)

	_, err = svc.UpdateUserRole(context.Background(), info.ID, "superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	u, err := svc.UpdateUserRole(context.Background(), info.ID, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, 1, u.TokenVersion)
}

func TestListUsersNormalizesAgeLevelFilter(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, newUser(5))
	require.NoError(t, err)

	users, total, err := svc.ListUsers(ctx, ListUsersParams{AgeLevel: "LITTLE_LEARNERS"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, users, 1)

	_, _, err = svc.ListUsers(ctx, ListUsersParams{AgeLevel: "TODDLERS"})
	assert.ErrorIs(t, err, agetier.ErrUnknownTier)
}

func TestCanDeleteUser(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	kid, err := svc.Create(ctx, newUser(6))
	require.NoError(t, err)

	other := newUser(8)
	other.Email = "other@example.com"
	peer, err := svc.Create(ctx, other)
	require.NoError(t, err)

	assert.NoError(t, svc.CanDeleteUser(ctx, kid.ID, kid.ID))
	assert.ErrorIs(t, svc.CanDeleteUser(ctx, kid.ID, peer.ID), core.ErrForbidden)
}

func withUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TestUpdateMeHandlerOutOfRange(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	info, err := svc.Create(context.Background(), newUser(12))
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, withUser(info.ID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPut,
		"/users/me",
		bytes.NewReader([]byte(`{"age":25}`)),
	))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "OUT_OF_RANGE_AGE")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPut,
		"/users/me",
		bytes.NewReader([]byte(`{"age":15,"school":"Royal College"}`)),
	))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"age_level":"13-15"`)
	assert.Contains(t, rec.Body.String(), `"age_level_name":"Tech Teens"`)
}
