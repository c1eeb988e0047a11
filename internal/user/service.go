// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/auth"
	"github.com/angelamos/tecai-kids/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID and GetByEmail serve the auth package, which only needs the
// credential fields.
func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	return infoOf(s.repo.GetByID(ctx, id))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	return infoOf(s.repo.GetByEmail(ctx, strings.ToLower(email)))
}

func infoOf(u *User, err error) (*auth.UserInfo, error) {
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

// Create resolves the learner's tier from age before anything is written;
// an out-of-range age never reaches the database.
func (s *Service) Create(
	ctx context.Context,
	in auth.NewUser,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(in.Email),
		PasswordHash: in.PasswordHash,
		Name:         in.Name,
		ParentEmail:  strings.ToLower(in.ParentEmail),
		StudentEmail: in.StudentEmail,
		Phone:        in.Phone,
		School:       in.School,
		Grade:        in.Grade,
		Interests:    core.TextArray(in.Interests),
		CareerGoals:  core.TextArray(in.CareerGoals),
		Avatar:       in.Avatar,
		Role:         RoleUser,
	}

	if err := user.SetAge(in.Age); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return infoOf(user, s.repo.Create(ctx, user))
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies a partial profile edit. Changing age re-resolves the
// tier in the same write.
func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Age != nil && *req.Age != user.Age {
		if err := user.SetAge(*req.Age); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	if req.ParentEmail != nil {
		lowered := strings.ToLower(*req.ParentEmail)
		req.ParentEmail = &lowered
	}

	patch(&user.Name, req.Name)
	patch(&user.ParentEmail, req.ParentEmail)
	patchPtr(&user.StudentEmail, req.StudentEmail)
	patchPtr(&user.Phone, req.Phone)
	patchPtr(&user.School, req.School)
	patchPtr(&user.Grade, req.Grade)
	patchPtr(&user.Avatar, req.Avatar)
	if req.Interests != nil {
		user.Interests = req.Interests
	}
	if req.CareerGoals != nil {
		user.CareerGoals = req.CareerGoals
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func patch[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func patchPtr[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf("update role %q: %w", role, core.ErrInvalidInput)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.AgeLevel != "" {
		level, err := agetier.Parse(params.AgeLevel)
		if err != nil {
			return nil, 0, err
		}
		params.AgeLevel = string(level)
	}

	return s.repo.List(ctx, params)
}

func requireSelf(op, userID string) error {
	if userID == "" {
		return fmt.Errorf("%s: %w", op, core.ErrUnauthorized)
	}
	return nil
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if err := requireSelf("get me", userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(ctx context.Context, userID string, req UpdateUserRequest) (*User, error) {
	if err := requireSelf("update me", userID); err != nil {
		return nil, err
	}
	return s.UpdateUser(ctx, userID, req)
}

func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	if err := requireSelf("delete me", userID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, userID)
}

// CanDeleteUser lets learners delete themselves and admins delete any
// non-admin account.
func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Age:          u.Age,
		AgeLevel:     string(u.AgeLevel),
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
