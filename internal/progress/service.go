// AngelaMos | 2026
// service.go

package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/catalog"
	"github.com/angelamos/tecai-kids/internal/quiz"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/user"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	leaderboardTTL          = 60 * time.Second
	recentAttempts          = 5
)

// Cache is satisfied by *core.Redis.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Accounts interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type Catalog interface {
	GetCourse(ctx context.Context, id string) (*catalog.Course, error)
	VisibleContent(ctx context.Context, l agetier.Level, c catalog.Category) (*catalog.Content, error)
}

type Attempts interface {
	ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error)
}

type Subscriptions interface {
	Active(ctx context.Context, userID string) (*subscription.Subscription, error)
}

type Deps struct {
	Repo          Repository
	Cache         Cache
	Accounts      Accounts
	Catalog       Catalog
	Attempts      Attempts
	Subscriptions Subscriptions
	Logger        *slog.Logger
}

type Service struct {
	repo     Repository
	cache    Cache
	accounts Accounts
	catalog  Catalog
	attempts Attempts
	subs     Subscriptions
	logger   *slog.Logger
}

// NewService builds the service. A nil Cache disables leaderboard caching.
func NewService(d Deps) *Service {
	return &Service{
		repo:     d.Repo,
		cache:    d.Cache,
		accounts: d.Accounts,
		catalog:  d.Catalog,
		attempts: d.Attempts,
		subs:     d.Subscriptions,
		logger:   d.Logger,
	}
}

func (s *Service) Record(
	ctx context.Context,
	userID string,
	req UpdateProgressRequest,
) (*Progress, error) {
	if _, err := s.catalog.GetCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	return s.repo.Upsert(ctx, Update{
		UserID:             userID,
		CourseID:           req.CourseID,
		LessonID:           req.LessonID,
		CompletedLessons:   req.CompletedLessons,
		TimeSpentMinutes:   req.TimeSpentMinutes,
		ProgressPercentage: req.ProgressPercentage,
	})
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Progress, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	return s.repo.Stats(ctx, userID)
}

func leaderboardKey(l agetier.Level, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", l, limit)
}

// Leaderboard ranks the learners of one tier by points. Results are cached
// briefly; a cache failure falls through to the database.
func (s *Service) Leaderboard(
	ctx context.Context,
	level agetier.Level,
	limit int,
) ([]LeaderboardEntry, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("leaderboard %q: %w", level, agetier.ErrUnknownTier)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	limit = min(limit, maxLeaderboardLimit)

	key := leaderboardKey(level, limit)

	if s.cache != nil {
		var cached []LeaderboardEntry
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.WarnContext(ctx, "leaderboard cache read failed", "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	entries, err := s.repo.Leaderboard(ctx, level, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, entries, leaderboardTTL); err != nil {
			s.logger.WarnContext(ctx, "leaderboard cache write failed", "error", err)
		}
	}

	return entries, nil
}

type Dashboard struct {
	User           *user.User
	Stats          *Stats
	Content        *catalog.Content
	RecentAttempts []quiz.Attempt
	Rank           int
	Subscription   *subscription.Subscription
	Tier           agetier.Info
}

func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	u, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	level, err := agetier.FromStored(string(u.AgeLevel))
	if err != nil {
		return nil, err
	}

	tier, err := agetier.Describe(level)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.catalog.VisibleContent(ctx, level, "")
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListAttempts(ctx, userID, recentAttempts)
	if err != nil {
		return nil, err
	}

	rank, err := s.repo.Rank(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.subs.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User:           u,
		Stats:          stats,
		Content:        content,
		RecentAttempts: attempts,
		Rank:           rank,
		Subscription:   sub,
		Tier:           tier,
	}, nil
}
