// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
)

const defaultDeliveryAddress = "Address to be provided"

type Service struct {
	repo   Repository
	tx     core.Transactor
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, tx core.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
		now:    time.Now,
	}
}

// ActivateTx creates the subscription inside the caller's transaction. A
// second call for the same transaction returns the existing subscription
// and false.
func (s *Service) ActivateTx(
	ctx context.Context,
	db core.DBTX,
	in Activation,
) (*Subscription, bool, error) {
	if in.UserID == "" || in.TransactionID == "" {
		return nil, false, fmt.Errorf("activate subscription: %w", core.ErrInvalidInput)
	}
	if !in.AgeLevel.Valid() {
		return nil, false, fmt.Errorf("activate subscription: %w", agetier.ErrUnknownTier)
	}
	if _, err := agetier.ParseCycle(string(in.Cycle)); err != nil {
		return nil, false, err
	}

	repo := s.repo.WithTx(db)
	start := s.now().UTC()
	end := Period(in.Cycle, start)

	sub := &Subscription{
		ID:              uuid.New().String(),
		UserID:          in.UserID,
		TransactionID:   in.TransactionID,
		AgeLevel:        in.AgeLevel,
		Cycle:           in.Cycle,
		Status:          StatusActive,
		Amount:          in.Amount,
		Physical:        in.Physical,
		DeliveryAddress: in.DeliveryAddress,
		StartDate:       start,
		EndDate:         end,
		NextBillingDate: end,
	}

	created, err := repo.Create(ctx, sub)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return sub, false, nil
	}

	if err := repo.SetUserSubscription(ctx, sub.UserID, sub.ID); err != nil {
		return nil, false, err
	}

	if sub.Cycle == agetier.Quarterly && sub.Physical {
		quarter, year, date := NextQuarter(start)
		address := defaultDeliveryAddress
		if sub.DeliveryAddress != nil && *sub.DeliveryAddress != "" {
			address = *sub.DeliveryAddress
		}

		err := repo.ScheduleDelivery(ctx, &WorkbookDelivery{
			ID:              uuid.New().String(),
			SubscriptionID:  sub.ID,
			UserID:          sub.UserID,
			Quarter:         quarter,
			Year:            year,
			Status:          DeliveryScheduled,
			ScheduledDate:   date,
			DeliveryAddress: address,
		})
		if err != nil {
			return nil, false, err
		}
	}

	s.logger.InfoContext(ctx, "subscription activated",
		"subscription_id", sub.ID,
		"user_id", sub.UserID,
		"transaction_id", sub.TransactionID,
		"cycle", sub.Cycle,
		"end_date", sub.EndDate,
	)

	return sub, true, nil
}

// owned loads a subscription and hides it from anyone but its owner.
func (s *Service) owned(ctx context.Context, userID, id string) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	return sub, nil
}

func (s *Service) Cancel(ctx context.Context, userID, id string) (*Subscription, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	sub, err := s.repo.Cancel(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "subscription cancelled",
		"subscription_id", sub.ID,
		"user_id", userID,
	)

	return sub, nil
}

// Active returns the caller's current subscription or nil when there is
// none.
func (s *Service) Active(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.repo.ActiveForUser(ctx, userID, s.now().UTC())
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Subscription, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ForTransaction returns the subscription a settled transaction activated.
func (s *Service) ForTransaction(ctx context.Context, transactionID string) (*Subscription, error) {
	return s.repo.GetByTransaction(ctx, transactionID)
}

func (s *Service) Deliveries(
	ctx context.Context,
	userID, id string,
) ([]WorkbookDelivery, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.ListDeliveries(ctx, id)
}

// ExpireDue moves every active subscription whose end date has passed to
// expired.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireDue(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "subscriptions expired", "count", n)
	}
	return n, nil
}
