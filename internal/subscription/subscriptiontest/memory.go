// AngelaMos | 2026
// memory.go

// Package subscriptiontest provides an in-memory subscription repository
// for tests in packages that activate subscriptions.
package subscriptiontest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/subscription"
)

type Repository struct {
	mu         sync.Mutex
	subs       map[string]*subscription.Subscription
	deliveries map[string][]subscription.WorkbookDelivery
	// UserLinks records the last subscription linked to each user.
	UserLinks map[string]string
}

var _ subscription.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		subs:       map[string]*subscription.Subscription{},
		deliveries: map[string][]subscription.WorkbookDelivery{},
		UserLinks:  map[string]string{},
	}
}

func (m *Repository) WithTx(core.DBTX) subscription.Repository { return m }

func (m *Repository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *Repository) Create(_ context.Context, s *subscription.Subscription) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.subs {
		if existing.TransactionID == s.TransactionID {
			*s = *existing
			return false, nil
		}
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.subs[s.ID] = &cp
	return true, nil
}

func (m *Repository) GetByID(_ context.Context, id string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subs[id]
	if !ok {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *Repository) GetByTransaction(
	_ context.Context,
	transactionID string,
) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.subs {
		if s.TransactionID == transactionID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get subscription by transaction: %w", core.ErrNotFound)
}

func (m *Repository) ActiveForUser(
	_ context.Context,
	userID string,
	now time.Time,
) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *subscription.Subscription
	for _, s := range m.subs {
		if s.UserID == userID && s.IsActive(now) {
			if best == nil || s.EndDate.After(best.EndDate) {
				best = s
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("get active subscription: %w", core.ErrNotFound)
	}
	cp := *best
	return &cp, nil
}

func (m *Repository) ListForUser(
	_ context.Context,
	userID string,
) ([]subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []subscription.Subscription{}
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Repository) Cancel(
	_ context.Context,
	id string,
	at time.Time,
) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subs[id]
	if !ok {
		return nil, fmt.Errorf("cancel subscription: %w", core.ErrNotFound)
	}
	if s.Status != subscription.StatusActive {
		return nil, fmt.Errorf("cancel subscription: %w", subscription.ErrInvalidTransition)
	}
	s.Status = subscription.StatusCancelled
	s.CancelledAt = &at
	cp := *s
	return &cp, nil
}

func (m *Repository) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, s := range m.subs {
		if s.Status == subscription.StatusActive && !s.EndDate.After(now) {
			s.Status = subscription.StatusExpired
			n++
		}
	}
	return n, nil
}

func (m *Repository) SetUserSubscription(_ context.Context, userID, subscriptionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UserLinks[userID] = subscriptionID
	return nil
}

func (m *Repository) ScheduleDelivery(_ context.Context, d *subscription.WorkbookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.deliveries[d.SubscriptionID] {
		if existing.Quarter == d.Quarter && existing.Year == d.Year {
			return nil
		}
	}
	m.deliveries[d.SubscriptionID] = append(m.deliveries[d.SubscriptionID], *d)
	return nil
}

func (m *Repository) ListDeliveries(
	_ context.Context,
	subscriptionID string,
) ([]subscription.WorkbookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]subscription.WorkbookDelivery{}, m.deliveries[subscriptionID]...), nil
}

// DirectTx runs transaction bodies without a database.
type DirectTx struct{}

func (DirectTx) RunInTx(_ context.Context, fn func(core.DBTX) error) error {
	return fn(nil)
}
