// AngelaMos | 2026
// entity.go

package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/tecai-kids/internal/agetier"
)

var ErrInvalidTransition = errors.New("invalid subscription status transition")

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

type Subscription struct {
	ID              string        `db:"id"`
	UserID          string        `db:"user_id"`
	TransactionID   string        `db:"transaction_id"`
	AgeLevel        agetier.Level `db:"age_level"`
	Cycle           agetier.Cycle `db:"cycle"`
	Status          Status        `db:"status"`
	Amount          int64         `db:"amount"`
	Physical        bool          `db:"physical"`
	DeliveryAddress *string       `db:"delivery_address"`
	StartDate       time.Time     `db:"start_date"`
	EndDate         time.Time     `db:"end_date"`
	NextBillingDate time.Time     `db:"next_billing_date"`
	CancelledAt     *time.Time    `db:"cancelled_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == StatusActive && now.Before(s.EndDate)
}

type DeliveryStatus string

const (
	DeliveryScheduled DeliveryStatus = "scheduled"
	DeliveryShipped   DeliveryStatus = "shipped"
	DeliveryDelivered DeliveryStatus = "delivered"
)

type WorkbookDelivery struct {
	ID              string         `db:"id"`
	SubscriptionID  string         `db:"subscription_id"`
	UserID          string         `db:"user_id"`
	Quarter         string         `db:"quarter"`
	Year            int            `db:"year"`
	Status          DeliveryStatus `db:"status"`
	ScheduledDate   time.Time      `db:"scheduled_date"`
	DeliveryAddress string         `db:"delivery_address"`
	CreatedAt       time.Time      `db:"created_at"`
}

// Activation is everything a completed payment contributes to a new
// subscription.
type Activation struct {
	UserID          string
	TransactionID   string
	AgeLevel        agetier.Level
	Cycle           agetier.Cycle
	Amount          int64
	Physical        bool
	DeliveryAddress *string
}

// Period returns the paid window starting at start.
func Period(c agetier.Cycle, start time.Time) (end time.Time) {
	return start.AddDate(0, 0, c.Days())
}

// NextQuarter returns the label, year and first day of the calendar quarter
// after the one containing t.
func NextQuarter(t time.Time) (string, int, time.Time) {
	q := (int(t.Month())-1)/3 + 1
	year := t.Year()
	next := q + 1
	if next > 4 {
		next = 1
		year++
	}
	start := time.Date(year, time.Month((next-1)*3+1), 1, 0, 0, 0, 0, t.Location())
	return fmt.Sprintf("Q%d", next), year, start
}
