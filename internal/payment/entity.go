// AngelaMos | 2026
// entity.go

package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
)

type Method string

const (
	MethodStripe       Method = "stripe"
	MethodBankTransfer Method = "bank_transfer"
	MethodEzCash       Method = "ezcash"
	MethodMCash        Method = "mcash"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodStripe, MethodBankTransfer, MethodEzCash, MethodMCash:
		return Method(s), nil
	}
	return "", fmt.Errorf("payment method %q: %w", s, ErrUnsupportedMethod)
}

// Provider names the gateway that settles payments for m. Bank transfers
// have none.
func (m Method) Provider() string {
	switch m {
	case MethodStripe:
		return ProviderStripe
	case MethodEzCash, MethodMCash:
		return ProviderMidtrans
	}
	return ""
}

const (
	ProviderStripe   = "stripe"
	ProviderMidtrans = "midtrans"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

func (s Status) Open() bool {
	return s == StatusPending || s == StatusProcessing
}

type Transaction struct {
	ID              string                        `db:"id"`
	UserID          string                        `db:"user_id"`
	SessionID       string                        `db:"session_id"`
	Amount          int64                         `db:"amount"`
	Currency        string                        `db:"currency"`
	Method          Method                        `db:"method"`
	Status          Status                        `db:"status"`
	Cycle           agetier.Cycle                 `db:"cycle"`
	AgeLevel        agetier.Level                 `db:"age_level"`
	Physical        bool                          `db:"physical"`
	DeliveryAddress *string                       `db:"delivery_address"`
	BankReference   *string                       `db:"bank_reference"`
	GatewayMessage  *string                       `db:"gateway_message"`
	Metadata        core.JSONB[map[string]string] `db:"metadata"`
	CreatedAt       time.Time                     `db:"created_at"`
	UpdatedAt       time.Time                     `db:"updated_at"`
}

type EventStatus string

const (
	EventReceived  EventStatus = "received"
	EventProcessed EventStatus = "processed"
	EventDeferred  EventStatus = "deferred"
)

// WebhookEvent is the durable record of one gateway notification. Only one
// is kept per (provider, session_id).
type WebhookEvent struct {
	ID         string                      `db:"id"`
	Provider   string                      `db:"provider"`
	SessionID  string                      `db:"session_id"`
	EventType  string                      `db:"event_type"`
	Payload    core.JSONB[json.RawMessage] `db:"payload"`
	Status     EventStatus                 `db:"status"`
	Error      *string                     `db:"error"`
	ReceivedAt time.Time                   `db:"received_at"`
}
