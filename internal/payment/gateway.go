// AngelaMos | 2026
// gateway.go

package payment

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrUnsupportedMethod     = errors.New("unsupported payment method")
	ErrGatewayUnavailable    = errors.New("payment gateway not configured")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrMalformedWebhook      = errors.New("malformed webhook payload")
	ErrDuplicateWebhookEvent = errors.New("duplicate webhook event")
)

// GatewayError carries a provider failure. Message is the gateway's own
// text and is shown to the user verbatim.
type GatewayError struct {
	Provider string
	Message  string
	Err      error
}

func (e *GatewayError) Error() string {
	return e.Provider + ": " + e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func gatewayError(provider string, err error) error {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return err
	}
	return &GatewayError{Provider: provider, Message: err.Error(), Err: err}
}

type CheckoutRequest struct {
	// Reference is our transaction session id. Gateways that let the caller
	// choose the order id use it; Stripe issues its own.
	Reference   string
	Amount      int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
	Customer    Customer
}

type Customer struct {
	Name  string
	Email string
}

type Checkout struct {
	SessionID string
	URL       string
}

type GatewayStatus string

const (
	GatewayPaid    GatewayStatus = "paid"
	GatewayPending GatewayStatus = "pending"
	GatewayFailed  GatewayStatus = "failed"
)

type StatusResult struct {
	Status GatewayStatus
	// Raw is the provider's own status string.
	Raw string
}

// Notification is a verified webhook delivery reduced to what activation
// needs. Completed is false for events that do not settle a payment.
type Notification struct {
	Provider  string
	SessionID string
	EventType string
	Completed bool
	Failed    bool
	Payload   json.RawMessage
}

type Gateway interface {
	Provider() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	Status(ctx context.Context, sessionID string) (*StatusResult, error)
	VerifyWebhook(payload []byte, signature string) (*Notification, error)
}
