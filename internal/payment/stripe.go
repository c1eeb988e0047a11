// AngelaMos | 2026
// stripe.go

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/angelamos/tecai-kids/internal/config"
)

// LKR is a two decimal currency on Stripe; amounts are kept in whole rupees.
const stripeMinorUnits = 100

type StripeGateway struct {
	sc            *client.API
	webhookSecret string
}

// NewStripeGateway returns nil when no secret key is configured.
func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	if cfg.SecretKey == "" {
		return nil
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	return &StripeGateway{
		sc:            sc,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (g *StripeGateway) Provider() string {
	return ProviderStripe
}

func checkoutParams(req CheckoutRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(req.Currency)),
				UnitAmount: stripe.Int64(req.Amount * stripeMinorUnits),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Description),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		Metadata: req.Metadata,
	}
	if req.Customer.Email != "" {
		params.CustomerEmail = stripe.String(req.Customer.Email)
	}
	return params
}

func (g *StripeGateway) CreateCheckout(
	ctx context.Context,
	req CheckoutRequest,
) (*Checkout, error) {
	params := checkoutParams(req)
	params.Context = ctx

	sess, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeError(err)
	}

	return &Checkout{SessionID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) Status(ctx context.Context, sessionID string) (*StatusResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, stripeError(err)
	}

	return &StatusResult{
		Status: stripeSessionStatus(sess),
		Raw:    string(sess.PaymentStatus),
	}, nil
}

func stripeSessionStatus(sess *stripe.CheckoutSession) GatewayStatus {
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return GatewayPaid
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		return GatewayFailed
	}
	return GatewayPending
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*Notification, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook: %w", ErrGatewayUnavailable)
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("stripe webhook: %w: %w", ErrInvalidSignature, err)
	}

	n := &Notification{
		Provider:  ProviderStripe,
		EventType: string(event.Type),
		Payload:   payload,
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionAsyncPaymentFailed,
		stripe.EventTypeCheckoutSessionExpired:
	default:
		return n, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe webhook: decode session: %w: %w", ErrMalformedWebhook, err)
	}
	n.SessionID = sess.ID

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		// Delayed methods complete the session before the money arrives.
		n.Completed = sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
	case stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		n.Completed = true
	default:
		n.Failed = true
	}

	return n, nil
}

func stripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &GatewayError{Provider: ProviderStripe, Message: se.Msg, Err: err}
	}
	return gatewayError(ProviderStripe, err)
}
