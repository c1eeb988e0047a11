// AngelaMos | 2026
// midtrans.go

package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/angelamos/tecai-kids/internal/config"
	"github.com/angelamos/tecai-kids/internal/core"
)

// MidtransGateway settles the mobile wallet methods through Snap checkout
// pages.
type MidtransGateway struct {
	snap      snap.Client
	api       coreapi.Client
	serverKey string
}

// NewMidtransGateway returns nil when no server key is configured.
func NewMidtransGateway(cfg config.MidtransConfig) *MidtransGateway {
	if cfg.ServerKey == "" {
		return nil
	}

	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	g := &MidtransGateway{serverKey: cfg.ServerKey}
	g.snap.New(cfg.ServerKey, env)
	g.api.New(cfg.ServerKey, env)
	return g
}

func (g *MidtransGateway) Provider() string {
	return ProviderMidtrans
}

func snapRequest(req CheckoutRequest) *snap.Request {
	r := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Reference,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       req.Reference,
			Price:    req.Amount,
			Qty:      1,
			Name:     truncate(req.Description, 50),
			Category: "subscription",
		}},
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
	}
	if m := req.Metadata["payment_method"]; m != "" {
		r.CustomField1 = m
	}
	if lvl := req.Metadata["age_level"]; lvl != "" {
		r.CustomField2 = lvl
	}
	return r
}

func (g *MidtransGateway) CreateCheckout(
	ctx context.Context,
	req CheckoutRequest,
) (*Checkout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, mErr := g.snap.CreateTransaction(snapRequest(req))
	if mErr != nil {
		return nil, &GatewayError{
			Provider: ProviderMidtrans,
			Message:  mErr.Message,
			Err:      mErr,
		}
	}

	return &Checkout{SessionID: req.Reference, URL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) Status(ctx context.Context, sessionID string) (*StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, mErr := g.api.CheckTransaction(sessionID)
	if mErr != nil {
		return nil, &GatewayError{
			Provider: ProviderMidtrans,
			Message:  mErr.Message,
			Err:      mErr,
		}
	}

	return &StatusResult{
		Status: midtransStatus(resp.TransactionStatus, resp.FraudStatus),
		Raw:    resp.TransactionStatus,
	}, nil
}

func midtransStatus(transactionStatus, fraudStatus string) GatewayStatus {
	switch transactionStatus {
	case "settlement":
		return GatewayPaid
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return GatewayPaid
		}
		return GatewayPending
	case "deny", "cancel", "expire", "failure":
		return GatewayFailed
	}
	return GatewayPending
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// MidtransSignature is SHA-512 over order id, status code, gross amount
// and the server key.
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	return core.SHA512Hex(orderID, statusCode, grossAmount, serverKey)
}

// VerifyWebhook checks the signature carried in the body. The signature
// argument is unused; Midtrans sends no signature header.
func (g *MidtransGateway) VerifyWebhook(payload []byte, _ string) (*Notification, error) {
	var notif midtransNotification
	if err := json.Unmarshal(payload, &notif); err != nil {
		return nil, fmt.Errorf("midtrans webhook: %w: %w", ErrMalformedWebhook, err)
	}

	want := MidtransSignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, g.serverKey)
	if !core.EqualDigest(want, notif.SignatureKey) {
		return nil, fmt.Errorf("midtrans webhook: %w", ErrInvalidSignature)
	}

	status := midtransStatus(notif.TransactionStatus, notif.FraudStatus)

	return &Notification{
		Provider:  ProviderMidtrans,
		SessionID: notif.OrderID,
		EventType: notif.TransactionStatus,
		Completed: status == GatewayPaid,
		Failed:    status == GatewayFailed,
		Payload:   payload,
	}, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
