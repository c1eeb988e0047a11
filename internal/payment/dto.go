// AngelaMos | 2026
// dto.go

package payment

import (
	"time"

	"github.com/angelamos/tecai-kids/internal/subscription"
)

// CreatePaymentRequest carries no amount; the price is looked up from the
// caller's tier.
type CreatePaymentRequest struct {
	SubscriptionType         string  `json:"subscription_type"          validate:"required,oneof=monthly quarterly"`
	IncludePhysicalMaterials bool    `json:"include_physical_materials"`
	DeliveryAddress          *string `json:"delivery_address,omitempty" validate:"omitempty,max=500"`
}

type CreatePaymentResponse struct {
	TransactionID string       `json:"transaction_id"`
	SessionID     string       `json:"session_id"`
	PaymentURL    string       `json:"payment_url,omitempty"`
	BankDetails   *BankDetails `json:"bank_details,omitempty"`
	Amount        int64        `json:"amount"`
	Currency      string       `json:"currency"`
	Method        string       `json:"payment_method"`
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
}

type TransactionResponse struct {
	ID                       string    `json:"id"`
	UserID                   string    `json:"user_id"`
	SessionID                string    `json:"session_id"`
	Amount                   int64     `json:"amount"`
	Currency                 string    `json:"currency"`
	Method                   string    `json:"payment_method"`
	Status                   string    `json:"payment_status"`
	SubscriptionType         string    `json:"subscription_type"`
	AgeLevel                 string    `json:"age_level"`
	IncludePhysicalMaterials bool      `json:"include_physical_materials"`
	BankReference            *string   `json:"bank_reference,omitempty"`
	GatewayMessage           *string   `json:"gateway_message,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

type StatusResponse struct {
	SessionID     string                             `json:"session_id"`
	TransactionID string                             `json:"transaction_id"`
	Status        string                             `json:"status"`
	PaymentStatus string                             `json:"payment_status"`
	Amount        int64                              `json:"amount"`
	Currency      string                             `json:"currency"`
	Method        string                             `json:"payment_method"`
	Subscription  *subscription.SubscriptionResponse `json:"subscription,omitempty"`
}

type ConfirmResponse struct {
	Transaction  TransactionResponse                `json:"transaction"`
	Subscription *subscription.SubscriptionResponse `json:"subscription"`
}

func ToTransactionResponse(t *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                       t.ID,
		UserID:                   t.UserID,
		SessionID:                t.SessionID,
		Amount:                   t.Amount,
		Currency:                 t.Currency,
		Method:                   string(t.Method),
		Status:                   string(t.Status),
		SubscriptionType:         string(t.Cycle),
		AgeLevel:                 string(t.AgeLevel),
		IncludePhysicalMaterials: t.Physical,
		BankReference:            t.BankReference,
		GatewayMessage:           t.GatewayMessage,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}

func ToTransactionResponseList(ts []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i := range ts {
		out[i] = ToTransactionResponse(&ts[i])
	}
	return out
}

func toCreateResponse(r *CreateResult) CreatePaymentResponse {
	return CreatePaymentResponse{
		TransactionID: r.Transaction.ID,
		SessionID:     r.Transaction.SessionID,
		PaymentURL:    r.PaymentURL,
		BankDetails:   r.BankDetails,
		Amount:        r.Transaction.Amount,
		Currency:      r.Transaction.Currency,
		Method:        string(r.Transaction.Method),
		Success:       true,
		Message:       r.Message,
	}
}

func toStatusResponse(v *StatusView) StatusResponse {
	return StatusResponse{
		SessionID:     v.Transaction.SessionID,
		TransactionID: v.Transaction.ID,
		Status:        string(v.Transaction.Status),
		PaymentStatus: v.PaymentStatus,
		Amount:        v.Transaction.Amount,
		Currency:      v.Transaction.Currency,
		Method:        string(v.Transaction.Method),
		Subscription:  subscription.ToSubscriptionResponse(v.Subscription),
	}
}
