// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"
)

type SubscriptionResponse struct {
	ID                       string     `json:"id"`
	AgeLevel                 string     `json:"age_level"`
	AgeLevelName             string     `json:"age_level_name"`
	SubscriptionType         string     `json:"subscription_type"`
	Status                   string     `json:"status"`
	Amount                   int64      `json:"amount"`
	IncludePhysicalMaterials bool       `json:"include_physical_materials"`
	DeliveryAddress          *string    `json:"delivery_address,omitempty"`
	StartDate                time.Time  `json:"start_date"`
	EndDate                  time.Time  `json:"end_date"`
	NextBillingDate          time.Time  `json:"next_billing_date"`
	CancelledAt              *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
}

type MySubscriptionsResponse struct {
	Active        *SubscriptionResponse  `json:"active"`
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

type DeliveryResponse struct {
	ID              string    `json:"id"`
	Quarter         string    `json:"quarter"`
	Year            int       `json:"year"`
	Status          string    `json:"status"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	DeliveryAddress string    `json:"delivery_address"`
}

func ToSubscriptionResponse(s *Subscription) *SubscriptionResponse {
	if s == nil {
		return nil
	}
	return &SubscriptionResponse{
		ID:                       s.ID,
		AgeLevel:                 string(s.AgeLevel),
		AgeLevelName:             s.AgeLevel.Name(),
		SubscriptionType:         string(s.Cycle),
		Status:                   string(s.Status),
		Amount:                   s.Amount,
		IncludePhysicalMaterials: s.Physical,
		DeliveryAddress:          s.DeliveryAddress,
		StartDate:                s.StartDate,
		EndDate:                  s.EndDate,
		NextBillingDate:          s.NextBillingDate,
		CancelledAt:              s.CancelledAt,
		CreatedAt:                s.CreatedAt,
	}
}

func ToSubscriptionResponseList(subs []Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		out[i] = *ToSubscriptionResponse(&subs[i])
	}
	return out
}

func ToDeliveryResponseList(ds []WorkbookDelivery) []DeliveryResponse {
	out := make([]DeliveryResponse, len(ds))
	for i, d := range ds {
		out[i] = DeliveryResponse{
			ID:              d.ID,
			Quarter:         d.Quarter,
			Year:            d.Year,
			Status:          string(d.Status),
			ScheduledDate:   d.ScheduledDate,
			DeliveryAddress: d.DeliveryAddress,
		}
	}
	return out
}
