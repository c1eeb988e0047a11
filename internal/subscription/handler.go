// AngelaMos | 2026
// handler.go

package subscription

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/subscriptions/me", h.ListMine)
		r.Post("/subscriptions/{subscriptionID}/cancel", h.Cancel)
		r.Get("/subscriptions/{subscriptionID}/deliveries", h.Deliveries)
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	subs, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	active, err := h.service.Active(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MySubscriptionsResponse{
		Active:        ToSubscriptionResponse(active),
		Subscriptions: ToSubscriptionResponseList(subs),
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Cancel(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "subscriptionID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponse(sub))
}

func (h *Handler) Deliveries(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Deliveries(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "subscriptionID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToDeliveryResponseList(ds))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		core.JSONError(w, core.ConflictError(
			"only an active subscription can be cancelled",
			"INVALID_TRANSITION",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "subscription")
	default:
		core.InternalServerError(w, err)
	}
}
