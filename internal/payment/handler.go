// AngelaMos | 2026
// handler.go

package payment

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
	"github.com/angelamos/tecai-kids/internal/subscription"
)

const maxWebhookBody = 64 << 10

type Handler struct {
	service   *Service
	validator *validator.Validate
	logger    *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Post("/webhook/stripe", h.StripeWebhook)
	r.Post("/webhook/midtrans", h.MidtransWebhook)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/payments/me", h.ListMine)
		r.Get("/payments/status/{sessionID}", h.Status)
		r.Post("/payments/{method}", h.Create)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/payments", h.List)
		r.Post("/admin/payments/{transactionID}/confirm", h.Confirm)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	method, err := ParseMethod(chi.URLParam(r, "method"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		method,
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, toCreateResponse(res))
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Status(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "sessionID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, toStatusResponse(view))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	txns, err := h.service.ListMine(
		r.Context(),
		middleware.GetUserID(r.Context()),
		min(limit, 100),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToTransactionResponseList(txns))
}

func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	h.webhook(w, r, ProviderStripe, r.Header.Get("Stripe-Signature"))
}

func (h *Handler) MidtransWebhook(w http.ResponseWriter, r *http.Request) {
	h.webhook(w, r, ProviderMidtrans, "")
}

// webhook answers 200 for every delivery that was verified, duplicates
// included, so the gateway stops retrying.
func (h *Handler) webhook(
	w http.ResponseWriter,
	r *http.Request,
	provider, signature string,
) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		core.BadRequest(w, "invalid webhook body")
		return
	}

	err = h.service.HandleWebhook(r.Context(), provider, payload, signature)
	switch {
	case err == nil:
		core.OK(w, map[string]string{"status": "success"})
	case errors.Is(err, ErrDuplicateWebhookEvent):
		core.OK(w, map[string]string{"status": "duplicate"})
	case errors.Is(err, ErrInvalidSignature):
		h.logger.WarnContext(r.Context(), "webhook rejected",
			"provider", provider,
			"error", err,
		)
		core.JSONError(w, core.NewAppError(
			err,
			"invalid webhook signature",
			http.StatusBadRequest,
			"INVALID_SIGNATURE",
		))
	case errors.Is(err, ErrMalformedWebhook):
		core.JSONError(w, core.NewAppError(
			err,
			"malformed webhook payload",
			http.StatusBadRequest,
			"INVALID_WEBHOOK",
		))
	default:
		writeError(w, err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	params := ListParams{
		Status:   Status(q.Get("status")),
		Method:   Method(q.Get("method")),
		Page:     max(page, 1),
		PageSize: pageSize,
	}

	txns, total, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = defaultListLimit
	}
	core.Paginated(w, ToTransactionResponseList(txns), params.Page, params.PageSize, total)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	txn, sub, err := h.service.Confirm(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "transactionID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ConfirmResponse{
		Transaction:  ToTransactionResponse(txn),
		Subscription: subscription.ToSubscriptionResponse(sub),
	})
}

func writeError(w http.ResponseWriter, err error) {
	var ge *GatewayError
	switch {
	case errors.As(err, &ge):
		core.JSONError(w, core.NewAppError(
			err,
			ge.Message,
			http.StatusBadGateway,
			"PAYMENT_GATEWAY_ERROR",
		))
	case errors.Is(err, ErrUnsupportedMethod):
		core.JSONError(w, core.NewAppError(
			err,
			"unsupported payment method",
			http.StatusBadRequest,
			"UNSUPPORTED_METHOD",
		))
	case errors.Is(err, ErrGatewayUnavailable):
		core.JSONError(w, core.NewAppError(
			err,
			"this payment method is not available right now",
			http.StatusServiceUnavailable,
			"GATEWAY_UNAVAILABLE",
		))
	case errors.Is(err, agetier.ErrUnknownTier):
		core.JSONError(w, core.NewAppError(
			err,
			"account has no valid age level",
			http.StatusBadRequest,
			"UNKNOWN_TIER",
		))
	case errors.Is(err, agetier.ErrUnknownCycle):
		core.BadRequest(w, "subscription_type must be monthly or quarterly")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.ConflictError(
			"a payment with this reference already exists, try again",
			"DUPLICATE_PAYMENT",
		))
	case errors.Is(err, core.ErrConflict):
		core.JSONError(w, core.ConflictError(
			"transaction is not awaiting payment",
			"INVALID_TRANSITION",
		))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "only bank transfers can be confirmed manually")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "transaction")
	default:
		core.InternalServerError(w, err)
	}
}
