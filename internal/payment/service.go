// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/tecai-kids/internal/agetier"
	"github.com/angelamos/tecai-kids/internal/config"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/notify"
	"github.com/angelamos/tecai-kids/internal/subscription"
	"github.com/angelamos/tecai-kids/internal/user"
)

const (
	statusRetryDelay   = 300 * time.Millisecond
	deferredBatchSize  = 50
	defaultListLimit   = 20
	checkoutSessionTag = "{CHECKOUT_SESSION_ID}"
)

type Activator interface {
	ActivateTx(
		ctx context.Context,
		db core.DBTX,
		in subscription.Activation,
	) (*subscription.Subscription, bool, error)
	ForTransaction(ctx context.Context, transactionID string) (*subscription.Subscription, error)
}

type Accounts interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type ServiceConfig struct {
	Repo          Repository
	Tx            core.Transactor
	Subscriptions Activator
	Accounts      Accounts
	Gateways      []Gateway
	Mailer        notify.Mailer
	Payment       config.PaymentConfig
	Bank          config.BankConfig
	Logger        *slog.Logger
}

type Service struct {
	repo       Repository
	tx         core.Transactor
	subs       Activator
	accounts   Accounts
	gateways   map[string]Gateway
	mailer     notify.Mailer
	cfg        config.PaymentConfig
	bank       config.BankConfig
	logger     *slog.Logger
	now        func() time.Time
	retryDelay time.Duration
}

func NewService(cfg ServiceConfig) *Service {
	gateways := make(map[string]Gateway, len(cfg.Gateways))
	for _, g := range cfg.Gateways {
		gateways[g.Provider()] = g
	}

	return &Service{
		repo:       cfg.Repo,
		tx:         cfg.Tx,
		subs:       cfg.Subscriptions,
		accounts:   cfg.Accounts,
		gateways:   gateways,
		mailer:     cfg.Mailer,
		cfg:        cfg.Payment,
		bank:       cfg.Bank,
		logger:     cfg.Logger,
		now:        time.Now,
		retryDelay: statusRetryDelay,
	}
}

type CreateResult struct {
	Transaction *Transaction
	PaymentURL  string
	BankDetails *BankDetails
	Message     string
}

// Create opens a payment for the caller's own tier. The amount always comes
// from the pricing plan; a gateway failure is never retried.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	method Method,
	req CreatePaymentRequest,
) (*CreateResult, error) {
	ctx, span := core.StartSpan(ctx, "payment.create",
		attribute.String("payment.method", string(method)),
	)
	defer span.End()

	u, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	level, err := agetier.FromStored(string(u.AgeLevel))
	if err != nil {
		return nil, err
	}

	cycle, err := agetier.ParseCycle(req.SubscriptionType)
	if err != nil {
		return nil, err
	}

	plan, err := agetier.PlanFor(level)
	if err != nil {
		return nil, err
	}

	amount, err := plan.Charge(cycle, req.IncludePhysicalMaterials)
	if err != nil {
		return nil, err
	}

	txn := &Transaction{
		ID:              uuid.New().String(),
		UserID:          userID,
		Amount:          amount,
		Currency:        plan.Currency,
		Method:          method,
		Status:          StatusPending,
		Cycle:           cycle,
		AgeLevel:        level,
		Physical:        req.IncludePhysicalMaterials,
		DeliveryAddress: req.DeliveryAddress,
	}
	txn.SessionID = txn.ID

	metadata := map[string]string{
		"user_id":                    userID,
		"age_level":                  string(level),
		"subscription_type":          string(cycle),
		"payment_method":             string(method),
		"include_physical_materials": strconv.FormatBool(req.IncludePhysicalMaterials),
	}

	if method == MethodBankTransfer {
		return s.createBankTransfer(ctx, u, txn, metadata)
	}

	gw, ok := s.gateways[method.Provider()]
	if !ok {
		return nil, fmt.Errorf("create payment %s: %w", method, ErrGatewayUnavailable)
	}

	txn.Metadata = core.NewJSONB(metadata)
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, err
	}

	// Stripe fills in its own session id on redirect.
	returnSession := txn.ID
	if method == MethodStripe {
		returnSession = checkoutSessionTag
	}

	checkout, err := gw.CreateCheckout(ctx, CheckoutRequest{
		Reference:   txn.ID,
		Amount:      amount,
		Currency:    plan.Currency,
		Description: fmt.Sprintf("%s %s subscription", plan.Name, cycle),
		SuccessURL:  s.cfg.PublicBaseURL + "/payment-success?session_id=" + returnSession,
		CancelURL:   s.cfg.PublicBaseURL + "/payment-cancel",
		Metadata:    metadata,
		Customer:    Customer{Name: u.Name, Email: u.ParentEmail},
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		gErr := gatewayError(gw.Provider(), err)

		var ge *GatewayError
		errors.As(gErr, &ge)
		if mErr := s.repo.MarkFailed(ctx, txn.ID, ge.Message); mErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark transaction failed",
				"transaction_id", txn.ID,
				"error", mErr,
			)
		}

		s.logger.WarnContext(ctx, "checkout creation failed",
			"transaction_id", txn.ID,
			"provider", gw.Provider(),
			"error", ge.Message,
		)
		return nil, gErr
	}

	if checkout.SessionID != "" && checkout.SessionID != txn.SessionID {
		if err := s.repo.SetSession(ctx, txn.ID, checkout.SessionID); err != nil {
			return nil, err
		}
		txn.SessionID = checkout.SessionID
	}

	s.logger.InfoContext(ctx, "payment session created",
		"transaction_id", txn.ID,
		"session_id", txn.SessionID,
		"method", method,
		"amount", amount,
	)

	return &CreateResult{
		Transaction: txn,
		PaymentURL:  checkout.URL,
		Message:     "Payment session created successfully",
	}, nil
}

func (s *Service) createBankTransfer(
	ctx context.Context,
	u *user.User,
	txn *Transaction,
	metadata map[string]string,
) (*CreateResult, error) {
	ref := BankReference(s.now(), u.ID)
	txn.SessionID = ref
	txn.BankReference = &ref
	metadata["bank_reference"] = ref
	txn.Metadata = core.NewJSONB(metadata)

	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, err
	}

	details := bankDetails(s.bank, ref, txn.Amount, txn.Currency)
	notify.Deliver(ctx, s.mailer, s.logger, bankInstructionsMail(u, details))

	s.logger.InfoContext(ctx, "bank transfer created",
		"transaction_id", txn.ID,
		"reference", ref,
		"amount", txn.Amount,
	)

	return &CreateResult{
		Transaction: txn,
		BankDetails: &details,
		Message:     "Bank transfer details generated successfully",
	}, nil
}

type StatusView struct {
	Transaction   *Transaction
	PaymentStatus string
	Subscription  *subscription.Subscription
}

// Status reports a payment and settles it when the gateway says it is paid.
// The gateway is asked at most twice.
func (s *Service) Status(ctx context.Context, userID, sessionID string) (*StatusView, error) {
	ctx, span := core.StartSpan(ctx, "payment.status")
	defer span.End()

	txn, err := s.repo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("get transaction: %w", core.ErrNotFound)
	}

	view := &StatusView{Transaction: txn, PaymentStatus: string(txn.Status)}

	if txn.Status == StatusCompleted {
		sub, err := s.subs.ForTransaction(ctx, txn.ID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		view.Subscription = sub
		return view, nil
	}

	gw, ok := s.gateways[txn.Method.Provider()]
	if !txn.Status.Open() || !ok {
		return view, nil
	}

	res, err := s.statusWithRetry(ctx, gw, sessionID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, gatewayError(gw.Provider(), err)
	}
	view.PaymentStatus = res.Raw

	switch res.Status {
	case GatewayPaid:
		sub, err := s.settle(ctx, txn)
		if err != nil {
			return nil, err
		}
		txn.Status = StatusCompleted
		view.Subscription = sub
	case GatewayFailed:
		if err := s.repo.MarkFailed(ctx, txn.ID, res.Raw); err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		txn.Status = StatusFailed
	}

	return view, nil
}

func (s *Service) statusWithRetry(
	ctx context.Context,
	gw Gateway,
	sessionID string,
) (*StatusResult, error) {
	res, err := gw.Status(ctx, sessionID)
	if err == nil {
		return res, nil
	}

	s.logger.WarnContext(ctx, "payment status check failed, retrying",
		"provider", gw.Provider(),
		"session_id", sessionID,
		"error", err,
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.retryDelay):
	}

	return gw.Status(ctx, sessionID)
}

// settle completes txn and activates its subscription in one transaction.
// It is safe to call any number of times for the same transaction.
func (s *Service) settle(ctx context.Context, txn *Transaction) (*subscription.Subscription, error) {
	var (
		sub     *subscription.Subscription
		created bool
	)

	err := s.tx.RunInTx(ctx, func(db core.DBTX) error {
		repo := s.repo.WithTx(db)

		changed, err := repo.Complete(ctx, txn.ID)
		if err != nil {
			return err
		}
		if !changed {
			cur, err := repo.GetByID(ctx, txn.ID)
			if err != nil {
				return err
			}
			if cur.Status != StatusCompleted {
				return fmt.Errorf("settle transaction %s: status %s: %w",
					txn.ID, cur.Status, core.ErrConflict)
			}
		}

		sub, created, err = s.subs.ActivateTx(ctx, db, subscription.Activation{
			UserID:          txn.UserID,
			TransactionID:   txn.ID,
			AgeLevel:        txn.AgeLevel,
			Cycle:           txn.Cycle,
			Amount:          txn.Amount,
			Physical:        txn.Physical,
			DeliveryAddress: txn.DeliveryAddress,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.sendReceipt(ctx, txn, sub)
	}

	return sub, nil
}

func (s *Service) sendReceipt(
	ctx context.Context,
	txn *Transaction,
	sub *subscription.Subscription,
) {
	u, err := s.accounts.GetUser(ctx, txn.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "receipt not sent",
			"transaction_id", txn.ID,
			"error", err,
		)
		return
	}
	notify.Deliver(ctx, s.mailer, s.logger, receiptMail(u, txn, sub))
}

// HandleWebhook verifies and records a gateway notification, then settles
// the payment. Once the event is recorded it never fails: an activation
// error leaves the event deferred for the next sweep.
func (s *Service) HandleWebhook(
	ctx context.Context,
	provider string,
	payload []byte,
	signature string,
) error {
	ctx, span := core.StartSpan(ctx, "payment.webhook",
		attribute.String("payment.provider", provider),
	)
	defer span.End()

	gw, ok := s.gateways[provider]
	if !ok {
		return fmt.Errorf("webhook %s: %w", provider, ErrGatewayUnavailable)
	}

	n, err := gw.VerifyWebhook(payload, signature)
	if err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	if n.Failed {
		s.failFromWebhook(ctx, n)
		return nil
	}
	if !n.Completed {
		s.logger.DebugContext(ctx, "webhook event ignored",
			"provider", provider,
			"event_type", n.EventType,
		)
		return nil
	}

	event := &WebhookEvent{
		ID:        uuid.New().String(),
		Provider:  provider,
		SessionID: n.SessionID,
		EventType: n.EventType,
		Payload:   core.NewJSONB(n.Payload),
		Status:    EventReceived,
	}

	if err := s.repo.RecordEvent(ctx, event); err != nil {
		if errors.Is(err, ErrDuplicateWebhookEvent) {
			s.logger.InfoContext(ctx, "duplicate webhook event ignored",
				"provider", provider,
				"session_id", n.SessionID,
				"event_type", n.EventType,
			)
		}
		return err
	}

	core.AddSpanEvent(ctx, "webhook.recorded",
		attribute.String("payment.session_id", n.SessionID),
	)

	s.process(ctx, event)
	return nil
}

func (s *Service) process(ctx context.Context, event *WebhookEvent) {
	err := s.settleSession(ctx, event.SessionID)
	if err == nil {
		if err := s.repo.SetEventStatus(ctx, event.ID, EventProcessed, nil); err != nil {
			s.logger.ErrorContext(ctx, "failed to mark webhook event processed",
				"event_id", event.ID,
				"error", err,
			)
		}
		return
	}

	msg := err.Error()
	if sErr := s.repo.SetEventStatus(ctx, event.ID, EventDeferred, &msg); sErr != nil {
		s.logger.ErrorContext(ctx, "failed to mark webhook event deferred",
			"event_id", event.ID,
			"error", sErr,
		)
	}

	s.logger.WarnContext(ctx, "subscription activation deferred",
		"event_id", event.ID,
		"provider", event.Provider,
		"session_id", event.SessionID,
		"error", err,
	)
	core.ReportError(err, map[string]any{
		"event_id":   event.ID,
		"session_id": event.SessionID,
	})
}

func (s *Service) settleSession(ctx context.Context, sessionID string) error {
	txn, err := s.repo.GetBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	_, err = s.settle(ctx, txn)
	return err
}

func (s *Service) failFromWebhook(ctx context.Context, n *Notification) {
	txn, err := s.repo.GetBySession(ctx, n.SessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "failure webhook for unknown session",
			"provider", n.Provider,
			"session_id", n.SessionID,
		)
		return
	}

	err = s.repo.MarkFailed(ctx, txn.ID, n.EventType)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to mark transaction failed",
			"transaction_id", txn.ID,
			"error", err,
		)
		return
	}

	s.logger.InfoContext(ctx, "payment failed",
		"transaction_id", txn.ID,
		"event_type", n.EventType,
	)
}

// ReprocessDeferred retries activation for events left deferred.
func (s *Service) ReprocessDeferred(ctx context.Context) error {
	events, err := s.repo.ListDeferredEvents(ctx, deferredBatchSize)
	if err != nil {
		return err
	}

	for i := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.process(ctx, &events[i])
	}

	return nil
}

// Confirm settles a bank transfer once an admin has matched the deposit.
func (s *Service) Confirm(
	ctx context.Context,
	adminID, transactionID string,
) (*Transaction, *subscription.Subscription, error) {
	txn, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	if txn.Method != MethodBankTransfer {
		return nil, nil, fmt.Errorf("confirm %s payment: %w", txn.Method, core.ErrInvalidInput)
	}
	if !txn.Status.Open() {
		return nil, nil, fmt.Errorf("confirm transaction in status %s: %w", txn.Status, core.ErrConflict)
	}

	sub, err := s.settle(ctx, txn)
	if err != nil {
		return nil, nil, err
	}
	txn.Status = StatusCompleted

	s.logger.InfoContext(ctx, "bank transfer confirmed",
		"transaction_id", txn.ID,
		"admin_id", adminID,
		"subscription_id", sub.ID,
	)

	return txn, sub, nil
}

func (s *Service) ListMine(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Transaction, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = defaultListLimit
	}
	return s.repo.List(ctx, params)
}
