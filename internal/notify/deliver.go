// AngelaMos | 2026
// deliver.go

package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrNoRecipient = errors.New("message has no recipient")

const sendTimeout = 10 * time.Second

// Deliver sends msg and logs a failure instead of returning it. The send is
// not cancelled when the caller's request ends.
func Deliver(ctx context.Context, m Mailer, logger *slog.Logger, msg Message) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := m.Send(sendCtx, msg); err != nil {
		logger.WarnContext(ctx, "mail delivery failed",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
	}
}
