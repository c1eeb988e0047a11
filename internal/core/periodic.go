// AngelaMos | 2026
// periodic.go

package core

import (
	"context"
	"log/slog"
	"time"
)

// RunEvery calls fn once per interval until ctx is done. Failures are logged
// and reported; the loop keeps going.
func RunEvery(
	ctx context.Context,
	name string,
	interval time.Duration,
	logger *slog.Logger,
	fn func(context.Context) error,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logger.ErrorContext(ctx, "periodic job failed",
					"job", name,
					"error", err,
				)
				ReportError(err, map[string]any{"job": name})
			}
		}
	}
}
