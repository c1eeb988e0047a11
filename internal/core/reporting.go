// AngelaMos | 2026
// reporting.go

package core

import (
	"sync/atomic"

	"github.com/rollbar/rollbar-go"

	"github.com/angelamos/tecai-kids/internal/config"
)

var reportingEnabled atomic.Bool

func InitErrorReporting(cfg config.RollbarConfig, app config.AppConfig) {
	if cfg.Token == "" {
		rollbar.SetEnabled(false)
		return
	}

	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(app.Environment)
	rollbar.SetCodeVersion(app.Version)
	rollbar.SetEnabled(true)
	reportingEnabled.Store(true)
}

// ReportError forwards unexpected failures to Rollbar. It is a no-op until
// InitErrorReporting has been called with a token.
func ReportError(err error, extras map[string]any) {
	if err == nil || !reportingEnabled.Load() {
		return
	}

	if extras == nil {
		rollbar.Error(err)
		return
	}

	custom := make(map[string]interface{}, len(extras))
	for k, v := range extras {
		custom[k] = v
	}
	rollbar.ErrorWithExtras(rollbar.ERR, err, custom)
}

func FlushErrorReports() {
	if reportingEnabled.Load() {
		rollbar.Wait()
	}
}
