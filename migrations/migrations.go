// AngelaMos | 2026
// migrations.go

// Package migrations embeds the goose SQL migrations applied by core.Migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
