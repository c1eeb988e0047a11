// AngelaMos | 2026
// migrations_test.go

package migrations

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versionedName = regexp.MustCompile(`^\d{4}_[a-z0-9_]+\.sql$`)

func TestMigrationsAreGooseAnnotated(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			assert.Regexp(t, versionedName, name)

			body, err := fs.ReadFile(FS, name)
			require.NoError(t, err)
			sql := string(body)

			up := strings.Index(sql, "-- +goose Up")
			down := strings.Index(sql, "-- +goose Down")
			require.GreaterOrEqual(t, up, 0, "missing Up annotation")
			require.Greater(t, down, up, "Down must follow Up")
		})
	}
}
