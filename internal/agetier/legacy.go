// AngelaMos | 2026
// legacy.go

package agetier

import (
	"fmt"
	"strings"
)

// Deprecated three-tier names still present in old documents. Their stored
// values overlap the first three unified bands.
const (
	legacyPreschool    = "PRESCHOOL"
	legacyElementary   = "ELEMENTARY"
	legacyIntermediate = "INTERMEDIATE"
)

var legacyNames = map[string]Level{
	legacyPreschool:    LittleLearners,
	legacyElementary:   YoungExplorers,
	legacyIntermediate: SmartKids,
}

// FromStored reads an age_level value from a stored record, accepting the
// unified form as well as the legacy three-tier names. New writes always use
// the unified band string.
func FromStored(s string) (Level, error) {
	trimmed := strings.TrimSpace(s)

	if l, err := Parse(trimmed); err == nil {
		return l, nil
	}

	if l, ok := legacyNames[strings.ToUpper(trimmed)]; ok {
		return l, nil
	}

	return "", fmt.Errorf("read stored tier %q: %w", s, ErrUnknownTier)
}
