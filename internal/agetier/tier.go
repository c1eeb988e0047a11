// AngelaMos | 2026
// tier.go

// Package agetier maps a learner's age to the pedagogical tier that decides
// which content they see and what they pay. Resolve is the only place that
// mapping lives.
package agetier

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRangeAge = errors.New("age out of range")
	ErrUnknownTier   = errors.New("unknown age tier")
)

// Level is the persisted form of a tier. The string band is the storage and
// wire format and must not change.
type Level string

const (
	LittleLearners Level = "4-6"
	YoungExplorers Level = "7-9"
	SmartKids      Level = "10-12"
	TechTeens      Level = "13-15"
	FutureLeaders  Level = "16-18"
)

const (
	MinAge = 4
	MaxAge = 18
)

type band struct {
	level Level
	min   int
	max   int
}

// bands are contiguous and ordered; together they cover MinAge..MaxAge.
var bands = [...]band{
	{LittleLearners, 4, 6},
	{YoungExplorers, 7, 9},
	{SmartKids, 10, 12},
	{TechTeens, 13, 15},
	{FutureLeaders, 16, 18},
}

func Resolve(age int) (Level, error) {
	for _, b := range bands {
		if age >= b.min && age <= b.max {
			return b.level, nil
		}
	}
	return "", fmt.Errorf(
		"resolve tier: age %d outside %d-%d: %w",
		age,
		MinAge,
		MaxAge,
		ErrOutOfRangeAge,
	)
}

func All() []Level {
	levels := make([]Level, 0, len(bands))
	for _, b := range bands {
		levels = append(levels, b.level)
	}
	return levels
}

// Parse accepts the stored band ("10-12") or the constant name
// ("SMART_KIDS").
func Parse(s string) (Level, error) {
	for _, b := range bands {
		if s == string(b.level) || s == info[b.level].key {
			return b.level, nil
		}
	}
	return "", fmt.Errorf("parse tier %q: %w", s, ErrUnknownTier)
}

func (l Level) Valid() bool {
	_, ok := info[l]
	return ok
}

func (l Level) String() string {
	return string(l)
}

// AgeRange returns the inclusive ages covered by l.
func (l Level) AgeRange() (int, int) {
	for _, b := range bands {
		if b.level == l {
			return b.min, b.max
		}
	}
	return 0, 0
}

// IsTeen reports whether l unlocks the teen sub-platform.
func (l Level) IsTeen() bool {
	return l == TechTeens || l == FutureLeaders
}
