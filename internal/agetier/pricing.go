// AngelaMos | 2026
// pricing.go

package agetier

import (
	"errors"
	"fmt"
)

var ErrUnknownCycle = errors.New("unknown billing cycle")

type Cycle string

const (
	Monthly   Cycle = "monthly"
	Quarterly Cycle = "quarterly"
)

func ParseCycle(s string) (Cycle, error) {
	switch Cycle(s) {
	case Monthly, Quarterly:
		return Cycle(s), nil
	}
	return "", fmt.Errorf("parse cycle %q: %w", s, ErrUnknownCycle)
}

// Days is the length of one paid period.
func (c Cycle) Days() int {
	if c == Quarterly {
		return 90
	}
	return 30
}

// Prices are whole LKR.
const (
	Currency               = "LKR"
	PhysicalMaterialsPrice = 1500
)

type PricingPlan struct {
	AgeLevel          Level    `json:"age_level"`
	Name              string   `json:"name"`
	MonthlyPrice      int64    `json:"monthly_price"`
	QuarterlyPrice    int64    `json:"quarterly_price"`
	QuarterlySavings  int64    `json:"quarterly_savings"`
	DigitalPrice      int64    `json:"digital_price"`
	PhysicalMaterials int64    `json:"physical_materials_price"`
	Currency          string   `json:"currency"`
	Features          []string `json:"features"`
	Description       string   `json:"description"`
}

// Amount is the only place a purchase price is computed.
func (p PricingPlan) Amount(c Cycle) (int64, error) {
	switch c {
	case Monthly:
		return p.MonthlyPrice, nil
	case Quarterly:
		return p.QuarterlyPrice, nil
	}
	return 0, fmt.Errorf("plan amount %q: %w", c, ErrUnknownCycle)
}

// Charge is Amount plus the flat physical materials price when the
// printed workbooks are included.
func (p PricingPlan) Charge(c Cycle, physical bool) (int64, error) {
	amount, err := p.Amount(c)
	if err != nil {
		return 0, err
	}
	if physical {
		amount += p.PhysicalMaterials
	}
	return amount, nil
}

type planRow struct {
	monthly   int64
	quarterly int64
	digital   int64
	features  []string
}

var plans = map[Level]planRow{
	LittleLearners: {
		monthly:   800,
		quarterly: 1800,
		digital:   1800,
		features: []string{
			"Fun learning games",
			"Colors & shapes",
			"Number recognition",
			"Basic phonics",
			"Logical thinking basics",
			"Parent guidance",
		},
	},
	YoungExplorers: {
		monthly:   1200,
		quarterly: 2700,
		digital:   2700,
		features: []string{
			"Math & English courses",
			"Science experiments",
			"Reading comprehension",
			"Creative projects",
			"Logical thinking development",
			"Progress tracking",
		},
	},
	SmartKids: {
		monthly:   1500,
		quarterly: 3250,
		digital:   3750,
		features: []string{
			"Advanced subjects",
			"Coding introduction",
			"STEM projects",
			"Logical thinking mastery",
			"Algorithmic thinking basics",
			"Critical thinking",
		},
	},
	TechTeens: {
		monthly:   2000,
		quarterly: 4500,
		digital:   5500,
		features: []string{
			"Programming basics",
			"Web development intro",
			"Digital literacy",
			"Advanced logical thinking",
			"Algorithmic thinking",
			"Project-based learning",
		},
	},
	FutureLeaders: {
		monthly:   2500,
		quarterly: 5250,
		digital:   7250,
		features: []string{
			"Advanced programming",
			"AI & machine learning",
			"Mobile app development",
			"Complex algorithmic thinking",
			"Data structures & algorithms",
			"Career preparation",
		},
	},
}

// PlanFor is total over the five tiers; anything else is ErrUnknownTier.
func PlanFor(l Level) (PricingPlan, error) {
	row, ok := plans[l]
	if !ok {
		return PricingPlan{}, fmt.Errorf("pricing plan %q: %w", l, ErrUnknownTier)
	}

	return PricingPlan{
		AgeLevel:          l,
		Name:              l.Name(),
		MonthlyPrice:      row.monthly,
		QuarterlyPrice:    row.quarterly,
		QuarterlySavings:  row.monthly*3 - row.quarterly,
		DigitalPrice:      row.digital,
		PhysicalMaterials: PhysicalMaterialsPrice,
		Currency:          Currency,
		Features:          append([]string(nil), row.features...),
		Description:       planDescription(l),
	}, nil
}

func Plans() []PricingPlan {
	out := make([]PricingPlan, 0, len(plans))
	for _, l := range All() {
		//nolint:errcheck // every level from All has a plan
		p, _ := PlanFor(l)
		out = append(out, p)
	}
	return out
}

func planDescription(l Level) string {
	lo, hi := l.AgeRange()
	return fmt.Sprintf("%s (Ages %d-%d) - %s", l.Name(), lo, hi, info[l].description)
}
