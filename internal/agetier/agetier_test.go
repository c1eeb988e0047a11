// AngelaMos | 2026
// agetier_test.go

package agetier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCoversRangeWithoutGaps(t *testing.T) {
	seen := map[Level]int{}
	prev := Level("")

	for age := MinAge; age <= MaxAge; age++ {
		l, err := Resolve(age)
		require.NoError(t, err, "age %d", age)
		require.True(t, l.Valid())

		lo, hi := l.AgeRange()
		assert.GreaterOrEqual(t, age, lo)
		assert.LessOrEqual(t, age, hi)

		if l != prev {
			assert.Equal(t, lo, age, "band %s must start where the previous ends", l)
			prev = l
		}
		seen[l]++
	}

	assert.Len(t, seen, 5)
	for _, l := range All() {
		assert.Equal(t, 3, seen[l], "band %s", l)
	}
}

func TestResolveBoundaries(t *testing.T) {
	tests := []struct {
		age  int
		want Level
	}{
		{4, LittleLearners},
		{6, LittleLearners},
		{7, YoungExplorers},
		{12, SmartKids},
		{13, TechTeens},
		{15, TechTeens},
		{16, FutureLeaders},
		{18, FutureLeaders},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.age)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "age %d", tt.age)

		again, err := Resolve(tt.age)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestResolveRejectsOutOfRange(t *testing.T) {
	for _, age := range []int{-1, 0, 3, 19, 42} {
		_, err := Resolve(age)
		assert.ErrorIs(t, err, ErrOutOfRangeAge, "age %d", age)
	}
}

func TestParse(t *testing.T) {
	l, err := Parse("10-12")
	require.NoError(t, err)
	assert.Equal(t, SmartKids, l)

	l, err = Parse("FUTURE_LEADERS")
	require.NoError(t, err)
	assert.Equal(t, FutureLeaders, l)

	_, err = Parse("19-21")
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = Parse("PRESCHOOL")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestFromStoredMapsLegacyNames(t *testing.T) {
	tests := map[string]Level{
		"PRESCHOOL":    LittleLearners,
		"elementary":   YoungExplorers,
		"INTERMEDIATE": SmartKids,
		" 13-15 ":      TechTeens,
		"SMART_KIDS":   SmartKids,
	}

	for in, want := range tests {
		got, err := FromStored(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := FromStored("ADVANCED")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestDescribe(t *testing.T) {
	i, err := Describe(LittleLearners)
	require.NoError(t, err)

	assert.Equal(t, "LITTLE_LEARNERS", i.Key)
	assert.Equal(t, "Fun basics for little learners (Ages 4-6)", i.Description)
	assert.Equal(t, 4, i.MinAge)
	assert.Equal(t, 6, i.MaxAge)
	assert.Contains(t, i.SkillsFocus, "Numbers 1-10")

	_, err = Describe(Level("0-3"))
	assert.ErrorIs(t, err, ErrUnknownTier)

	assert.Len(t, DescribeAll(), 5)
}

func TestPricingPlanInvariants(t *testing.T) {
	for _, l := range All() {
		p, err := PlanFor(l)
		require.NoError(t, err)

		assert.Equal(t, l, p.AgeLevel)
		assert.Less(t, p.QuarterlyPrice, p.MonthlyPrice*3, "tier %s", l)
		assert.Equal(t, p.MonthlyPrice*3-p.QuarterlyPrice, p.QuarterlySavings)
		assert.Positive(t, p.QuarterlySavings)
		assert.Equal(t, int64(PhysicalMaterialsPrice), p.PhysicalMaterials)
		assert.Equal(t, Currency, p.Currency)
		assert.NotEmpty(t, p.Features)
	}

	_, err := PlanFor(Level("PRESCHOOL"))
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestPlanAmount(t *testing.T) {
	p, err := PlanFor(SmartKids)
	require.NoError(t, err)

	monthly, err := p.Amount(Monthly)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), monthly)

	quarterly, err := p.Amount(Quarterly)
	require.NoError(t, err)
	assert.Equal(t, int64(3250), quarterly)

	_, err = p.Amount(Cycle("yearly"))
	assert.ErrorIs(t, err, ErrUnknownCycle)

	withBooks, err := p.Charge(Quarterly, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3250+PhysicalMaterialsPrice), withBooks)

	digitalOnly, err := p.Charge(Monthly, false)
	require.NoError(t, err)
	assert.Equal(t, monthly, digitalOnly)
}

func TestCycle(t *testing.T) {
	c, err := ParseCycle("quarterly")
	require.NoError(t, err)
	assert.Equal(t, 90, c.Days())
	assert.Equal(t, 30, Monthly.Days())

	_, err = ParseCycle("weekly")
	assert.ErrorIs(t, err, ErrUnknownCycle)
}

func TestIsTeen(t *testing.T) {
	assert.False(t, SmartKids.IsTeen())
	assert.True(t, TechTeens.IsTeen())
	assert.True(t, FutureLeaders.IsTeen())
}
