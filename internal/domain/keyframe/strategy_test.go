package keyframe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStrategy(t *testing.T) {
	cases := []struct {
		duration float64
		want     Tier
	}{
		{0, TierUltraShort},
		{0.5, TierUltraShort},
		{2.0, TierUltraShort},
		{2.01, TierShort},
		{3.0, TierShort},
		{5.0, TierShort},
		{5.5, TierMedium},
		{15.0, TierMedium},
		{15.1, TierLong},
		{60.0, TierLong},
		{61.0, TierVeryLong},
		{70.0, TierVeryLong},
		{3600.0, TierVeryLong},
	}

	for _, tc := range cases {
		got := ResolveStrategy(tc.duration)
		assert.Equal(t, tc.want, got.Tier, "duration %v", tc.duration)
		assert.LessOrEqual(t, tc.duration, got.DurationCeiling)
	}
}

func TestResolveStrategyBudgets(t *testing.T) {
	got := ResolveStrategy(70.0)
	assert.Equal(t, 8, got.MinFrames)
	assert.Equal(t, 12, got.MaxFrames)

	got = ResolveStrategy(3.0)
	assert.Equal(t, 2, got.MinFrames)
	assert.Equal(t, 3, got.MaxFrames)
}

func TestTierTableIsWellFormed(t *testing.T) {
	prevCeiling := math.Inf(-1)
	for _, tier := range tiers {
		assert.GreaterOrEqual(t, tier.MinFrames, 1)
		assert.GreaterOrEqual(t, tier.MaxFrames, tier.MinFrames)
		assert.Greater(t, tier.DurationCeiling, prevCeiling, "ceilings must ascend")
		prevCeiling = tier.DurationCeiling
	}
	assert.True(t, math.IsInf(tiers[len(tiers)-1].DurationCeiling, 1), "last tier must always match")
}
