package keyframe

import "math"

// Tier is a named bucket of video duration with an associated frame budget.
type Tier string

const (
	TierUltraShort Tier = "ultra_short"
	TierShort      Tier = "short"
	TierMedium     Tier = "medium"
	TierLong       Tier = "long"
	TierVeryLong   Tier = "very_long"
)

// Strategy is the frame budget selected for one video. It is resolved once
// per extraction call and read-only afterward.
type Strategy struct {
	Tier            Tier
	MinFrames       int
	MaxFrames       int
	DurationCeiling float64
}

// tiers are evaluated in ascending ceiling order; the first tier whose
// ceiling is not exceeded wins. The last tier has no ceiling, so resolution
// never fails.
var tiers = []Strategy{
	{Tier: TierUltraShort, MinFrames: 1, MaxFrames: 2, DurationCeiling: 2.0},
	{Tier: TierShort, MinFrames: 2, MaxFrames: 3, DurationCeiling: 5.0},
	{Tier: TierMedium, MinFrames: 3, MaxFrames: 5, DurationCeiling: 15.0},
	{Tier: TierLong, MinFrames: 5, MaxFrames: 8, DurationCeiling: 60.0},
	{Tier: TierVeryLong, MinFrames: 8, MaxFrames: 12, DurationCeiling: math.Inf(1)},
}

// ResolveStrategy picks the duration tier for a video.
func ResolveStrategy(durationSeconds float64) Strategy {
	for _, t := range tiers {
		if durationSeconds <= t.DurationCeiling {
			return t
		}
	}
	return tiers[len(tiers)-1]
}
