package keyframe

import "sort"

// dedupeAndSort keeps the first occurrence of each frame index, sorts the
// survivors by timestamp, and truncates to the frame budget. It never pads an
// under-budget result; fewer frames than the tier minimum is a valid outcome
// and is reported as-is.
func dedupeAndSort(samples []Sample, maxFrames int) []Sample {
	seen := make(map[int]struct{}, len(samples))
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if _, dup := seen[s.FrameIndex]; dup {
			continue
		}
		seen[s.FrameIndex] = struct{}{}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})

	if maxFrames > 0 && len(out) > maxFrames {
		out = out[:maxFrames]
	}
	return out
}
