package keyframe

import (
	"context"

	"go.uber.org/zap"
)

// sampleTimeDistributed picks frames at a uniform stride across the video.
// One tenth of the frame count, clamped to the strategy budget, decides how
// many frames to aim for; a single-frame budget takes the middle frame.
// Unreadable frames are skipped without retry.
func (e *Engine) sampleTimeDistributed(ctx context.Context, video Video, total int, fps float64, strategy Strategy) []Sample {
	target := clamp(total/10, strategy.MinFrames, strategy.MaxFrames)

	var indices []int
	if target == 1 {
		indices = []int{total / 2}
	} else {
		step := total / target
		if step < 1 {
			step = 1
		}
		for i := 0; i < target; i++ {
			idx := i * step
			if idx >= total {
				break
			}
			indices = append(indices, idx)
		}
	}

	samples := make([]Sample, 0, len(indices))
	for _, idx := range indices {
		img, err := video.ReadFrameAt(ctx, idx)
		if err != nil {
			e.logger.Debug("skipping unreadable frame", zap.Int("frame_index", idx), zap.Error(err))
			continue
		}
		samples = append(samples, Sample{
			FrameIndex: idx,
			Timestamp:  float64(idx) / fps,
			Image:      img,
			Method:     MethodTimeDistributed,
			Confidence: e.cfg.TimeConfidence,
		})
	}
	return samples
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
