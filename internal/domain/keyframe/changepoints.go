package keyframe

import (
	"context"
	"image"

	"go.uber.org/zap"
)

// changePoint is a raw candidate before it becomes a Sample.
type changePoint struct {
	frameIndex int
	img        image.Image
}

// sampleContentAware walks a sparse sample of the video and keeps the frames
// where the color histogram decorrelates from the previous sample. The first
// sampled frame is always kept, so even a fully static video yields one
// frame. The histogram pass is capped at MaxContentSamples reads regardless
// of video length.
func (e *Engine) sampleContentAware(ctx context.Context, video Video, total int, fps float64, strategy Strategy) []Sample {
	sampleStep := total / e.cfg.MaxContentSamples
	if sampleStep < 1 {
		sampleStep = 1
	}

	var (
		changes  []changePoint
		prevHist []float64
	)
	for idx := 0; idx < total; idx += sampleStep {
		img, err := video.ReadFrameAt(ctx, idx)
		if err != nil {
			e.logger.Debug("skipping unreadable frame", zap.Int("frame_index", idx), zap.Error(err))
			continue
		}
		hist := e.histogramOf(img)

		if prevHist == nil {
			changes = append(changes, changePoint{frameIndex: idx, img: img})
			prevHist = hist
			continue
		}

		if histogramCorrelation(prevHist, hist) < 1-e.cfg.ChangeThreshold {
			changes = append(changes, changePoint{frameIndex: idx, img: img})
		}
		prevHist = hist
	}

	// Too many change points: downsample evenly to the budget.
	if len(changes) > strategy.MaxFrames {
		selStep := len(changes) / strategy.MaxFrames
		kept := make([]changePoint, 0, strategy.MaxFrames)
		for i := 0; i < strategy.MaxFrames; i++ {
			kept = append(kept, changes[i*selStep])
		}
		changes = kept
	}

	samples := make([]Sample, 0, len(changes))
	for _, cp := range changes {
		samples = append(samples, Sample{
			FrameIndex: cp.frameIndex,
			Timestamp:  float64(cp.frameIndex) / fps,
			Image:      cp.img,
			Method:     MethodContentAware,
			Confidence: e.cfg.ContentConfidence,
		})
	}
	return samples
}
