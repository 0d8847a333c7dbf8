package keyframe

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config holds the engine's heuristic constants. The values are reasonable
// fixed priors rather than measured optima, so they are configurable instead
// of hard-coded. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// ChangeThreshold is the content-change sensitivity: two consecutive
	// samples are considered a change when their histogram correlation drops
	// below 1-ChangeThreshold.
	ChangeThreshold float64
	// HistogramBins is the per-channel bin count of the HSV histogram.
	HistogramBins int
	// MaxContentSamples caps how many frames the content pass reads,
	// regardless of video length.
	MaxContentSamples int
	// HybridCutoff is the duration in seconds above which the time and
	// content passes are combined.
	HybridCutoff float64
	// TimeConfidence and ContentConfidence are attached to samples produced
	// by the respective pass.
	TimeConfidence    float64
	ContentConfidence float64
}

func DefaultConfig() Config {
	return Config{
		ChangeThreshold:   0.3,
		HistogramBins:     32,
		MaxContentSamples: 50,
		HybridCutoff:      15.0,
		TimeConfidence:    0.9,
		ContentConfidence: 0.85,
	}
}

// Engine selects key frames from decoded videos. It holds no per-call state:
// one Engine may serve concurrent extractions as long as each call brings its
// own video handle.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// Extract runs the full selection pipeline on one video. Short videos get a
// uniform time-distributed pass, medium videos a content-aware pass, and
// anything past the hybrid cutoff a budget-split combination of both. The
// returned samples have unique frame indices and ascending timestamps.
func (e *Engine) Extract(ctx context.Context, video Video) (*Result, error) {
	total := video.FrameCount()
	fps := video.FPS()
	if fps <= 0 {
		return nil, fmt.Errorf("keyframe: invalid fps %v", fps)
	}
	if total <= 0 {
		return nil, ErrEmptyResult
	}

	duration := float64(total) / fps
	strategy := ResolveStrategy(duration)

	e.logger.Debug("strategy resolved",
		zap.String("tier", string(strategy.Tier)),
		zap.Float64("duration_secs", duration),
		zap.Int("total_frames", total),
	)

	var samples []Sample
	switch {
	case duration > e.cfg.HybridCutoff:
		samples = e.sampleHybrid(ctx, video, total, fps, strategy)
	case strategy.Tier == TierMedium:
		samples = e.sampleContentAware(ctx, video, total, fps, strategy)
	default:
		samples = e.sampleTimeDistributed(ctx, video, total, fps, strategy)
	}

	samples = dedupeAndSort(samples, strategy.MaxFrames)
	if len(samples) == 0 {
		return nil, ErrEmptyResult
	}

	return &Result{Samples: samples, Strategy: strategy, Duration: duration}, nil
}

// sampleHybrid splits the budget between the two passes and concatenates
// their picks; overlap is removed by the dedupe step.
func (e *Engine) sampleHybrid(ctx context.Context, video Video, total int, fps float64, strategy Strategy) []Sample {
	timeCount := strategy.MaxFrames / 2
	contentCount := strategy.MaxFrames - timeCount

	timeStrategy := Strategy{Tier: strategy.Tier, MinFrames: 1, MaxFrames: timeCount, DurationCeiling: strategy.DurationCeiling}
	contentStrategy := Strategy{Tier: strategy.Tier, MinFrames: 1, MaxFrames: contentCount, DurationCeiling: strategy.DurationCeiling}

	samples := e.sampleTimeDistributed(ctx, video, total, fps, timeStrategy)
	return append(samples, e.sampleContentAware(ctx, video, total, fps, contentStrategy)...)
}
