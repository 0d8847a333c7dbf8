package keyframe

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentAwareStaticVideoYieldsOneFrame(t *testing.T) {
	video := solidVideo(100, 10, gray)
	samples := testEngine().sampleContentAware(context.Background(), video, 100, 10, ResolveStrategy(10.0))

	require.Len(t, samples, 1)
	assert.Equal(t, 0, samples[0].FrameIndex)
	assert.Equal(t, MethodContentAware, samples[0].Method)
	assert.Equal(t, 0.85, samples[0].Confidence)
}

func TestContentAwareDetectsAbruptChange(t *testing.T) {
	// 100 frames at 10fps, red switching to blue at frame 40. The sparse
	// pass samples every 2nd frame, so the change must land within one
	// sample step of 40.
	video := blockVideo(40, 10, red)
	blueTail := blockVideo(60, 10, blue)
	video.frames = append(video.frames, blueTail.frames...)

	samples := testEngine().sampleContentAware(context.Background(), video, 100, 10, ResolveStrategy(10.0))

	indices := sampleIndices(samples)
	require.Contains(t, indices, 0, "first sampled frame is always kept")

	found := false
	for _, idx := range indices {
		if idx >= 38 && idx <= 42 {
			found = true
		}
	}
	assert.True(t, found, "expected a change point near frame 40, got %v", indices)
}

func TestContentAwareDownsamplesToBudget(t *testing.T) {
	// A new color every 2 frames makes every sampled frame a change point;
	// the result must be downsampled evenly to the tier budget.
	colors := []color.RGBA{red, green, blue}
	var video *fakeVideo
	for i := 0; i < 50; i++ {
		block := blockVideo(2, 10, colors[i%len(colors)])
		if video == nil {
			video = block
		} else {
			video.frames = append(video.frames, block.frames...)
		}
	}

	strategy := ResolveStrategy(10.0) // medium: max 5
	samples := testEngine().sampleContentAware(context.Background(), video, 100, 10, strategy)

	assert.Len(t, samples, strategy.MaxFrames)
	assert.Equal(t, 0, samples[0].FrameIndex)
}

func TestContentAwareSkipsUnreadableFrames(t *testing.T) {
	video := solidVideo(100, 10, gray)
	video.failAt[0] = true
	video.failAt[2] = true

	samples := testEngine().sampleContentAware(context.Background(), video, 100, 10, ResolveStrategy(10.0))

	// The first readable sample takes over the always-included slot.
	require.Len(t, samples, 1)
	assert.Equal(t, 4, samples[0].FrameIndex)
}
