package keyframe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), zap.NewNop())
}

func sampleIndices(samples []Sample) []int {
	indices := make([]int, 0, len(samples))
	for _, s := range samples {
		indices = append(indices, s.FrameIndex)
	}
	return indices
}

func TestTimeDistributedSampler(t *testing.T) {
	// 3.0s at 10fps: short tier, target clamp(30/10, 2, 3) = 3, stride 10.
	video := solidVideo(30, 10, gray)
	samples := testEngine().sampleTimeDistributed(context.Background(), video, 30, 10, ResolveStrategy(3.0))

	require.Equal(t, []int{0, 10, 20}, sampleIndices(samples))
	for _, s := range samples {
		assert.Equal(t, MethodTimeDistributed, s.Method)
		assert.Equal(t, 0.9, s.Confidence)
		assert.Equal(t, float64(s.FrameIndex)/10, s.Timestamp)
		assert.NotNil(t, s.Image)
	}
}

func TestTimeDistributedSamplerSingleFrameTakesMiddle(t *testing.T) {
	// 0.5s at 10fps: ultra_short, target clamp(5/10, 1, 2) = 1.
	video := solidVideo(5, 10, gray)
	samples := testEngine().sampleTimeDistributed(context.Background(), video, 5, 10, ResolveStrategy(0.5))

	require.Equal(t, []int{2}, sampleIndices(samples))
}

func TestTimeDistributedSamplerSkipsUnreadableFrames(t *testing.T) {
	video := solidVideo(30, 10, gray)
	video.failAt[10] = true

	samples := testEngine().sampleTimeDistributed(context.Background(), video, 30, 10, ResolveStrategy(3.0))
	assert.Equal(t, []int{0, 20}, sampleIndices(samples))
}

func TestTimeDistributedSamplerFewerFramesThanBudget(t *testing.T) {
	// 3 frames, short tier wants at least 2: stride 1, indices 0 and 1.
	video := solidVideo(3, 1, gray)
	samples := testEngine().sampleTimeDistributed(context.Background(), video, 3, 1, ResolveStrategy(3.0))

	assert.Equal(t, []int{0, 1}, sampleIndices(samples))
}
