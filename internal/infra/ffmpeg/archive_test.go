package ffmpeg

import (
	"archive/zip"
	"context"
	"image"
	"path/filepath"
	"testing"

	"github.com/framepick/framepick-extraction-service/internal/domain/keyframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveFrames(t *testing.T) {
	samples := []keyframe.Sample{
		{FrameIndex: 0, Timestamp: 0.0, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))},
		{FrameIndex: 10, Timestamp: 1.0, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))},
		{FrameIndex: 20, Timestamp: 2.0, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))},
	}

	outputPath := filepath.Join(t.TempDir(), "keyframes.zip")
	err := NewFrameArchiver().ArchiveFrames(context.Background(), samples, outputPath)
	require.NoError(t, err)

	reader, err := zip.OpenReader(outputPath)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.File, 3)
	assert.Equal(t, "frame_000000_0.000s.png", reader.File[0].Name)
	assert.Equal(t, "frame_000010_1.000s.png", reader.File[1].Name)
	assert.Equal(t, "frame_000020_2.000s.png", reader.File[2].Name)
}

func TestArchiveFramesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	samples := []keyframe.Sample{
		{FrameIndex: 0, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))},
	}
	err := NewFrameArchiver().ArchiveFrames(ctx, samples, filepath.Join(t.TempDir(), "x.zip"))
	assert.ErrorIs(t, err, context.Canceled)
}
