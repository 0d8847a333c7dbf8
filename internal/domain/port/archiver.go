package port

import (
	"context"

	"github.com/framepick/framepick-extraction-service/internal/domain/keyframe"
)

// FrameArchiver packages selected key frames into a single archive file on
// disk, ready for upload.
type FrameArchiver interface {
	ArchiveFrames(ctx context.Context, samples []keyframe.Sample, outputPath string) error
}
