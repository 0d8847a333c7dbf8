package ffmpeg

import (
	"archive/zip"
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/framepick/framepick-extraction-service/internal/domain/keyframe"
)

// FrameArchiver writes selected key frames into a zip archive, one PNG per
// frame, named by frame index and timestamp.
type FrameArchiver struct{}

func NewFrameArchiver() *FrameArchiver {
	return &FrameArchiver{}
}

func (a *FrameArchiver) ArchiveFrames(ctx context.Context, samples []keyframe.Sample, outputPath string) error {
	archiveFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer archiveFile.Close()

	zipWriter := zip.NewWriter(archiveFile)
	defer zipWriter.Close()

	for _, sample := range samples {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := fmt.Sprintf("frame_%06d_%.3fs.png", sample.FrameIndex, sample.Timestamp)
		entry, err := zipWriter.Create(name)
		if err != nil {
			return fmt.Errorf("add %s to archive: %w", name, err)
		}
		if err := png.Encode(entry, sample.Image); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
	}

	return nil
}
