package port

import (
	"context"
	"errors"

	"github.com/framepick/framepick-extraction-service/internal/domain/keyframe"
)

// ErrOpenVideo wraps failures to open or probe a video file. An open failure
// is fatal for the extraction call that hit it.
var ErrOpenVideo = errors.New("open video")

// VideoHandle is an exclusive cursor over the frames of one decoded video.
// It is not safe for concurrent use; each extraction call owns its handle
// and must Close it on every exit path.
type VideoHandle interface {
	keyframe.Video
	Close() error
}

type VideoDecoder interface {
	Open(ctx context.Context, path string) (VideoHandle, error)
}
