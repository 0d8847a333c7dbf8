package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/framepick/framepick-extraction-service/internal/domain/port"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// Decoder opens video files through ffprobe/ffmpeg and exposes them as
// frame-addressable handles.
type Decoder struct {
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

type probeResult struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		NbFrames   string `json:"nb_frames"`
		RFrameRate string `json:"r_frame_rate"`
		Duration   string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (d *Decoder) Open(ctx context.Context, path string) (port.VideoHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := ffmpeggo.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", port.ErrOpenVideo, path, err)
	}

	var probe probeResult
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("%w %s: parse probe output: %v", port.ErrOpenVideo, path, err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}

		fps, err := parseFrameRate(stream.RFrameRate)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", port.ErrOpenVideo, path, err)
		}

		frameCount := 0
		if n, err := strconv.Atoi(stream.NbFrames); err == nil {
			frameCount = n
		} else {
			// Some containers omit nb_frames; fall back to duration*fps.
			duration := stream.Duration
			if duration == "" {
				duration = probe.Format.Duration
			}
			secs, err := strconv.ParseFloat(duration, 64)
			if err != nil {
				return nil, fmt.Errorf("%w %s: no frame count or duration in probe output", port.ErrOpenVideo, path)
			}
			frameCount = int(math.Floor(secs * fps))
		}

		d.logger.Debug("video opened",
			zap.String("path", path),
			zap.Int("frame_count", frameCount),
			zap.Float64("fps", fps),
		)
		return &videoHandle{path: path, frameCount: frameCount, fps: fps}, nil
	}

	return nil, fmt.Errorf("%w %s: no video stream", port.ErrOpenVideo, path)
}

// parseFrameRate parses an ffprobe rational like "30000/1001".
func parseFrameRate(r string) (float64, error) {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		return strconv.ParseFloat(r, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %v", r, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("parse frame rate %q", r)
	}
	return n / d, nil
}

// videoHandle reads individual frames by index. Each read runs one ffmpeg
// invocation that decodes the selected frame to PNG on stdout, so the handle
// itself holds no OS resources; Close exists to satisfy the scoped-resource
// contract of the port.
type videoHandle struct {
	path       string
	frameCount int
	fps        float64
}

func (h *videoHandle) FrameCount() int { return h.frameCount }
func (h *videoHandle) FPS() float64    { return h.fps }

func (h *videoHandle) ReadFrameAt(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= h.frameCount {
		return nil, fmt.Errorf("read frame %d: out of range [0,%d)", index, h.frameCount)
	}

	buf := bytes.NewBuffer(nil)
	err := ffmpeggo.Input(h.path).
		Filter("select", ffmpeggo.Args{fmt.Sprintf("gte(n,%d)", index)}).
		Output("pipe:", ffmpeggo.KwArgs{"vframes": 1, "format": "image2", "vcodec": "png"}).
		WithOutput(buf).
		Silent(true).
		Run()
	if err != nil {
		return nil, fmt.Errorf("read frame %d: %w", index, err)
	}

	img, err := png.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("read frame %d: decode: %w", index, err)
	}
	return img, nil
}

func (h *videoHandle) Close() error { return nil }
