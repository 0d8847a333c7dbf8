// Package keyframe implements adaptive key-frame extraction: given a decoded
// video it selects a small, temporally ordered set of frames that best
// represents the video's visual content, under a duration-tiered frame budget.
package keyframe

import (
	"context"
	"errors"
	"image"
)

// Video is the decoded-video collaborator the engine reads from. Frame reads
// are assumed cheap, idempotent, and deterministic: an index is either
// readable or it is not.
type Video interface {
	FrameCount() int
	FPS() float64
	ReadFrameAt(ctx context.Context, index int) (image.Image, error)
}

// Method records which sampling pass selected a frame.
type Method string

const (
	MethodTimeDistributed Method = "time_distributed"
	MethodContentAware    Method = "content_aware"
)

// Sample is one selected key frame. The pixel data is owned by the caller
// once the engine returns; the engine keeps no reference to it.
type Sample struct {
	FrameIndex int
	Timestamp  float64
	Image      image.Image
	Method     Method
	Confidence float64
}

// ErrEmptyResult is returned when a video yields zero key frames. An empty
// result makes the video unusable for downstream analysis, so it surfaces as
// a hard failure rather than an empty list.
var ErrEmptyResult = errors.New("keyframe: no frames produced")

// Result is the outcome of one extraction call.
type Result struct {
	Samples  []Sample
	Strategy Strategy
	Duration float64
}
