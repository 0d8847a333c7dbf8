package keyframe

import (
	"context"
	"fmt"
	"image"
	"image/color"
)

// fakeVideo is an in-memory video handle for engine tests. Each entry in
// frames is one solid-color frame.
type fakeVideo struct {
	frames []image.Image
	fps    float64
	failAt map[int]bool
	closed bool
}

func (f *fakeVideo) FrameCount() int { return len(f.frames) }
func (f *fakeVideo) FPS() float64    { return f.fps }

func (f *fakeVideo) ReadFrameAt(_ context.Context, index int) (image.Image, error) {
	if f.failAt[index] {
		return nil, fmt.Errorf("read frame %d: decode failed", index)
	}
	if index < 0 || index >= len(f.frames) {
		return nil, fmt.Errorf("read frame %d: out of range", index)
	}
	return f.frames[index], nil
}

func (f *fakeVideo) Close() error {
	f.closed = true
	return nil
}

func solidFrame(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// solidVideo builds a video of n frames all showing the same color.
func solidVideo(n int, fps float64, c color.RGBA) *fakeVideo {
	frames := make([]image.Image, n)
	frame := solidFrame(c)
	for i := range frames {
		frames[i] = frame
	}
	return &fakeVideo{frames: frames, fps: fps, failAt: map[int]bool{}}
}

// blockVideo builds a video that shows each color for blockLen consecutive
// frames, in order.
func blockVideo(blockLen int, fps float64, colors ...color.RGBA) *fakeVideo {
	var frames []image.Image
	for _, c := range colors {
		frame := solidFrame(c)
		for i := 0; i < blockLen; i++ {
			frames = append(frames, frame)
		}
	}
	return &fakeVideo{frames: frames, fps: fps, failAt: map[int]bool{}}
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)
