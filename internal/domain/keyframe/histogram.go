package keyframe

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// histogramOf computes a flattened HSV color histogram with HistogramBins
// bins per channel, normalized so the bins sum to 1. It is a pure function
// over the pixel data.
func (e *Engine) histogramOf(img image.Image) []float64 {
	bins := e.cfg.HistogramBins
	hist := make([]float64, bins*bins*bins)

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := colorful.Color{
				R: float64(r) / 0xffff,
				G: float64(g) / 0xffff,
				B: float64(b) / 0xffff,
			}
			h, s, v := c.Hsv()
			hi := binIndex(h/360.0, bins)
			si := binIndex(s, bins)
			vi := binIndex(v, bins)
			hist[(hi*bins+si)*bins+vi]++
		}
	}

	if sum := floats.Sum(hist); sum > 0 {
		floats.Scale(1/sum, hist)
	}
	return hist
}

// binIndex maps a value in [0,1] to a bin, clamping the top edge into the
// last bin.
func binIndex(v float64, bins int) int {
	i := int(v * float64(bins))
	if i < 0 {
		return 0
	}
	if i >= bins {
		return bins - 1
	}
	return i
}

// histogramCorrelation is the Pearson correlation of two histograms, in
// [-1,1] with 1 meaning identical distributions. Degenerate histograms with
// zero variance make the coefficient undefined; two equal degenerate
// histograms count as identical, unequal ones as fully dissimilar.
func histogramCorrelation(a, b []float64) float64 {
	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) {
		if floats.EqualApprox(a, b, 1e-9) {
			return 1
		}
		return 0
	}
	return c
}
