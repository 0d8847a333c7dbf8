package keyframe

// Coverage labels whether enough frames were extracted to represent the
// video reasonably.
const (
	CoverageFull    = "full"
	CoveragePartial = "partial"
)

// Summary characterizes a finished extraction for observability.
type Summary struct {
	FrameCount     int
	MethodCounts   map[Method]int
	SpanStart      float64
	SpanEnd        float64
	Coverage       string
	MeanConfidence float64
}

// Summarize is a pure function over a finished sample list. It returns
// ErrEmptyResult when there is nothing to summarize.
func Summarize(samples []Sample) (*Summary, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyResult
	}

	s := &Summary{
		FrameCount:   len(samples),
		MethodCounts: make(map[Method]int, 2),
		SpanStart:    samples[0].Timestamp,
		SpanEnd:      samples[0].Timestamp,
		Coverage:     CoveragePartial,
	}
	if len(samples) >= 3 {
		s.Coverage = CoverageFull
	}

	var confidenceSum float64
	for _, sample := range samples {
		s.MethodCounts[sample.Method]++
		confidenceSum += sample.Confidence
		if sample.Timestamp < s.SpanStart {
			s.SpanStart = sample.Timestamp
		}
		if sample.Timestamp > s.SpanEnd {
			s.SpanEnd = sample.Timestamp
		}
	}
	s.MeanConfidence = confidenceSum / float64(len(samples))

	return s, nil
}
