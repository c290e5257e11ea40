package track

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ArcLengthIndex maps global progress to (segment, local parameter) so that
// equal steps of progress cover equal distances along the drawn track.
//
// Segment lengths are polyline approximations using the same sampling step
// as the mesh, so "progress 0.5" lands at half the rendered length.
// The index is immutable once built and safe for concurrent use.
type ArcLengthIndex struct {
	lengths    []float64
	cumulative []float64 // cumulative[i] is the length up to the end of segment i
	total      float64
	steps      int
}

// NewArcLengthIndex samples every segment with the given local-parameter step.
func NewArcLengthIndex(segs []Segment, step float64) *ArcLengthIndex {
	n := stepCount(step)
	lengths := make([]float64, len(segs))
	for i, s := range segs {
		lengths[i] = polylineLength(s, n)
	}
	return &ArcLengthIndex{
		lengths:    lengths,
		cumulative: floats.CumSum(make([]float64, len(lengths)), lengths),
		total:      floats.Sum(lengths),
		steps:      n,
	}
}

// stepCount is the number of equal sub-steps covering [0, 1] for step.
func stepCount(step float64) int {
	if step <= 0 || math.IsNaN(step) {
		return 1
	}
	n := int(math.Ceil(1/step - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// polylineLength measures s with n chords. A degenerate segment is exactly 0;
// the Bernstein blend's rounding would otherwise leave a length near 1e-12.
func polylineLength(s Segment, n int) float64 {
	if s.Degenerate() {
		return 0
	}
	var length float64
	prev := s.P0
	for i := 1; i <= n; i++ {
		p := s.Point(float64(i) / float64(n))
		length += p.Sub(prev).Len()
		prev = p
	}
	return length
}

// TotalLength returns the summed length of all segments.
func (a *ArcLengthIndex) TotalLength() float64 {
	return a.total
}

// SegmentLengths returns a copy of the per-segment length table.
func (a *ArcLengthIndex) SegmentLengths() []float64 {
	return append([]float64(nil), a.lengths...)
}

// Steps returns the number of samples taken per segment.
func (a *ArcLengthIndex) Steps() int {
	return a.steps
}

// Resolve converts global progress into a segment index and a local
// parameter in [0, 1]. Progress outside [0, 1] is clamped. A one-segment
// index uses the progress directly as the local parameter.
func (a *ArcLengthIndex) Resolve(globalT float64) (int, float64) {
	globalT = clamp01(globalT)
	if len(a.lengths) == 1 {
		return 0, globalT
	}
	return a.walk(globalT)
}

// walk is the general table lookup behind Resolve.
func (a *ArcLengthIndex) walk(globalT float64) (int, float64) {
	last := len(a.lengths) - 1
	if globalT >= 1 {
		return last, 1
	}
	remaining := globalT * a.total
	for i, l := range a.lengths {
		if l > 0 && remaining <= l {
			return i, remaining / l
		}
		remaining -= l
	}
	// Floating point left a sliver past the last segment.
	return last, 1
}

// Distance returns the arc length from the start of the track to local
// parameter t of segment seg.
func (a *ArcLengthIndex) Distance(seg int, t float64) float64 {
	if seg < 0 || seg >= len(a.lengths) {
		return 0
	}
	return a.cumulative[seg] - a.lengths[seg] + t*a.lengths[seg]
}

func clamp01(t float64) float64 {
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
