package track

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/floats"

	"robot-race/internal/common"
)

// Curve is the centerline of a track, parameterized by global progress t
// in [0, 1]. Implementations are immutable and safe for concurrent use.
type Curve interface {
	// PointAt returns the centerline position at t.
	PointAt(t float64) common.Vec3
	// TangentAt returns the (unnormalized) derivative of the centerline at t.
	TangentAt(t float64) common.Vec3
	// FrameAt evaluates position, tangent and lateral direction together.
	FrameAt(t float64) Frame
	// Closed reports whether the centerline ends where it starts.
	Closed() bool
	// Length returns the sampled length of the centerline.
	Length() float64
	// DistanceAt returns the sampled length from the start to t.
	DistanceAt(t float64) float64
	// Samples walks the centerline at the curve's sampling step, in order.
	Samples() iter.Seq[Sample]
}

// Frame is the local geometry of a curve at one parameter.
type Frame struct {
	Point   common.Vec3
	Tangent common.Vec3
	// Lateral is the horizontal unit vector used to offset lanes and edges.
	// It is zero where the tangent is degenerate.
	Lateral common.Vec3
}

// Offset moves the frame's point d units along its lateral direction.
func (f Frame) Offset(d float64) common.Vec3 {
	return f.Point.Add(f.Lateral.Mul(d))
}

// Sample is one point of a curve walk.
type Sample struct {
	Frame
	Segment  int
	Local    float64
	Distance float64 // polyline distance from the start of the curve
}

// SplineCurve is a chain of cubic Bézier segments traversed at constant speed
// by way of an ArcLengthIndex.
type SplineCurve struct {
	segments []Segment
	index    *ArcLengthIndex
	closed   bool
}

// NewSplineCurve builds the curve and its arc-length table. Callers are
// expected to have validated the segments; see New.
func NewSplineCurve(segs []Segment, step float64) *SplineCurve {
	c := &SplineCurve{
		segments: segs,
		index:    NewArcLengthIndex(segs, step),
	}
	if len(segs) > 0 {
		c.closed = common.ApproxEqual(segs[0].P0, segs[len(segs)-1].P3, anchorTolerance)
	}
	return c
}

// splineFrame uses the perpendicular of tangent and up, which is correct for
// any spline regardless of where it sits relative to the origin.
func splineFrame(s Segment, t float64) Frame {
	tan := s.Tangent(t)
	return Frame{
		Point:   s.Point(t),
		Tangent: tan,
		Lateral: common.NormalizeOrZero(tan.Cross(common.Up)),
	}
}

func (c *SplineCurve) PointAt(t float64) common.Vec3 {
	seg, local := c.index.Resolve(t)
	return c.segments[seg].Point(local)
}

func (c *SplineCurve) TangentAt(t float64) common.Vec3 {
	seg, local := c.index.Resolve(t)
	return c.segments[seg].Tangent(local)
}

func (c *SplineCurve) FrameAt(t float64) Frame {
	seg, local := c.index.Resolve(t)
	return splineFrame(c.segments[seg], local)
}

func (c *SplineCurve) Closed() bool { return c.closed }

func (c *SplineCurve) Length() float64 { return c.index.TotalLength() }

func (c *SplineCurve) DistanceAt(t float64) float64 {
	return c.index.Distance(c.index.Resolve(t))
}

// Index exposes the arc-length table.
func (c *SplineCurve) Index() *ArcLengthIndex { return c.index }

// Segments returns the number of Bézier segments.
func (c *SplineCurve) Segments() int { return len(c.segments) }

// Samples walks every segment from local 0 to 1. The shared anchor between
// consecutive segments is emitted once.
func (c *SplineCurve) Samples() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		n := c.index.Steps()
		var dist float64
		var prev common.Vec3
		for si, s := range c.segments {
			start := 1
			if si == 0 {
				start = 0
			}
			for i := start; i <= n; i++ {
				t := float64(i) / float64(n)
				f := splineFrame(s, t)
				if si > 0 || i > 0 {
					dist += f.Point.Sub(prev).Len()
				}
				prev = f.Point
				if !yield(Sample{Frame: f, Segment: si, Local: t, Distance: dist}) {
					return
				}
			}
		}
	}
}

// DefaultSurfaceHeight is the z of the default track's driving surface.
const DefaultSurfaceHeight = 1.0

// DefaultCurve is the built-in elliptical test track, used when a track has
// no control points. Its parameter is the ellipse angle fraction, not arc
// length.
//
// Lateral offsets are radial from the world origin. That is only a true
// perpendicular for a circle; it is kept as a bounded special case of this
// origin-centered ellipse and never used for splines.
type DefaultCurve struct {
	steps      int
	length     float64
	cumulative []float64 // cumulative[i] is the length up to sample i
}

// NewDefaultCurve samples the ellipse once to measure its length.
func NewDefaultCurve(step float64) *DefaultCurve {
	c := &DefaultCurve{steps: stepCount(step)}
	chords := make([]float64, c.steps+1)
	prev := c.PointAt(0)
	for i := 1; i <= c.steps; i++ {
		p := c.PointAt(float64(i) / float64(c.steps))
		chords[i] = p.Sub(prev).Len()
		prev = p
	}
	c.cumulative = floats.CumSum(make([]float64, len(chords)), chords)
	c.length = c.cumulative[c.steps]
	return c
}

func (c *DefaultCurve) PointAt(t float64) common.Vec3 {
	s, co := math.Sincos(2 * math.Pi * t)
	return common.V3(10*co, 14*s, DefaultSurfaceHeight)
}

func (c *DefaultCurve) TangentAt(t float64) common.Vec3 {
	s, co := math.Sincos(2 * math.Pi * t)
	return common.V3(-20*math.Pi*s, 28*math.Pi*co, 0)
}

func (c *DefaultCurve) FrameAt(t float64) Frame {
	p := c.PointAt(t)
	return Frame{
		Point:   p,
		Tangent: c.TangentAt(t),
		Lateral: common.NormalizeOrZero(common.V3(p[0], p[1], 0)),
	}
}

func (c *DefaultCurve) Closed() bool { return true }

func (c *DefaultCurve) Length() float64 { return c.length }

// DistanceAt interpolates the sampled lengths. The parameter is an angle
// fraction, so distance is not proportional to t.
func (c *DefaultCurve) DistanceAt(t float64) float64 {
	x := clamp01(t) * float64(c.steps)
	i := int(x)
	if i >= c.steps {
		return c.length
	}
	return c.cumulative[i] + (x-float64(i))*(c.cumulative[i+1]-c.cumulative[i])
}

// Samples walks the ellipse once around.
func (c *DefaultCurve) Samples() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		var dist float64
		var prev common.Vec3
		for i := 0; i <= c.steps; i++ {
			t := float64(i) / float64(c.steps)
			f := c.FrameAt(t)
			if i > 0 {
				dist += f.Point.Sub(prev).Len()
			}
			prev = f.Point
			if !yield(Sample{Frame: f, Local: t, Distance: dist}) {
				return
			}
		}
	}
}
