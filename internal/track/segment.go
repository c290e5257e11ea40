package track

import "robot-race/internal/common"

// Segment is one cubic Bézier piece of a spline track.
type Segment struct {
	P0, P1, P2, P3 common.Vec3
}

// Point returns the position on the segment at local parameter t in [0, 1].
func (s Segment) Point(t float64) common.Vec3 {
	return CubicPoint(t, s.P0, s.P1, s.P2, s.P3)
}

// Tangent returns the exact derivative of the segment at t. It is the zero
// vector when all four control points coincide.
func (s Segment) Tangent(t float64) common.Vec3 {
	return CubicTangent(t, s.P0, s.P1, s.P2, s.P3)
}

// Degenerate reports whether every control point lies within anchorTolerance
// of P0. Such a segment is a single point and has no length.
func (s Segment) Degenerate() bool {
	return common.ApproxEqual(s.P0, s.P1, anchorTolerance) &&
		common.ApproxEqual(s.P0, s.P2, anchorTolerance) &&
		common.ApproxEqual(s.P0, s.P3, anchorTolerance)
}

// CubicPoint evaluates B(t) = (1-t)³P0 + 3t(1-t)²P1 + 3t²(1-t)P2 + t³P3.
func CubicPoint(t float64, p0, p1, p2, p3 common.Vec3) common.Vec3 {
	mt := 1 - t
	return p0.Mul(mt * mt * mt).
		Add(p1.Mul(3 * t * mt * mt)).
		Add(p2.Mul(3 * t * t * mt)).
		Add(p3.Mul(t * t * t))
}

// CubicTangent evaluates B'(t) = 3(1-t)²(P1-P0) + 6(1-t)t(P2-P1) + 3t²(P3-P2).
func CubicTangent(t float64, p0, p1, p2, p3 common.Vec3) common.Vec3 {
	mt := 1 - t
	return p1.Sub(p0).Mul(3 * mt * mt).
		Add(p2.Sub(p1).Mul(6 * mt * t)).
		Add(p3.Sub(p2).Mul(3 * t * t))
}

// segmentsFrom groups control points four at a time. len(pts) must be a
// multiple of 4.
func segmentsFrom(pts []common.Vec3) []Segment {
	segs := make([]Segment, 0, len(pts)/4)
	for i := 0; i+3 < len(pts); i += 4 {
		segs = append(segs, Segment{pts[i], pts[i+1], pts[i+2], pts[i+3]})
	}
	return segs
}
