package track

import (
	"math"

	"robot-race/internal/common"
)

// frenetResolution is the number of cached waypoints used by WorldToFrenet.
const frenetResolution = 2048

// Waypoint represents a point on the track centerline.
type Waypoint struct {
	ID       int
	Progress float64     // global progress in [0, 1]
	Position common.Vec3 // world coordinates
	Tangent  common.Vec3 // unit direction of travel
	Normal   common.Vec3 // unit lateral vector, pointing toward the outer edge
	Width    float64     // width of the track at this point
	Distance float64     // distance from start (s-coordinate)
}

// Waypoints samples n centerline points evenly spaced in progress. Closed
// tracks do not repeat the start point at the end.
func (t *Track) Waypoints(n int) []Waypoint {
	if n < 2 {
		n = 2
	}
	div := float64(n)
	if !t.Closed() {
		div = float64(n - 1)
	}
	wps := make([]Waypoint, n)
	for i := range wps {
		progress := float64(i) / div
		f := t.curve.FrameAt(progress)
		wps[i] = Waypoint{
			ID:       i,
			Progress: progress,
			Position: f.Point,
			Tangent:  common.NormalizeOrZero(f.Tangent),
			Normal:   f.Lateral,
			Width:    t.params.TrackWidth,
			Distance: t.curve.DistanceAt(progress),
		}
	}
	return wps
}

// ClosestWaypoint finds the waypoint closest to the given world position.
// Returns the waypoint and its index, or -1 for an empty list.
// Linear search is fine for a few thousand points.
func ClosestWaypoint(wps []Waypoint, pos common.Vec3) (Waypoint, int) {
	minDistSq := math.MaxFloat64
	closestIdx := -1

	for i, wp := range wps {
		d := pos.Sub(wp.Position)
		if distSq := d.Dot(d); distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}

	if closestIdx == -1 {
		return Waypoint{}, -1
	}
	return wps[closestIdx], closestIdx
}

func (t *Track) frenetWaypoints() []Waypoint {
	t.waypointsOnce.Do(func() {
		t.waypoints = t.Waypoints(frenetResolution)
	})
	return t.waypoints
}

// frenetIterations bounds the secant refinement in WorldToFrenet.
const frenetIterations = 8

// WorldToFrenet converts a world position to (progress, lateral offset).
// The offset is positive toward the outer edge; progress wraps on closed
// tracks and clamps on open ones. It inverts LanePose: a lane point comes
// back as its progress and LaneOffset.
func (t *Track) WorldToFrenet(pos common.Vec3) (float64, float64) {
	wp, _ := ClosestWaypoint(t.frenetWaypoints(), pos)

	// Solve for the progress whose lateral line passes through pos, starting
	// from the nearest waypoint and a point a quarter spacing away from it.
	step := 0.25 / frenetResolution
	if !t.Closed() && wp.Progress+step > 1 {
		step = -step
	}
	p0, p1 := wp.Progress, wp.Progress+step
	g0, g1 := t.alongLateral(pos, p0), t.alongLateral(pos, p1)
	for range frenetIterations {
		if g1 == g0 {
			break
		}
		p0, p1 = p1, p1-g1*(p1-p0)/(g1-g0)
		g0, g1 = g1, t.alongLateral(pos, p1)
	}

	progress := t.wrap(p1)
	f := t.curve.FrameAt(progress)
	return progress, pos.Sub(f.Point).Dot(f.Lateral)
}

// alongLateral is the horizontal distance of pos from the lateral line at
// progress, measured across that line.
func (t *Track) alongLateral(pos common.Vec3, progress float64) float64 {
	f := t.curve.FrameAt(t.wrap(progress))
	return pos.Sub(f.Point).Dot(common.Up.Cross(f.Lateral))
}

// wrap brings progress into [0, 1]: modulo on closed tracks, clamped on
// open ones.
func (t *Track) wrap(progress float64) float64 {
	if t.Closed() {
		return progress - math.Floor(progress)
	}
	return clamp01(progress)
}
