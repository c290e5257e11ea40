package track

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"robot-race/internal/common"
	"robot-race/internal/monitoring"
)

// Configuration errors returned by New. They are always wrapped with detail.
var (
	ErrControlPointCount = errors.New("control point count is not a multiple of 4")
	ErrDiscontinuous     = errors.New("consecutive segments do not share an anchor")
	ErrZeroLength        = errors.New("track has zero length")
	ErrInvalidParams     = errors.New("invalid track parameters")
)

// anchorTolerance is how far P3 of one segment may be from P0 of the next.
const anchorTolerance = 1e-9

// Params are the fixed dimensions of a track.
type Params struct {
	LaneWidth  float64
	Lanes      int
	TrackWidth float64
	Thickness  float64 // wall height below the driving surface
	TileLength float64 // texture repeat distance along the track

	// SampleStep is the local-parameter step for both arc-length estimation
	// and mesh sampling. Halving it doubles mesh size.
	SampleStep float64
}

// DefaultParams returns four 1.22-wide lanes on a ribbon exactly as wide.
func DefaultParams() Params {
	const laneWidth = 1.22
	return Params{
		LaneWidth:  laneWidth,
		Lanes:      4,
		TrackWidth: 4 * laneWidth,
		Thickness:  2,
		TileLength: 4 * laneWidth,
		SampleStep: 1e-4,
	}
}

// Validate reports the first unusable parameter.
func (p Params) Validate() error {
	switch {
	case !(p.LaneWidth > 0):
		return fmt.Errorf("%w: lane width %g", ErrInvalidParams, p.LaneWidth)
	case p.Lanes < 1:
		return fmt.Errorf("%w: %d lanes", ErrInvalidParams, p.Lanes)
	case !(p.TrackWidth > 0):
		return fmt.Errorf("%w: track width %g", ErrInvalidParams, p.TrackWidth)
	case p.Thickness < 0 || math.IsNaN(p.Thickness):
		return fmt.Errorf("%w: thickness %g", ErrInvalidParams, p.Thickness)
	case !(p.TileLength > 0):
		return fmt.Errorf("%w: tile length %g", ErrInvalidParams, p.TileLength)
	case !(p.SampleStep > 0) || p.SampleStep > 0.5:
		return fmt.Errorf("%w: sample step %g", ErrInvalidParams, p.SampleStep)
	}
	return nil
}

// Track is an immutable race track. It is built once and shared read-only by
// every robot; only the mesh and waypoint caches are filled lazily.
type Track struct {
	name          string
	params        Params
	controlPoints []common.Vec3
	curve         Curve

	meshOnce sync.Once
	mesh     *Mesh

	waypointsOnce sync.Once
	waypoints     []Waypoint
}

// New builds a track from control points. A nil slice selects the default
// elliptical curve; anything else must hold whole, connected segments with a
// positive total length.
func New(name string, controlPoints []common.Vec3, p Params) (*Track, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	t := &Track{name: name, params: p}
	if controlPoints == nil {
		t.curve = NewDefaultCurve(p.SampleStep)
		monitoring.Logf("track %q: default curve, length %.2f", name, t.curve.Length())
		return t, nil
	}

	if len(controlPoints)%4 != 0 {
		return nil, fmt.Errorf("track %q: %w: got %d", name, ErrControlPointCount, len(controlPoints))
	}
	if len(controlPoints) == 0 {
		return nil, fmt.Errorf("track %q: %w: no segments", name, ErrZeroLength)
	}

	t.controlPoints = append([]common.Vec3(nil), controlPoints...)
	segs := segmentsFrom(t.controlPoints)
	for i := 1; i < len(segs); i++ {
		if !common.ApproxEqual(segs[i-1].P3, segs[i].P0, anchorTolerance) {
			return nil, fmt.Errorf("track %q: %w: segment %d ends at %v, segment %d starts at %v",
				name, ErrDiscontinuous, i-1, segs[i-1].P3, i, segs[i].P0)
		}
	}

	spline := NewSplineCurve(segs, p.SampleStep)
	if total := spline.Length(); !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("track %q: %w: total %g", name, ErrZeroLength, total)
	}
	t.curve = spline

	monitoring.Logf("track %q: %d segments, length %.2f, closed=%v",
		name, len(segs), spline.Length(), spline.Closed())
	return t, nil
}

// Name returns the track's name.
func (t *Track) Name() string { return t.name }

// Params returns the track dimensions.
func (t *Track) Params() Params { return t.params }

// Curve returns the centerline.
func (t *Track) Curve() Curve { return t.curve }

// Closed reports whether the track is a loop.
func (t *Track) Closed() bool { return t.curve.Closed() }

// Length returns the centerline length.
func (t *Track) Length() float64 { return t.curve.Length() }

// ControlPoints returns a copy of the control points, nil for the default curve.
func (t *Track) ControlPoints() []common.Vec3 {
	if t.controlPoints == nil {
		return nil
	}
	return append([]common.Vec3(nil), t.controlPoints...)
}

// Mesh returns the track geometry, building it on first use.
func (t *Track) Mesh() *Mesh {
	t.meshOnce.Do(func() {
		t.mesh = BuildMesh(t.curve, t.meshParams())
		monitoring.Logf("track %q: mesh built, %d vertices", t.name, t.mesh.VertexCount())
	})
	return t.mesh
}

func (t *Track) meshParams() MeshParams {
	return MeshParams{
		TrackWidth: t.params.TrackWidth,
		Thickness:  t.params.Thickness,
		TileLength: t.params.TileLength,
		LaneWidth:  t.params.LaneWidth,
		Lanes:      t.params.Lanes,
	}
}
