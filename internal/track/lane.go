package track

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"robot-race/internal/common"
)

// Pose is where a robot stands on the track and which way it faces.
type Pose struct {
	Position common.Vec3
	Tangent  common.Vec3 // unit direction of travel, zero if degenerate
	Lateral  common.Vec3 // unit vector toward higher lane numbers
}

// Heading returns the direction of travel as an angle about +Z, measured
// from +X.
func (p Pose) Heading() float64 {
	return math.Atan2(p.Tangent[1], p.Tangent[0])
}

// Transform returns the model matrix that places a robot modelled facing +X
// at this pose.
func (p Pose) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2]).
		Mul4(mgl64.HomogRotate3DZ(p.Heading()))
}

// LaneOffset is the lateral distance of lane's center from the centerline.
// Lane 0 is the innermost lane; negative lanes lie on the other side.
func LaneOffset(lane int, laneWidth float64) float64 {
	return float64(lane)*laneWidth + laneWidth/2
}

// MirrorLane returns the lane whose center is the reflection of lane's center
// across the centerline. Lane 0 mirrors to -1, lane 1 to -2, and so on.
// Note -lane is not the mirror: the half-lane offset puts lane 1 at 1.5 lane
// widths and lane -1 at -0.5.
func MirrorLane(lane int) int {
	return ^lane
}

// LanePose evaluates the curve once and returns the center of lane at
// progress t with its direction of travel.
//
// Lane indices are not validated: any integer is offset by the same formula,
// so keeping lanes on the ribbon is the caller's job.
func (t *Track) LanePose(lane int, progress float64) Pose {
	f := t.curve.FrameAt(progress)
	return Pose{
		Position: f.Offset(LaneOffset(lane, t.params.LaneWidth)),
		Tangent:  common.NormalizeOrZero(f.Tangent),
		Lateral:  f.Lateral,
	}
}

// LanePoint returns the center of lane at progress t.
func (t *Track) LanePoint(lane int, progress float64) common.Vec3 {
	return t.LanePose(lane, progress).Position
}

// LaneTangent returns the unit direction of travel in lane at progress t.
func (t *Track) LaneTangent(lane int, progress float64) common.Vec3 {
	return t.LanePose(lane, progress).Tangent
}

// curvatureDelta is the progress step used to difference tangents.
const curvatureDelta = 1e-3

// Curvature estimates the horizontal curvature of the centerline at progress
// t, in 1/metres. Straights return 0.
func (t *Track) Curvature(progress float64) float64 {
	a, b := t.wrap(progress-curvatureDelta), t.wrap(progress+curvatureDelta)
	c := t.curve
	ta := common.NormalizeOrZero(flatten(c.TangentAt(a)))
	tb := common.NormalizeOrZero(flatten(c.TangentAt(b)))
	ds := common.Flat(c.PointAt(b)).Sub(common.Flat(c.PointAt(a))).Len()
	if ds == 0 {
		return 0
	}
	return tb.Sub(ta).Len() / ds
}

func flatten(v common.Vec3) common.Vec3 {
	return common.V3(v[0], v[1], 0)
}
