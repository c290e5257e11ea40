package track

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-race/internal/common"
)

// twoSegmentOpen is an S bend whose ends are far apart.
func twoSegmentOpen() []common.Vec3 {
	return []common.Vec3{
		common.V3(0, 0, 0), common.V3(5, 0, 0), common.V3(5, 5, 0), common.V3(10, 5, 0),
		common.V3(10, 5, 0), common.V3(15, 5, 0), common.V3(15, 10, 0), common.V3(20, 10, 0),
	}
}

// oneSegmentLoop is a teardrop that returns to its start.
func oneSegmentLoop() []common.Vec3 {
	return []common.Vec3{
		common.V3(0, 0, 0), common.V3(10, 10, 0), common.V3(-10, 10, 0), common.V3(0, 0, 0),
	}
}

func TestMeshCaps(t *testing.T) {
	open := mustTrack(t, "open", twoSegmentOpen())
	require.False(t, open.Closed())
	m := open.Mesh()
	require.Len(t, m.Caps, 2)
	assert.Equal(t, StripStartCap, m.Caps[0].Kind)
	assert.Equal(t, StripEndCap, m.Caps[1].Kind)
	for _, c := range m.Caps {
		assert.Len(t, c.Vertices, 4)
		assert.Equal(t, 1, c.Quads())
	}

	loop := mustTrack(t, "loop", oneSegmentLoop())
	require.True(t, loop.Closed())
	assert.Empty(t, loop.Mesh().Caps)
	assert.Empty(t, mustPreset(t, "test").Mesh().Caps)
}

func TestMeshCapNormalsFaceOutward(t *testing.T) {
	tr := mustTrack(t, "open", twoSegmentOpen())
	m := tr.Mesh()

	start := tr.Curve().TangentAt(0)
	end := tr.Curve().TangentAt(1)
	for _, v := range m.Caps[0].Vertices {
		assert.Less(t, v.Normal.Dot(start), 0.0)
		assert.InDelta(t, 1, v.Normal.Len(), 1e-12)
	}
	for _, v := range m.Caps[1].Vertices {
		assert.Greater(t, v.Normal.Dot(end), 0.0)
		assert.InDelta(t, 1, v.Normal.Len(), 1e-12)
	}
	// The start cap spans the ribbon's first cross-section.
	assertVecNear(t, m.Top.Vertices[0].Position, m.Caps[0].Vertices[0].Position, 0)
	assertVecNear(t, m.Top.Vertices[1].Position, m.Caps[0].Vertices[1].Position, 0)
}

func TestMeshIsDeterministic(t *testing.T) {
	for _, name := range []string{"test", "l-track", "c-track"} {
		t.Run(name, func(t *testing.T) {
			p, _ := PresetByName(name)
			a := mustTrack(t, name, p.ControlPoints)
			b := mustTrack(t, name, p.ControlPoints)
			diff(t, BuildMesh(a.Curve(), a.meshParams()), BuildMesh(b.Curve(), b.meshParams()))
		})
	}
}

func TestMeshVertexCounts(t *testing.T) {
	tr := mustTrack(t, "open", twoSegmentOpen())
	m := tr.Mesh()
	// Two segments of 1000 steps share one anchor sample.
	samples := 2*1000 + 1

	for _, s := range []Strip{m.Top, m.InnerWall, m.OuterWall} {
		assert.Len(t, s.Vertices, 2*samples, s.Kind.String())
		assert.Equal(t, samples-1, s.Quads())
	}
	assert.Equal(t, 3*2*samples+2*4, m.VertexCount())
	assert.Len(t, m.Strips(), 5)
}

func TestMeshNormals(t *testing.T) {
	m := mustPreset(t, "custom").Mesh()

	for _, v := range m.Top.Vertices {
		require.Equal(t, common.Up, v.Normal)
	}
	require.Equal(t, len(m.InnerWall.Vertices), len(m.OuterWall.Vertices))
	for i, v := range m.InnerWall.Vertices {
		o := m.OuterWall.Vertices[i]
		require.InDelta(t, 1, v.Normal.Len(), 1e-9)
		require.InDelta(t, 0, v.Normal[2], 1e-12)
		assertVecNear(t, o.Normal.Mul(-1), v.Normal, 0)
	}
}

func TestMeshGeometry(t *testing.T) {
	tr := mustPreset(t, "l-track")
	p := tr.Params()
	m := tr.Mesh()

	for i := 0; i < len(m.Top.Vertices); i += 2 {
		inner, outer := m.Top.Vertices[i], m.Top.Vertices[i+1]
		require.InDelta(t, p.TrackWidth, outer.Position.Sub(inner.Position).Len(), 1e-9)

		iw := m.InnerWall.Vertices[i : i+2]
		assertVecNear(t, inner.Position, iw[0].Position, 0)
		assert.InDelta(t, p.Thickness, iw[0].Position[2]-iw[1].Position[2], 1e-12)

		ow := m.OuterWall.Vertices[i : i+2]
		assertVecNear(t, outer.Position, ow[0].Position, 0)
		assert.InDelta(t, p.Thickness, ow[0].Position[2]-ow[1].Position[2], 1e-12)
	}
}

func TestDefaultMeshEdgesAreRadial(t *testing.T) {
	tr := mustPreset(t, "test")
	w := tr.Params().TrackWidth
	m := tr.Mesh()

	for i := 0; i < len(m.Top.Vertices); i += 97 * 2 {
		inner := m.Top.Vertices[i].Position
		outer := m.Top.Vertices[i+1].Position
		ri := math.Hypot(inner[0], inner[1])
		ro := math.Hypot(outer[0], outer[1])
		assert.InDelta(t, ri+w, ro, 1e-9)
		assert.InDelta(t, DefaultSurfaceHeight, inner[2], 1e-12)
	}
}

func TestMeshUVs(t *testing.T) {
	tr := mustTrack(t, "open", twoSegmentOpen())
	p := tr.Params()
	m := tr.Mesh()

	last := m.Top.Vertices[len(m.Top.Vertices)-1]
	assert.InDelta(t, tr.Length()/p.TileLength, last.UV.Y, 1e-9)

	prev := -1.0
	for i, v := range m.Top.Vertices {
		assert.Equal(t, float64(i%2), v.UV.X)
		if i%2 == 0 {
			assert.GreaterOrEqual(t, v.UV.Y, prev)
			prev = v.UV.Y
		}
	}
	for i, v := range m.OuterWall.Vertices {
		assert.Equal(t, float64(i%2), v.UV.Y)
		assert.Equal(t, m.Top.Vertices[i-i%2].UV.Y, v.UV.X)
	}
}

func TestMeshLaneLines(t *testing.T) {
	tr := mustPreset(t, "o-track")
	p := tr.Params()
	m := tr.Mesh()
	require.Len(t, m.LaneLines, p.Lanes-1)

	samples := len(m.Top.Vertices) / 2
	for k, line := range m.LaneLines {
		require.Len(t, line, samples)
		inner := m.Top.Vertices[0].Position
		want := inner.Add(common.V3(float64(k+1)*p.LaneWidth, 0, laneLineLift))
		diff(t, want, line[0], cmpopts.EquateApprox(0, 1e-9))
	}
}

func TestTrackMeshIsCached(t *testing.T) {
	tr := mustTrack(t, "loop", oneSegmentLoop())
	assert.Same(t, tr.Mesh(), tr.Mesh())
}

func TestStripKindString(t *testing.T) {
	assert.Equal(t, "top", StripTop.String())
	assert.Equal(t, "end-cap", StripEndCap.String())
	assert.Equal(t, "unknown", StripKind(42).String())
}

func TestMeshEdges(t *testing.T) {
	tr := mustPreset(t, "c-track")
	m := tr.Mesh()
	inner, outer := m.Edges()
	require.Len(t, inner, len(m.Top.Vertices)/2)
	require.Len(t, outer, len(inner))
	diff(t, tr.Curve().PointAt(0), inner[0])
	diff(t, tr.Curve().FrameAt(1).Offset(tr.Params().TrackWidth), outer[len(outer)-1], cmpopts.EquateApprox(0, 1e-9))
}

func TestDecimate(t *testing.T) {
	line := make([]common.Vec3, 101)
	for i := range line {
		line[i] = common.V3(float64(i), 0, 0)
	}

	got := Decimate(line, 11)
	require.Len(t, got, 11)
	for i, p := range got {
		assert.Equal(t, float64(10*i), p[0])
	}

	assert.Len(t, Decimate(line, 500), 101)
	assert.Len(t, Decimate(line, 1), 101)
	assert.Equal(t, line[100], Decimate(line, 2)[1])
}
