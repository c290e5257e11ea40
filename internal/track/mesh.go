package track

import (
	"slices"

	"robot-race/internal/common"
)

// laneLineLift raises painted lane lines above the surface they sit on.
const laneLineLift = 0.01

// Vertex is one renderable vertex.
type Vertex struct {
	Position common.Vec3
	Normal   common.Vec3
	UV       common.Vec2
}

// StripKind identifies a part of the track geometry.
type StripKind int

const (
	StripTop StripKind = iota
	StripInnerWall
	StripOuterWall
	StripStartCap
	StripEndCap
)

func (k StripKind) String() string {
	switch k {
	case StripTop:
		return "top"
	case StripInnerWall:
		return "inner-wall"
	case StripOuterWall:
		return "outer-wall"
	case StripStartCap:
		return "start-cap"
	case StripEndCap:
		return "end-cap"
	}
	return "unknown"
}

// Strip is a quad strip: vertices come in pairs, and each two consecutive
// pairs form one quad.
type Strip struct {
	Kind     StripKind
	Vertices []Vertex
}

// Quads returns the number of quads in the strip.
func (s Strip) Quads() int {
	if len(s.Vertices) < 4 {
		return 0
	}
	return len(s.Vertices)/2 - 1
}

// Mesh is the extruded geometry of a track.
type Mesh struct {
	Top       Strip
	InnerWall Strip
	OuterWall Strip
	// Caps is empty for closed tracks.
	Caps []Strip
	// LaneLines are the boundaries between adjacent lanes, as polylines.
	LaneLines [][]common.Vec3
}

// Strips returns every strip in draw order.
func (m *Mesh) Strips() []Strip {
	return append([]Strip{m.Top, m.InnerWall, m.OuterWall}, m.Caps...)
}

// VertexCount returns the total number of strip vertices.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, s := range m.Strips() {
		n += len(s.Vertices)
	}
	return n
}

// MeshParams are the cross-section dimensions of the extruded ribbon.
type MeshParams struct {
	TrackWidth float64
	Thickness  float64
	TileLength float64
	LaneWidth  float64
	Lanes      int
}

// BuildMesh extrudes the curve into surface, wall and cap strips. It is a pure
// function of its inputs; the sampling density is the curve's own step, so
// the rendered ribbon matches the arc-length table.
func BuildMesh(c Curve, p MeshParams) *Mesh {
	samples := slices.Collect(c.Samples())

	m := &Mesh{
		Top:       Strip{Kind: StripTop, Vertices: make([]Vertex, 0, 2*len(samples))},
		InnerWall: Strip{Kind: StripInnerWall, Vertices: make([]Vertex, 0, 2*len(samples))},
		OuterWall: Strip{Kind: StripOuterWall, Vertices: make([]Vertex, 0, 2*len(samples))},
	}
	down := common.Up.Mul(-p.Thickness)

	for _, s := range samples {
		inner := s.Point
		outer := s.Offset(p.TrackWidth)
		along := s.Distance / p.TileLength

		m.Top.Vertices = append(m.Top.Vertices,
			Vertex{Position: inner, Normal: common.Up, UV: common.Vec2{X: 0, Y: along}},
			Vertex{Position: outer, Normal: common.Up, UV: common.Vec2{X: 1, Y: along}},
		)

		in := s.Lateral.Mul(-1)
		m.InnerWall.Vertices = append(m.InnerWall.Vertices,
			Vertex{Position: inner, Normal: in, UV: common.Vec2{X: along, Y: 0}},
			Vertex{Position: inner.Add(down), Normal: in, UV: common.Vec2{X: along, Y: 1}},
		)
		m.OuterWall.Vertices = append(m.OuterWall.Vertices,
			Vertex{Position: outer, Normal: s.Lateral, UV: common.Vec2{X: along, Y: 0}},
			Vertex{Position: outer.Add(down), Normal: s.Lateral, UV: common.Vec2{X: along, Y: 1}},
		)
	}

	if !c.Closed() && len(samples) >= 2 {
		first, second := samples[0], samples[1]
		last, beforeLast := samples[len(samples)-1], samples[len(samples)-2]

		// One-sided differences: nothing extends past either end.
		startNormal := common.NormalizeOrZero(second.Point.Sub(first.Point)).Mul(-1)
		endNormal := common.NormalizeOrZero(last.Point.Sub(beforeLast.Point))

		m.Caps = []Strip{
			capStrip(StripStartCap, first, startNormal, p, down),
			capStrip(StripEndCap, last, endNormal, p, down),
		}
	}

	for k := 1; k < p.Lanes; k++ {
		d := float64(k) * p.LaneWidth
		line := make([]common.Vec3, 0, len(samples))
		for _, s := range samples {
			line = append(line, s.Offset(d).Add(common.Up.Mul(laneLineLift)))
		}
		m.LaneLines = append(m.LaneLines, line)
	}

	return m
}

// capStrip closes the ribbon's cross-section at one end.
func capStrip(kind StripKind, s Sample, normal common.Vec3, p MeshParams, down common.Vec3) Strip {
	inner := s.Point
	outer := s.Offset(p.TrackWidth)
	return Strip{
		Kind: kind,
		Vertices: []Vertex{
			{Position: inner, Normal: normal, UV: common.Vec2{X: 0, Y: 0}},
			{Position: outer, Normal: normal, UV: common.Vec2{X: 1, Y: 0}},
			{Position: inner.Add(down), Normal: normal, UV: common.Vec2{X: 0, Y: 1}},
			{Position: outer.Add(down), Normal: normal, UV: common.Vec2{X: 1, Y: 1}},
		},
	}
}

// Edges returns the inner and outer borders of the driving surface.
func (m *Mesh) Edges() (inner, outer []common.Vec3) {
	n := len(m.Top.Vertices) / 2
	inner = make([]common.Vec3, n)
	outer = make([]common.Vec3, n)
	for i := range n {
		inner[i] = m.Top.Vertices[2*i].Position
		outer[i] = m.Top.Vertices[2*i+1].Position
	}
	return inner, outer
}

// Decimate keeps at most n evenly spaced points of line, always including
// both ends. Drawing code uses it to thin the dense mesh polylines.
func Decimate(line []common.Vec3, n int) []common.Vec3 {
	if n < 2 || len(line) <= n {
		return line
	}
	out := make([]common.Vec3, n)
	last := len(line) - 1
	for i := range n {
		out[i] = line[i*last/(n-1)]
	}
	return out
}
