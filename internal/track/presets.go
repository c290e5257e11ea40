package track

import (
	"robot-race/internal/common"
)

// kappa places the inner control points of a quarter-circle cubic so that the
// curve stays within 0.03% of the true circle.
const kappa = 0.5522847498

// Preset is a built-in track definition.
type Preset struct {
	Name          string
	ControlPoints []common.Vec3 // nil selects the default curve
	Decorations   []common.Vec3
}

// cornerTrees sit just inside the corners of the 40×40 terrain.
var cornerTrees = []common.Vec3{
	common.V3(-19, -19, 0),
	common.V3(19, -19, 0),
	common.V3(19, 19, 0),
	common.V3(-19, 19, 0),
}

// Presets returns the built-in tracks, in menu order.
func Presets() []Preset {
	return []Preset{
		{Name: "test", Decorations: cornerTrees},
		{Name: "o-track", ControlPoints: EllipsePoints(common.V3(0, 0, 1), 14, 14), Decorations: append([]common.Vec3{common.V3(0, 0, 0)}, cornerTrees...)},
		{Name: "l-track", ControlPoints: roundedPath([]common.Vec3{
			common.V3(-16, -16, 1),
			common.V3(16, -16, 1),
			common.V3(16, -2, 1),
			common.V3(-2, -2, 1),
			common.V3(-2, 16, 1),
			common.V3(-16, 16, 1),
		}, 6, true), Decorations: append([]common.Vec3{common.V3(8, 8, 0)}, cornerTrees...)},
		{Name: "c-track", ControlPoints: roundedPath([]common.Vec3{
			common.V3(12, 14, 1),
			common.V3(-12, 14, 1),
			common.V3(-12, -14, 1),
			common.V3(12, -14, 1),
		}, 5, false), Decorations: append([]common.Vec3{common.V3(4, 0, 0)}, cornerTrees...)},
		{Name: "custom", ControlPoints: roundedPath([]common.Vec3{
			common.V3(-16, -8, 1),
			common.V3(0, -16, 2),
			common.V3(16, -8, 3),
			common.V3(16, 8, 3),
			common.V3(0, 16, 2),
			common.V3(-16, 8, 1),
		}, 4, true), Decorations: cornerTrees},
	}
}

// PresetByName looks up a built-in track.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// EllipsePoints returns four quarter-arc segments approximating an ellipse
// around center, traversed counter-clockwise from (center.x+rx, center.y).
func EllipsePoints(center common.Vec3, rx, ry float64) []common.Vec3 {
	at := func(x, y float64) common.Vec3 {
		return center.Add(common.V3(x, y, 0))
	}
	kx, ky := kappa*rx, kappa*ry
	return []common.Vec3{
		at(rx, 0), at(rx, ky), at(kx, ry), at(0, ry),
		at(0, ry), at(-kx, ry), at(-rx, ky), at(-rx, 0),
		at(-rx, 0), at(-rx, -ky), at(-kx, -ry), at(0, -ry),
		at(0, -ry), at(kx, -ry), at(rx, -ky), at(rx, 0),
	}
}

// linePoints is a straight segment with its handles at thirds.
func linePoints(a, b common.Vec3) []common.Vec3 {
	d := b.Sub(a)
	return []common.Vec3{a, a.Add(d.Mul(1.0 / 3)), a.Add(d.Mul(2.0 / 3)), b}
}

// roundedPath turns a polyline into straights joined by arcs of the given
// radius at every interior corner (every corner when closed). Each edge must
// be longer than twice the radius.
func roundedPath(vertices []common.Vec3, radius float64, closed bool) []common.Vec3 {
	n := len(vertices)
	arcStart := make([]common.Vec3, n)
	arcEnd := make([]common.Vec3, n)
	arcs := make([][]common.Vec3, n)

	for i := range vertices {
		if !closed && (i == 0 || i == n-1) {
			arcStart[i], arcEnd[i] = vertices[i], vertices[i]
			continue
		}
		v := vertices[i]
		in := common.NormalizeOrZero(v.Sub(vertices[(i-1+n)%n]))
		out := common.NormalizeOrZero(vertices[(i+1)%n].Sub(v))
		p0 := v.Sub(in.Mul(radius))
		p3 := v.Add(out.Mul(radius))
		arcStart[i], arcEnd[i] = p0, p3
		arcs[i] = []common.Vec3{p0, p0.Add(in.Mul(kappa * radius)), p3.Sub(out.Mul(kappa * radius)), p3}
	}

	var pts []common.Vec3
	if closed {
		for i := range vertices {
			pts = append(pts, arcs[i]...)
			pts = append(pts, linePoints(arcEnd[i], arcStart[(i+1)%n])...)
		}
		return pts
	}
	for i := 0; i < n-1; i++ {
		pts = append(pts, arcs[i]...)
		pts = append(pts, linePoints(arcEnd[i], arcStart[i+1])...)
	}
	return pts
}
