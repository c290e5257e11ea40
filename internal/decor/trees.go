// Package decor places static props around a track. Props never feed back
// into the track geometry.
package decor

import (
	"robot-race/internal/common"
)

// Kind is a drawable primitive shape.
type Kind int

const (
	Cylinder Kind = iota
	Cone
	Sphere
)

func (k Kind) String() string {
	switch k {
	case Cylinder:
		return "cylinder"
	case Cone:
		return "cone"
	case Sphere:
		return "sphere"
	}
	return "unknown"
}

// Primitive is one solid. Cylinders and cones stand on Position with their
// axis along +Z; a sphere is centered on Position and ignores Height.
type Primitive struct {
	Kind     Kind
	Position common.Vec3
	Radius   float64
	Height   float64
}

// Top returns the highest point of the primitive's axis.
func (p Primitive) Top() common.Vec3 {
	if p.Kind == Sphere {
		return p.Position.Add(common.Up.Mul(p.Radius))
	}
	return p.Position.Add(common.Up.Mul(p.Height))
}

// Shape is the canopy style of a tree.
type Shape int

const (
	Pine Shape = iota
	Round
	Stacked
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case Pine:
		return "pine"
	case Round:
		return "round"
	case Stacked:
		return "stacked"
	}
	return "unknown"
}

// Tree is a trunk with a canopy on top.
type Tree struct {
	Index    int
	Position common.Vec3
	Shape    Shape
	Trunk    Primitive
	Canopy   []Primitive
}

// Place builds one tree per point. Shape and proportions come from the
// point's index, so the same list always yields the same trees.
func Place(points []common.Vec3) []Tree {
	trees := make([]Tree, len(points))
	for i, p := range points {
		trees[i] = grow(i, p)
	}
	return trees
}

func grow(index int, base common.Vec3) Tree {
	h := hash(index)
	shape := Shape(h % uint32(shapeCount))

	trunk := Primitive{
		Kind:     Cylinder,
		Position: base,
		Radius:   0.15 + 0.1*unit(h>>8),
		Height:   1.2 + 0.8*unit(h>>16),
	}
	size := 0.8 + 0.6*unit(h>>24)
	top := trunk.Top()

	var canopy []Primitive
	switch shape {
	case Pine:
		canopy = []Primitive{{Kind: Cone, Position: top, Radius: size, Height: 2.5 * size}}
	case Round:
		canopy = []Primitive{{Kind: Sphere, Position: top.Add(common.Up.Mul(0.8 * size)), Radius: size}}
	case Stacked:
		// Three cones, each smaller and overlapping the one below.
		z := 0.0
		for tier := range 3 {
			scale := 1 - 0.25*float64(tier)
			c := Primitive{Kind: Cone, Position: top.Add(common.Up.Mul(z)), Radius: size * scale, Height: 1.4 * size * scale}
			canopy = append(canopy, c)
			z += 0.6 * c.Height
		}
	}

	return Tree{Index: index, Position: base, Shape: shape, Trunk: trunk, Canopy: canopy}
}

// Primitives flattens trees into a draw list, trunk first for each tree.
func Primitives(trees []Tree) []Primitive {
	var out []Primitive
	for _, t := range trees {
		out = append(out, t.Trunk)
		out = append(out, t.Canopy...)
	}
	return out
}

// hash mixes an index into 32 well-distributed bits.
func hash(i int) uint32 {
	x := uint32(i)*0x9e3779b1 + 0x7f4a7c15
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return x
}

// unit maps the low byte of v to [0, 1].
func unit(v uint32) float64 {
	return float64(v&0xff) / 255
}
