package decor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-race/internal/common"
)

func grid(n int) []common.Vec3 {
	pts := make([]common.Vec3, n)
	for i := range pts {
		pts[i] = common.V3(float64(i%8)*5, float64(i/8)*5, 0)
	}
	return pts
}

func TestPlaceIsDeterministic(t *testing.T) {
	pts := grid(32)
	if d := cmp.Diff(Place(pts), Place(pts)); d != "" {
		t.Error(d)
	}
}

func TestShapeDependsOnlyOnIndex(t *testing.T) {
	a := Place(grid(16))
	moved := grid(16)
	for i := range moved {
		moved[i] = moved[i].Add(common.V3(100, -3, 2))
	}
	b := Place(moved)

	for i := range a {
		assert.Equal(t, a[i].Shape, b[i].Shape, "tree %d", i)
		assert.InDelta(t, a[i].Trunk.Height, b[i].Trunk.Height, 1e-12)
		assert.Equal(t, moved[i], b[i].Position)
	}

	// A prefix of the list keeps the same trees.
	diffTrees := cmp.Diff(Place(grid(16))[:5], Place(grid(5)))
	assert.Empty(t, diffTrees)
}

func TestPlaceUsesEveryShape(t *testing.T) {
	seen := map[Shape]int{}
	for _, tr := range Place(grid(64)) {
		seen[tr.Shape]++
	}
	for _, s := range []Shape{Pine, Round, Stacked} {
		assert.Positive(t, seen[s], "no %s trees in 64", s)
	}
}

func TestTreeStructure(t *testing.T) {
	for _, tr := range Place(grid(24)) {
		require.Equal(t, Cylinder, tr.Trunk.Kind)
		assert.Equal(t, tr.Position, tr.Trunk.Position)
		assert.Positive(t, tr.Trunk.Radius)
		assert.Positive(t, tr.Trunk.Height)
		require.NotEmpty(t, tr.Canopy)

		// Every canopy piece sits on or above the trunk top.
		top := tr.Trunk.Top()
		for _, c := range tr.Canopy {
			assert.GreaterOrEqual(t, c.Position[2], top[2]-1e-12, "%s tree %d", tr.Shape, tr.Index)
			assert.Positive(t, c.Radius)
		}

		switch tr.Shape {
		case Pine:
			assert.Len(t, tr.Canopy, 1)
			assert.Equal(t, Cone, tr.Canopy[0].Kind)
		case Round:
			assert.Len(t, tr.Canopy, 1)
			assert.Equal(t, Sphere, tr.Canopy[0].Kind)
		case Stacked:
			require.Len(t, tr.Canopy, 3)
			for i := 1; i < 3; i++ {
				assert.Less(t, tr.Canopy[i].Radius, tr.Canopy[i-1].Radius)
				assert.Greater(t, tr.Canopy[i].Position[2], tr.Canopy[i-1].Position[2])
			}
		}
	}
}

func TestPrimitives(t *testing.T) {
	trees := Place(grid(10))
	prims := Primitives(trees)

	want := 0
	for _, tr := range trees {
		want += 1 + len(tr.Canopy)
	}
	require.Len(t, prims, want)
	assert.Equal(t, trees[0].Trunk, prims[0])
	assert.Empty(t, Primitives(nil))
}

func TestPlaceEmpty(t *testing.T) {
	assert.Empty(t, Place(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "cone", Cone.String())
	assert.Equal(t, "stacked", Stacked.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
