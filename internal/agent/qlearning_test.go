package agent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-race/internal/physics"
)

func TestDiscretizeState(t *testing.T) {
	r := physics.NewRobot("gold", 0, 1)
	assert.Equal(t, State{}, DiscretizeState(r))

	r.Progress = 1
	r.Speed = physics.MaxSpeed
	r.Sliding = true
	assert.Equal(t, State{SegmentIdx: ProgressBuckets - 1, SpeedLevel: 3, Sliding: true}, DiscretizeState(r))

	r.Progress = 0.5
	r.Speed = 0.5 * physics.MaxSpeed
	r.Sliding = false
	assert.Equal(t, State{SegmentIdx: ProgressBuckets / 2, SpeedLevel: 2}, DiscretizeState(r))
}

func TestControls(t *testing.T) {
	th, br := Controls(ActionThrottle)
	assert.Equal(t, [2]float64{1, 0}, [2]float64{th, br})
	th, br = Controls(ActionBrake)
	assert.Equal(t, [2]float64{0, 1}, [2]float64{th, br})
	th, br = Controls(ActionCoast)
	assert.Equal(t, [2]float64{0, 0}, [2]float64{th, br})
}

func TestSelectActionIsReproducible(t *testing.T) {
	a := NewAgent(rand.New(rand.NewSource(9)))
	b := NewAgent(rand.New(rand.NewSource(9)))
	s := State{SegmentIdx: 3, SpeedLevel: 1}
	for range 500 {
		got := a.SelectAction(s)
		require.Equal(t, got, b.SelectAction(s))
		require.GreaterOrEqual(t, got, 0)
		require.Less(t, got, ActionCount)
	}
}

func TestEpsilonDecays(t *testing.T) {
	a := NewAgent(rand.New(rand.NewSource(1)))
	for range 10000 {
		a.SelectAction(State{})
	}
	assert.Equal(t, MinEpsilon, a.Epsilon)
}

func TestGreedyPicksBestAction(t *testing.T) {
	a := NewAgent(rand.New(rand.NewSource(1)))
	a.Epsilon = 0
	s := State{SegmentIdx: 7}
	a.QTable[s] = [ActionCount]float64{ActionCoast: 1, ActionThrottle: 5, ActionBrake: -2}

	// Decay raises epsilon to MinEpsilon, so a few picks may explore.
	throttle := 0
	for range 200 {
		if a.SelectAction(s) == ActionThrottle {
			throttle++
		}
	}
	assert.Greater(t, throttle, 180)
}

func TestLearn(t *testing.T) {
	a := NewAgent(rand.New(rand.NewSource(1)))
	s, next := State{SegmentIdx: 1}, State{SegmentIdx: 2}

	a.Learn(s, ActionThrottle, 10, next)
	assert.InDelta(t, Alpha*10, a.QTable[s][ActionThrottle], 1e-12)

	a.QTable[next] = [ActionCount]float64{4, 8, 2}
	before := a.QTable[s][ActionThrottle]
	a.Learn(s, ActionThrottle, 10, next)
	want := before + Alpha*(10+Gamma*8-before)
	assert.InDelta(t, want, a.QTable[s][ActionThrottle], 1e-12)
	assert.Contains(t, a.DebugInfoStr(), "Q-Table Size: 2")
}

func TestCalculateReward(t *testing.T) {
	r := physics.NewRobot("gold", 0, 1)
	r.Distance = 3
	assert.InDelta(t, 4, CalculateReward(r, 1), 1e-12)

	r.Sliding = true
	assert.InDelta(t, -1, CalculateReward(r, 1), 1e-12)
}
