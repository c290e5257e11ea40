package agent

import (
	"fmt"
	"math"
	"math/rand"

	"robot-race/internal/physics"
)

// Actions
const (
	ActionCoast = iota
	ActionThrottle
	ActionBrake
	ActionCount
)

// Hyperparameters
const (
	Alpha          = 0.1   // Learning Rate
	Gamma          = 0.95  // Discount Factor
	InitialEpsilon = 1.0   // Start fully exploring
	MinEpsilon     = 0.02  // Never stop exploring entirely
	Decay          = 0.999 // Per-decision epsilon decay
)

// ProgressBuckets is how many stretches the track is split into for pacing.
const ProgressBuckets = 40

// State represents the discretized state of a robot.
type State struct {
	SegmentIdx int  // Stretch of track (0..ProgressBuckets-1)
	SpeedLevel int  // 0: Stopped, 1: Slow, 2: Medium, 3: Fast
	Sliding    bool // Over the grip limit last tick
}

// QTable stores the Q-values for state-action pairs.
type QTable map[State][ActionCount]float64

// Agent picks a pace action every tick and learns from the outcome.
type Agent interface {
	SelectAction(state State) int
	Learn(state State, action int, reward float64, nextState State)
	DebugInfoStr() string
}

// AgentQTable is an epsilon-greedy tabular learner. Every random choice
// comes from its own source, normally the robot's.
type AgentQTable struct {
	QTable  QTable
	Epsilon float64
	rng     *rand.Rand
}

// NewAgent creates a learner drawing from rng.
func NewAgent(rng *rand.Rand) *AgentQTable {
	return &AgentQTable{
		QTable:  make(QTable),
		Epsilon: InitialEpsilon,
		rng:     rng,
	}
}

// DiscretizeState converts continuous robot state to a discrete State.
func DiscretizeState(r *physics.Robot) State {
	seg := int(r.Progress * ProgressBuckets)
	if seg >= ProgressBuckets {
		seg = ProgressBuckets - 1
	}

	frac := r.Speed / physics.MaxSpeed
	speedLevel := 0
	switch {
	case frac > 0.75:
		speedLevel = 3
	case frac > 0.4:
		speedLevel = 2
	case frac > 0.05:
		speedLevel = 1
	}

	return State{SegmentIdx: seg, SpeedLevel: speedLevel, Sliding: r.Sliding}
}

// Controls maps an action to throttle and brake inputs.
func Controls(action int) (throttle, brake float64) {
	switch action {
	case ActionThrottle:
		return 1, 0
	case ActionBrake:
		return 0, 1
	}
	return 0, 0
}

// SelectAction chooses an action using Epsilon-Greedy policy.
func (a *AgentQTable) SelectAction(state State) int {
	a.Epsilon = math.Max(a.Epsilon*Decay, MinEpsilon)

	if a.rng.Float64() < a.Epsilon {
		return a.rng.Intn(ActionCount)
	}

	// Greedy: Find max Q
	qValues, exists := a.QTable[state]
	if !exists {
		return a.rng.Intn(ActionCount) // Unknown state, explore
	}

	bestAction := 0
	maxQ := -math.MaxFloat64

	// Random tie-breaking
	start := a.rng.Intn(ActionCount)
	for i := 0; i < ActionCount; i++ {
		idx := (start + i) % ActionCount
		if qValues[idx] > maxQ {
			maxQ = qValues[idx]
			bestAction = idx
		}
	}

	return bestAction
}

// Learn updates the Q-Table based on the transition.
func (a *AgentQTable) Learn(state State, action int, reward float64, nextState State) {
	qValues := a.QTable[state]
	currentQ := qValues[action]

	nextQValues, exists := a.QTable[nextState]
	maxNextQ := 0.0
	if exists {
		maxNextQ = -math.MaxFloat64
		for _, q := range nextQValues {
			if q > maxNextQ {
				maxNextQ = q
			}
		}
	}

	// Q(s,a) = Q(s,a) + Alpha * (R + Gamma * maxQ(s',a') - Q(s,a))
	qValues[action] = currentQ + Alpha*(reward+Gamma*maxNextQ-currentQ)
	a.QTable[state] = qValues
}

func (a *AgentQTable) DebugInfoStr() string {
	return fmt.Sprintf("Q-Table Size: %d\nEpsilon: %.3f", len(a.QTable), a.Epsilon)
}

// CalculateReward scores one tick: metres gained, minus a penalty for
// sliding.
func CalculateReward(r *physics.Robot, prevDistance float64) float64 {
	reward := (r.Distance - prevDistance) * 2.0

	if r.Sliding {
		reward -= 5.0
	}
	return reward
}
