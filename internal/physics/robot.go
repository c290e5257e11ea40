package physics

import (
	"math"
	"math/rand"
)

const (
	MaxSpeed      = 6.0 // Metres per second on a straight
	Acceleration  = 2.0 // m/s² at full throttle
	Braking       = 4.0 // m/s² at full brake
	Friction      = 0.5 // Rolling resistance, m/s²
	LateralGrip   = 4.0 // Largest sustainable sideways acceleration, m/s²
	SlideFriction = 0.2 // Fraction of speed lost per tick while sliding
)

// Robot is one racer's progress along a shared track. It is owned and
// mutated only by the race loop; the track itself is never touched.
type Robot struct {
	Name string
	Lane int

	Progress float64 // Global track progress in [0, 1]
	Distance float64 // Metres covered since the start, across laps
	Speed    float64 // Metres per second, never negative
	Sliding  bool    // Over the grip limit on the last update
	Finished bool    // Reached the end of an open track

	// Talent scales MaxSpeed so that identical policies still spread out.
	Talent float64

	// Race State
	Laps           int
	CurrentLapTime float64 // Seconds into the current lap
	LastLapTime    float64 // Seconds for the previous lap
	BestLapTime    float64 // 0 until a lap is completed

	rng *rand.Rand
}

// NewRobot creates a robot at the start line with its own random source.
func NewRobot(name string, lane int, seed int64) *Robot {
	rng := rand.New(rand.NewSource(seed))
	return &Robot{
		Name:   name,
		Lane:   lane,
		Talent: 0.9 + 0.2*rng.Float64(),
		rng:    rng,
	}
}

// Rand returns the robot's private random source. Anything that makes
// random choices for this robot draws from it, so a seed replays a race.
func (r *Robot) Rand() *rand.Rand {
	return r.rng
}

// TopSpeed is this robot's straight-line speed limit.
func (r *Robot) TopSpeed() float64 {
	return MaxSpeed * r.Talent
}

// GripSpeed is the fastest a robot can take a bend of the given curvature.
func GripSpeed(curvature float64) float64 {
	if curvature <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(LateralGrip / curvature)
}

// Update advances the robot by dt seconds along a track of the given length.
// throttle: 0.0 to 1.0
// brake: 0.0 to 1.0
// gripSpeed: the bend's speed limit at the robot's position
// It reports whether a lap was completed.
func (r *Robot) Update(dt, trackLength float64, closed bool, throttle, brake, gripSpeed float64) bool {
	if r.Finished || dt <= 0 || trackLength <= 0 {
		return false
	}

	// 1. Apply Input
	r.Speed += throttle*Acceleration*dt - brake*Braking*dt

	// 2. Apply Friction
	r.Speed -= Friction * dt
	if r.Speed < 0 {
		r.Speed = 0
	}

	// 3. Too fast for the bend: slide and scrub speed
	r.Sliding = r.Speed > gripSpeed
	if r.Sliding {
		r.Speed *= 1 - SlideFriction
	}

	// Clamp speed
	if top := r.TopSpeed(); r.Speed > top {
		r.Speed = top
	}

	// 4. Advance along the track
	step := r.Speed * dt
	r.Distance += step
	r.Progress += step / trackLength
	r.CurrentLapTime += dt

	if !closed {
		if r.Progress >= 1 {
			r.Progress = 1
			r.Speed = 0
			r.Finished = true
		}
		return false
	}

	if r.Progress < 1 {
		return false
	}
	r.Progress -= math.Floor(r.Progress)
	r.Laps++
	r.LastLapTime = r.CurrentLapTime
	if r.BestLapTime == 0 || r.LastLapTime < r.BestLapTime {
		r.BestLapTime = r.LastLapTime
	}
	r.CurrentLapTime = 0
	return true
}
