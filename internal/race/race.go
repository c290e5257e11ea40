// Package race runs robots around a shared track and reports where each one
// should be drawn.
package race

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"robot-race/internal/agent"
	"robot-race/internal/common"
	"robot-race/internal/decor"
	"robot-race/internal/monitoring"
	"robot-race/internal/physics"
	"robot-race/internal/track"
)

// RobotNames are the four racers, in starting-lane order.
var RobotNames = []string{"gold", "silver", "wood", "orange"}

// Entry is one robot and the policy driving it.
type Entry struct {
	Robot *physics.Robot
	Agent agent.Agent
}

// Placement is where a renderer should draw one robot this frame.
type Placement struct {
	Name      string
	Lane      int
	Pose      track.Pose
	Transform mgl64.Mat4
}

// Session is one race on one track. It is driven from a single goroutine;
// the track it holds is shared read-only.
type Session struct {
	ID      string
	Seed    int64
	Track   *track.Track
	Trees   []decor.Tree
	Entries []Entry
	Elapsed float64 // Seconds of simulated time
}

// New starts a race with one robot per lane, up to four. Robot seeds are
// drawn from seed, so a session replays exactly.
func New(t *track.Track, decorations []common.Vec3, seed int64) *Session {
	s := &Session{
		ID:    uuid.New().String(),
		Seed:  seed,
		Track: t,
		Trees: decor.Place(decorations),
	}

	seeds := rand.New(rand.NewSource(seed))
	n := min(len(RobotNames), t.Params().Lanes)
	for lane := range n {
		r := physics.NewRobot(RobotNames[lane], lane, seeds.Int63())
		s.Entries = append(s.Entries, Entry{Robot: r, Agent: agent.NewAgent(r.Rand())})
	}

	monitoring.Logf("race %s: %d robots on %q (seed %d)", s.ID, n, t.Name(), seed)
	return s
}

// Tick advances every robot by dt seconds and returns their placements.
func (s *Session) Tick(dt float64) []Placement {
	length := s.Track.Length()
	closed := s.Track.Closed()

	for _, e := range s.Entries {
		r := e.Robot
		state := agent.DiscretizeState(r)
		action := e.Agent.SelectAction(state)
		throttle, brake := agent.Controls(action)

		prev := r.Distance
		grip := physics.GripSpeed(s.Track.Curvature(r.Progress))
		if r.Update(dt, length, closed, throttle, brake, grip) {
			monitoring.Logf("race %s: %s finished lap %d in %.2fs (best %.2fs)",
				s.ID, r.Name, r.Laps, r.LastLapTime, r.BestLapTime)
		}
		e.Agent.Learn(state, action, agent.CalculateReward(r, prev), agent.DiscretizeState(r))
	}
	s.Elapsed += dt

	return s.Placements()
}

// Placements returns where each robot stands without advancing the race.
func (s *Session) Placements() []Placement {
	out := make([]Placement, len(s.Entries))
	for i, e := range s.Entries {
		pose := s.Track.LanePose(e.Robot.Lane, e.Robot.Progress)
		out[i] = Placement{
			Name:      e.Robot.Name,
			Lane:      e.Robot.Lane,
			Pose:      pose,
			Transform: pose.Transform(),
		}
	}
	return out
}

// Standings orders robots by laps, then progress, leader first.
func (s *Session) Standings() []*physics.Robot {
	out := make([]*physics.Robot, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Robot
	}
	slices.SortStableFunc(out, func(a, b *physics.Robot) int {
		if c := cmp.Compare(b.Laps, a.Laps); c != 0 {
			return c
		}
		return cmp.Compare(b.Progress, a.Progress)
	})
	return out
}

// Finished reports whether every robot has reached the end of an open track.
// Races on closed tracks never finish.
func (s *Session) Finished() bool {
	if s.Track.Closed() || len(s.Entries) == 0 {
		return false
	}
	for _, e := range s.Entries {
		if !e.Robot.Finished {
			return false
		}
	}
	return true
}

// String summarises the session for logs and HUDs.
func (s *Session) String() string {
	return fmt.Sprintf("%s on %s, %.1fs", s.ID[:8], s.Track.Name(), s.Elapsed)
}
