package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"robot-race/internal/common"
	"robot-race/internal/config"
	"robot-race/internal/decor"
	"robot-race/internal/race"
	"robot-race/internal/track"
)

// ============================================================================
// CONFIGURATION - Adjust these values to customize the viewer
// ============================================================================

// Render window dimensions
const (
	WindowWidth  = 1200
	WindowHeight = 800
)

// Simulation settings
const (
	TicksPerSecond        = 60   // Fixed simulation rate
	FastForwardMultiplier = 8    // Ticks per frame in fast mode
	ViewScaleMargin       = 0.9  // Margin for fitting track in window (0.9 = 10% padding)
	MaxDrawPoints         = 1200 // Polyline points drawn per edge or lane line
	RibCount              = 160  // Cross-track ribs drawn along the ribbon
)

// Robot sizes in metres
const (
	RobotWidth  = 0.6
	RobotLength = 0.9
)

// Track colors
var (
	ColorBackground = color.RGBA{30, 70, 30, 255}
	ColorRib        = color.RGBA{80, 80, 80, 255}
	ColorEdge       = color.RGBA{230, 230, 230, 255}
	ColorLaneLine   = color.RGBA{255, 255, 255, 90}
	ColorStart      = color.RGBA{255, 0, 0, 255}
	ColorTrunk      = color.RGBA{110, 70, 40, 255}
	ColorCanopy     = color.RGBA{40, 140, 60, 220}
)

// Robot colors by name
var RobotColors = map[string]color.RGBA{
	"gold":   {212, 175, 55, 255},
	"silver": {192, 192, 192, 255},
	"wood":   {150, 111, 51, 255},
	"orange": {255, 140, 0, 255},
}

var ColorHeading = color.RGBA{255, 255, 0, 255}

// ============================================================================

type Game struct {
	Session *race.Session
	Config  *config.TrackConfig
	Fast    bool
	Paused  bool

	// Preset cycling; -1 when a track file was loaded
	PresetIdx int

	// Cached drawing geometry, thinned from the mesh
	Inner, Outer []common.Vec3
	LaneLines    [][]common.Vec3
	Ribs         []track.Waypoint

	// Rendering Scale
	ViewScale   float32
	ViewOffsetX float32
	ViewOffsetY float32
}

// NewGame builds a session for the config and fits the view to its mesh.
func NewGame(cfg *config.TrackConfig, presetIdx int) (*Game, error) {
	t, err := track.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	g := &Game{Config: cfg, PresetIdx: presetIdx}
	g.load(t)
	return g, nil
}

func (g *Game) load(t *track.Track) {
	g.Session = race.New(t, g.Config.DecorationPoints(), g.Config.GetSeed())

	m := t.Mesh()
	inner, outer := m.Edges()
	g.Inner = track.Decimate(inner, MaxDrawPoints)
	g.Outer = track.Decimate(outer, MaxDrawPoints)
	g.LaneLines = g.LaneLines[:0]
	for _, l := range m.LaneLines {
		g.LaneLines = append(g.LaneLines, track.Decimate(l, MaxDrawPoints))
	}
	g.Ribs = t.Waypoints(RibCount)

	// Fit everything, trees included, into the window
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(p common.Vec3) {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	for i := range g.Inner {
		extend(g.Inner[i])
		extend(g.Outer[i])
	}
	for _, tr := range g.Session.Trees {
		extend(tr.Position)
	}

	scaleW := float64(WindowWidth) / (maxX - minX)
	scaleH := float64(WindowHeight) / (maxY - minY)
	g.ViewScale = float32(math.Min(scaleW, scaleH) * ViewScaleMargin)

	// Center the track; screen Y grows downward
	g.ViewOffsetX = float32(WindowWidth)/2 - float32((minX+maxX)/2)*g.ViewScale
	g.ViewOffsetY = float32(WindowHeight)/2 + float32((minY+maxY)/2)*g.ViewScale
}

// switchPreset rebuilds the session on a neighbouring built-in track.
func (g *Game) switchPreset(delta int) {
	presets := track.Presets()
	idx := max(g.PresetIdx, 0)
	idx = (idx + delta + len(presets)) % len(presets)

	cfg, err := track.PresetConfig(presets[idx].Name)
	if err != nil {
		log.Printf("preset: %v", err)
		return
	}
	cfg.Seed = g.Config.Seed
	t, err := track.FromConfig(cfg)
	if err != nil {
		log.Printf("preset %s: %v", presets[idx].Name, err)
		return
	}
	g.Config = cfg
	g.PresetIdx = idx
	g.load(t)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Fast = !g.Fast
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.switchPreset(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.switchPreset(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.load(g.Session.Track)
	}

	if g.Paused || g.Session.Finished() {
		return nil
	}

	ticks := 1
	if g.Fast {
		ticks = FastForwardMultiplier
	}
	for i := 0; i < ticks; i++ {
		g.Session.Tick(1.0 / TicksPerSecond)
	}
	return nil
}

// toScreen transforms world coordinates to screen coordinates.
func (g *Game) toScreen(x, y float64) (float32, float32) {
	return float32(x)*g.ViewScale + g.ViewOffsetX, g.ViewOffsetY - float32(y)*g.ViewScale
}

// project drops a world point onto the ground plane and into screen space.
func (g *Game) project(p common.Vec3) (float32, float32) {
	f := common.Flat(p)
	return g.toScreen(f.X, f.Y)
}

func (g *Game) strokePolyline(screen *ebiten.Image, line []common.Vec3, width float32, clr color.Color) {
	for j := 0; j < len(line)-1; j++ {
		p1x, p1y := g.project(line[j])
		p2x, p2y := g.project(line[j+1])
		vector.StrokeLine(screen, p1x, p1y, p2x, p2y, width, clr, true)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	// Ribs across the ribbon, from the inner edge to the outer edge
	ribWidth := float32(2 * g.Session.Track.Length() / RibCount * float64(g.ViewScale))
	for _, wp := range g.Ribs {
		p1x, p1y := g.project(wp.Position)
		p2x, p2y := g.project(wp.Position.Add(wp.Normal.Mul(wp.Width)))
		vector.StrokeLine(screen, p1x, p1y, p2x, p2y, ribWidth, ColorRib, true)
	}

	g.strokePolyline(screen, g.Inner, 2, ColorEdge)
	g.strokePolyline(screen, g.Outer, 2, ColorEdge)
	for _, l := range g.LaneLines {
		g.strokePolyline(screen, l, 1, ColorLaneLine)
	}

	// Start line
	if len(g.Inner) > 0 {
		sx, sy := g.project(g.Inner[0])
		ex, ey := g.project(g.Outer[0])
		vector.StrokeLine(screen, sx, sy, ex, ey, 3, ColorStart, true)
	}

	g.drawTrees(screen)

	for _, p := range g.Session.Placements() {
		g.drawRobot(screen, p)
	}

	g.drawHUD(screen)
}

func (g *Game) drawTrees(screen *ebiten.Image) {
	for _, tr := range g.Session.Trees {
		cx, cy := g.project(tr.Position)
		// Seen from above only the widest canopy piece matters
		canopy := 0.0
		for _, c := range tr.Canopy {
			canopy = math.Max(canopy, c.Radius)
		}
		vector.FillCircle(screen, cx, cy, float32(canopy)*g.ViewScale, ColorCanopy, true)
		if tr.Shape != decor.Round {
			vector.FillCircle(screen, cx, cy, float32(tr.Trunk.Radius)*g.ViewScale, ColorTrunk, true)
		}
	}
}

func (g *Game) drawRobot(screen *ebiten.Image, p race.Placement) {
	// Draw Robot as Rotated Rectangle
	heading := p.Pose.Heading()
	cosH := math.Cos(heading)
	sinH := math.Sin(heading)
	halfW := RobotWidth / 2
	halfL := RobotLength / 2
	pos := p.Pose.Position

	corners := [4][2]float64{
		{halfL, halfW},
		{halfL, -halfW},
		{-halfL, -halfW},
		{-halfL, halfW},
	}

	var path vector.Path
	for i, c := range corners {
		wx := pos[0] + c[0]*cosH - c[1]*sinH
		wy := pos[1] + c[0]*sinH + c[1]*cosH
		sx, sy := g.toScreen(wx, wy)
		if i == 0 {
			path.MoveTo(sx, sy)
		} else {
			path.LineTo(sx, sy)
		}
	}
	path.Close()

	var cs ebiten.ColorScale
	cs.ScaleWithColor(RobotColors[p.Name])
	vector.FillPath(screen, &path, nil, &vector.DrawPathOptions{
		AntiAlias:  true,
		ColorScale: cs,
	})

	// Draw Heading (Slightly longer than robot)
	headX, headY := g.project(pos)
	tipX, tipY := g.toScreen(
		pos[0]+cosH*(RobotLength/2+0.4),
		pos[1]+sinH*(RobotLength/2+0.4),
	)
	vector.StrokeLine(screen, headX, headY, tipX, tipY, 2, ColorHeading, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, 220, 230, color.RGBA{0, 0, 0, 180}, true)

	s := g.Session
	msg := "RACE MONITOR\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Track:  %s\n", s.Track.Name())
	msg += fmt.Sprintf("Length: %.1fm\n", s.Track.Length())
	msg += fmt.Sprintf("Time:   %.1fs\n", s.Elapsed)
	for i, r := range s.Standings() {
		msg += fmt.Sprintf("%d. %-6s L%d %3.0f%%", i+1, r.Name, r.Laps, 100*r.Progress)
		if r.BestLapTime > 0 {
			msg += fmt.Sprintf(" %.1fs", r.BestLapTime)
		}
		msg += "\n"
	}
	if s.Finished() {
		msg += "[FINISHED]\n"
	}
	if g.Paused {
		msg += "[PAUSED]\n"
	}
	if g.Fast {
		msg += "[Fast forward]\n"
	}
	msg += "\nS = speed  SPACE = pause\nN/P = track  R = restart"
	ebitenutil.DebugPrint(screen, msg)

	// Leader's pacing agent (Top Right)
	if leader := s.Standings(); len(leader) > 0 {
		panelW := float32(180)
		targetX := float32(WindowWidth) - panelW - 10
		vector.FillRect(screen, targetX, 0, panelW, 70, color.RGBA{0, 0, 0, 180}, true)
		for _, e := range s.Entries {
			if e.Robot == leader[0] {
				info := "LEADER AGENT\n------------\n" + e.Agent.DebugInfoStr()
				ebitenutil.DebugPrintAt(screen, info, int(targetX)+10, 10)
			}
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

func main() {
	trackPath := flag.String("track", "", "track JSON file (overrides -preset)")
	preset := flag.String("preset", "test", "built-in track: test, o-track, l-track, c-track, custom")
	seed := flag.Int64("seed", 0, "race seed (0 keeps the track file's seed)")
	flag.Parse()

	var cfg *config.TrackConfig
	presetIdx := -1
	if *trackPath != "" {
		c, err := config.LoadTrackConfig(*trackPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	} else {
		c, err := track.PresetConfig(*preset)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
		for i, p := range track.Presets() {
			if p.Name == *preset {
				presetIdx = i
			}
		}
	}
	if *seed != 0 {
		cfg.Seed = seed
	}

	game, err := NewGame(cfg, presetIdx)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Robot Race")
	ebiten.SetTPS(TicksPerSecond)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
