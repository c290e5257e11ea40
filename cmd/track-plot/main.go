// Command track-plot draws a track's edges, lanes and trees to a PNG, and
// optionally its grip speed profile.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"robot-race/internal/common"
	"robot-race/internal/config"
	"robot-race/internal/decor"
	"robot-race/internal/physics"
	"robot-race/internal/track"
)

const (
	plotPoints    = 2000 // Points per plotted polyline
	profilePoints = 1000 // Samples along the grip speed profile
)

func main() {
	trackPath := flag.String("track", "", "track JSON file (overrides -preset)")
	preset := flag.String("preset", "test", "built-in track")
	out := flag.String("out", "track.png", "output PNG")
	profile := flag.String("profile", "", "also write a grip speed profile PNG here")
	size := flag.Float64("size", 8, "image size in inches")
	flag.Parse()

	t, cfg, err := load(*trackPath, *preset)
	if err != nil {
		log.Fatal(err)
	}

	p, err := trackPlot(t, decor.Place(cfg.DecorationPoints()))
	if err != nil {
		log.Fatal(err)
	}
	side := vg.Length(*size) * vg.Inch
	if err := p.Save(side, side, *out); err != nil {
		log.Fatalf("save track plot: %v", err)
	}
	log.Printf("wrote %s", *out)

	if *profile == "" {
		return
	}
	pp, err := profilePlot(t)
	if err != nil {
		log.Fatal(err)
	}
	if err := pp.Save(2*side, side, *profile); err != nil {
		log.Fatalf("save profile plot: %v", err)
	}
	log.Printf("wrote %s", *profile)
}

func load(path, preset string) (*track.Track, *config.TrackConfig, error) {
	if path != "" {
		return track.LoadTrack(path)
	}
	cfg, err := track.PresetConfig(preset)
	if err != nil {
		return nil, nil, err
	}
	t, err := track.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}

func xys(line []common.Vec3) plotter.XYs {
	pts := make(plotter.XYs, len(line))
	for i, p := range line {
		pts[i] = plotter.XY{X: p[0], Y: p[1]}
	}
	return pts
}

// trackPlot draws the ribbon from above with equal axis scales.
func trackPlot(t *track.Track, trees []decor.Tree) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%.1fm, closed=%v)", t.Name(), t.Length(), t.Closed())
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	m := t.Mesh()
	inner, outer := m.Edges()
	for _, edge := range [][]common.Vec3{inner, outer} {
		l, err := plotter.NewLine(xys(track.Decimate(edge, plotPoints)))
		if err != nil {
			return nil, err
		}
		l.Width = vg.Points(1.5)
		p.Add(l)
	}

	for _, laneLine := range m.LaneLines {
		l, err := plotter.NewLine(xys(track.Decimate(laneLine, plotPoints)))
		if err != nil {
			return nil, err
		}
		l.Width = vg.Points(0.5)
		l.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		l.Color = color.Gray{Y: 128}
		p.Add(l)
	}

	// Lane centers, where robots actually run
	for lane := range t.Params().Lanes {
		pts := make([]common.Vec3, plotPoints)
		for i := range pts {
			pts[i] = t.LanePoint(lane, float64(i)/float64(plotPoints-1))
		}
		l, err := plotter.NewLine(xys(pts))
		if err != nil {
			return nil, err
		}
		l.Width = vg.Points(1)
		l.Color = plotutil.Color(lane)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("lane %d", lane), l)
	}

	if len(trees) > 0 {
		pts := make([]common.Vec3, len(trees))
		for i, tr := range trees {
			pts[i] = tr.Position
		}
		s, err := plotter.NewScatter(xys(pts))
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Color = color.RGBA{40, 140, 60, 255}
		p.Add(s)
		p.Legend.Add("trees", s)
	}

	// Square the data range so circles stay round
	minX, maxX, minY, maxY := plotter.XYRange(xys(append(inner, outer...)))
	half := math.Max(maxX-minX, maxY-minY)/2 + 1
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// profilePlot shows how fast a robot may take each stretch of the track.
func profilePlot(t *track.Track) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Grip Speed", t.Name())
	p.X.Label.Text = "Distance (m)"
	p.Y.Label.Text = "Speed (m/s)"

	pts := make(plotter.XYs, profilePoints)
	for i := range pts {
		progress := float64(i) / float64(profilePoints-1)
		pts[i] = plotter.XY{
			X: progress * t.Length(),
			Y: math.Min(physics.GripSpeed(t.Curvature(progress)), physics.MaxSpeed*1.2),
		}
	}
	grip, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	grip.Width = vg.Points(1)
	grip.Color = plotutil.Color(0)
	p.Add(grip)
	p.Legend.Add("grip limit", grip)

	top := plotter.NewFunction(func(float64) float64 { return physics.MaxSpeed })
	top.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	top.Color = plotutil.Color(1)
	p.Add(top)
	p.Legend.Add("max speed", top)

	p.Y.Min = 0
	p.Legend.Top = false
	p.Legend.Left = false
	return p, nil
}
