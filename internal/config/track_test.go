package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"robot-race/internal/common"
)

func TestDefaultTrackConfig(t *testing.T) {
	cfg := DefaultTrackConfig()

	if cfg.LaneWidth == nil || *cfg.LaneWidth != 1.22 {
		t.Errorf("Expected LaneWidth 1.22, got %v", cfg.LaneWidth)
	}
	if cfg.GetLaneCount() != 4 {
		t.Errorf("GetLaneCount() = %d, want 4", cfg.GetLaneCount())
	}
	if got, want := cfg.GetTrackWidth(), 4*1.22; got != want {
		t.Errorf("GetTrackWidth() = %f, want %f", got, want)
	}
	if cfg.GetSampleStep() != 1e-4 {
		t.Errorf("GetSampleStep() = %g, want 1e-4", cfg.GetSampleStep())
	}
	if cfg.Points() != nil {
		t.Errorf("default config should select the default curve, got %v", cfg.Points())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEmptyConfigFallsBackToDefaults(t *testing.T) {
	cfg := &TrackConfig{LaneWidth: ptrFloat64(2), LaneCount: ptrInt(3)}

	if cfg.GetName() != DefaultName {
		t.Errorf("GetName() = %q, want %q", cfg.GetName(), DefaultName)
	}
	// Track width follows the configured lanes when not set explicitly.
	if cfg.GetTrackWidth() != 6 {
		t.Errorf("GetTrackWidth() = %f, want 6", cfg.GetTrackWidth())
	}
	if cfg.GetTileLength() != 6 {
		t.Errorf("GetTileLength() = %f, want 6", cfg.GetTileLength())
	}
	if cfg.GetThickness() != DefaultThickness {
		t.Errorf("GetThickness() = %f, want %f", cfg.GetThickness(), DefaultThickness)
	}
	if cfg.GetSeed() != DefaultSeed {
		t.Errorf("GetSeed() = %d, want %d", cfg.GetSeed(), DefaultSeed)
	}
}

func TestLoadTrackConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "o.json")

	testJSON := `{
  "name": "o-track",
  "control_points": [[10,0,1],[10,5,1],[5,10,1],[0,10,1]],
  "decorations": [[-15,3,0]],
  "lane_width": 1.5,
  "sample_step": 0.001
}`
	if err := os.WriteFile(path, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTrackConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetName() != "o-track" {
		t.Errorf("GetName() = %q", cfg.GetName())
	}
	pts := cfg.Points()
	if len(pts) != 4 {
		t.Fatalf("got %d control points, want 4", len(pts))
	}
	if pts[1] != common.V3(10, 5, 1) {
		t.Errorf("control point 1 = %v", pts[1])
	}
	if d := cfg.DecorationPoints(); len(d) != 1 || d[0] != common.V3(-15, 3, 0) {
		t.Errorf("decorations = %v", d)
	}
	if cfg.GetLaneWidth() != 1.5 {
		t.Errorf("GetLaneWidth() = %f, want 1.5", cfg.GetLaneWidth())
	}
	if cfg.GetTrackWidth() != 6 {
		t.Errorf("GetTrackWidth() = %f, want 6", cfg.GetTrackWidth())
	}
}

func TestLoadTrackConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	cases := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"wrong extension", "track.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{"lane_width":`, "parse"},
		{"count not multiple of 4", "three.json", `{"control_points": [[0,0,0],[1,0,0],[2,0,0]]}`, "multiple of 4"},
		{"negative lane width", "lane.json", `{"lane_width": -1}`, "lane_width"},
		{"zero step", "step.json", `{"sample_step": 0}`, "sample_step"},
		{"zero lanes", "lanes.json", `{"lane_count": 0}`, "lane_count"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.file)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadTrackConfig(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}

	if _, err := LoadTrackConfig(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks", "l.json")

	cfg := DefaultTrackConfig()
	cfg.Name = ptrString("l-track")
	cfg.SetPoints([]common.Vec3{
		common.V3(0, 0, 1), common.V3(1, 0, 1), common.V3(2, 0, 1), common.V3(3, 0, 1),
	})
	cfg.SetDecorations([]common.Vec3{common.V3(5, 5, 0)})

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadTrackConfig(path)
	if err != nil {
		t.Fatalf("LoadTrackConfig: %v", err)
	}
	if got.GetName() != "l-track" || len(got.Points()) != 4 || len(got.DecorationPoints()) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}
}
