package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"robot-race/internal/common"
)

// Default track dimensions. The total track width defaults to
// DefaultLaneCount lanes of DefaultLaneWidth.
const (
	DefaultLaneWidth  = 1.22
	DefaultLaneCount  = 4
	DefaultThickness  = 2.0
	DefaultSampleStep = 1e-4
	DefaultSeed       = 1
	DefaultName       = "test"
)

// TrackConfig describes one race track as stored on disk.
//
// A missing control_points key selects the built-in elliptical test track.
// Every other field is optional and falls back to the defaults above through
// the Get* accessors, so partial files are safe.
type TrackConfig struct {
	Name          *string      `json:"name,omitempty"`
	ControlPoints [][3]float64 `json:"control_points,omitempty"`
	Decorations   [][3]float64 `json:"decorations,omitempty"`

	LaneWidth  *float64 `json:"lane_width,omitempty"`
	LaneCount  *int     `json:"lane_count,omitempty"`
	TrackWidth *float64 `json:"track_width,omitempty"`
	Thickness  *float64 `json:"thickness,omitempty"`

	// SampleStep is the local-parameter step used for both arc-length
	// estimation and mesh sampling. Smaller is smoother and slower.
	SampleStep *float64 `json:"sample_step,omitempty"`
	TileLength *float64 `json:"tile_length,omitempty"`

	Seed *int64 `json:"seed,omitempty"`
}

// DefaultTrackConfig returns a config with every tunable set explicitly.
func DefaultTrackConfig() *TrackConfig {
	return &TrackConfig{
		Name:       ptrString(DefaultName),
		LaneWidth:  ptrFloat64(DefaultLaneWidth),
		LaneCount:  ptrInt(DefaultLaneCount),
		TrackWidth: ptrFloat64(DefaultLaneCount * DefaultLaneWidth),
		Thickness:  ptrFloat64(DefaultThickness),
		SampleStep: ptrFloat64(DefaultSampleStep),
		TileLength: ptrFloat64(DefaultLaneCount * DefaultLaneWidth),
		Seed:       ptrInt64(DefaultSeed),
	}
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// LoadTrackConfig loads and validates a TrackConfig from a JSON file.
func LoadTrackConfig(path string) (*TrackConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("track file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat track file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("track file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}

	cfg := &TrackConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse track JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track %s: %w", cleanPath, err)
	}

	return cfg, nil
}

// Save writes the config as indented JSON.
func (c *TrackConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode track JSON: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create track dir: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks that the configuration values are usable.
func (c *TrackConfig) Validate() error {
	if c.ControlPoints != nil && len(c.ControlPoints)%4 != 0 {
		return fmt.Errorf("control_points must hold a multiple of 4 points, got %d", len(c.ControlPoints))
	}
	if c.LaneWidth != nil && *c.LaneWidth <= 0 {
		return fmt.Errorf("lane_width must be positive, got %f", *c.LaneWidth)
	}
	if c.LaneCount != nil && *c.LaneCount < 1 {
		return fmt.Errorf("lane_count must be at least 1, got %d", *c.LaneCount)
	}
	if c.TrackWidth != nil && *c.TrackWidth <= 0 {
		return fmt.Errorf("track_width must be positive, got %f", *c.TrackWidth)
	}
	if c.Thickness != nil && *c.Thickness < 0 {
		return fmt.Errorf("thickness must be non-negative, got %f", *c.Thickness)
	}
	if c.SampleStep != nil && (*c.SampleStep <= 0 || *c.SampleStep > 0.5) {
		return fmt.Errorf("sample_step must be in (0, 0.5], got %g", *c.SampleStep)
	}
	if c.TileLength != nil && *c.TileLength <= 0 {
		return fmt.Errorf("tile_length must be positive, got %f", *c.TileLength)
	}
	return nil
}

// GetName returns the track name or the default.
func (c *TrackConfig) GetName() string {
	if c.Name == nil || *c.Name == "" {
		return DefaultName
	}
	return *c.Name
}

// GetLaneWidth returns the lane width or the default.
func (c *TrackConfig) GetLaneWidth() float64 {
	if c.LaneWidth == nil {
		return DefaultLaneWidth
	}
	return *c.LaneWidth
}

// GetLaneCount returns the lane count or the default.
func (c *TrackConfig) GetLaneCount() int {
	if c.LaneCount == nil {
		return DefaultLaneCount
	}
	return *c.LaneCount
}

// GetTrackWidth returns the track width, defaulting to all lanes side by side.
func (c *TrackConfig) GetTrackWidth() float64 {
	if c.TrackWidth == nil {
		return float64(c.GetLaneCount()) * c.GetLaneWidth()
	}
	return *c.TrackWidth
}

// GetThickness returns the wall height or the default.
func (c *TrackConfig) GetThickness() float64 {
	if c.Thickness == nil {
		return DefaultThickness
	}
	return *c.Thickness
}

// GetSampleStep returns the sampling step or the default.
func (c *TrackConfig) GetSampleStep() float64 {
	if c.SampleStep == nil {
		return DefaultSampleStep
	}
	return *c.SampleStep
}

// GetTileLength returns the texture tile length, defaulting to the track width.
func (c *TrackConfig) GetTileLength() float64 {
	if c.TileLength == nil {
		return c.GetTrackWidth()
	}
	return *c.TileLength
}

// GetSeed returns the race seed or the default.
func (c *TrackConfig) GetSeed() int64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// Points converts the control points to vectors. A config without
// control_points yields nil, which selects the default curve.
func (c *TrackConfig) Points() []common.Vec3 {
	return toVecs(c.ControlPoints)
}

// DecorationPoints converts the decoration positions to vectors.
func (c *TrackConfig) DecorationPoints() []common.Vec3 {
	return toVecs(c.Decorations)
}

// SetPoints stores control points, keeping nil as "use the default curve".
func (c *TrackConfig) SetPoints(pts []common.Vec3) {
	c.ControlPoints = fromVecs(pts)
}

// SetDecorations stores decoration positions.
func (c *TrackConfig) SetDecorations(pts []common.Vec3) {
	c.Decorations = fromVecs(pts)
}

func toVecs(raw [][3]float64) []common.Vec3 {
	if raw == nil {
		return nil
	}
	out := make([]common.Vec3, len(raw))
	for i, p := range raw {
		out[i] = common.Vec3(p)
	}
	return out
}

func fromVecs(pts []common.Vec3) [][3]float64 {
	if pts == nil {
		return nil
	}
	out := make([][3]float64, len(pts))
	for i, p := range pts {
		out[i] = [3]float64(p)
	}
	return out
}
