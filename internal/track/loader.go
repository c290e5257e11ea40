package track

import (
	"fmt"

	"robot-race/internal/config"
)

// LoadTrack loads a track definition file and builds the track.
// The config is returned too, for the decorations and seed it carries.
func LoadTrack(path string) (*Track, *config.TrackConfig, error) {
	cfg, err := config.LoadTrackConfig(path)
	if err != nil {
		return nil, nil, err
	}

	t, err := FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("build track from %s: %w", path, err)
	}
	return t, cfg, nil
}

// FromConfig builds a track from an already loaded config.
func FromConfig(cfg *config.TrackConfig) (*Track, error) {
	return New(cfg.GetName(), cfg.Points(), ParamsFromConfig(cfg))
}

// ParamsFromConfig resolves the config's dimensions, applying defaults.
func ParamsFromConfig(cfg *config.TrackConfig) Params {
	return Params{
		LaneWidth:  cfg.GetLaneWidth(),
		Lanes:      cfg.GetLaneCount(),
		TrackWidth: cfg.GetTrackWidth(),
		Thickness:  cfg.GetThickness(),
		TileLength: cfg.GetTileLength(),
		SampleStep: cfg.GetSampleStep(),
	}
}

// PresetConfig returns the config for a built-in track, with default
// dimensions.
func PresetConfig(name string) (*config.TrackConfig, error) {
	p, ok := PresetByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	cfg := config.DefaultTrackConfig()
	cfg.Name = &p.Name
	cfg.SetPoints(p.ControlPoints)
	cfg.SetDecorations(p.Decorations)
	return cfg, nil
}
