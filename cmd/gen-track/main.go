package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"robot-race/internal/track"
)

func main() {
	preset := flag.String("preset", "", "preset to write (default: all)")
	out := flag.String("out", "", "output file for a single preset")
	dir := flag.String("dir", "tracks", "output directory when writing all presets")
	seed := flag.Int64("seed", 0, "race seed stored in the file (0 keeps the default)")
	flag.Parse()

	names := []string{*preset}
	if *preset == "" {
		if *out != "" {
			log.Fatal("-out needs -preset")
		}
		names = names[:0]
		for _, p := range track.Presets() {
			names = append(names, p.Name)
		}
	}

	for _, name := range names {
		cfg, err := track.PresetConfig(name)
		if err != nil {
			log.Fatal(err)
		}
		if *seed != 0 {
			cfg.Seed = seed
		}

		// Refuse to write anything that would not load back
		t, err := track.FromConfig(cfg)
		if err != nil {
			log.Fatal(err)
		}

		path := *out
		if path == "" {
			path = filepath.Join(*dir, name+".json")
		}
		if err := cfg.Save(path); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %d control points, %.1fm, closed=%v -> %s\n",
			name, len(t.ControlPoints()), t.Length(), t.Closed(), path)
	}
}
