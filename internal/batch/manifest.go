package batch

import (
	"encoding/json"
	"fmt"

	"shapobrot/internal/config"
	"shapobrot/internal/output"
)

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Error     string  `json:"error,omitempty"`
	Pixels    int     `json:"pixels"`
	Evaluated int     `json:"evaluated"`
	Filled    int     `json:"filled"`
	Skipped   float64 `json:"skipped"`
	MaxQueue  int     `json:"max_queue"`
	Millis    float64 `json:"ms"`
}

// Manifest is written as manifest.json next to the rendered frames.
type Manifest struct {
	Mode    string          `json:"mode"`
	Fractal string          `json:"fractal"`
	Frames  []ManifestEntry `json:"frames"`
}

// WriteManifest writes the per-job results to path.
func WriteManifest(path string, cfg config.Config, results []Result) error {
	m := Manifest{Mode: cfg.Mode, Fractal: cfg.Fractal, Frames: make([]ManifestEntry, len(results))}
	for i, r := range results {
		e := ManifestEntry{
			Name:      r.Name,
			Error:     r.Error,
			Pixels:    r.Stats.Pixels,
			Evaluated: r.Stats.Evaluated,
			Filled:    r.Stats.Filled,
			Skipped:   r.Stats.Skipped(),
			MaxQueue:  r.Stats.MaxQueue,
			Millis:    float64(r.Stats.Elapsed.Microseconds()) / 1000,
		}
		if r.Success {
			e.Image = r.Image
		}
		m.Frames[i] = e
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	f, err := output.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return f.Close()
}
