package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"shapobrot/internal/config"
)

// Job is one frame of a batch. Scene fields present in the job override the
// base config; absent ones are inherited.
type Job struct {
	Name    string          `json:"name"`
	Fractal string          `json:"fractal,omitempty"`
	Scene   json.RawMessage `json:"scene,omitempty"`
	JuliaRe *float64        `json:"julia_re,omitempty"`
	JuliaIm *float64        `json:"julia_im,omitempty"`
	Palette string          `json:"palette,omitempty"`
}

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// LoadJobs reads a JSON array of jobs.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}

	seen := make(map[string]bool, len(jobs))
	for i, j := range jobs {
		if !validName.MatchString(j.Name) {
			return nil, fmt.Errorf("batch: job %d: invalid name %q", i, j.Name)
		}
		if seen[j.Name] {
			return nil, fmt.Errorf("batch: job %d: duplicate name %q", i, j.Name)
		}
		seen[j.Name] = true
	}
	return jobs, nil
}

// Apply returns base with the job's overrides applied.
func (j Job) Apply(base config.Config) (config.Config, error) {
	cfg := base
	if j.Fractal != "" {
		cfg.Fractal = j.Fractal
	}
	if len(j.Scene) > 0 {
		if err := json.Unmarshal(j.Scene, &cfg.Scene); err != nil {
			return base, fmt.Errorf("batch: job %s: scene: %w", j.Name, err)
		}
	}
	if j.JuliaRe != nil {
		cfg.JuliaRe = *j.JuliaRe
	}
	if j.JuliaIm != nil {
		cfg.JuliaIm = *j.JuliaIm
	}
	if j.Palette != "" {
		cfg.Palette = j.Palette
	}
	return cfg, nil
}
