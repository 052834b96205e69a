package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"runtime"

	"shapobrot/internal/fractal"
	"shapobrot/internal/scene"
)

// Config holds the scene and all render/output settings.
type Config struct {
	Scene scene.Scene `json:"scene"`

	// Evaluator
	Fractal string  `json:"fractal"`
	JuliaRe float64 `json:"julia_re"`
	JuliaIm float64 `json:"julia_im"`

	// Render settings
	Mode        string `json:"mode"` // "trace" or "full"
	Supersample int    `json:"supersample"`

	// Output
	Palette   string `json:"palette"` // strip image; empty selects the built-in ramp
	Output    string `json:"output"`
	OutputDir string `json:"output_dir"` // batch mode
	Caption   bool   `json:"caption"`
	Swapped   bool   `json:"rgb565_swapped"` // byte order of raw 565 output

	// Batch
	Jobs    string `json:"jobs"`
	Workers int    `json:"workers"`
}

// Default returns the settings used when neither a config file nor flags
// say otherwise.
func Default() Config {
	return Config{
		Scene:       scene.Default(),
		Fractal:     "mandelbrot",
		JuliaRe:     -0.8,
		JuliaIm:     0.156,
		Mode:        "trace",
		Supersample: 1,
		Output:      "out.webp",
		OutputDir:   "renders",
	}
}

// Load reads a JSON config file. Fields not set in the file keep their
// Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Nil
// pointers and zero values mean "not given".
type Flags struct {
	Width, Height    int
	CenterX, CenterY *float64
	Zoom             *float64
	MaxIter          int
	Swap             *bool

	Fractal          string
	JuliaRe, JuliaIm *float64

	Mode        string
	Supersample int
	Palette     string
	Output      string
	OutputDir   string
	Caption     *bool

	Jobs    string
	Workers int
}

// Resolve applies flag overrides and fills remaining defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Scene.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Scene.Height = flags.Height
	}
	if flags.CenterX != nil {
		c.Scene.CenterX = *flags.CenterX
	}
	if flags.CenterY != nil {
		c.Scene.CenterY = *flags.CenterY
	}
	if flags.Zoom != nil {
		c.Scene.ZoomLog2 = *flags.Zoom
	}
	if flags.MaxIter > 0 {
		// Out-of-range caps saturate so Validate reports them.
		c.Scene.MaxIter = uint32(min(uint64(flags.MaxIter), math.MaxUint32))
	}
	if flags.Swap != nil {
		c.Scene.SwapAxes = *flags.Swap
	}
	if flags.Fractal != "" {
		c.Fractal = flags.Fractal
	}
	if flags.JuliaRe != nil {
		c.JuliaRe = *flags.JuliaRe
	}
	if flags.JuliaIm != nil {
		c.JuliaIm = *flags.JuliaIm
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Palette != "" {
		c.Palette = flags.Palette
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Caption != nil {
		c.Caption = *flags.Caption
	}
	if flags.Jobs != "" {
		c.Jobs = flags.Jobs
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults for render settings
	def := scene.Default()
	if c.Scene.Width <= 0 {
		c.Scene.Width = def.Width
	}
	if c.Scene.Height <= 0 {
		c.Scene.Height = def.Height
	}
	if c.Scene.MaxIter == 0 {
		c.Scene.MaxIter = def.MaxIter
	}
	if c.Fractal == "" {
		c.Fractal = "mandelbrot"
	}
	if c.Mode == "" {
		c.Mode = "trace"
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// RenderScene returns the scene at supersampled resolution.
func (c Config) RenderScene() scene.Scene {
	sc := c.Scene
	sc.Width *= c.Supersample
	sc.Height *= c.Supersample
	return sc
}

// Evaluator builds the configured evaluator.
func (c Config) Evaluator() (fractal.Evaluator, error) {
	return fractal.ByName(c.Fractal, fractal.Options{
		MaxIter: c.Scene.MaxIter,
		JuliaRe: c.JuliaRe,
		JuliaIm: c.JuliaIm,
	})
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if err := c.RenderScene().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Mode != "trace" && c.Mode != "full" {
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if _, err := c.Evaluator(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
