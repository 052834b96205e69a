package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shapobrot/internal/batch"
	"shapobrot/internal/config"
	"shapobrot/internal/fractal"
	"shapobrot/internal/palette"
	"shapobrot/internal/preview"
	"shapobrot/internal/tracer"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	jobsFile := flag.String("jobs", "", "Path to a JSON job list (batch mode)")
	width := flag.Int("w", 0, "Image width (default: 320)")
	height := flag.Int("h", 0, "Image height (default: 240)")
	cx := flag.Float64("cx", 0, "Real part of the view center")
	cy := flag.Float64("cy", 0, "Imaginary part of the view center")
	zoom := flag.Float64("zoom", 0, "log2 of the view span along the diagonal")
	maxIter := flag.Int("iter", 0, "Iteration cap (default: 100)")
	swap := flag.Bool("swap", false, "Swap the real and imaginary axes")
	fractalName := flag.String("fractal", "", fmt.Sprintf("Evaluator %v", fractal.Names()))
	juliaRe := flag.Float64("julia-re", 0, "Julia constant, real part")
	juliaIm := flag.Float64("julia-im", 0, "Julia constant, imaginary part")
	paletteFile := flag.String("palette", "", "Palette strip image (png, jpg, gif, tga)")
	out := flag.String("o", "", "Output file (.webp, .png, .565)")
	outputDir := flag.String("out-dir", "", "Output directory for batch mode")
	supersample := flag.Int("supersample", 0, "Render at N× size and downsample")
	caption := flag.Bool("caption", false, "Draw the view coordinates onto the image")
	mode := flag.String("mode", "", "Renderer: trace or full")
	ascii := flag.Bool("ascii", false, "Print a text preview to stdout")
	asciiStyle := flag.String("ascii-style", "digits", "Text preview glyphs: digits or shade")
	cp437 := flag.Bool("cp437", false, "Encode the text preview as code page 437")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Log render passes")

	flag.Parse()

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{
		Width:       *width,
		Height:      *height,
		MaxIter:     *maxIter,
		Fractal:     *fractalName,
		Mode:        *mode,
		Supersample: *supersample,
		Palette:     *paletteFile,
		Output:      *out,
		OutputDir:   *outputDir,
		Jobs:        *jobsFile,
		Workers:     *workers,
	}
	// Only flags given on the command line override float/bool settings
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cx":
			flags.CenterX = cx
		case "cy":
			flags.CenterY = cy
		case "zoom":
			flags.Zoom = zoom
		case "swap":
			flags.Swap = swap
		case "julia-re":
			flags.JuliaRe = juliaRe
		case "julia-im":
			flags.JuliaIm = juliaIm
		case "caption":
			flags.Caption = caption
		}
	})
	cfg.Resolve(flags)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	style, err := preview.ParseStyle(*asciiStyle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		tracer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	pal, err := batch.LoadPalette(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading palette: %v\n", err)
		os.Exit(1)
	}

	if cfg.Jobs != "" {
		runBatch(cfg, pal)
		return
	}

	r, err := tracer.New(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	frame, err := batch.RenderFrame(cfg, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}
	printStats(frame.Stats)

	if *ascii {
		cols, rows := preview.TerminalSize(int(os.Stdout.Fd()))
		err := preview.Write(os.Stdout, frame.Planes[0], preview.Options{
			Cols:    cols,
			Rows:    rows - 1,
			MaxIter: frame.Scene.MaxIter,
			Style:   style,
			CP437:   *cp437,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := frame.Save(cfg.Output, cfg, pal); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved: %s\n", cfg.Output)
}

func printStats(s tracer.Stats) {
	fmt.Printf("Pixels: %d, evaluated: %d, filled: %d (%.1f%% skipped)\n",
		s.Pixels, s.Evaluated, s.Filled, s.Skipped()*100)
	fmt.Printf("Queue: %d enqueued, peak %d; %.1fms\n",
		s.Enqueued, s.MaxQueue, float64(s.Elapsed.Microseconds())/1000)
}

func runBatch(cfg config.Config, pal palette.Palette) {
	jobs, err := batch.LoadJobs(cfg.Jobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading jobs: %v\n", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs to render.")
		os.Exit(0)
	}

	fmt.Printf("Fractal batch (%s mode)\n", cfg.Mode)
	fmt.Printf("Jobs: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(cfg, pal, jobs)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	var evaluated, pixels int
	for _, r := range results {
		if r.Success {
			success++
			evaluated += r.Stats.Evaluated
			pixels += r.Stats.Pixels
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))
	if pixels > 0 {
		fmt.Printf("Evaluated: %d of %d pixels (%.1f%% skipped)\n",
			evaluated, pixels, 100*(1-float64(evaluated)/float64(pixels)))
	}

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(len(errors), 20)
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, cfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
