// Command tracestat renders one scene with both the border tracer and the
// exhaustive renderer and reports how much work tracing saved and how many
// pixels differ.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"shapobrot/internal/batch"
	"shapobrot/internal/config"
	"shapobrot/internal/tracer"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	width := flag.Int("w", 0, "Image width")
	height := flag.Int("h", 0, "Image height")
	maxIter := flag.Int("iter", 0, "Iteration cap")
	fractalName := flag.String("fractal", "", "Evaluator name")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Width: *width, Height: *height, MaxIter: *maxIter, Fractal: *fractalName})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	traced, err := batch.RenderFrame(cfg, tracer.NewBorderTracer())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error (trace): %v\n", err)
		os.Exit(1)
	}
	full, err := batch.RenderFrame(cfg, tracer.NewExhaustive())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error (full): %v\n", err)
		os.Exit(1)
	}

	sc := traced.Scene
	mismatch := 0
	for y := range sc.Height {
		for x := range sc.Width {
			for i := range traced.Planes {
				if !bytes.Equal(traced.Planes[i].Pixel(x, y), full.Planes[i].Pixel(x, y)) {
					mismatch++
					break
				}
			}
		}
	}

	ts, fs := traced.Stats, full.Stats
	fmt.Printf("%s %dx%d, %d iterations\n", cfg.Fractal, sc.Width, sc.Height, sc.MaxIter)
	fmt.Printf("trace: %d evaluated, %d filled, %d enqueued, peak queue %d, %.1fms\n",
		ts.Evaluated, ts.Filled, ts.Enqueued, ts.MaxQueue, float64(ts.Elapsed.Microseconds())/1000)
	fmt.Printf("full:  %d evaluated, %.1fms\n", fs.Evaluated, float64(fs.Elapsed.Microseconds())/1000)
	fmt.Printf("Skipped: %.1f%%\n", ts.Skipped()*100)
	fmt.Printf("Mismatch: %d pixels (%.3f%%)\n", mismatch, 100*float64(mismatch)/float64(ts.Pixels))
}
