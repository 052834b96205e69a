package batch

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"shapobrot/internal/config"
	"shapobrot/internal/palette"
	"shapobrot/internal/tracer"
)

// Result holds the outcome of rendering one job.
type Result struct {
	Name    string
	Image   string
	Success bool
	Error   string
	Stats   tracer.Stats
}

// Run renders all jobs using a worker pool. Every worker owns one renderer
// and reuses it for each job it takes; a single pass never spans workers.
// pal is used for jobs that do not name their own palette file.
func Run(cfg config.Config, pal palette.Palette, jobs []Job) []Result {
	total := len(jobs)
	palettes := palette.NewCache()
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := tracer.New(cfg.Mode)
			for idx := range jobChan {
				if err != nil {
					results[idx] = Result{Name: jobs[idx].Name, Error: err.Error()}
				} else {
					results[idx] = processJob(cfg, pal, palettes, r, jobs[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(base config.Config, pal palette.Palette, palettes *palette.Cache, r tracer.Renderer, job Job) Result {
	res := Result{Name: job.Name}

	cfg, err := job.Apply(base)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := cfg.Validate(); err != nil {
		res.Error = err.Error()
		return res
	}

	if job.Palette != "" {
		if pal, err = palettes.Get(job.Palette); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	frame, err := RenderFrame(cfg, r)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Stats = frame.Stats

	res.Image = job.Name + filepath.Ext(cfg.Output)
	if err := frame.Save(filepath.Join(cfg.OutputDir, res.Image), cfg, pal); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}
