package renderer

import (
	"context"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Worker renders a fixed number of full-frame passes into its own
// accumulator with its own random stream
type Worker struct {
	ID     int
	Passes int
	tracer *Pathtracer
}

// WorkerPool runs a set of independent workers and merges their results
type WorkerPool struct {
	workers []*Worker
	wg      sync.WaitGroup

	progressMu sync.Mutex
	completed  int
	total      int
}

// NewWorkerPool creates one worker per non-zero share. Worker i is seeded
// with seed+i.
func NewWorkerPool(s *scene.Scene, camera *geometry.Camera, config ParallelConfig, shares []int) *WorkerPool {
	wp := &WorkerPool{}
	for i, passes := range shares {
		if passes == 0 {
			continue
		}
		tracer := NewPathtracer(config.Width, config.Height, config.MaxBounces, camera, s)
		tracer.SetSampler(core.NewSeededSampler(config.Seed + int64(i)))

		wp.workers = append(wp.workers, &Worker{
			ID:     i,
			Passes: passes,
			tracer: tracer,
		})
		wp.total += passes
	}
	return wp
}

// Run starts every worker and blocks until all have finished. Cancellation
// is observed between passes. Progress calls are serialized.
func (wp *WorkerPool) Run(ctx context.Context, progress ProgressFunc) error {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg, func() { wp.passDone(progress) })
	}
	wp.wg.Wait()
	return ctx.Err()
}

func (wp *WorkerPool) passDone(progress ProgressFunc) {
	wp.progressMu.Lock()
	defer wp.progressMu.Unlock()

	wp.completed++
	if progress != nil {
		progress(wp.completed, wp.total)
	}
}

// Merge sums every worker's accumulator into a new one
func (wp *WorkerPool) Merge(width, height int) *Accumulator {
	merged := NewAccumulator(width, height)
	for _, worker := range wp.workers {
		merged.Merge(worker.tracer.Accumulator())
	}
	return merged
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup, onPass func()) {
	defer wg.Done()

	for pass := 0; pass < w.Passes; pass++ {
		if ctx.Err() != nil {
			return
		}
		w.tracer.RenderSinglePass()
		onPass()
	}
}
