package renderer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ParallelConfig contains configuration for a multi-threaded render
type ParallelConfig struct {
	Width      int   // Image width
	Height     int   // Image height
	MaxBounces int   // Maximum path segments
	Samples    int   // Total passes (samples per pixel)
	Workers    int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Seed of the first worker; worker i uses Seed+i
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Width:      400,
		Height:     400,
		MaxBounces: 50,
		Samples:    100,
		Workers:    0, // Auto-detect CPU count
		Seed:       42,
	}
}

// partitionSamples splits samples across workers as evenly as possible; the
// first samples%workers workers get one extra pass
func partitionSamples(samples, workers int) []int {
	shares := make([]int, workers)
	base := samples / workers
	extra := samples % workers
	for i := range shares {
		shares[i] = base
		if i < extra {
			shares[i]++
		}
	}
	return shares
}

// RenderParallel renders config.Samples passes split across independent
// workers and returns their merged accumulator. The scene and camera are
// only read. A cancelled context stops every worker after its current pass
// and returns ctx.Err().
func RenderParallel(ctx context.Context, s *scene.Scene, camera *geometry.Camera, config ParallelConfig, progress ProgressFunc) (*Accumulator, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if config.Samples <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", config.Samples)
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := NewWorkerPool(s, camera, config, partitionSamples(config.Samples, workers))
	if err := pool.Run(ctx, progress); err != nil {
		return nil, err
	}

	return pool.Merge(config.Width, config.Height), nil
}
