package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ProgressFunc is called after each completed pass
type ProgressFunc func(completed, total int)

// Pathtracer renders full-frame sample passes into its own accumulator. A
// Pathtracer is not safe for concurrent use; parallel renders give each
// worker its own.
type Pathtracer struct {
	width, height int
	camera        *geometry.Camera
	scene         *scene.Scene
	integrator    integrator.Integrator
	sampler       core.Sampler
	accumulator   *Accumulator
}

// NewPathtracer creates a renderer for a width x height image. Paths are cut
// off after maxBounces segments.
func NewPathtracer(width, height, maxBounces int, camera *geometry.Camera, s *scene.Scene) *Pathtracer {
	return &Pathtracer{
		width:       width,
		height:      height,
		camera:      camera,
		scene:       s,
		integrator:  integrator.NewPathTracer(maxBounces),
		sampler:     core.NewSeededSampler(42),
		accumulator: NewAccumulator(width, height),
	}
}

// SetSampler replaces the random source used for subsequent passes
func (p *Pathtracer) SetSampler(sampler core.Sampler) {
	p.sampler = sampler
}

// RenderSinglePass casts one jittered ray per pixel and adds the results to
// the accumulator
func (p *Pathtracer) RenderSinglePass() {
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			s := imageCoordinate(x, p.width, core.RandomInRange(p.sampler, -0.5, 0.5))
			t := 1.0 - imageCoordinate(y, p.height, core.RandomInRange(p.sampler, -0.5, 0.5))

			ray := p.camera.GetRay(s, t, p.sampler)
			color := p.integrator.Cast(ray, p.scene, p.sampler)
			p.accumulator.Add(x, y, color)
		}
	}
	p.accumulator.Iterations++
}

// imageCoordinate maps pixel i of n plus a jitter in [-0.5, 0.5) onto [0, 1].
// A single-pixel axis samples around the centre.
func imageCoordinate(i, n int, jitter float64) float64 {
	if n <= 1 {
		return 0.5 + jitter
	}
	return (float64(i) + jitter) / float64(n-1)
}

// PixelRay returns the ray through the centre of pixel (x, y) of a
// width x height image. The sampler is only used by cameras with a lens.
func PixelRay(camera *geometry.Camera, x, y, width, height int, sampler core.Sampler) core.Ray {
	s := imageCoordinate(x, width, 0)
	t := 1.0 - imageCoordinate(y, height, 0)
	return camera.GetRay(s, t, sampler)
}

// Resolve writes the current image into buf (width*height*4 bytes, RGBA8).
// It panics if no pass has been rendered since the last reset.
func (p *Pathtracer) Resolve(buf []byte) {
	p.accumulator.Resolve(buf)
}

// Reset discards all accumulated samples
func (p *Pathtracer) Reset() {
	p.accumulator.Reset()
}

// Render resets, runs n passes calling progress after each one, and resolves
// into buf. n must be at least 1.
func (p *Pathtracer) Render(buf []byte, n int, progress ProgressFunc) {
	p.Reset()
	for pass := 1; pass <= n; pass++ {
		p.RenderSinglePass()
		if progress != nil {
			progress(pass, n)
		}
	}
	p.Resolve(buf)
}

// Accumulator returns the renderer's accumulator
func (p *Pathtracer) Accumulator() *Accumulator {
	return p.accumulator
}

// Iterations returns the number of passes accumulated since the last reset
func (p *Pathtracer) Iterations() int {
	return p.accumulator.Iterations
}

// Camera returns the camera rays are generated from
func (p *Pathtracer) Camera() *geometry.Camera {
	return p.camera
}

// Size returns the image dimensions
func (p *Pathtracer) Size() (width, height int) {
	return p.width, p.height
}
