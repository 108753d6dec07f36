package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// LiveConfig contains configuration for interactive rendering
type LiveConfig struct {
	Width      int     // Initial frame width
	Height     int     // Initial frame height
	MaxBounces int     // Maximum path segments
	MoveStep   float64 // World units per camera move step
	Seed       int64   // Seed of the random stream
}

// DefaultLiveConfig returns sensible default values
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{
		Width:      400,
		Height:     400,
		MaxBounces: 8, // Keep passes short so pose changes feel responsive
		MoveStep:   0.1,
		Seed:       42,
	}
}

// Frame is a resolved image and the number of passes behind it
type Frame struct {
	Width      int
	Height     int
	Pixels     []byte // Row-major RGBA8
	Iterations int
}

// Image wraps the frame pixels as an image for encoding
func (f Frame) Image() *image.RGBA {
	return ToImage(f.Pixels, f.Width, f.Height)
}

// LiveView keeps refining one view of a scene while the camera moves. The
// tracer (and the camera it owns) is guarded by tracerMu and the presented
// frame by frameMu. Whenever both are needed tracerMu is taken first.
type LiveView struct {
	scene  *scene.Scene
	config LiveConfig

	tracerMu sync.Mutex
	tracer   *Pathtracer
	camera   *geometry.Camera

	frameMu sync.Mutex
	frame   Frame
}

// NewLiveView creates a live view of s. The view gets its own camera built
// from the scene camera config, so the scene itself is never mutated.
func NewLiveView(s *scene.Scene, config LiveConfig) (*LiveView, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", config.Width, config.Height)
	}

	lv := &LiveView{
		scene:  s,
		config: config,
	}
	lv.rebuild(s.CameraConfig, config.Width, config.Height)
	return lv, nil
}

// rebuild replaces the tracer and frame for a new size. Caller holds
// tracerMu or has exclusive access.
func (lv *LiveView) rebuild(cameraConfig geometry.CameraConfig, width, height int) {
	cameraConfig.AspectRatio = float64(width) / float64(height)
	lv.camera = geometry.NewCamera(cameraConfig)
	lv.tracer = NewPathtracer(width, height, lv.config.MaxBounces, lv.camera, lv.scene)
	lv.tracer.SetSampler(core.NewSeededSampler(lv.config.Seed))

	lv.frameMu.Lock()
	lv.frame = Frame{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*4),
	}
	lv.frameMu.Unlock()
}

// Step renders one pass and publishes the refined frame
func (lv *LiveView) Step() {
	lv.tracerMu.Lock()
	defer lv.tracerMu.Unlock()

	lv.tracer.RenderSinglePass()

	lv.frameMu.Lock()
	lv.tracer.Resolve(lv.frame.Pixels)
	lv.frame.Iterations = lv.tracer.Iterations()
	lv.frameMu.Unlock()
}

// Run steps until ctx is done, calling onFrame with each new frame. A
// positive interval waits between passes.
func (lv *LiveView) Run(ctx context.Context, interval time.Duration, onFrame func(Frame)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		lv.Step()
		if onFrame != nil {
			onFrame(lv.Snapshot())
		}

		if interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}
}

// MoveCamera translates the camera in its own frame by the given number of
// steps to the right, forward and up, and discards accumulated samples
func (lv *LiveView) MoveCamera(right, forward, up float64) {
	lv.tracerMu.Lock()
	defer lv.tracerMu.Unlock()

	step := lv.config.MoveStep
	offset := lv.camera.Right().Multiply(right * step).
		Add(lv.camera.Forward().Multiply(forward * step)).
		Add(lv.camera.Up().Multiply(up * step))

	lv.camera.SetPosition(lv.camera.Position().Add(offset))
	lv.tracer.Reset()
}

// Reset discards accumulated samples
func (lv *LiveView) Reset() {
	lv.tracerMu.Lock()
	defer lv.tracerMu.Unlock()

	lv.tracer.Reset()
}

// Resize rebuilds the tracer and frame for a new size, keeping the camera
// pose
func (lv *LiveView) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	lv.tracerMu.Lock()
	defer lv.tracerMu.Unlock()

	lv.rebuild(lv.camera.Config(), width, height)
	return nil
}

// CameraPosition returns the current camera position
func (lv *LiveView) CameraPosition() core.Vec3 {
	lv.tracerMu.Lock()
	defer lv.tracerMu.Unlock()

	return lv.camera.Position()
}

// Iterations returns the number of passes accumulated since the last reset
func (lv *LiveView) Iterations() int {
	lv.tracerMu.Lock()
	defer lv.tracerMu.Unlock()

	return lv.tracer.Iterations()
}

// Snapshot returns a copy of the latest presented frame
func (lv *LiveView) Snapshot() Frame {
	lv.frameMu.Lock()
	defer lv.frameMu.Unlock()

	frame := lv.frame
	frame.Pixels = append([]byte(nil), lv.frame.Pixels...)
	return frame
}
