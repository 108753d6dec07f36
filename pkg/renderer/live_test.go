package renderer

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

func newTestLiveView(t *testing.T) *LiveView {
	t.Helper()
	s := newSphereScene(diffuseGray(0.25), core.NewVec3(1, 1, 1))
	config := DefaultLiveConfig()
	config.Width, config.Height = 4, 4
	config.MaxBounces = 2

	lv, err := NewLiveView(s, config)
	if err != nil {
		t.Fatalf("NewLiveView() error: %v", err)
	}
	return lv
}

func TestNewLiveView_InvalidSize(t *testing.T) {
	s := newSphereScene(diffuseGray(0.25), core.Vec3{})
	config := DefaultLiveConfig()
	config.Width = 0
	if _, err := NewLiveView(s, config); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestLiveView_StepPublishesFrame(t *testing.T) {
	lv := newTestLiveView(t)

	frame := lv.Snapshot()
	if frame.Iterations != 0 || frame.Width != 4 || frame.Height != 4 || len(frame.Pixels) != 64 {
		t.Fatalf("Unexpected initial frame %+v", frame)
	}

	lv.Step()
	lv.Step()

	frame = lv.Snapshot()
	if frame.Iterations != 2 {
		t.Errorf("Expected 2 iterations, got %d", frame.Iterations)
	}
	for i := 0; i < 16; i++ {
		if frame.Pixels[4*i] != 126 || frame.Pixels[4*i+3] != 255 {
			t.Fatalf("Pixel %d: expected 126 with alpha 255, got %v", i, frame.Pixels[4*i:4*i+4])
		}
	}

	// Snapshots are copies
	frame.Pixels[0] = 0
	if lv.Snapshot().Pixels[0] != 126 {
		t.Error("Snapshot shares memory with the live frame")
	}

	img := frame.Image()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("Unexpected image bounds %v", img.Bounds())
	}
}

func TestLiveView_MoveCameraInCameraSpace(t *testing.T) {
	lv := newTestLiveView(t)
	lv.Step()

	start := lv.CameraPosition()
	step := DefaultLiveConfig().MoveStep

	tests := []struct {
		name              string
		right, fwd, up    float64
		expectedDirection core.Vec3
	}{
		// Camera looks down +Y with +Z up, so right is +X
		{"right", 1, 0, 0, core.NewVec3(1, 0, 0)},
		{"forward", 0, 1, 0, core.NewVec3(0, 1, 0)},
		{"up", 0, 0, 1, core.NewVec3(0, 0, 1)},
		{"left", -1, 0, 0, core.NewVec3(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := lv.CameraPosition()
			lv.MoveCamera(tt.right, tt.fwd, tt.up)
			moved := lv.CameraPosition().Subtract(before)

			expected := tt.expectedDirection.Multiply(step)
			if moved.Subtract(expected).Length() > 1e-9 {
				t.Errorf("Expected move %v, got %v", expected, moved)
			}
			if lv.Iterations() != 0 {
				t.Errorf("Expected accumulator reset after move, got %d iterations", lv.Iterations())
			}
		})
	}

	// right then left cancel out; forward and up remain
	final := lv.CameraPosition()
	expected := start.Add(core.NewVec3(0, step, step))
	if final.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected final position %v, got %v", expected, final)
	}
}

func TestLiveView_Reset(t *testing.T) {
	lv := newTestLiveView(t)
	lv.Step()
	lv.Step()
	lv.Reset()

	if lv.Iterations() != 0 {
		t.Errorf("Expected 0 iterations after reset, got %d", lv.Iterations())
	}
	lv.Step()
	if lv.Snapshot().Iterations != 1 {
		t.Errorf("Expected 1 iteration after reset and step, got %d", lv.Snapshot().Iterations)
	}
}

func TestLiveView_Resize(t *testing.T) {
	lv := newTestLiveView(t)
	lv.MoveCamera(0, 1, 0)
	position := lv.CameraPosition()
	lv.Step()

	if err := lv.Resize(6, 2); err != nil {
		t.Fatalf("Resize() error: %v", err)
	}

	frame := lv.Snapshot()
	if frame.Width != 6 || frame.Height != 2 || len(frame.Pixels) != 6*2*4 || frame.Iterations != 0 {
		t.Errorf("Unexpected frame after resize: %dx%d, %d bytes, %d iterations",
			frame.Width, frame.Height, len(frame.Pixels), frame.Iterations)
	}
	if lv.CameraPosition().Subtract(position).Length() > 1e-9 {
		t.Errorf("Resize moved the camera from %v to %v", position, lv.CameraPosition())
	}

	lv.Step()
	if lv.Snapshot().Iterations != 1 {
		t.Error("Expected stepping to work after resize")
	}

	if err := lv.Resize(0, 5); err == nil {
		t.Error("Expected error for invalid size")
	}
}

func TestLiveView_Run(t *testing.T) {
	lv := newTestLiveView(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	err := lv.Run(ctx, time.Millisecond, func(frame Frame) {
		frames++
		if frame.Iterations != frames {
			t.Errorf("Expected frame %d to have %d iterations, got %d", frames, frames, frame.Iterations)
		}
		if frames == 3 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if frames != 3 {
		t.Errorf("Expected 3 frames, got %d", frames)
	}
}

func TestLiveView_ConcurrentUse(t *testing.T) {
	lv := newTestLiveView(t)

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(4)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			lv.Step()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := lv.Resize(2+i%3, 2+i%2); err != nil {
				t.Errorf("Resize() error: %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			lv.MoveCamera(math.Sin(float64(i)), 0, 0)
			lv.Reset()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			frame := lv.Snapshot()
			if len(frame.Pixels) != frame.Width*frame.Height*4 {
				t.Errorf("Inconsistent frame: %dx%d with %d bytes", frame.Width, frame.Height, len(frame.Pixels))
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Live view operations deadlocked")
	}
}
