package scene

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestBuiltinScenes(t *testing.T) {
	tests := []struct {
		id         string
		primitives int
	}{
		{"default", 5},
		{"earth", 2},
		{"triangles", 4 + 4 + 2 + 2},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := NewBuiltinScene(tt.id)
			if err != nil {
				t.Fatalf("NewBuiltinScene(%q) error: %v", tt.id, err)
			}
			if s.GetPrimitiveCount() != tt.primitives {
				t.Errorf("Expected %d primitives, got %d", tt.primitives, s.GetPrimitiveCount())
			}
			if s.Camera == nil {
				t.Fatal("Expected a camera")
			}

			// The center of the view should see something other than the sky
			ray := s.Camera.GetRay(0.5, 0.5, core.NewSeededSampler(1))
			if _, isHit := s.Hit(ray, 0.001, math.Inf(1)); !isHit {
				t.Errorf("Expected the center ray to hit the scene")
			}

			for i := range s.Primitives {
				if s.Primitives[i].Material() == nil {
					t.Errorf("Primitive %d has no material", i)
				}
			}
		})
	}
}

func TestNewBuiltinScene_Unknown(t *testing.T) {
	if _, err := NewBuiltinScene("does-not-exist"); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestDefaultScene_CameraOverrides(t *testing.T) {
	s := NewDefaultScene(geometry.CameraConfig{AspectRatio: 2.0, VFov: 40})

	if s.CameraConfig.AspectRatio != 2.0 || s.CameraConfig.VFov != 40 {
		t.Errorf("Expected overrides to apply, got %+v", s.CameraConfig)
	}
	if s.CameraConfig.Position != core.NewVec3(-2, -2, 1.5) {
		t.Errorf("Expected default position, got %v", s.CameraConfig.Position)
	}
	if math.Abs(s.CameraConfig.FocusDistance-math.Sqrt(4+4+2.25)) > 1e-9 {
		t.Errorf("Expected focus on the look-at point, got %f", s.CameraConfig.FocusDistance)
	}
	if s.Background != core.NewVec3(0.04, 0.06, 0.16) {
		t.Errorf("Unexpected background %v", s.Background)
	}
}

func TestEarthScene_UsesGivenTexture(t *testing.T) {
	texture := NewPlaceholderEarthTexture()
	s := NewEarthScene(texture)

	earth := s.Primitives[0].Material()
	if earth.Texture.Kind != texture.Kind || earth.Texture.Image != texture.Image {
		t.Errorf("Expected earth to use the given texture")
	}
	sun := s.Primitives[1].Material()
	if sun.Emission != 1.0 {
		t.Errorf("Expected emissive sun, got emission %f", sun.Emission)
	}
}
