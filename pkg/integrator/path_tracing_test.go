package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func solid(r, g, b float64) material.Texture {
	return material.NewSolidColor(core.NewVec3(r, g, b))
}

func newScene(background core.Vec3) *scene.Scene {
	return scene.NewScene(geometry.DefaultCameraConfig(), background)
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

// towardOrigin is a ray from (0,-1,0) aimed at the origin
var towardOrigin = core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))

func TestPathTracer_ZeroDepthIsBlack(t *testing.T) {
	s := newScene(core.NewVec3(1, 1, 1))
	s.AddSphere(core.NewVec3(0, 0, 0), 0.5, material.NewEmissive(solid(5, 5, 5)))

	pt := NewPathTracer(0)
	if got := pt.Cast(towardOrigin, s, core.NewSeededSampler(1)); got != (core.Vec3{}) {
		t.Errorf("Expected black at depth 0, got %v", got)
	}
}

func TestPathTracer_MissReturnsBackground(t *testing.T) {
	background := core.NewVec3(0.04, 0.06, 0.16)
	s := newScene(background)
	s.AddSphere(core.NewVec3(10, 0, 0), 0.5, material.NewDiffuse(solid(1, 1, 1)))

	pt := NewPathTracer(5)
	if got := pt.Cast(towardOrigin, s, core.NewSeededSampler(1)); got != background {
		t.Errorf("Expected background %v, got %v", background, got)
	}
}

func TestPathTracer_EmissiveReturnsEmission(t *testing.T) {
	emission := core.NewVec3(2.0, 1.6, 1.5)
	s := newScene(core.Vec3{})
	s.AddSphere(core.NewVec3(0, 0, 0), 0.5, material.NewEmissive(material.NewSolidColor(emission)))

	pt := NewPathTracer(1)
	sampler := core.NewSeededSampler(1)
	for i := 0; i < 10; i++ {
		if got := pt.Cast(towardOrigin, s, sampler); got != emission {
			t.Fatalf("Expected emission %v, got %v", emission, got)
		}
	}
}

func TestPathTracer_DiffuseBounceToBackground(t *testing.T) {
	tests := []struct {
		name     string
		maxDepth int
		expected core.Vec3
	}{
		// Second segment is cut off
		{"one bounce", 1, core.Vec3{}},
		// Bounce off the convex sphere always escapes
		{"two bounces", 2, core.NewVec3(0.25, 0.25, 0.25)},
		{"many bounces", 10, core.NewVec3(0.25, 0.25, 0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(core.NewVec3(1, 1, 1))
			s.AddSphere(core.NewVec3(0, 0, 0), 0.5, material.NewDiffuse(solid(0.25, 0.25, 0.25)))

			pt := NewPathTracer(tt.maxDepth)
			sampler := core.NewSeededSampler(9)
			for i := 0; i < 50; i++ {
				got := pt.Cast(towardOrigin, s, sampler)
				if !vecNear(got, tt.expected, 1e-12) {
					t.Fatalf("Expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}

func TestPathTracer_AttenuationsMultiply(t *testing.T) {
	// Mirror facing the camera reflects into an emissive sphere behind it
	s := newScene(core.Vec3{})
	s.AddTriangle(
		core.NewVec3(-5, 2, -5), core.NewVec3(5, 2, -5), core.NewVec3(0, 2, 5),
		material.NewMetal(solid(0.5, 0.8, 1.0), 0.0),
	)
	s.AddSphere(core.NewVec3(0, -3, 0), 1.0, material.NewEmissive(solid(2, 2, 2)))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	got := NewPathTracer(3).Cast(ray, s, core.NewSeededSampler(1))
	expected := core.NewVec3(1.0, 1.6, 2.0)
	if !vecNear(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestPathTracer_EnclosedDiffuseSceneIsBlack(t *testing.T) {
	// Camera inside a closed diffuse sphere with black background never
	// reaches any light
	s := newScene(core.Vec3{})
	s.AddSphere(core.NewVec3(0, 0, 0), 10, material.NewDiffuse(solid(0.9, 0.9, 0.9)))
	s.AddSphere(core.NewVec3(0, 3, 0), 1, material.NewDiffuse(solid(0.5, 0.2, 0.2)))

	pt := NewPathTracer(8)
	sampler := core.NewSeededSampler(2)
	for i := 0; i < 200; i++ {
		ray := core.NewRay(core.Vec3{}, core.RandomUnitVector(sampler))
		if got := pt.Cast(ray, s, sampler); got != (core.Vec3{}) {
			t.Fatalf("Expected black inside enclosure, got %v", got)
		}
	}
}

func TestPathTracer_EmissiveEnclosureConverges(t *testing.T) {
	// Every path inside an emissive shell ends at the shell
	emission := core.NewVec3(0.7, 0.5, 0.3)
	s := newScene(core.Vec3{})
	s.AddSphere(core.NewVec3(0, 0, 0), 10, material.NewEmissive(material.NewSolidColor(emission)))

	pt := NewPathTracer(4)
	sampler := core.NewSeededSampler(3)
	sum := core.Vec3{}
	const n = 100
	for i := 0; i < n; i++ {
		ray := core.NewRay(core.Vec3{}, core.RandomUnitVector(sampler))
		sum = sum.Add(pt.Cast(ray, s, sampler))
	}
	mean := sum.Multiply(1.0 / n)
	if math.Abs(mean.X-emission.X) > 1e-9 || math.Abs(mean.Z-emission.Z) > 1e-9 {
		t.Errorf("Expected mean %v, got %v", emission, mean)
	}
}
