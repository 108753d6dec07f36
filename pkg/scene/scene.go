package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering. It is read-only once
// built and may be shared by any number of render workers.
type Scene struct {
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Primitives   []geometry.Primitive // Objects in the scene
	Background   core.Vec3            // Radiance returned when a ray escapes
}

// NewScene creates an empty scene viewed through the given camera config
func NewScene(cameraConfig geometry.CameraConfig, background core.Vec3) *Scene {
	return &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Primitives:   make([]geometry.Primitive, 0),
		Background:   background,
	}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat *material.Material) {
	s.Primitives = append(s.Primitives, geometry.SpherePrimitive(center, radius, mat))
}

// AddTriangle appends a triangle to the scene
func (s *Scene) AddTriangle(a, b, c core.Vec3, mat *material.Material) {
	s.Primitives = append(s.Primitives, geometry.TrianglePrimitive(a, b, c, mat))
}

// AddQuad appends the parallelogram corner, corner+u, corner+u+v, corner+v
// as two triangles. UVs run 0..1 across each triangle.
func (s *Scene) AddQuad(corner, u, v core.Vec3, mat *material.Material) {
	s.AddTriangle(corner, corner.Add(u), corner.Add(v), mat)
	s.AddTriangle(corner.Add(u).Add(v), corner.Add(v), corner.Add(u), mat)
}

// Hit finds the closest intersection in [tMin, tMax] by scanning every
// primitive and narrowing tMax to the closest hit so far
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for i := range s.Primitives {
		if hit, isHit := s.Primitives[i].Hit(ray, tMin, closestSoFar); isHit {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// applyCameraOverrides merges the first override, if any, onto defaults
func applyCameraOverrides(defaults geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}
