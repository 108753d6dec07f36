package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Cast estimates the radiance arriving along ray
	Cast(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}
