package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ShadowAcneEpsilon is the minimum hit distance, keeping a bounced ray from
// re-hitting the surface it just left
const ShadowAcneEpsilon = 0.001

// PathTracer implements unidirectional path tracing without light sampling
// or Russian roulette; MaxDepth is the only termination bound.
type PathTracer struct {
	MaxDepth int
}

// NewPathTracer creates a path tracer following at most maxDepth segments
func NewPathTracer(maxDepth int) *PathTracer {
	return &PathTracer{MaxDepth: maxDepth}
}

// Cast follows one path from ray. Attenuations along the path multiply into
// the throughput; the path ends on a miss (background), on a terminating
// bounce (its colour) or when the depth budget runs out (black).
func (pt *PathTracer) Cast(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for depth := pt.MaxDepth; depth > 0; depth-- {
		hit, isHit := s.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(s.Background)
		}

		scatter, continues := material.Bounce(ray, hit, sampler)
		if !continues {
			return throughput.MultiplyVec(scatter.Attenuation)
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	return core.Vec3{}
}
