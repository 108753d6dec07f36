package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// diffuseScatter scatters around the normal with a cosine-like distribution
// and tints by the surface color. Diffuse bounces always continue.
func diffuseScatter(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: hit.Material.Texture.Evaluate(hit.UV, hit.Point),
	}, true
}
