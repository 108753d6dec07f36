package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// reflectScatter mirrors the incoming ray about the normal and perturbs it by
// the material roughness. Rays pushed below the surface are absorbed.
func reflectScatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler, color core.Vec3) (ScatterResult, bool) {
	reflected := rayIn.Direction.Reflect(hit.Normal)

	if hit.Material.Roughness > 0 {
		perturbation := core.RandomInUnitSphere(sampler).Multiply(hit.Material.Roughness)
		reflected = reflected.Add(perturbation)
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Only scatter if the ray is above the surface (not absorbed)
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: color,
	}, true
}
