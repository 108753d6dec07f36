package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// refractionRatio returns eta_i/eta_t for the crossing at hit. Normals are
// already oriented against the ray, so the side comes from FrontFace.
func refractionRatio(hit *HitRecord) float64 {
	if hit.FrontFace {
		// Entering the material (from air to glass)
		return 1.0 / hit.Material.IOR
	}
	// Exiting the material (from glass to air)
	return hit.Material.IOR
}

// schlick approximates the Fresnel reflectance at the hit
func schlick(rayIn core.Ray, hit *HitRecord) float64 {
	cosTheta := math.Min(rayIn.Direction.Negate().Dot(hit.Normal), 1.0)
	return Reflectance(cosTheta, refractionRatio(hit))
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, ratio float64) float64 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// refractScatter transmits the ray through the surface. Under total internal
// reflection it falls back to an untinted reflection.
func refractScatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	ratio := refractionRatio(hit)

	cosTheta := math.Min(rayIn.Direction.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	if ratio*sinTheta > 1.0 {
		return reflectScatter(rayIn, hit, sampler, white)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, rayIn.Direction.Refract(hit.Normal, ratio)),
		Attenuation: white,
	}, true
}
