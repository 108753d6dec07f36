package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// ScatterResult contains the result of a material bounce
type ScatterResult struct {
	Scattered   core.Ray  // The outgoing ray, valid only when the path continues
	Attenuation core.Vec3 // Per-bounce color factor, or terminal radiance when the path stops
}

// Bounce samples the material at hit for an incoming ray. It returns false
// when the path terminates, in which case Attenuation is the radiance the
// path ends with (the emitted color, or black when absorbed).
//
// Behaviors are selected by sequential gates, each with its own uniform draw:
// emission, then metallic, then specular, otherwise diffuse. When the gate
// weights sum past 1 the later gates are sampled less often; that is the
// sampling contract of this material model.
func Bounce(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	m := hit.Material

	if sampler.Get1D() < m.Emission {
		return emit(hit)
	}
	if sampler.Get1D() < m.Metallic {
		return reflectScatter(rayIn, hit, sampler, m.Texture.Evaluate(hit.UV, hit.Point))
	}
	if sampler.Get1D() < m.Specular {
		if sampler.Get1D() < (1.0-schlick(rayIn, hit))*m.Transparency {
			return refractScatter(rayIn, hit, sampler)
		}
		return reflectScatter(rayIn, hit, sampler, white)
	}
	return diffuseScatter(hit, sampler)
}

var white = core.NewVec3(1, 1, 1)
