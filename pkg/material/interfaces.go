package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// HitRecord contains information about a ray-object intersection.
// It is built per intersection query and consumed immediately.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, facing against the incoming ray
	T         float64   // Distance along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  *Material // Material of the hit object
	UV        core.Vec2 // Surface coordinates for texturing
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
