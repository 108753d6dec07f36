package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	A, B, C  core.Vec3 // The three vertices
	Material *material.Material
	normal   core.Vec3 // Cached normal vector
}

// NewTriangle creates a new triangle from three vertices. The front face is
// the side from which A, B, C appear counter-clockwise.
func NewTriangle(a, b, c core.Vec3, mat *material.Material) *Triangle {
	t := &Triangle{
		A:        a,
		B:        b,
		C:        c,
		Material: mat,
	}
	t.computeNormal()
	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.B.Subtract(t.A)
	edge2 := t.C.Subtract(t.A)
	t.normal = edge1.Cross(edge2).Normalize()
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore
// algorithm. The barycentric pair (u, v) of the hit is returned as its UV.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	const epsilon = 1e-8

	edge1 := t.B.Subtract(t.A)
	edge2 := t.C.Subtract(t.A)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if det > -epsilon && det < epsilon {
		return nil, false
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(t.A)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        tParam,
		Point:    ray.At(tParam),
		Material: t.Material,
		UV:       core.NewVec2(u, v),
	}
	hitRecord.SetFaceNormal(ray, t.normal)

	return hitRecord, true
}

// Normal returns the triangle's unit normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
