package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// PrimitiveKind identifies which shape a Primitive holds
type PrimitiveKind int

const (
	PrimitiveSphere PrimitiveKind = iota
	PrimitiveTriangle
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveSphere:
		return "sphere"
	case PrimitiveTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Primitive is a scene object. The set of shapes is closed, so primitives are
// stored by value and Hit dispatches on Kind.
type Primitive struct {
	Kind     PrimitiveKind
	Sphere   Sphere
	Triangle Triangle
}

// SpherePrimitive wraps a sphere
func SpherePrimitive(center core.Vec3, radius float64, mat *material.Material) Primitive {
	return Primitive{Kind: PrimitiveSphere, Sphere: *NewSphere(center, radius, mat)}
}

// TrianglePrimitive wraps a triangle
func TrianglePrimitive(a, b, c core.Vec3, mat *material.Material) Primitive {
	return Primitive{Kind: PrimitiveTriangle, Triangle: *NewTriangle(a, b, c, mat)}
}

// Hit tests the ray against the wrapped shape
func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	switch p.Kind {
	case PrimitiveSphere:
		return p.Sphere.Hit(ray, tMin, tMax)
	case PrimitiveTriangle:
		return p.Triangle.Hit(ray, tMin, tMax)
	default:
		return nil, false
	}
}

// Material returns the material of the wrapped shape
func (p *Primitive) Material() *material.Material {
	switch p.Kind {
	case PrimitiveSphere:
		return p.Sphere.Material
	case PrimitiveTriangle:
		return p.Triangle.Material
	default:
		return nil
	}
}
