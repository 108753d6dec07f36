package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewTriangleScene creates a scene built mostly from triangles: a textured
// floor, a UV-debug pyramid, a glass panel and a gradient backdrop
func NewTriangleScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	lookFrom := core.NewVec3(0, -4, 1.5)
	lookAt := core.NewVec3(0, 0, 0.5)

	cameraConfig := applyCameraOverrides(geometry.CameraConfig{
		Position:    lookFrom,
		LookAt:      lookAt,
		Up:          core.NewVec3(0, 0, 1),
		AspectRatio: 1.0,
		VFov:        50.0,
	}, cameraOverrides)

	s := NewScene(cameraConfig, core.NewVec3(0.5, 0.6, 0.8))

	floor := material.NewDiffuse(material.NewCheckerboardImage(256, 256, 32,
		core.NewVec3(0.9, 0.9, 0.9), // White
		core.NewVec3(0.2, 0.2, 0.8), // Blue
	))
	backdrop := material.NewDiffuse(material.NewGradientImage(64, 64,
		core.NewVec3(1.0, 0.2, 0.2), // Red (top)
		core.NewVec3(0.2, 1.0, 0.2), // Green (bottom)
	))
	uvDebug := material.NewDiffuse(material.NewUVDebugTexture())
	glass := material.NewTransparent(material.NewSolidColor(core.NewVec3(1, 1, 1)), 0.0, 1.5)
	light := material.NewEmissive(material.NewSolidColor(core.NewVec3(4, 4, 4)))

	// Floor and backdrop
	s.AddQuad(core.NewVec3(-3, -3, 0), core.NewVec3(6, 0, 0), core.NewVec3(0, 6, 0), floor)
	s.AddQuad(core.NewVec3(-3, 3, 0), core.NewVec3(6, 0, 0), core.NewVec3(0, 0, 4), backdrop)

	// Square pyramid, faces counter-clockwise seen from outside
	apex := core.NewVec3(0, 0.5, 1.5)
	base := []core.Vec3{
		core.NewVec3(-0.7, -0.2, 0),
		core.NewVec3(0.7, -0.2, 0),
		core.NewVec3(0.7, 1.2, 0),
		core.NewVec3(-0.7, 1.2, 0),
	}
	for i := range base {
		s.AddTriangle(base[i], base[(i+1)%len(base)], apex, uvDebug)
	}

	// Glass panel in front of the pyramid
	s.AddQuad(core.NewVec3(-1.5, -1.2, 0), core.NewVec3(1.0, 0.3, 0), core.NewVec3(0, 0, 1.2), glass)

	s.AddSphere(core.NewVec3(1.6, 0.2, 0.5), 0.5, material.NewMetal(material.NewSolidColor(core.NewVec3(0.8, 0.8, 0.8)), 0.05))
	s.AddSphere(core.NewVec3(0, 0, 6), 1.5, light)

	return s
}
