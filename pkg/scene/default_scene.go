package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates the five-sphere scene: a checkered ground, a blue
// dielectric, a glass ball, a gold metal ball and a warm light overhead
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	lookFrom := core.NewVec3(-2, -2, 1.5)
	lookAt := core.NewVec3(0, 0, 0)

	cameraConfig := applyCameraOverrides(geometry.CameraConfig{
		Position:      lookFrom,
		LookAt:        lookAt,
		Up:            core.NewVec3(0, 0, 1),
		AspectRatio:   1.0,
		VFov:          70.0,
		Aperture:      0.1,
		FocusDistance: lookAt.Subtract(lookFrom).Length(),
	}, cameraOverrides)

	s := NewScene(cameraConfig, core.NewVec3(0.04, 0.06, 0.16))

	ground := material.NewDiffuse(material.NewCheckerTexture(
		material.NewSolidColor(core.NewVec3(0.2, 0.3, 0.1)),
		material.NewSolidColor(core.NewVec3(0.9, 0.9, 0.9)),
		10.0,
	))
	blue := material.NewDielectric(material.NewSolidColor(core.NewVec3(0.1, 0.2, 0.5)), 0.0)
	glass := material.NewTransparent(material.NewSolidColor(core.NewVec3(0.8, 0.8, 0.8)), 0.0, 1.5)
	gold := material.NewMetal(material.NewSolidColor(core.NewVec3(0.8, 0.6, 0.2)), 0.3)
	light := material.NewEmissive(material.NewSolidColor(core.NewVec3(2.0, 1.6, 1.5)))

	s.AddSphere(core.NewVec3(0, 0, -100.5), 100, ground)
	s.AddSphere(core.NewVec3(0, 0, 0), 0.5, blue)
	s.AddSphere(core.NewVec3(-1, 0, 0), 0.5, glass)
	s.AddSphere(core.NewVec3(1, 0, 0), 0.5, gold)
	s.AddSphere(core.NewVec3(0, 1, 2), 1.0, light)

	return s
}
