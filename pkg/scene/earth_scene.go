package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewEarthScene creates a textured globe lit by a distant emissive sun.
// The texture is usually an equirectangular map from loaders.LoadImage.
func NewEarthScene(earth material.Texture, cameraOverrides ...geometry.CameraConfig) *Scene {
	lookFrom := core.NewVec3(2, 0, 1.5)
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

	s := NewScene(cameraConfig, core.NewVec3(0, 0, 0))

	s.AddSphere(core.NewVec3(0, 0, 0), 1.0, material.NewDiffuse(earth))
	s.AddSphere(core.NewVec3(0, 200, 100), 50.0,
		material.NewEmissive(material.NewSolidColor(core.NewVec3(50, 35, 35))))

	return s
}

// NewPlaceholderEarthTexture returns a procedural stand-in for the earth map
// when no image is available
func NewPlaceholderEarthTexture() material.Texture {
	return material.NewCheckerboardImage(512, 256, 32,
		core.NewVec3(0.1, 0.3, 0.7), // Ocean
		core.NewVec3(0.2, 0.6, 0.2), // Land
	)
}
