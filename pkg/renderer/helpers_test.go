package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// closeUpConfig frames a radius 0.5 sphere at the origin so that every
// jittered ray of a small image hits it
func closeUpConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Position:    core.NewVec3(0, -1, 0),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 0, 1),
		AspectRatio: 1.0,
		VFov:        20.0,
	}
}

// newSphereScene places one sphere of the given material at the origin
func newSphereScene(mat *material.Material, background core.Vec3) *scene.Scene {
	s := scene.NewScene(closeUpConfig(), background)
	s.AddSphere(core.NewVec3(0, 0, 0), 0.5, mat)
	return s
}

func diffuseGray(v float64) *material.Material {
	return material.NewDiffuse(material.NewSolidColor(core.NewVec3(v, v, v)))
}

// uniformPixels returns a width x height RGBA8 buffer filled with one value
func uniformPixels(width, height int, v byte) []byte {
	buf := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		buf[4*i+0] = v
		buf[4*i+1] = v
		buf[4*i+2] = v
		buf[4*i+3] = 255
	}
	return buf
}
