package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewCheckerboardImage rasterizes a 2D checkerboard into an image texture.
// Unlike NewCheckerTexture, the pattern follows the surface UVs.
func NewCheckerboardImage(width, height, checkSize int, color1, color2 core.Vec3) Texture {
	pixels := make([]byte, 0, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			color := color1
			if (x/checkSize+y/checkSize)%2 != 0 {
				color = color2
			}
			pixels = appendRGB8(pixels, color)
		}
	}

	return NewImageTexture(pixels, width, height)
}

// NewGradientImage creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientImage(width, height int, color1, color2 core.Vec3) Texture {
	pixels := make([]byte, 0, width*height*3)

	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		color := color1.Lerp(color2, t)

		for x := 0; x < width; x++ {
			pixels = appendRGB8(pixels, color)
		}
	}

	return NewImageTexture(pixels, width, height)
}

func appendRGB8(pixels []byte, c core.Vec3) []byte {
	return append(pixels, toByte(c.X), toByte(c.Y), toByte(c.Z))
}

func toByte(x float64) byte {
	return byte(clamp01(x) * 255)
}
