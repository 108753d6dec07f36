package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// ImageData is a decoded 8-bit RGB raster, 3 bytes per pixel, row-major with
// row 0 at the top. The core trusts len(Pixels) == Width*Height*3; loaders
// validate it before a texture is built.
type ImageData struct {
	Width  int
	Height int
	Pixels []byte
}

// NewImageTexture creates a texture sampling the given RGB8 pixels
func NewImageTexture(pixels []byte, width, height int) Texture {
	return Texture{
		Kind: TextureImage,
		Image: &ImageData{
			Width:  width,
			Height: height,
			Pixels: pixels,
		},
	}
}

// Evaluate samples the image at given UV coordinates using nearest-neighbor
// lookup. V=0 is the bottom row of the image.
func (img *ImageData) Evaluate(uv core.Vec2) core.Vec3 {
	u := clamp01(uv.X)
	v := clamp01(uv.Y)

	x := int(u * float64(img.Width-1))
	y := int((1.0 - v) * float64(img.Height-1))

	idx := 3 * (y*img.Width + x)
	return core.NewVec3(
		float64(img.Pixels[idx+0])/255.0,
		float64(img.Pixels[idx+1])/255.0,
		float64(img.Pixels[idx+2])/255.0,
	)
}

// clamp01 also maps NaN to 0
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
