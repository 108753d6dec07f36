package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"os"

	"github.com/df07/go-pathtracer/pkg/material"
)

// LoadImage loads a PNG or JPEG image and converts it to 8-bit RGB pixels
// with row 0 at the top. Alpha is discarded.
func LoadImage(filename string) (*material.ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	return ImageDataFromImage(img), nil
}

// ImageDataFromImage converts any decoded image to RGB8
func ImageDataFromImage(img image.Image) *material.ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]byte, 0, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns 16-bit channels
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels = append(pixels, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	return &material.ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// ValidateImageData checks that the pixel buffer matches the dimensions.
// Textures built from unvalidated data may index out of range.
func ValidateImageData(data *material.ImageData) error {
	if data == nil {
		return fmt.Errorf("image data is nil")
	}
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", data.Width, data.Height)
	}
	if want := data.Width * data.Height * 3; len(data.Pixels) != want {
		return fmt.Errorf("image buffer has %d bytes, expected %d for %dx%d RGB",
			len(data.Pixels), want, data.Width, data.Height)
	}
	return nil
}

// LoadImageTexture loads an image file and wraps it in a texture
func LoadImageTexture(filename string) (material.Texture, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return material.Texture{}, err
	}
	if err := ValidateImageData(data); err != nil {
		return material.Texture{}, fmt.Errorf("image %s: %w", filename, err)
	}
	return material.NewImageTexture(data.Pixels, data.Width, data.Height), nil
}

// SavePNG encodes img to filename as PNG
func SavePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return file.Close()
}
