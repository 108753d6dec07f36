package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about a finished render
type RenderStats struct {
	TotalPixels     int           // Width * height
	SamplesPerPixel int           // Passes accumulated
	Workers         int           // Workers used
	Elapsed         time.Duration // Wall time
}

// TotalSamples returns the number of camera rays cast
func (rs RenderStats) TotalSamples() int {
	return rs.TotalPixels * rs.SamplesPerPixel
}

// SamplesPerSecond returns the camera ray throughput
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.Elapsed <= 0 {
		return 0
	}
	return float64(rs.TotalSamples()) / rs.Elapsed.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img with
// channels scaled to [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R)/255.0 + 0.7152*float64(c.G)/255.0 + 0.0722*float64(c.B)/255.0
		}
	}
	return total / float64(pixels)
}

// ToImage wraps a resolved RGBA8 buffer as an image for encoding
func ToImage(buf []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, buf)
	return img
}
