package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Accumulator holds per-pixel running sums of radiance samples scaled to
// 0..255 per unit, 3 channels per pixel, plus the number of full passes
// summed so far
type Accumulator struct {
	Width      int
	Height     int
	Sums       []uint32
	Iterations int
}

// NewAccumulator creates a zeroed accumulator for a width x height surface
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		Width:  width,
		Height: height,
		Sums:   make([]uint32, width*height*3),
	}
}

// Add adds one sample to the pixel at (x, y). Each channel contributes
// colour*255 truncated toward zero; negative and NaN channels contribute 0.
func (a *Accumulator) Add(x, y int, color core.Vec3) {
	i := 3 * (y*a.Width + x)
	a.Sums[i+0] += toContribution(color.X)
	a.Sums[i+1] += toContribution(color.Y)
	a.Sums[i+2] += toContribution(color.Z)
}

func toContribution(c float64) uint32 {
	v := c * 255
	if !(v > 0) {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Reset zeroes all sums and the iteration count
func (a *Accumulator) Reset() {
	clear(a.Sums)
	a.Iterations = 0
}

// Merge adds other's sums and iterations into a. Both must have the same
// dimensions.
func (a *Accumulator) Merge(other *Accumulator) {
	if other.Width != a.Width || other.Height != a.Height {
		panic(fmt.Sprintf("accumulator size mismatch: %dx%d vs %dx%d", a.Width, a.Height, other.Width, other.Height))
	}
	for i, v := range other.Sums {
		a.Sums[i] += v
	}
	a.Iterations += other.Iterations
}

// Resolve writes the averaged, tone mapped image into buf as row-major RGBA8
// with alpha 255. At least one pass must have been accumulated and buf must
// hold exactly Width*Height*4 bytes.
func (a *Accumulator) Resolve(buf []byte) {
	if a.Iterations <= 0 {
		panic("resolve called before any pass was accumulated")
	}
	if len(buf) != a.Width*a.Height*4 {
		panic(fmt.Sprintf("resolve buffer has %d bytes, want %d", len(buf), a.Width*a.Height*4))
	}

	iterations := uint32(a.Iterations)
	for p := 0; p < a.Width*a.Height; p++ {
		for c := 0; c < 3; c++ {
			buf[4*p+c] = toneMap(a.Sums[3*p+c] / iterations)
		}
		buf[4*p+3] = 255
	}
}

// toneMap applies a square-root curve, approximating gamma 2 correction
func toneMap(average uint32) byte {
	v := math.Sqrt(float64(average)/255.0) * 255.0
	if v > 255 {
		return 255
	}
	return byte(v)
}
