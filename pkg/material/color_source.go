package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TextureKind identifies which variant a Texture holds
type TextureKind int

const (
	TextureSolidColor TextureKind = iota
	TextureChecker
	TextureImage
	TextureUVDebug
)

func (k TextureKind) String() string {
	switch k {
	case TextureSolidColor:
		return "solid"
	case TextureChecker:
		return "checker"
	case TextureImage:
		return "image"
	case TextureUVDebug:
		return "uv"
	default:
		return "unknown"
	}
}

// Texture provides spatially-varying colors for materials. The set of
// variants is closed; Evaluate dispatches on Kind.
type Texture struct {
	Kind TextureKind

	Color core.Vec3 // TextureSolidColor

	Even, Odd *Texture // TextureChecker, owned by the checker
	Scale     float64  // TextureChecker

	Image *ImageData // TextureImage
}

// NewSolidColor creates a texture with a uniform color
func NewSolidColor(color core.Vec3) Texture {
	return Texture{Kind: TextureSolidColor, Color: color}
}

// NewCheckerTexture creates a 3D checker pattern alternating between even and
// odd. The checker keeps its own copies of both children.
func NewCheckerTexture(even, odd Texture, scale float64) Texture {
	return Texture{
		Kind:  TextureChecker,
		Even:  &even,
		Odd:   &odd,
		Scale: scale,
	}
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors.
// U maps to red channel, V maps to green channel
func NewUVDebugTexture() Texture {
	return Texture{Kind: TextureUVDebug}
}

// Evaluate returns color at given UV coordinates and 3D point.
// UV is used for image textures, point for procedural textures
func (t *Texture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	switch t.Kind {
	case TextureSolidColor:
		return t.Color
	case TextureChecker:
		sines := math.Sin(point.X*t.Scale) * math.Sin(point.Y*t.Scale) * math.Sin(point.Z*t.Scale)
		if sines < 0 {
			return t.Odd.Evaluate(uv, point)
		}
		return t.Even.Evaluate(uv, point)
	case TextureImage:
		return t.Image.Evaluate(uv)
	case TextureUVDebug:
		return core.NewVec3(uv.X, uv.Y, 0)
	default:
		return core.Vec3{}
	}
}
