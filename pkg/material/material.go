package material

// DefaultIOR is the index of refraction used by presets that do not transmit
const DefaultIOR = 1.5

// Material is a weighted stack of surface behaviors evaluated by Bounce.
// A material is immutable once built and may be shared by many primitives.
type Material struct {
	// Texture is the base (albedo) color source.
	Texture Texture

	// Metallic gives a specular reflection tinted with the base color at 1.0.
	// At 0.0 the material is a diffuse or transmissive base with a specular
	// layer on top.
	Metallic float64

	// Specular is the amount of untinted dielectric reflection or
	// transmission. At 0.0 the material is diffuse.
	Specular float64

	// Roughness perturbs specular and metallic reflections; 0.0 is a mirror.
	Roughness float64

	// Emission is the probability that a hit emits the texture color and
	// ends the path.
	Emission float64

	// Transparency scales how often the specular layer refracts instead of
	// reflecting.
	Transparency float64

	// IOR is the index of refraction for transmission.
	IOR float64
}

// NewMetal creates a tinted mirror
func NewMetal(texture Texture, roughness float64) *Material {
	return &Material{
		Texture:   texture,
		Metallic:  1.0,
		Roughness: roughness,
		IOR:       DefaultIOR,
	}
}

// NewDielectric creates an opaque material with untinted specular reflection
func NewDielectric(texture Texture, roughness float64) *Material {
	return &Material{
		Texture:   texture,
		Specular:  1.0,
		Roughness: roughness,
		IOR:       DefaultIOR,
	}
}

// NewDiffuse creates a lambertian-like material
func NewDiffuse(texture Texture) *Material {
	return &Material{
		Texture: texture,
		IOR:     DefaultIOR,
	}
}

// NewTransparent creates a glass-like material that refracts with the given
// index of refraction and reflects at grazing angles
func NewTransparent(texture Texture, roughness, ior float64) *Material {
	return &Material{
		Texture:      texture,
		Specular:     1.0,
		Roughness:    roughness,
		Transparency: 1.0,
		IOR:          ior,
	}
}

// NewEmissive creates a light source emitting the texture color
func NewEmissive(texture Texture) *Material {
	return &Material{
		Texture:  texture,
		Emission: 1.0,
		IOR:      DefaultIOR,
	}
}
