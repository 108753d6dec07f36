package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Vec3 is a JSON triple [x, y, z]
type Vec3 [3]float64

// UnmarshalJSON requires exactly three numbers
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if len(values) != 3 {
		return fmt.Errorf("expected 3 components, got %d", len(values))
	}
	copy(v[:], values)
	return nil
}

func (v Vec3) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SceneFile is the JSON scene description format
type SceneFile struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Group       string                  `json:"group,omitempty"`
	Camera      CameraSpec              `json:"camera"`
	Background  Vec3                    `json:"background"`
	Materials   map[string]MaterialSpec `json:"materials"`
	Primitives  []PrimitiveSpec         `json:"primitives"`
}

// CameraSpec mirrors geometry.CameraConfig; omitted fields keep the defaults
type CameraSpec struct {
	Position      *Vec3   `json:"position,omitempty"`
	LookAt        *Vec3   `json:"lookAt,omitempty"`
	Direction     *Vec3   `json:"direction,omitempty"`
	Up            *Vec3   `json:"up,omitempty"`
	VFov          float64 `json:"vfov"`
	Aperture      float64 `json:"aperture"`
	FocusDistance float64 `json:"focusDistance"`
}

// MaterialSpec is either a named preset ("metal", "dielectric", "diffuse",
// "transparent", "emissive") or, with no preset, a custom gate stack.
// Color is shorthand for a solid texture.
type MaterialSpec struct {
	Preset       string       `json:"preset,omitempty"`
	Color        *Vec3        `json:"color,omitempty"`
	Texture      *TextureSpec `json:"texture,omitempty"`
	Metallic     float64      `json:"metallic,omitempty"`
	Specular     float64      `json:"specular,omitempty"`
	Roughness    float64      `json:"roughness,omitempty"`
	Emission     float64      `json:"emission,omitempty"`
	Transparency float64      `json:"transparency,omitempty"`
	IOR          float64      `json:"ior,omitempty"`
}

// TextureSpec describes a texture: "solid", "checker", "image" or "uv"
type TextureSpec struct {
	Type  string       `json:"type"`
	Color *Vec3        `json:"color,omitempty"` // solid
	Even  *TextureSpec `json:"even,omitempty"`  // checker
	Odd   *TextureSpec `json:"odd,omitempty"`   // checker
	Scale float64      `json:"scale,omitempty"` // checker
	File  string       `json:"file,omitempty"`  // image, relative to the scene file
}

// PrimitiveSpec describes one scene object: "sphere", "triangle", "quad" or
// "mesh" (a PLY file split into triangles)
type PrimitiveSpec struct {
	Type     string `json:"type"`
	Material string `json:"material"`

	Center *Vec3   `json:"center,omitempty"` // sphere
	Radius float64 `json:"radius,omitempty"` // sphere

	Vertices []Vec3 `json:"vertices,omitempty"` // triangle

	Corner *Vec3 `json:"corner,omitempty"` // quad
	U      *Vec3 `json:"u,omitempty"`      // quad
	V      *Vec3 `json:"v,omitempty"`      // quad

	File   string  `json:"file,omitempty"`   // mesh
	Scale  float64 `json:"scale,omitempty"`  // mesh, 0 means 1
	Offset *Vec3   `json:"offset,omitempty"` // mesh
}

// ReadSceneFile decodes a scene description without building it. Unknown
// fields are rejected.
func ReadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}
	return &file, nil
}

// LoadScene reads a JSON scene description and builds a scene. Relative
// texture and mesh paths are resolved against the scene file's directory.
// Camera overrides are applied on top of the file's camera.
func LoadScene(path string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	file, err := ReadSceneFile(path)
	if err != nil {
		return nil, err
	}

	s, err := file.Build(filepath.Dir(path), cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("build scene %s: %w", path, err)
	}
	return s, nil
}

// Build validates the description and constructs the scene. Nothing is
// returned unless every material and primitive is valid.
func (f *SceneFile) Build(baseDir string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	cameraConfig, err := f.Camera.apply(geometry.DefaultCameraConfig())
	if err != nil {
		return nil, err
	}
	for _, override := range cameraOverrides {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, override)
	}
	if err := validateCamera(cameraConfig); err != nil {
		return nil, err
	}

	materials := make(map[string]*material.Material, len(f.Materials))
	for name, spec := range f.Materials {
		mat, err := spec.build(baseDir)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	s := scene.NewScene(cameraConfig, f.Background.vec())
	for i, prim := range f.Primitives {
		mat, ok := materials[prim.Material]
		if !ok {
			return nil, fmt.Errorf("primitive %d (%s): unknown material %q", i, prim.Type, prim.Material)
		}
		if err := prim.addTo(s, mat, baseDir); err != nil {
			return nil, fmt.Errorf("primitive %d (%s): %w", i, prim.Type, err)
		}
	}

	return s, nil
}

// apply sets the fields present in the file on top of base. Vectors are
// applied when given, so a zero position or lookAt is kept as written.
func (c CameraSpec) apply(base geometry.CameraConfig) (geometry.CameraConfig, error) {
	result := base
	if c.Position != nil {
		result.Position = c.Position.vec()
	}
	if c.LookAt != nil {
		result.LookAt = c.LookAt.vec()
		result.Direction = core.Vec3{}
	}
	if c.Direction != nil {
		if c.Direction.vec().IsZero() {
			return result, fmt.Errorf("camera direction must not be zero")
		}
		result.Direction = c.Direction.vec()
	}
	if c.Up != nil {
		result.Up = c.Up.vec()
	}
	if c.VFov != 0 {
		result.VFov = c.VFov
	}
	if c.Aperture != 0 {
		result.Aperture = c.Aperture
	}
	if c.FocusDistance != 0 {
		result.FocusDistance = c.FocusDistance
	}
	return result, nil
}

func validateCamera(config geometry.CameraConfig) error {
	if config.VFov <= 0 || config.VFov >= 180 {
		return fmt.Errorf("camera vfov %v out of range (0, 180)", config.VFov)
	}
	if config.Aperture < 0 {
		return fmt.Errorf("camera aperture must not be negative")
	}
	if config.FocusDistance < 0 {
		return fmt.Errorf("camera focus distance must not be negative")
	}
	view := config.Direction
	if view.IsZero() {
		view = config.LookAt.Subtract(config.Position)
	}
	if view.NearZero() {
		return fmt.Errorf("camera has no view direction: position %v equals lookAt", config.Position)
	}
	return nil
}

func (m MaterialSpec) build(baseDir string) (*material.Material, error) {
	texture, err := m.texture(baseDir)
	if err != nil {
		return nil, err
	}

	ior := m.IOR
	if ior == 0 {
		ior = material.DefaultIOR
	}

	gates := []struct {
		name  string
		value float64
	}{
		{"metallic", m.Metallic},
		{"specular", m.Specular},
		{"roughness", m.Roughness},
		{"emission", m.Emission},
		{"transparency", m.Transparency},
	}
	for _, gate := range gates {
		if gate.value < 0 || gate.value > 1 {
			return nil, fmt.Errorf("%s %v out of range [0, 1]", gate.name, gate.value)
		}
	}
	if ior < 0 {
		return nil, fmt.Errorf("ior must not be negative")
	}

	switch m.Preset {
	case "metal":
		return material.NewMetal(texture, m.Roughness), nil
	case "dielectric":
		return material.NewDielectric(texture, m.Roughness), nil
	case "diffuse":
		return material.NewDiffuse(texture), nil
	case "transparent":
		return material.NewTransparent(texture, m.Roughness, ior), nil
	case "emissive":
		return material.NewEmissive(texture), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown preset %q", m.Preset)
	}

	return &material.Material{
		Texture:      texture,
		Metallic:     m.Metallic,
		Specular:     m.Specular,
		Roughness:    m.Roughness,
		Emission:     m.Emission,
		Transparency: m.Transparency,
		IOR:          ior,
	}, nil
}

func (m MaterialSpec) texture(baseDir string) (material.Texture, error) {
	switch {
	case m.Color != nil && m.Texture != nil:
		return material.Texture{}, fmt.Errorf("color and texture are mutually exclusive")
	case m.Color != nil:
		return material.NewSolidColor(m.Color.vec()), nil
	case m.Texture != nil:
		return m.Texture.build(baseDir)
	default:
		return material.Texture{}, fmt.Errorf("missing color or texture")
	}
}

func (t *TextureSpec) build(baseDir string) (material.Texture, error) {
	switch t.Type {
	case "solid":
		if t.Color == nil {
			return material.Texture{}, fmt.Errorf("solid texture needs a color")
		}
		return material.NewSolidColor(t.Color.vec()), nil
	case "checker":
		if t.Even == nil || t.Odd == nil {
			return material.Texture{}, fmt.Errorf("checker texture needs even and odd textures")
		}
		even, err := t.Even.build(baseDir)
		if err != nil {
			return material.Texture{}, fmt.Errorf("checker even: %w", err)
		}
		odd, err := t.Odd.build(baseDir)
		if err != nil {
			return material.Texture{}, fmt.Errorf("checker odd: %w", err)
		}
		return material.NewCheckerTexture(even, odd, t.Scale), nil
	case "image":
		if t.File == "" {
			return material.Texture{}, fmt.Errorf("image texture needs a file")
		}
		return LoadImageTexture(resolvePath(baseDir, t.File))
	case "uv":
		return material.NewUVDebugTexture(), nil
	default:
		return material.Texture{}, fmt.Errorf("unknown texture type %q", t.Type)
	}
}

func (p PrimitiveSpec) addTo(s *scene.Scene, mat *material.Material, baseDir string) error {
	switch p.Type {
	case "sphere":
		if p.Center == nil {
			return fmt.Errorf("sphere needs a center")
		}
		if p.Radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %v", p.Radius)
		}
		s.AddSphere(p.Center.vec(), p.Radius, mat)
	case "triangle":
		if len(p.Vertices) != 3 {
			return fmt.Errorf("triangle needs 3 vertices, got %d", len(p.Vertices))
		}
		s.AddTriangle(p.Vertices[0].vec(), p.Vertices[1].vec(), p.Vertices[2].vec(), mat)
	case "quad":
		if p.Corner == nil || p.U == nil || p.V == nil {
			return fmt.Errorf("quad needs corner, u and v")
		}
		s.AddQuad(p.Corner.vec(), p.U.vec(), p.V.vec(), mat)
	case "mesh":
		if p.File == "" {
			return fmt.Errorf("mesh needs a file")
		}
		mesh, err := LoadPLY(resolvePath(baseDir, p.File))
		if err != nil {
			return err
		}
		scale := p.Scale
		if scale == 0 {
			scale = 1
		}
		var offset core.Vec3
		if p.Offset != nil {
			offset = p.Offset.vec()
		}
		for _, face := range mesh.Faces {
			a := mesh.Vertices[face[0]].Multiply(scale).Add(offset)
			b := mesh.Vertices[face[1]].Multiply(scale).Add(offset)
			c := mesh.Vertices[face[2]].Multiply(scale).Add(offset)
			s.AddTriangle(a, b, c, mat)
		}
	default:
		return fmt.Errorf("unknown primitive type %q", p.Type)
	}
	return nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
