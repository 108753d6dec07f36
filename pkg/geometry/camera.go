package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Position      core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at, used when Direction is zero
	Direction     core.Vec3 // View direction, overrides LookAt when non-zero
	Up            core.Vec3 // Up direction (zero means +Z)
	AspectRatio   float64   // Width / height (zero means 1)
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole camera
	FocusDistance float64   // Distance to the focus plane (zero means auto)
}

// DefaultCameraConfig returns a pinhole camera looking down +Y with +Z up
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:    core.NewVec3(0, -1, 0),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 0, 1),
		AspectRatio: 1.0,
		VFov:        70.0,
	}
}

// MergeCameraConfig returns base with every non-zero field of override
// applied on top of it
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if !override.Position.IsZero() {
		result.Position = override.Position
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
		result.Direction = core.Vec3{}
	}
	if !override.Direction.IsZero() {
		result.Direction = override.Direction
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera generates rays for rendering with a thin-lens model
type Camera struct {
	config CameraConfig

	position        core.Vec3
	direction       core.Vec3 // unit view direction
	u, v            core.Vec3 // unit right and up vectors
	horizontal      core.Vec3
	vertical        core.Vec3
	lowerLeftCorner core.Vec3
	lensRadius      float64
	focusDistance   float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	if config.AspectRatio == 0 {
		config.AspectRatio = 1.0
	}
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 0, 1)
	}

	direction := config.Direction
	focusDistance := config.FocusDistance
	if direction.IsZero() {
		toTarget := config.LookAt.Subtract(config.Position)
		direction = toTarget
		if focusDistance == 0 {
			focusDistance = toTarget.Length()
		}
	}
	direction = direction.Normalize()
	if focusDistance == 0 {
		focusDistance = 1.0
	}

	// Camera basis: w points backwards, u to the right, v up
	w := direction.Negate()
	u := pickUp(config.Up, w).Cross(w).Normalize()
	v := w.Cross(u)

	h := math.Tan(config.VFov * math.Pi / 180.0 / 2.0)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	c := &Camera{
		config:        config,
		position:      config.Position,
		direction:     direction,
		u:             u,
		v:             v,
		horizontal:    u.Multiply(viewportWidth * focusDistance),
		vertical:      v.Multiply(viewportHeight * focusDistance),
		lensRadius:    config.Aperture / 2.0,
		focusDistance: focusDistance,
	}
	c.updateLowerLeftCorner()
	return c
}

// pickUp returns the first candidate up vector not parallel to w
func pickUp(up, w core.Vec3) core.Vec3 {
	candidates := []core.Vec3{up, core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)}
	for _, candidate := range candidates {
		if !candidate.Cross(w).NearZero() {
			return candidate
		}
	}
	return core.NewVec3(1, 0, 0)
}

func (c *Camera) updateLowerLeftCorner() {
	c.lowerLeftCorner = c.position.
		Subtract(c.horizontal.Multiply(0.5)).
		Subtract(c.vertical.Multiply(0.5)).
		Add(c.direction.Multiply(c.focusDistance))
}

// GetRay generates a ray for image-plane coordinates (s, t) where
// 0 <= s,t <= 1 and (0, 0) is the lower left corner. The sampler is only
// consulted when the aperture is non-zero.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.position
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t))

	return core.NewRay(origin, target.Subtract(origin))
}

// SetPosition moves the camera without changing its orientation
func (c *Camera) SetPosition(position core.Vec3) {
	c.position = position
	c.config.Position = position
	c.config.Direction = c.direction
	c.config.FocusDistance = c.focusDistance
	c.updateLowerLeftCorner()
}

// Position returns the camera position
func (c *Camera) Position() core.Vec3 { return c.position }

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 { return c.direction }

// Right returns the unit vector pointing to the right of the image
func (c *Camera) Right() core.Vec3 { return c.u }

// Up returns the unit vector pointing to the top of the image
func (c *Camera) Up() core.Vec3 { return c.v }

// Config returns the configuration that reproduces the camera in its
// current pose
func (c *Camera) Config() CameraConfig { return c.config }
