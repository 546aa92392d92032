package scene

import (
	"math"

	"github.com/taigrr/glint/pkg/math3d"
)

// DirectionalLight is light arriving uniformly from one direction, like a
// distant sun. It does not attenuate with distance.
type DirectionalLight struct {
	Direction math3d.Vec3 // unit vector the light travels along
	Color     Color
	Intensity float64
}

// NewDirectionalLight creates a directional light, normalizing direction.
func NewDirectionalLight(direction math3d.Vec3, c Color, intensity float64) DirectionalLight {
	return DirectionalLight{
		Direction: direction.Normalize(),
		Color:     c,
		Intensity: intensity,
	}
}

// PointLight is an isotropic point source with inverse-square falloff.
type PointLight struct {
	Position  math3d.Vec3
	Color     Color
	Intensity float64
}

// NewPointLight creates a point light.
func NewPointLight(position math3d.Vec3, c Color, intensity float64) PointLight {
	return PointLight{Position: position, Color: c, Intensity: intensity}
}

// Attenuated returns the intensity that reaches a point at distance d:
// Intensity / (4π·d²).
func (l PointLight) Attenuated(d float64) float64 {
	return l.Intensity / (4 * math.Pi * d * d)
}
