package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/glint/pkg/math3d"
)

// Defaults for New.
const (
	DefaultFOV        = 90.0
	DefaultShadowBias = 1e-4
)

// Validation errors returned by Scene.Validate.
var (
	ErrInvalidDimensions = errors.New("scene: width and height must be positive")
	ErrInvalidFOV        = errors.New("scene: field of view must be in (0, 180) degrees")
	ErrInvalidBias       = errors.New("scene: shadow bias must be finite and non-negative")
	ErrInvalidMaterial   = errors.New("scene: reflectivity must be in [0, 1]")
)

// Scene is everything a render pass reads. It must not be mutated while a
// pass is in flight; callers move objects or lights between passes only.
type Scene struct {
	Width  int
	Height int

	// FOV is the vertical field of view in degrees.
	FOV float64
	// ShadowBias offsets shadow ray origins along the surface normal to keep
	// a surface from shadowing itself.
	ShadowBias float64
	// Camera is the eye position. The camera always looks down -Z.
	Camera math3d.Vec3
	// Background is returned for rays that hit nothing.
	Background Color

	Primitives        []Primitive
	DirectionalLights []DirectionalLight
	PointLights       []PointLight
}

// New creates an empty scene with default parameters.
func New(width, height int) *Scene {
	return &Scene{
		Width:      width,
		Height:     height,
		FOV:        DefaultFOV,
		ShadowBias: DefaultShadowBias,
		Background: Background,
	}
}

// Add appends primitives in order. Order is the tie-break order of the
// hit resolver.
func (s *Scene) Add(p ...Primitive) *Scene {
	s.Primitives = append(s.Primitives, p...)
	return s
}

// AddDirectionalLight appends a directional light.
func (s *Scene) AddDirectionalLight(l DirectionalLight) *Scene {
	s.DirectionalLights = append(s.DirectionalLights, l)
	return s
}

// AddPointLight appends a point light.
func (s *Scene) AddPointLight(l PointLight) *Scene {
	s.PointLights = append(s.PointLights, l)
	return s
}

// AspectRatio returns width / height.
func (s *Scene) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// LightCount returns the number of lights of both kinds.
func (s *Scene) LightCount() int {
	return len(s.DirectionalLights) + len(s.PointLights)
}

// Validate checks the global parameters and materials. Empty primitive and
// light lists are valid.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, s.Width, s.Height)
	}
	if !(s.FOV > 0 && s.FOV < 180) {
		return fmt.Errorf("%w: got %v", ErrInvalidFOV, s.FOV)
	}
	if !(s.ShadowBias >= 0) || math.IsInf(s.ShadowBias, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidBias, s.ShadowBias)
	}
	for i, p := range s.Primitives {
		r := p.Surface().Reflectivity
		if !(r >= 0 && r <= 1) {
			return fmt.Errorf("%w: primitive %d (%s) has %v", ErrInvalidMaterial, i, p.Label(), r)
		}
	}
	return nil
}

// Find returns the index of the primitive p, or -1.
func (s *Scene) Find(p Primitive) int {
	for i, q := range s.Primitives {
		if q == p {
			return i
		}
	}
	return -1
}
