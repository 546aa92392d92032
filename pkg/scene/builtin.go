package scene

import (
	"fmt"
	"slices"

	"github.com/taigrr/glint/pkg/math3d"
)

// builtins maps scene names to constructors.
var builtins = map[string]func(width, height int) *Scene{
	"spheres": NewSpheresScene,
	"shadows": NewShadowScene,
	"empty":   New,
}

// BuiltinNames returns the names accepted by Builtin, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Builtin returns a fresh copy of a named built-in scene.
func Builtin(name string, width, height int) (*Scene, error) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, BuiltinNames())
	}
	return ctor(width, height), nil
}

// NewSpheresScene is four overlapping spheres over a floor, lit by a sun and
// a warm point light.
func NewSpheresScene(width, height int) *Scene {
	s := New(width, height)

	green := NewSphere(math3d.V3(0, 0, -5), 1, Green)
	green.Name = "green"
	blue := NewSphere(math3d.V3(0, 3, -5), 0.8, Blue)
	blue.Name = "blue"
	red := NewSphere(math3d.V3(0.5, 0.5, -2), 0.7, Red)
	red.Name = "red"
	white := NewSphere(math3d.V3(-0.4, -0.4, -1), 0.5, White)
	white.Name = "white"
	white.Reflectivity = 0.8

	floor := NewPlane(math3d.V3(0, -2, 0), math3d.V3(0, -1, 0), RGB(180, 180, 180))
	floor.Name = "floor"
	floor.Reflectivity = 0.5

	s.Add(green, blue, red, white, floor)
	s.AddDirectionalLight(NewDirectionalLight(math3d.V3(-0.25, -1, -0.5), White, 1.2))
	s.AddPointLight(NewPointLight(math3d.V3(2, 2, -1), RGB(255, 210, 160), 400))
	return s
}

// NewShadowScene is a single sphere hovering over a floor so the shadow it
// casts is easy to see.
func NewShadowScene(width, height int) *Scene {
	s := New(width, height)
	s.Camera = math3d.V3(0, 1, 0)

	ball := NewSphere(math3d.V3(0, 0, -4), 1, RGB(230, 80, 60))
	ball.Name = "ball"
	floor := NewPlane(math3d.V3(0, -1.5, 0), math3d.V3(0, -1, 0), White)
	floor.Name = "floor"
	wall := NewPlane(math3d.V3(0, 0, -12), math3d.V3(0, 0, -1), RGB(90, 110, 160))
	wall.Name = "wall"

	s.Add(ball, floor, wall)
	s.AddDirectionalLight(NewDirectionalLight(math3d.V3(0.3, -1, 0.2), White, 1))
	s.AddPointLight(NewPointLight(math3d.V3(-3, 3, -2), White, 600))
	return s
}
