package render

import (
	"math"

	"github.com/taigrr/glint/pkg/math3d"
	"github.com/taigrr/glint/pkg/scene"
)

// CreateRay maps pixel (px, py) to a world-space ray from cameraPos.
// The camera always looks down -Z; there is no rotation.
func CreateRay(px, py int, s *scene.Scene, cameraPos math3d.Vec3) math3d.Ray {
	aspect := float64(s.Width) / float64(s.Height)
	fovCorrection := math.Tan(radians(s.FOV) / 2)

	sensorX := ((float64(px)+0.5)/float64(s.Width)*2 - 1) * aspect * fovCorrection
	sensorY := (1 - (float64(py)+0.5)/float64(s.Height)*2) * fovCorrection

	return math3d.NewRay(cameraPos, math3d.V3(sensorX, sensorY, -1).Normalize())
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Camera is the interactive camera state: a position that input handlers
// move between render passes.
type Camera struct {
	Position math3d.Vec3
}

// NewCamera creates a camera at pos.
func NewCamera(pos math3d.Vec3) *Camera {
	return &Camera{Position: pos}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// PickRay returns the ray through pixel (x, y) for the current camera,
// used to pick objects and lights under the cursor.
func (c *Camera) PickRay(x, y int, s *scene.Scene) math3d.Ray {
	return CreateRay(x, y, s, c.Position)
}

// Pick returns the primitive under pixel (x, y), if any.
func (c *Camera) Pick(x, y int, s *scene.Scene) (scene.Primitive, bool) {
	hit := Trace(c.PickRay(x, y, s), s)
	return hit.Object, hit.Hit()
}
