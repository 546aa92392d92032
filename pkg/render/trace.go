package render

import (
	"github.com/taigrr/glint/pkg/math3d"
	"github.com/taigrr/glint/pkg/scene"
)

// HitResult describes the nearest surface a ray hit. A nil Object means the
// ray hit nothing and the other fields are zero.
type HitResult struct {
	Point    math3d.Vec3
	Normal   math3d.Vec3
	Distance float64
	Object   scene.Primitive
}

// Hit reports whether the ray hit anything.
func (h HitResult) Hit() bool {
	return h.Object != nil
}

// Trace finds the nearest primitive along ray by testing every primitive.
// Negative distances, including the negative root a sphere returns when the
// ray starts inside it, are never accepted. On equal distances the primitive
// added to the scene first wins.
func Trace(ray math3d.Ray, s *scene.Scene) HitResult {
	var (
		nearest scene.Primitive
		best    float64
	)
	for _, p := range s.Primitives {
		d := p.Intersect(ray)
		if !(d >= 0) {
			continue
		}
		if nearest == nil || d < best {
			nearest, best = p, d
		}
	}

	if nearest == nil {
		return HitResult{}
	}

	point := ray.At(best)
	return HitResult{
		Point:    point,
		Normal:   nearest.SurfaceNormal(point),
		Distance: best,
		Object:   nearest,
	}
}

// Occluded reports whether anything lies along the ray.
func Occluded(ray math3d.Ray, s *scene.Scene) bool {
	return Trace(ray, s).Hit()
}
