package render

import (
	"math"

	"github.com/taigrr/glint/pkg/math3d"
	"github.com/taigrr/glint/pkg/scene"
)

// PixelColor traces ray and shades whatever it hits. Rays that hit nothing
// get the scene background.
func PixelColor(ray math3d.Ray, s *scene.Scene) scene.Color {
	hit := Trace(ray, s)
	if !hit.Hit() {
		return s.Background
	}
	return ShadeHit(hit, s)
}

// ShadeHit sums the contribution of every light that can see the hit point.
// A light is blocked when a shadow ray from the biased hit point toward it
// hits any primitive.
func ShadeHit(hit HitResult, s *scene.Scene) scene.Color {
	mat := hit.Object.Surface()
	origin := hit.Point.Add(hit.Normal.Scale(s.ShadowBias))
	color := scene.Black

	for _, l := range s.DirectionalLights {
		toLight := l.Direction.Negate()
		if Occluded(math3d.NewRay(origin, toLight), s) {
			continue
		}
		color = color.Add(contribution(mat, l.Color, DirectionalPower(hit.Normal, l)))
	}

	for _, l := range s.PointLights {
		toLight := l.Position.Sub(hit.Point).Normalize()
		if Occluded(math3d.NewRay(origin, toLight), s) {
			continue
		}
		color = color.Add(contribution(mat, l.Color, PointPower(hit.Normal, hit.Point, l)))
	}

	return color
}

// DirectionalPower is the unshadowed power a directional light delivers to a
// surface with the given normal. Surfaces facing away receive nothing.
func DirectionalPower(normal math3d.Vec3, l scene.DirectionalLight) float64 {
	return math.Max(normal.Dot(l.Direction.Negate()), 0) * l.Intensity
}

// PointPower is the unshadowed power a point light delivers to point. It
// falls off with the square of the distance and uses |n·l|, so surfaces
// facing away from the light are still lit.
func PointPower(normal, point math3d.Vec3, l scene.PointLight) float64 {
	toLight := l.Position.Sub(point)
	distance := toLight.Len()
	return math.Abs(normal.Dot(toLight.Normalize())) * l.Attenuated(distance)
}

// contribution scales the surface color, filtered by the light color, by the
// delivered power and the surface reflectivity.
func contribution(mat scene.Material, light scene.Color, power float64) scene.Color {
	return mat.Color.Mul(light).Scale(power * mat.Reflectivity)
}
