package scene

import (
	"math"

	"github.com/taigrr/glint/pkg/math3d"
)

// NoHit is the distance returned by Intersect when a ray misses.
const NoHit = -1.0

// planeEpsilon is the smallest accepted ray/normal alignment for a plane hit.
const planeEpsilon = 1e-6

// Kind tags the closed set of primitive shapes.
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Material is the surface description owned by every primitive.
type Material struct {
	Color        Color
	Reflectivity float64 // in [0, 1], applied multiplicatively while shading
}

// Solid returns a material of the given color with full reflectivity.
func Solid(c Color) Material {
	return Material{Color: c, Reflectivity: 1}
}

// Primitive is a renderable surface. The set of implementations is closed:
// only Sphere and Plane satisfy it.
type Primitive interface {
	// Intersect returns the signed distance along the ray to the surface,
	// or NoHit.
	Intersect(ray math3d.Ray) float64
	// SurfaceNormal returns the unit normal at a point on the surface.
	SurfaceNormal(point math3d.Vec3) math3d.Vec3
	// Surface returns the primitive's material.
	Surface() Material
	// Kind reports which shape this is.
	Kind() Kind
	// Label returns a human readable identifier.
	Label() string

	primitive()
}

// Sphere is a sphere primitive.
type Sphere struct {
	Name   string
	Center math3d.Vec3
	Radius float64
	Material
}

// NewSphere creates a sphere with full reflectivity.
func NewSphere(center math3d.Vec3, radius float64, c Color) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: Solid(c)}
}

// Intersect solves the ray/sphere intersection geometrically.
// It returns the smaller root, which is negative when the ray origin lies
// inside the sphere; NoHit is returned when both roots are behind the origin.
func (s *Sphere) Intersect(ray math3d.Ray) float64 {
	r2 := s.Radius * s.Radius
	l := s.Center.Sub(ray.Origin)
	adj := l.Dot(ray.Direction)
	opp := l.Dot(l) - adj*adj
	if opp > r2 {
		return NoHit
	}

	thickness := math.Sqrt(r2 - opp)
	t0 := adj - thickness
	t1 := adj + thickness
	if t0 < 0 && t1 < 0 {
		return NoHit
	}
	return min(t0, t1)
}

// SurfaceNormal returns the outward normal at point.
func (s *Sphere) SurfaceNormal(point math3d.Vec3) math3d.Vec3 {
	return point.Sub(s.Center).Normalize()
}

// Surface returns the sphere's material.
func (s *Sphere) Surface() Material { return s.Material }

// Kind returns KindSphere.
func (s *Sphere) Kind() Kind { return KindSphere }

// Label returns the sphere's name or its kind.
func (s *Sphere) Label() string { return label(s.Name, KindSphere) }

func (s *Sphere) primitive() {}

// Plane is an infinite plane visible from one side only. Normal points away
// from the viewer: a ray hits the plane when it travels along the normal.
type Plane struct {
	Name   string
	Point  math3d.Vec3
	Normal math3d.Vec3
	Material
}

// NewPlane creates a plane with full reflectivity. The normal is normalized.
func NewPlane(point, normal math3d.Vec3, c Color) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Material: Solid(c)}
}

// Intersect returns the distance to the plane, or NoHit when the ray
// approaches from the back side, runs parallel, or the plane is behind it.
func (p *Plane) Intersect(ray math3d.Ray) float64 {
	denom := p.Normal.Dot(ray.Direction)
	if denom <= planeEpsilon {
		return NoHit
	}

	distance := p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	if distance < 0 {
		return NoHit
	}
	return distance
}

// SurfaceNormal returns the visible side's normal, which does not depend on
// the point.
func (p *Plane) SurfaceNormal(math3d.Vec3) math3d.Vec3 {
	return p.Normal.Negate()
}

// Surface returns the plane's material.
func (p *Plane) Surface() Material { return p.Material }

// Kind returns KindPlane.
func (p *Plane) Kind() Kind { return KindPlane }

// Label returns the plane's name or its kind.
func (p *Plane) Label() string { return label(p.Name, KindPlane) }

func (p *Plane) primitive() {}

func label(name string, k Kind) string {
	if name != "" {
		return name
	}
	return k.String()
}

// Position returns the anchor point of a primitive: a sphere's center or
// the plane's reference point.
func Position(p Primitive) math3d.Vec3 {
	switch v := p.(type) {
	case *Sphere:
		return v.Center
	case *Plane:
		return v.Point
	default:
		panic("scene: unknown primitive")
	}
}

// SetPosition moves a primitive's anchor point. Only call it between render
// passes.
func SetPosition(p Primitive, pos math3d.Vec3) {
	switch v := p.(type) {
	case *Sphere:
		v.Center = pos
	case *Plane:
		v.Point = pos
	default:
		panic("scene: unknown primitive")
	}
}
