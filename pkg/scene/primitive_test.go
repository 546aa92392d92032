package scene

import (
	"math"
	"testing"

	"github.com/taigrr/glint/pkg/math3d"
)

const eps = 1e-9

func TestSphereIntersectFront(t *testing.T) {
	for _, r := range []float64{0.5, 1, 2.5} {
		for _, d := range []float64{3, 10, 100} {
			s := NewSphere(math3d.Zero3(), r, Red)
			ray := math3d.NewRay(math3d.V3(0, 0, d), math3d.V3(0, 0, -1))

			got := s.Intersect(ray)
			if math.Abs(got-(d-r)) > 1e-6 {
				t.Errorf("r=%v d=%v: got %v, want %v", r, d, got, d-r)
			}
		}
	}
}

func TestSphereMissReturnsSentinel(t *testing.T) {
	s := NewSphere(math3d.Zero3(), 1, Red)

	tests := []struct {
		name   string
		offset float64
	}{
		{"just outside", 1.0001},
		{"far", 5},
		{"negative side", -3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ray := math3d.NewRay(math3d.V3(tc.offset, 0, 10), math3d.V3(0, 0, -1))
			if got := s.Intersect(ray); got != NoHit {
				t.Errorf("got %v, want NoHit", got)
			}
		})
	}
}

func TestSphereBehindOrigin(t *testing.T) {
	s := NewSphere(math3d.V3(0, 0, 5), 1, Red)
	ray := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, -1))
	if got := s.Intersect(ray); got != NoHit {
		t.Errorf("got %v, want NoHit", got)
	}
}

func TestSphereOriginInsideReturnsNegativeRoot(t *testing.T) {
	s := NewSphere(math3d.Zero3(), 2, Red)
	ray := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, -1))

	got := s.Intersect(ray)
	if math.Abs(got-(-2)) > eps {
		t.Errorf("got %v, want -2 (raw smaller root)", got)
	}
}

func TestSphereSurfaceNormal(t *testing.T) {
	s := NewSphere(math3d.V3(1, 1, 1), 2, Red)
	n := s.SurfaceNormal(math3d.V3(1, 3, 1))
	if math.Abs(n.Y-1) > eps || math.Abs(n.X) > eps || math.Abs(n.Z) > eps {
		t.Errorf("normal = %v, want (0, 1, 0)", n)
	}
}

func TestPlaneOneSided(t *testing.T) {
	// Floor at y=0 whose normal points down, away from a viewer above it.
	p := NewPlane(math3d.Zero3(), math3d.V3(0, -1, 0), White)

	down := math3d.V3(0, -1, 0)
	up := math3d.V3(0, 1, 0)

	t.Run("from visible side", func(t *testing.T) {
		ray := math3d.NewRay(math3d.V3(0, 4, 0), down)
		if got := p.Intersect(ray); math.Abs(got-4) > eps {
			t.Errorf("got %v, want 4", got)
		}
	})

	t.Run("from back side", func(t *testing.T) {
		for _, d := range []float64{0.001, 1, 1e3, 1e9} {
			ray := math3d.NewRay(math3d.V3(0, -d, 0), up)
			if got := p.Intersect(ray); got != NoHit {
				t.Errorf("at %v: got %v, want NoHit", d, got)
			}
		}
	})

	t.Run("parallel", func(t *testing.T) {
		ray := math3d.NewRay(math3d.V3(0, 1, 0), math3d.V3(1, 0, 0))
		if got := p.Intersect(ray); got != NoHit {
			t.Errorf("got %v, want NoHit", got)
		}
	})

	t.Run("behind origin", func(t *testing.T) {
		ray := math3d.NewRay(math3d.V3(0, -1, 0), down)
		if got := p.Intersect(ray); got != NoHit {
			t.Errorf("got %v, want NoHit", got)
		}
	})
}

func TestPlaneSurfaceNormalIsNegated(t *testing.T) {
	p := NewPlane(math3d.Zero3(), math3d.V3(0, -2, 0), White)
	for _, pt := range []math3d.Vec3{math3d.Zero3(), math3d.V3(100, 0, -4)} {
		if got := p.SurfaceNormal(pt); got != math3d.V3(0, 1, 0) {
			t.Errorf("normal at %v = %v, want (0, 1, 0)", pt, got)
		}
	}
}

func TestPrimitiveDefaults(t *testing.T) {
	prims := []Primitive{
		NewSphere(math3d.Zero3(), 1, Red),
		NewPlane(math3d.Zero3(), math3d.V3(0, 1, 0), Blue),
	}
	for _, p := range prims {
		if p.Surface().Reflectivity != 1 {
			t.Errorf("%s reflectivity = %v, want 1", p.Kind(), p.Surface().Reflectivity)
		}
		if p.Label() != p.Kind().String() {
			t.Errorf("unnamed label = %q", p.Label())
		}
	}
}

func TestPositionAndSetPosition(t *testing.T) {
	s := NewSphere(math3d.Zero3(), 1, Red)
	p := NewPlane(math3d.Zero3(), math3d.V3(0, 1, 0), Blue)

	SetPosition(s, math3d.V3(1, 2, 3))
	SetPosition(p, math3d.V3(0, -1, 0))

	if Position(s) != math3d.V3(1, 2, 3) || s.Center != math3d.V3(1, 2, 3) {
		t.Errorf("sphere moved to %v", s.Center)
	}
	if Position(p) != math3d.V3(0, -1, 0) {
		t.Errorf("plane moved to %v", p.Point)
	}
}

func BenchmarkSphereIntersect(b *testing.B) {
	s := NewSphere(math3d.V3(0, 0, -5), 1, Red)
	ray := math3d.NewRay(math3d.Zero3(), math3d.V3(0.1, 0.1, -1).Normalize())

	for b.Loop() {
		_ = s.Intersect(ray)
	}
}
