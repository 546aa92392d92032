// Package math3d provides the 3D math primitives used by the glint ray tracer.
package math3d

import "math"

// Number is the set of component types a Vector3 can hold.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Vector3 represents a 3-component vector of any numeric type.
// It is a value type; every operation returns a new vector.
type Vector3[T Number] struct {
	X, Y, Z T
}

// Vec3 is the float64 vector used throughout the renderer.
type Vec3 = Vector3[float64]

// Vec3i is an integer vector.
type Vec3i = Vector3[int]

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// NewVector3 creates a vector of the given component type.
func NewVector3[T Number](x, y, z T) Vector3[T] {
	return Vector3[T]{x, y, z}
}

// Convert changes the component type of a vector.
func Convert[U, T Number](v Vector3[T]) Vector3[U] {
	return Vector3[U]{U(v.X), U(v.Y), U(v.Z)}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, 1, 0}
}

// Forward returns the camera forward vector (0, 0, -1).
func Forward() Vec3 {
	return Vec3{0, 0, -1}
}

// Add returns the vector sum a + b.
func (a Vector3[T]) Add(b Vector3[T]) Vector3[T] {
	return Vector3[T]{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vector3[T]) Sub(b Vector3[T]) Vector3[T] {
	return Vector3[T]{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product a * b.
func (a Vector3[T]) Mul(b Vector3[T]) Vector3[T] {
	return Vector3[T]{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Scale returns the scalar product a * s.
func (a Vector3[T]) Scale(s T) Vector3[T] {
	return Vector3[T]{a.X * s, a.Y * s, a.Z * s}
}

// Div returns the scalar division a / s.
func (a Vector3[T]) Div(s T) Vector3[T] {
	return Vector3[T]{a.X / s, a.Y / s, a.Z / s}
}

// Dot returns the dot product a · b.
func (a Vector3[T]) Dot(b Vector3[T]) T {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vector3[T]) Cross(b Vector3[T]) Vector3[T] {
	return Vector3[T]{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// LenSq returns the squared length (no sqrt).
func (a Vector3[T]) LenSq() T {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Len returns the length (magnitude) of the vector.
func (a Vector3[T]) Len() T {
	return T(math.Sqrt(float64(a.LenSq())))
}

// Normalize returns the unit vector in the same direction.
//
// The receiver must have non-zero length. A zero vector is divided by zero:
// float vectors come back with NaN components, integer vectors panic. The
// caller owns that precondition; no default direction is substituted.
func (a Vector3[T]) Normalize() Vector3[T] {
	l := a.Len()
	return Vector3[T]{a.X / l, a.Y / l, a.Z / l}
}

// Negate returns the negated vector.
func (a Vector3[T]) Negate() Vector3[T] {
	return Vector3[T]{-a.X, -a.Y, -a.Z}
}

// Distance returns the distance between two points.
func (a Vector3[T]) Distance(b Vector3[T]) T {
	return a.Sub(b).Len()
}

// HasNaN reports whether any component is NaN.
func (a Vector3[T]) HasNaN() bool {
	return math.IsNaN(float64(a.X)) || math.IsNaN(float64(a.Y)) || math.IsNaN(float64(a.Z))
}

// MaxComponent returns the largest component.
func (a Vector3[T]) MaxComponent() T {
	return max(a.X, a.Y, a.Z)
}
