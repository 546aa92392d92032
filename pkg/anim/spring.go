// Package anim moves scene objects between render passes. Nothing here runs
// while a pass is in flight: the frame loop calls Animator.Step after each
// pass has joined.
package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/glint/pkg/math3d"
)

// Axis tracks position and velocity along one axis. Velocity is applied to
// the position every update and decays toward zero on a spring.
type Axis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewAxis creates an axis updated fps times per second.
func NewAxis(fps int) Axis {
	return Axis{
		// critically damped: no overshoot past zero
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity.
func (a *Axis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Impulse adds to the velocity.
func (a *Axis) Impulse(v float64) {
	a.Velocity += v
}

// Resting reports whether the axis has effectively stopped.
func (a *Axis) Resting() bool {
	return math.Abs(a.Velocity) < 1e-4
}

// Tween moves a point toward a target on three critically damped springs.
type Tween struct {
	Current math3d.Vec3
	Target  math3d.Vec3

	vel    math3d.Vec3
	spring harmonica.Spring
}

// NewTween creates a tween from from to to. frequency controls how quickly
// it converges.
func NewTween(fps int, frequency float64, from, to math3d.Vec3) *Tween {
	return &Tween{
		Current: from,
		Target:  to,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), frequency, 1.0),
	}
}

// Update advances the tween by one frame and returns the new position.
func (t *Tween) Update() math3d.Vec3 {
	t.Current.X, t.vel.X = t.spring.Update(t.Current.X, t.vel.X, t.Target.X)
	t.Current.Y, t.vel.Y = t.spring.Update(t.Current.Y, t.vel.Y, t.Target.Y)
	t.Current.Z, t.vel.Z = t.spring.Update(t.Current.Z, t.vel.Z, t.Target.Z)
	return t.Current
}

// Retarget changes the destination, keeping the current velocity.
func (t *Tween) Retarget(to math3d.Vec3) {
	t.Target = to
}

// Done reports whether the tween is within eps of its target and has
// nearly stopped.
func (t *Tween) Done(eps float64) bool {
	return t.Current.Distance(t.Target) < eps && t.vel.Len() < eps
}
