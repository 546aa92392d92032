package anim

import (
	"github.com/taigrr/glint/pkg/math3d"
	"github.com/taigrr/glint/pkg/scene"
)

// DollyStep is the per-frame camera drift of the classic animated render.
var DollyStep = math3d.V3(0, 0, -0.02)

// Stepper changes a scene by one frame.
type Stepper interface {
	Step(s *scene.Scene)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(s *scene.Scene)

// Step calls f.
func (f StepperFunc) Step(s *scene.Scene) { f(s) }

// Dolly moves the camera by a fixed offset every frame.
type Dolly struct {
	Delta math3d.Vec3
}

// NewDolly creates a dolly with the default drift.
func NewDolly() *Dolly {
	return &Dolly{Delta: DollyStep}
}

// Step moves the camera.
func (d *Dolly) Step(s *scene.Scene) {
	s.Camera = s.Camera.Add(d.Delta)
}

// Glide eases a primitive toward a target position.
type Glide struct {
	Object scene.Primitive
	tween  *Tween
}

// NewGlide creates a glide of p from its current position to target.
func NewGlide(fps int, p scene.Primitive, target math3d.Vec3) *Glide {
	return &Glide{
		Object: p,
		tween:  NewTween(fps, 3.0, scene.Position(p), target),
	}
}

// Step advances the primitive one frame.
func (g *Glide) Step(*scene.Scene) {
	scene.SetPosition(g.Object, g.tween.Update())
}

// Target returns where the primitive is headed.
func (g *Glide) Target() math3d.Vec3 {
	return g.tween.Target
}

// Retarget changes the destination without stopping the primitive.
func (g *Glide) Retarget(target math3d.Vec3) {
	g.tween.Retarget(target)
}

// Done reports whether the primitive has arrived.
func (g *Glide) Done() bool {
	return g.tween.Done(1e-3)
}

// CameraDrift moves the camera along Z with a decaying velocity. Impulses
// come from user input.
type CameraDrift struct {
	axis  Axis
	start float64
}

// NewCameraDrift creates a drift anchored at the camera's current z.
func NewCameraDrift(fps int, z float64) *CameraDrift {
	a := NewAxis(fps)
	a.Position = z
	return &CameraDrift{axis: a, start: z}
}

// Push adds velocity along Z.
func (c *CameraDrift) Push(v float64) {
	c.axis.Impulse(v)
}

// Moving reports whether the drift would change the camera.
func (c *CameraDrift) Moving() bool {
	return !c.axis.Resting()
}

// Step updates the camera's z.
func (c *CameraDrift) Step(s *scene.Scene) {
	c.axis.Update()
	s.Camera.Z = c.axis.Position
}

// Animator runs a list of steppers once per frame, in order.
type Animator struct {
	steps []Stepper
	frame int
}

// NewAnimator creates an animator.
func NewAnimator(steps ...Stepper) *Animator {
	return &Animator{steps: steps}
}

// Add appends steppers.
func (a *Animator) Add(steps ...Stepper) {
	a.steps = append(a.steps, steps...)
}

// Frame returns the number of completed steps.
func (a *Animator) Frame() int {
	return a.frame
}

// Step advances every stepper by one frame. It must only be called between
// render passes.
func (a *Animator) Step(s *scene.Scene) {
	for _, st := range a.steps {
		st.Step(s)
	}
	a.frame++
}
