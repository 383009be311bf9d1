package reveal

import "github.com/go-gl/mathgl/mgl64"

const (
	// DefaultDamping is the per-tick weight used when chasing a target.
	DefaultDamping = 0.08
	// ZoomOutDamping is used instead while scale shrinks back toward its
	// baseline, so a released card eases out rather than snapping back.
	ZoomOutDamping = 0.05
	// DimmedOpacity is the opacity non-focused cards fade to.
	DimmedOpacity = 0.5

	focusLiftZ    = 2.0
	focusScale    = 1.3
	tiltPitchGain = 0.55
	tiltYawGain   = 1.65
)

// Pose is the full render state of one visual element.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Scale    float64    `json:"scale"`
	Opacity  float64    `json:"opacity"`
}

// PoseAt builds an opaque pose from a placement.
func PoseAt(p Placement, scale float64) Pose {
	return Pose{Position: p.Position, Rotation: p.Rotation, Scale: scale, Opacity: 1}
}

// Placement drops scale and opacity.
func (p Pose) Placement() Placement {
	return Placement{Position: p.Position, Rotation: p.Rotation}
}

// Behavior describes how an element reacts to interaction.
type Behavior struct {
	Interactive bool
	FocusLift   bool
	DragTilt    bool
	Dimming     bool
	// Direct elements take their target verbatim each tick.
	Direct bool
}

// Interaction is the pointer state of one element.
type Interaction struct {
	Focused  bool
	Dragging bool
	// Tilt is the pointer position in the element's local frame,
	// normalised to [-1,1] on both axes.
	Tilt mgl64.Vec2
}

// ResolvePose applies focus, drag tilt and dimming to a resting pose.
// anyFocused reports whether some element of the scene holds focus.
func ResolvePose(rest Pose, b Behavior, ia Interaction, anyFocused bool) Pose {
	out := rest
	if ia.Focused {
		if b.FocusLift {
			out.Position = mgl64.Vec3{rest.Position.X(), rest.Position.Y(), focusLiftZ}
			out.Scale = rest.Scale * focusScale
		}
		switch {
		case ia.Dragging && b.DragTilt:
			out.Rotation = mgl64.Vec3{-ia.Tilt.Y() * tiltPitchGain, ia.Tilt.X() * tiltYawGain, 0}
		case !ia.Dragging && b.Interactive:
			out.Rotation = mgl64.Vec3{}
		}
	}
	if b.Dimming && anyFocused && !ia.Focused {
		out.Opacity = DimmedOpacity
	}
	return out
}

// Smoother chases a moving target pose with exponential damping. Its state
// belongs to one element and survives phase changes.
type Smoother struct {
	Damping        float64
	ZoomOutDamping float64

	current Pose
	primed  bool
}

// NewSmoother returns a smoother using the default damping factors.
func NewSmoother() *Smoother {
	return &Smoother{Damping: DefaultDamping, ZoomOutDamping: ZoomOutDamping}
}

// Step moves the current pose toward target by one tick and returns it.
// The first step snaps to the target.
func (s *Smoother) Step(target Pose) Pose {
	if !s.primed {
		s.Snap(target)
		return s.current
	}
	a := s.Damping
	c := &s.current
	c.Position = lerpVec(c.Position, target.Position, a)
	c.Rotation = lerpVec(c.Rotation, target.Rotation, a)
	scaleAlpha := a
	if c.Scale > target.Scale {
		scaleAlpha = s.ZoomOutDamping
	}
	c.Scale = lerp(c.Scale, target.Scale, scaleAlpha)
	c.Opacity = lerp(c.Opacity, target.Opacity, a)
	return *c
}

// Snap jumps straight to p.
func (s *Smoother) Snap(p Pose) {
	s.current = p
	s.primed = true
}

// Current returns the smoothed pose and whether any step has happened.
func (s *Smoother) Current() (Pose, bool) {
	return s.current, s.primed
}
