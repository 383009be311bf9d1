package reveal

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestSmootherSnapsThenDamps(t *testing.T) {
	t.Parallel()
	s := NewSmoother()
	_, primed := s.Current()
	require.False(t, primed)

	start := Pose{Scale: 1, Opacity: 1}
	require.Equal(t, start, s.Step(start))

	got := s.Step(Pose{Position: mgl64.Vec3{1, 0, 0}, Scale: 1, Opacity: 0})
	require.InDelta(t, DefaultDamping, got.Position.X(), 1e-12)
	require.InDelta(t, 1-DefaultDamping, got.Opacity, 1e-12)
}

func TestSmootherZoomOutIsSlower(t *testing.T) {
	t.Parallel()
	s := NewSmoother()
	s.Snap(Pose{Scale: 1})

	grown := s.Step(Pose{Scale: 2})
	require.InDelta(t, 1+DefaultDamping, grown.Scale, 1e-12)

	s.Snap(Pose{Scale: 2})
	shrunk := s.Step(Pose{Scale: 1})
	require.InDelta(t, 2-ZoomOutDamping, shrunk.Scale, 1e-12)
}

func TestSmootherConverges(t *testing.T) {
	t.Parallel()
	s := NewSmoother()
	s.Snap(Pose{})
	target := Pose{Position: mgl64.Vec3{3, -2, 1}, Rotation: mgl64.Vec3{0.3, 0, 0}, Scale: 1.3, Opacity: 1}
	var p Pose
	for range 400 {
		p = s.Step(target)
	}
	require.InDelta(t, target.Position.X(), p.Position.X(), 1e-6)
	require.InDelta(t, target.Scale, p.Scale, 1e-6)
}

func TestResolvePose(t *testing.T) {
	t.Parallel()
	rest := Pose{Position: mgl64.Vec3{1, 2, 0.5}, Rotation: mgl64.Vec3{0, 0.4, 0}, Scale: 1, Opacity: 1}
	all := Behavior{Interactive: true, FocusLift: true, DragTilt: true, Dimming: true}

	t.Run("unfocused rests", func(t *testing.T) {
		require.Equal(t, rest, ResolvePose(rest, all, Interaction{}, false))
	})
	t.Run("focus lifts and straightens", func(t *testing.T) {
		got := ResolvePose(rest, all, Interaction{Focused: true}, true)
		requireVec(t, mgl64.Vec3{1, 2, focusLiftZ}, got.Position)
		requireVec(t, mgl64.Vec3{}, got.Rotation)
		require.InDelta(t, focusScale, got.Scale, 1e-12)
		require.Equal(t, 1.0, got.Opacity)
	})
	t.Run("drag tilts", func(t *testing.T) {
		got := ResolvePose(rest, all, Interaction{Focused: true, Dragging: true, Tilt: mgl64.Vec2{1, -1}}, true)
		requireVec(t, mgl64.Vec3{tiltPitchGain, tiltYawGain, 0}, got.Rotation)
	})
	t.Run("others dim", func(t *testing.T) {
		got := ResolvePose(rest, all, Interaction{}, true)
		require.Equal(t, DimmedOpacity, got.Opacity)
		require.Equal(t, rest.Position, got.Position)
	})
	t.Run("no dimming behaviour", func(t *testing.T) {
		b := all
		b.Dimming = false
		require.Equal(t, 1.0, ResolvePose(rest, b, Interaction{}, true).Opacity)
	})
	t.Run("focused without lift still straightens", func(t *testing.T) {
		b := Behavior{Interactive: true, DragTilt: true}
		got := ResolvePose(rest, b, Interaction{Focused: true}, true)
		requireVec(t, mgl64.Vec3{}, got.Rotation)
		require.Equal(t, rest.Position, got.Position)
		require.Equal(t, rest.Scale, got.Scale)

		got = ResolvePose(rest, b, Interaction{Focused: true, Dragging: true, Tilt: mgl64.Vec2{0.5, 0}}, true)
		requireVec(t, mgl64.Vec3{0, 0.5 * tiltYawGain, 0}, got.Rotation)
	})
	t.Run("non-interactive keeps rest rotation", func(t *testing.T) {
		got := ResolvePose(rest, Behavior{Direct: true}, Interaction{Focused: true}, true)
		require.Equal(t, rest, got)
	})
}

func TestDragTilt(t *testing.T) {
	t.Parallel()
	p := Pose{Position: mgl64.Vec3{1, 1, 0}, Scale: 1}
	got := DragTilt(p, mgl64.Vec3{1.35, 1 - 0.95/2, 0})
	require.InDelta(t, 0.5, got.X(), 1e-9)
	require.InDelta(t, -0.5, got.Y(), 1e-9)

	clamped := DragTilt(p, mgl64.Vec3{10, -10, 0})
	require.Equal(t, mgl64.Vec2{1, -1}, clamped)
}

func TestWorldToLocalUndoesScaleAndRotation(t *testing.T) {
	t.Parallel()
	p := Pose{Position: mgl64.Vec3{0, 0, 2}, Rotation: mgl64.Vec3{0, 0, mgl64.DegToRad(90)}, Scale: 2}
	// Local +x maps to world +y after a quarter turn about z.
	local := WorldToLocal(p, mgl64.Vec3{0, 2, 2})
	require.InDelta(t, 1, local.X(), 1e-9)
	require.InDelta(t, 0, local.Y(), 1e-9)
	require.InDelta(t, 0, local.Z(), 1e-9)
}
