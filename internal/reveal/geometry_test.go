package reveal

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func requireVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-9, "component %d of %v vs %v", i, want, got)
	}
}

func TestFanPlacementCentreCard(t *testing.T) {
	t.Parallel()
	p := FanPlacement(2, 5)
	requireVec(t, mgl64.Vec3{0, 0.2, -3.5}, p.Position)
	requireVec(t, mgl64.Vec3{}, p.Rotation)
}

func TestFanPlacementSymmetric(t *testing.T) {
	t.Parallel()
	left, right := FanPlacement(0, 5), FanPlacement(4, 5)
	require.InDelta(t, -left.Position.X(), right.Position.X(), 1e-9)
	require.InDelta(t, left.Position.Y(), right.Position.Y(), 1e-9)
	require.InDelta(t, left.Position.Z(), right.Position.Z(), 1e-9)
	require.InDelta(t, -left.Rotation.Y(), right.Rotation.Y(), 1e-9)
	// Cards on the left yaw toward the viewer, i.e. positive.
	require.Greater(t, left.Rotation.Y(), 0.0)
}

func TestFanPlacementSingleCard(t *testing.T) {
	t.Parallel()
	p := FanPlacement(0, 1)
	for _, v := range append(p.Position[:], p.Rotation[:]...) {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	a := -fanArcSpan / 2
	require.InDelta(t, math.Sin(a)*fanRadius, p.Position.X(), 1e-9)
	require.Equal(t, p, FanPlacement(0, 1))
}

func TestListPlacementCentred(t *testing.T) {
	t.Parallel()
	require.InDelta(t, 0, ListPlacement(2, 5).Position.X(), 1e-9)
	require.InDelta(t, -2*listSpacing, ListPlacement(0, 5).Position.X(), 1e-9)
	require.InDelta(t, 2*listSpacing, ListPlacement(4, 5).Position.X(), 1e-9)
	require.InDelta(t, listBaseZ-4*0.02, ListPlacement(4, 5).Position.Z(), 1e-9)
	require.InDelta(t, -0.1, ListPlacement(0, 5).Rotation.Z(), 1e-9)

	// total=0 is treated as a single card.
	requireVec(t, ListPlacement(0, 1).Position, ListPlacement(0, 0).Position)
}

func TestStackPlacement(t *testing.T) {
	t.Parallel()
	requireVec(t, mgl64.Vec3{}, StackPlacement(0).Position)
	requireVec(t, mgl64.Vec3{0.09, 0.032, -0.09}, StackPlacement(2).Position)
}

func TestSmoothstep(t *testing.T) {
	t.Parallel()
	cases := map[float64]float64{-1: 0, 0: 0, 0.25: 0.15625, 0.5: 0.5, 1: 1, 2: 1}
	for in, want := range cases {
		require.InDelta(t, want, Smoothstep(in), 1e-12, "smoothstep(%v)", in)
	}
}

func TestBlendPlacements(t *testing.T) {
	t.Parallel()
	from := Placement{Position: mgl64.Vec3{0, 0, 0}, Rotation: mgl64.Vec3{0, 1, 0}}
	to := Placement{Position: mgl64.Vec3{4, 2, -2}, Rotation: mgl64.Vec3{0, -1, 0}}

	require.Equal(t, from, BlendPlacements(from, to, 0))
	requireVec(t, to.Position, BlendPlacements(from, to, 1).Position)

	mid := BlendPlacements(from, to, 0.25)
	requireVec(t, mgl64.Vec3{4 * 0.15625, 2 * 0.15625, -2 * 0.15625}, mid.Position)
	requireVec(t, mgl64.Vec3{0, 1 - 2*0.15625, 0}, mid.Rotation)
}
