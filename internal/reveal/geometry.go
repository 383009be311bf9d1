package reveal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	fanRadius  = 11.0
	fanArcSpan = math.Pi / 3.2
	fanYawGain = 0.85

	listSpacing = 1.18
	listBaseY   = 2.32
	listBaseZ   = 0.85

	stackStepX = 0.045
	stackStepY = 0.016
	stackStepZ = 0.045
)

// Placement is a position and Euler rotation (radians, XYZ order).
type Placement struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
}

// Offset returns p translated by d.
func (p Placement) Offset(d mgl64.Vec3) Placement {
	p.Position = p.Position.Add(d)
	return p
}

func fanAngle(index, total int) float64 {
	denom := max(total-1, 1)
	return (float64(index)/float64(denom) - 0.5) * fanArcSpan
}

// FanPlacement arranges cards along a circular arc facing the viewer.
func FanPlacement(index, total int) Placement {
	a := fanAngle(index, total)
	return Placement{
		Position: mgl64.Vec3{
			math.Sin(a) * fanRadius,
			math.Cos(2*a)*0.5 - 0.3,
			-math.Cos(a)*fanRadius + fanRadius - 3.5,
		},
		Rotation: mgl64.Vec3{0, -a * fanYawGain, 0},
	}
}

// ListPlacement lays cards out in a centred row with a small depth
// parallax, a cosine ripple in height and a slight roll.
func ListPlacement(index, total int) Placement {
	center := float64(max(total, 1)-1) / 2
	off := float64(index) - center
	return Placement{
		Position: mgl64.Vec3{
			off * listSpacing,
			listBaseY + math.Cos(float64(index+1)*0.9)*0.06,
			listBaseZ - float64(index)*0.02,
		},
		Rotation: mgl64.Vec3{0, 0, off * 0.05},
	}
}

// StackPlacement offsets each card a small step from the one above it.
// Index 0 is the top of the deck.
func StackPlacement(index int) Placement {
	i := float64(index)
	return Placement{
		Position: mgl64.Vec3{i * stackStepX, i * stackStepY, -i * stackStepZ},
	}
}

// Smoothstep eases b in [0,1] as b²(3−2b). Values outside the range are
// clamped first.
func Smoothstep(b float64) float64 {
	b = mgl64.Clamp(b, 0, 1)
	return b * b * (3 - 2*b)
}

// BlendPlacements interpolates component-wise between two placements after
// passing b through Smoothstep.
func BlendPlacements(from, to Placement, b float64) Placement {
	s := Smoothstep(b)
	return Placement{
		Position: lerpVec(from.Position, to.Position, s),
		Rotation: lerpVec(from.Rotation, to.Rotation, s),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
