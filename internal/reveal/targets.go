package reveal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"

	"github.com/jask/packreveal/internal/catalog"
)

const (
	StackScale   = 1.32
	CollageScale = 0.74
	FanScale     = 1.0

	stackDrop    = 1.7
	groupOffsetY = -0.15

	arcLift = 0.9
	arcPush = 0.22

	packHeight    = 6.0
	packTopRatio  = 0.18
	packScale     = 1.5
	packTravel    = 10.0
	packFadeStart = 0.25
)

// Keys of the two pack halves.
const (
	PackTopKey    = "pack:top"
	PackBottomKey = "pack:bottom"
)

// Layer groups elements by the layout that produced them.
type Layer string

const (
	LayerPack    Layer = "pack"
	LayerStack   Layer = "stack"
	LayerMoving  Layer = "moving"
	LayerCollage Layer = "collage"
	LayerFan     Layer = "fan"
)

// Target is what one element should look like this tick, before
// interaction and smoothing are applied.
type Target struct {
	Key      string
	CardID   string
	Layer    Layer
	Rest     Pose
	Behavior Behavior
	Fallback bool
	FrontRef string
	BackRef  string
}

// CardKey is the element key of a card. It is the same in every layer so a
// card's smoothed pose carries over between phases.
func CardKey(id string) string { return "card:" + id }

var groupOffset = mgl64.Vec3{0, groupOffsetY, 0}

// Targets computes the resting target of every visible element from the
// current phase and session progress.
func (m *Machine) Targets() []Target {
	switch m.phase {
	case PhasePackReady:
		p, _ := m.sessions.Progress(SessionPackOpen)
		return packTargets(p)
	case PhaseStacked:
		return m.stackedTargets()
	case PhaseTransitioning:
		b, ok := m.sessions.Progress(SessionPhaseBlend)
		if !ok {
			b = 1
		}
		return m.blendTargets(b)
	case PhaseRevealed:
		return m.fanTargets()
	default:
		return nil
	}
}

func (m *Machine) cardTarget(c catalog.Card, layer Layer, rest Pose, b Behavior) Target {
	return Target{
		Key:      CardKey(c.ID),
		CardID:   c.ID,
		Layer:    layer,
		Rest:     rest,
		Behavior: b,
		Fallback: m.fallback[c.ID],
		FrontRef: c.FrontRef,
		BackRef:  c.BackRef,
	}
}

func (m *Machine) stackDropped() bool {
	return len(m.collage) > 0 || m.moving != nil
}

func (m *Machine) stackPose(i int) Pose {
	pl := StackPlacement(i).Offset(groupOffset)
	if m.stackDropped() {
		pl = pl.Offset(mgl64.Vec3{0, -stackDrop, 0})
	}
	return PoseAt(pl, StackScale)
}

func (m *Machine) collagePose(i int) Pose {
	return PoseAt(ListPlacement(i, m.hand.Len()).Offset(groupOffset), CollageScale)
}

func (m *Machine) stackedTargets() []Target {
	out := make([]Target, 0, m.hand.Len())
	for i, c := range m.stack {
		out = append(out, m.cardTarget(c, LayerStack, m.stackPose(i), Behavior{}))
	}
	var collage Behavior
	if m.moving == nil {
		collage = Behavior{Interactive: true, FocusLift: true, DragTilt: true}
	}
	for i, c := range m.collage {
		out = append(out, m.cardTarget(c, LayerCollage, m.collagePose(i), collage))
	}
	if mv, ok := m.Moving(); ok {
		out = append(out, m.cardTarget(mv.Card, LayerMoving, MovingPose(mv.Source, mv.Target, mv.Progress), Behavior{Direct: true}))
	}
	return out
}

// MovingPose places an in-flight card at progress t along a lifted arc
// between source and target.
func MovingPose(source, target Pose, t float64) Pose {
	t = mgl64.Clamp(t, 0, 1)
	s := Smoothstep(t)
	arc := math.Sin(math.Pi * t)
	pos := lerpVec(source.Position, target.Position, s).Add(mgl64.Vec3{0, arc * arcLift, arc * arcPush})
	return Pose{
		Position: pos,
		Rotation: lerpVec(source.Rotation, target.Rotation, s),
		Scale:    lerp(source.Scale, target.Scale, s),
		Opacity:  1,
	}
}

func (m *Machine) blendTargets(b float64) []Target {
	n := m.hand.Len()
	from := make(map[string]int, len(m.collage))
	for i, c := range m.collage {
		from[c.ID] = i
	}
	out := make([]Target, 0, n)
	for i, c := range m.hand.Cards {
		src, ok := from[c.ID]
		if !ok {
			src = i
		}
		pl := BlendPlacements(m.collagePose(src).Placement(), FanPlacement(i, n), b)
		rest := PoseAt(pl, lerp(CollageScale, FanScale, Smoothstep(b)))
		out = append(out, m.cardTarget(c, LayerFan, rest, Behavior{}))
	}
	return out
}

func (m *Machine) fanTargets() []Target {
	n := m.hand.Len()
	b := Behavior{Interactive: true, FocusLift: true, DragTilt: true, Dimming: true}
	out := make([]Target, 0, n)
	for i, c := range m.hand.Cards {
		out = append(out, m.cardTarget(c, LayerFan, PoseAt(FanPlacement(i, n), FanScale), b))
	}
	return out
}

// packTargets splits the pack into its two halves at pack-open progress p.
// The halves fly apart with a quadratic ease-in and fade out over the
// latter three quarters of the animation.
func packTargets(p float64) []Target {
	p = mgl64.Clamp(p, 0, 1)
	topH := packHeight * packTopRatio
	bottomH := packHeight - topH
	topY := packHeight/2 - topH/2
	bottomY := -packHeight/2 + bottomH/2

	travel := float64(ease.InQuad(float32(p), 0, 1, 1))
	fade := 0.0
	if p > packFadeStart {
		f := (p - packFadeStart) / (1 - packFadeStart)
		fade = float64(ease.InOutQuad(float32(f), 0, 1, 1))
	}
	half := func(key string, restY, endY float64) Target {
		y := lerp(restY, endY, travel) * packScale
		return Target{
			Key:      key,
			Layer:    LayerPack,
			Rest:     Pose{Position: mgl64.Vec3{0, y, 0}, Scale: packScale, Opacity: 1 - fade},
			Behavior: Behavior{Direct: true},
		}
	}
	return []Target{
		half(PackTopKey, topY, packTravel),
		half(PackBottomKey, bottomY, -packTravel),
	}
}
