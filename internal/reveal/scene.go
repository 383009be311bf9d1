package reveal

import "github.com/go-gl/mathgl/mgl64"

// Element is the rendered state of one visual element for a single tick.
type Element struct {
	Key      string `json:"key"`
	CardID   string `json:"card_id,omitempty"`
	Layer    Layer  `json:"layer"`
	Pose     Pose   `json:"pose"`
	Focused  bool   `json:"focused,omitempty"`
	Dragging bool   `json:"dragging,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	FrontRef string `json:"front_ref,omitempty"`
	BackRef  string `json:"back_ref,omitempty"`
	// Interactive elements accept focus.
	Interactive bool `json:"interactive,omitempty"`
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Phase      string    `json:"phase"`
	Generation uint64    `json:"generation"`
	HandID     string    `json:"hand_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	Settled    int       `json:"settled"`
	Total      int       `json:"total"`
	Elements   []Element `json:"elements"`
}

// Scene owns the smoothed pose of every element and the pointer state.
// Smoothed poses outlive phases for as long as their key stays visible.
type Scene struct {
	smoothers map[string]*Smoother
	behaviors map[string]Behavior

	focused  string
	dragging bool
	tilt     mgl64.Vec2
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		smoothers: make(map[string]*Smoother),
		behaviors: make(map[string]Behavior),
	}
}

// Step advances every element one tick toward its target. Elements whose
// key is absent from targets are forgotten.
func (s *Scene) Step(targets []Target) Frame {
	behaviors := make(map[string]Behavior, len(targets))
	for _, t := range targets {
		behaviors[t.Key] = t.Behavior
	}
	s.behaviors = behaviors
	if b, ok := behaviors[s.focused]; s.focused != "" && (!ok || !b.Interactive) {
		s.ClearFocus()
	}

	anyFocused := s.focused != ""
	elems := make([]Element, 0, len(targets))
	for _, t := range targets {
		ia := Interaction{Focused: t.Key == s.focused}
		if ia.Focused {
			ia.Dragging = s.dragging
			ia.Tilt = s.tilt
		}
		goal := ResolvePose(t.Rest, t.Behavior, ia, anyFocused)

		sm, ok := s.smoothers[t.Key]
		if !ok {
			sm = NewSmoother()
			s.smoothers[t.Key] = sm
		}
		var pose Pose
		if t.Behavior.Direct {
			sm.Snap(goal)
			pose = goal
		} else {
			pose = sm.Step(goal)
		}
		elems = append(elems, Element{
			Key:         t.Key,
			CardID:      t.CardID,
			Layer:       t.Layer,
			Pose:        pose,
			Interactive: t.Behavior.Interactive,
			Focused:     ia.Focused,
			Dragging:    ia.Dragging,
			Fallback:    t.Fallback,
			FrontRef:    t.FrontRef,
			BackRef:     t.BackRef,
		})
	}
	for key := range s.smoothers {
		if _, ok := behaviors[key]; !ok {
			delete(s.smoothers, key)
		}
	}
	return Frame{Elements: elems}
}

// Focus gives focus to an interactive element seen in the last Step.
func (s *Scene) Focus(key string) bool {
	b, ok := s.behaviors[key]
	if !ok || !b.Interactive {
		return false
	}
	if s.focused != key {
		s.EndDrag()
	}
	s.focused = key
	return true
}

// Focused returns the key of the focused element, if any.
func (s *Scene) Focused() string { return s.focused }

// ClearFocus drops focus and any drag in progress.
func (s *Scene) ClearFocus() {
	s.focused = ""
	s.EndDrag()
}

// BeginDrag starts tilting the focused element from a world-space hit point.
func (s *Scene) BeginDrag(point mgl64.Vec3) bool {
	if s.focused == "" || !s.behaviors[s.focused].DragTilt {
		return false
	}
	s.dragging = true
	s.MoveDrag(point)
	return true
}

// MoveDrag updates the tilt while dragging.
func (s *Scene) MoveDrag(point mgl64.Vec3) {
	if !s.dragging {
		return
	}
	pose, _ := s.Pose(s.focused)
	s.tilt = DragTilt(pose, point)
}

// EndDrag releases the element; its rotation eases back to neutral.
func (s *Scene) EndDrag() {
	s.dragging = false
	s.tilt = mgl64.Vec2{}
}

// Dragging reports whether a drag is in progress.
func (s *Scene) Dragging() bool { return s.dragging }

// Pose returns the smoothed pose of an element.
func (s *Scene) Pose(key string) (Pose, bool) {
	sm, ok := s.smoothers[key]
	if !ok {
		return Pose{}, false
	}
	return sm.Current()
}

// Step renders the machine's current targets through the scene.
func (m *Machine) Step(s *Scene) Frame {
	f := s.Step(m.Targets())
	f.Phase = m.phase.String()
	f.Generation = m.generation
	f.HandID = m.hand.ID
	f.Message = ErrorPhaseReason(m.err)
	f.Settled, f.Total = m.PreloadProgress()
	return f
}
