package reveal

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Easing maps elapsed time to eased progress; see package gween/ease.
type Easing = ease.TweenFunc

// ProgressDriver produces eased progress from 0 to 1 over a fixed duration.
//
// onUpdate receives non-decreasing values starting at 0 and ending at
// exactly 1. onComplete fires once, after the final onUpdate(1). After
// Cancel no further callback of that run is delivered.
type ProgressDriver interface {
	Start(duration time.Duration, easing Easing, onUpdate func(float64), onComplete func())
	Cancel()
	Advance(dt time.Duration)
	Running() bool
}

// Tween is a ProgressDriver advanced explicitly by the owner's tick source.
type Tween struct {
	tween      *gween.Tween
	last       float64
	onUpdate   func(float64)
	onComplete func()
	running    bool
	// run is bumped by every Start and Cancel; callbacks check it so a run
	// cancelled from inside its own callback goes silent.
	run uint64
}

// NewTween returns an idle Tween.
func NewTween() *Tween { return &Tween{} }

// Start begins a new run, cancelling any run in progress.
func (t *Tween) Start(duration time.Duration, easing Easing, onUpdate func(float64), onComplete func()) {
	t.Cancel()
	if easing == nil {
		easing = ease.Linear
	}
	t.onUpdate = onUpdate
	t.onComplete = onComplete
	t.last = 0
	t.running = true
	run := t.run

	t.emit(0)
	if t.run != run {
		return
	}
	if duration <= 0 {
		t.finish()
		return
	}
	t.tween = gween.New(0, 1, float32(duration.Seconds()), easing)
}

// Advance moves the run forward by dt.
func (t *Tween) Advance(dt time.Duration) {
	if !t.running || t.tween == nil {
		return
	}
	v, done := t.tween.Update(float32(dt.Seconds()))
	if done {
		t.finish()
		return
	}
	p := float64(v)
	if p < t.last {
		p = t.last
	}
	if p > 1 {
		p = 1
	}
	t.last = p
	t.emit(p)
}

// Cancel stops the current run. onComplete will not fire for it.
func (t *Tween) Cancel() {
	t.run++
	t.running = false
	t.tween = nil
	t.onUpdate = nil
	t.onComplete = nil
}

// Running reports whether a run is in progress.
func (t *Tween) Running() bool { return t.running }

func (t *Tween) emit(p float64) {
	if t.onUpdate != nil {
		t.onUpdate(p)
	}
}

func (t *Tween) finish() {
	run := t.run
	t.last = 1
	t.emit(1)
	if t.run != run {
		return
	}
	done := t.onComplete
	t.running = false
	t.tween = nil
	t.onUpdate = nil
	t.onComplete = nil
	if done != nil {
		done()
	}
}
