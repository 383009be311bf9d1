package reveal

import (
	"log/slog"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/jask/packreveal/internal/assets"
	"github.com/jask/packreveal/internal/catalog"
)

// Timings are the durations of the three animated transitions.
type Timings struct {
	PackOpen   time.Duration
	CycleTop   time.Duration
	PhaseBlend time.Duration
}

// DefaultTimings returns the stock transition durations.
func DefaultTimings() Timings {
	return Timings{
		PackOpen:   800 * time.Millisecond,
		CycleTop:   950 * time.Millisecond,
		PhaseBlend: 1100 * time.Millisecond,
	}
}

// Options configure a Machine. Zero values select defaults.
type Options struct {
	HandSize  int
	Timings   Timings
	RNG       RNG
	NewDriver func() ProgressDriver
	Logger    *slog.Logger
}

// PreloadRequest asks the caller to preload a freshly drawn hand. Results
// must be reported back with the same generation.
type PreloadRequest struct {
	Generation uint64
	Hand       Hand
}

// MovingElement is the card in flight from the stack to the collage.
type MovingElement struct {
	Card     catalog.Card
	Progress float64
	Source   Pose
	Target   Pose
}

// Machine is the reveal controller. It owns the phase, the stack queue,
// the collage and every animation session. It is not safe for concurrent
// use; all calls belong to a single timeline.
type Machine struct {
	opts     Options
	log      *slog.Logger
	sessions *Sessions

	phase      Phase
	err        error
	cards      []catalog.Card
	hand       Hand
	generation uint64

	stack   []catalog.Card
	collage []catalog.Card
	moving  *MovingElement
	cycles  int

	settled  int
	fallback map[string]bool
}

// NewMachine returns a machine in PhaseLoading with no catalog.
func NewMachine(opts Options) *Machine {
	if opts.HandSize <= 0 {
		opts.HandSize = DefaultHandSize
	}
	def := DefaultTimings()
	if opts.Timings.PackOpen <= 0 {
		opts.Timings.PackOpen = def.PackOpen
	}
	if opts.Timings.CycleTop <= 0 {
		opts.Timings.CycleTop = def.CycleTop
	}
	if opts.Timings.PhaseBlend <= 0 {
		opts.Timings.PhaseBlend = def.PhaseBlend
	}
	if opts.RNG == nil {
		opts.RNG = DefaultRNG()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		opts:     opts,
		log:      log,
		sessions: NewSessions(opts.NewDriver),
		phase:    PhaseLoading,
		fallback: make(map[string]bool),
	}
}

// LoadCatalog binds the ingested cards and draws the first hand. It is
// accepted only while loading without a catalog. An empty catalog moves
// the machine to PhaseError.
func (m *Machine) LoadCatalog(cards []catalog.Card) (PreloadRequest, bool) {
	if m.phase != PhaseLoading || m.cards != nil {
		return PreloadRequest{}, false
	}
	valid := catalog.FilterValid(cards)
	if len(valid) == 0 {
		m.fail(catalog.EmptyError(""))
		return PreloadRequest{}, false
	}
	m.cards = valid
	return m.draw()
}

// FailCatalog records an ingestion failure. Catalog errors are terminal.
func (m *Machine) FailCatalog(err error) bool {
	if m.phase != PhaseLoading || m.cards != nil || err == nil {
		return false
	}
	m.fail(err)
	return true
}

// RequestNewHand discards the current hand and draws another. It is
// accepted once revealed, and while a previous hand is still preloading.
func (m *Machine) RequestNewHand() (PreloadRequest, bool) {
	switch {
	case m.phase == PhaseRevealed:
	case m.phase == PhaseLoading && m.cards != nil:
	default:
		return PreloadRequest{}, false
	}
	m.sessions.CancelAll()
	m.stack = nil
	m.collage = nil
	m.moving = nil
	m.cycles = 0
	m.setPhase(PhaseLoading)
	return m.draw()
}

func (m *Machine) draw() (PreloadRequest, bool) {
	hand, err := DrawHand(m.cards, m.opts.HandSize, m.opts.RNG)
	if err != nil {
		m.fail(err)
		return PreloadRequest{}, false
	}
	m.generation++
	m.hand = hand
	m.settled = 0
	m.fallback = make(map[string]bool)

	ids := make([]string, len(hand.Cards))
	for i, c := range hand.Cards {
		ids[i] = c.ID
	}
	m.log.Info("hand drawn", "hand", hand.ID, "generation", m.generation, "cards", ids)
	return PreloadRequest{Generation: m.generation, Hand: hand}, true
}

// AssetSettled records one settled asset of the current hand's preload.
// Settlements from an older generation are discarded.
func (m *Machine) AssetSettled(gen uint64, o assets.Outcome) bool {
	if !m.current(gen, "asset") {
		return false
	}
	m.settled = min(m.settled+1, m.preloadTotal())
	if !o.OK() {
		m.fallback[o.CardID] = true
	}
	return true
}

// HandPreloaded is the aggregate ready signal: every asset of the hand has
// settled. The hand moves to PhasePackReady whatever the individual results.
func (m *Machine) HandPreloaded(gen uint64, r assets.Report) bool {
	if !m.current(gen, "preload") {
		return false
	}
	for id := range r.FallbackCards() {
		m.fallback[id] = true
	}
	m.settled = m.preloadTotal()
	m.stack = append([]catalog.Card(nil), m.hand.Cards...)
	m.setPhase(PhasePackReady)
	return true
}

func (m *Machine) current(gen uint64, what string) bool {
	if gen != m.generation || m.phase != PhaseLoading {
		m.log.Debug("stale settlement discarded", "kind", what, "generation", gen, "current", m.generation)
		return false
	}
	return true
}

// StartPackOpen begins the pack-open animation.
func (m *Machine) StartPackOpen() bool {
	if m.phase != PhasePackReady || m.sessions.Live(SessionPackOpen) {
		return false
	}
	m.sessions.Start(SessionPackOpen, m.opts.Timings.PackOpen, ease.Linear, func() {
		m.setPhase(PhaseStacked)
	})
	return true
}

// CycleTopCard sends the top stack card to the collage.
func (m *Machine) CycleTopCard() bool {
	if m.phase != PhaseStacked || m.moving != nil || len(m.stack) == 0 {
		return false
	}
	source := m.stackPose(0)
	card := m.stack[0]
	m.stack = m.stack[1:]
	m.moving = &MovingElement{
		Card:   card,
		Source: source,
		Target: m.collagePose(len(m.collage)),
	}
	m.sessions.Start(SessionCycleTop, m.opts.Timings.CycleTop, ease.InOutSine, m.finishCycle)
	return true
}

func (m *Machine) finishCycle() {
	if m.moving == nil {
		return
	}
	m.collage = append(m.collage, m.moving.Card)
	m.moving = nil
	m.cycles++
	m.log.Debug("card cycled", "cycles", m.cycles, "remaining", len(m.stack))
	if m.cycles >= m.hand.Len() {
		m.setPhase(PhaseTransitioning)
		m.sessions.Start(SessionPhaseBlend, m.opts.Timings.PhaseBlend, ease.InOutSine, func() {
			m.setPhase(PhaseRevealed)
		})
	}
}

// Tick advances every live session by dt.
func (m *Machine) Tick(dt time.Duration) {
	m.sessions.Advance(dt)
}

func (m *Machine) fail(err error) {
	m.err = err
	m.setPhase(PhaseError)
}

func (m *Machine) setPhase(p Phase) {
	if m.phase == p {
		return
	}
	m.log.Info("phase", "from", m.phase.String(), "to", p.String(), "generation", m.generation)
	m.phase = p
}

func (m *Machine) preloadTotal() int { return 2 * m.hand.Len() }

func (m *Machine) Phase() Phase { return m.phase }
func (m *Machine) Hand() Hand { return m.hand }
func (m *Machine) Cycles() int { return m.cycles }
func (m *Machine) Generation() uint64 { return m.generation }
func (m *Machine) Err() error { return m.err }

// StackQueue returns the cards not yet cycled, front first.
func (m *Machine) StackQueue() []catalog.Card {
	return append([]catalog.Card(nil), m.stack...)
}

// Collage returns the cycled cards in arrival order.
func (m *Machine) Collage() []catalog.Card {
	return append([]catalog.Card(nil), m.collage...)
}

// Moving returns the in-flight card with its current session progress.
func (m *Machine) Moving() (MovingElement, bool) {
	if m.moving == nil {
		return MovingElement{}, false
	}
	mv := *m.moving
	mv.Progress, _ = m.sessions.Progress(SessionCycleTop)
	return mv, true
}

// Progress returns the eased progress of a live session.
func (m *Machine) Progress(name SessionName) (float64, bool) {
	return m.sessions.Progress(name)
}

// PreloadProgress reports settled and total asset counts for the current
// hand.
func (m *Machine) PreloadProgress() (settled, total int) {
	return m.settled, m.preloadTotal()
}

// Fallback reports whether a card of the current hand has a failed asset.
func (m *Machine) Fallback(cardID string) bool {
	return m.fallback[cardID]
}
