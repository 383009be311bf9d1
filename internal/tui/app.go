package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/jask/packreveal/internal/assets"
	"github.com/jask/packreveal/internal/catalog"
	"github.com/jask/packreveal/internal/reveal"
	"github.com/jask/packreveal/internal/service"
)

const (
	// maxFrameStep caps dt after a stall so sessions do not jump to the end.
	maxFrameStep = 100 * time.Millisecond
	dragStep     = 0.1
)

// CatalogLoader yields the ingested catalog.
type CatalogLoader interface {
	Load(ctx context.Context) (service.CatalogLoad, error)
}

// Preloader settles every asset of a hand.
type Preloader interface {
	Preload(ctx context.Context, cards []catalog.Card, onSettle func(assets.Outcome)) assets.Report
}

// FramePublisher receives every rendered frame.
type FramePublisher interface {
	Publish(reveal.Frame)
}

// Deps are the collaborators of the App.
type Deps struct {
	Catalog       CatalogLoader
	Preloader     Preloader
	Machine       *reveal.Machine
	Scene         *reveal.Scene
	Feed          FramePublisher
	FrameInterval time.Duration
	Logger        *slog.Logger
}

// App drives the reveal from the bubbletea event loop. Every state change
// happens in Update, so the machine and the scene only ever see one
// timeline.
type App struct {
	ctx  context.Context
	deps Deps
	log  *slog.Logger

	keys     keyMap
	help     help.Model
	progress progress.Model

	frame      reveal.Frame
	lastTick   time.Time
	pointer    mgl64.Vec3
	cached     bool
	width      int
	cancelLoad context.CancelFunc
}

func New(ctx context.Context, deps Deps) *App {
	if deps.FrameInterval <= 0 {
		deps.FrameInterval = time.Second / 60
	}
	if deps.Scene == nil {
		deps.Scene = reveal.NewScene()
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &App{
		ctx:      ctx,
		deps:     deps,
		log:      log,
		keys:     defaultKeys(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCatalog(), a.tick())
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.deps.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		res, err := a.deps.Catalog.Load(a.ctx)
		if err != nil {
			return catalogFailedMsg{err}
		}
		return catalogLoadedMsg{Cards: res.Cards, Cached: res.Cached}
	}
}

// preload starts fetching a hand's assets. Each settled asset arrives as an
// assetSettledMsg; the aggregate report as a handPreloadedMsg.
func (a *App) preload(req reveal.PreloadRequest) tea.Cmd {
	if a.cancelLoad != nil {
		a.cancelLoad()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelLoad = cancel

	settled := make(chan assets.Outcome, 2*req.Hand.Len())
	run := func() tea.Msg {
		report := a.deps.Preloader.Preload(ctx, req.Hand.Cards, func(o assets.Outcome) {
			settled <- o
		})
		close(settled)
		return handPreloadedMsg{Generation: req.Generation, Report: report}
	}
	return tea.Batch(run, waitForSettle(req.Generation, settled))
}

func waitForSettle(gen uint64, ch <-chan assets.Outcome) tea.Cmd {
	return func() tea.Msg {
		o, ok := <-ch
		if !ok {
			return nil
		}
		return assetSettledMsg{Generation: gen, Outcome: o, next: ch}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := a.deps.Machine
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case frameMsg:
		now := time.Time(msg)
		dt := a.deps.FrameInterval
		if !a.lastTick.IsZero() {
			dt = min(max(now.Sub(a.lastTick), 0), maxFrameStep)
		}
		a.lastTick = now
		m.Tick(dt)
		a.frame = m.Step(a.deps.Scene)
		if a.deps.Feed != nil {
			a.deps.Feed.Publish(a.frame)
		}
		return a, a.tick()

	case catalogLoadedMsg:
		a.cached = msg.Cached
		req, ok := m.LoadCatalog(msg.Cards)
		if !ok {
			a.log.Error("catalog unusable", "err", m.Err())
			return a, nil
		}
		return a, a.preload(req)

	case catalogFailedMsg:
		m.FailCatalog(msg.error)
		return a, nil

	case assetSettledMsg:
		m.AssetSettled(msg.Generation, msg.Outcome)
		return a, waitForSettle(msg.Generation, msg.next)

	case handPreloadedMsg:
		m.HandPreloaded(msg.Generation, msg.Report)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m, scene := a.deps.Machine, a.deps.Scene
	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.cancelLoad != nil {
			a.cancelLoad()
		}
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.NewHand):
		if req, ok := m.RequestNewHand(); ok {
			scene.ClearFocus()
			return a, a.preload(req)
		}
	case key.Matches(msg, a.keys.Advance):
		switch m.Phase() {
		case reveal.PhasePackReady:
			m.StartPackOpen()
		case reveal.PhaseStacked:
			m.CycleTopCard()
		}
	case key.Matches(msg, a.keys.FocusNext):
		a.moveFocus(1)
	case key.Matches(msg, a.keys.FocusPrev):
		a.moveFocus(-1)
	case key.Matches(msg, a.keys.ClearFocus):
		scene.ClearFocus()
	case key.Matches(msg, a.keys.Grab):
		a.toggleGrab()
	case key.Matches(msg, a.keys.DragUp):
		a.nudge(0, dragStep)
	case key.Matches(msg, a.keys.DragDown):
		a.nudge(0, -dragStep)
	case key.Matches(msg, a.keys.DragLeft):
		a.nudge(-dragStep, 0)
	case key.Matches(msg, a.keys.DragRight):
		a.nudge(dragStep, 0)
	}
	return a, nil
}

// moveFocus steps focus through the interactive elements of the last frame.
func (a *App) moveFocus(dir int) {
	var keys []string
	current := -1
	for _, e := range a.frame.Elements {
		if !e.Interactive {
			continue
		}
		if e.Key == a.deps.Scene.Focused() {
			current = len(keys)
		}
		keys = append(keys, e.Key)
	}
	if len(keys) == 0 {
		return
	}
	next := 0
	switch {
	case current >= 0:
		next = (current + dir + len(keys)) % len(keys)
	case dir < 0:
		next = len(keys) - 1
	}
	a.deps.Scene.Focus(keys[next])
}

// toggleGrab starts a drag with the pointer at the focused card's centre,
// or releases the current one.
func (a *App) toggleGrab() {
	scene := a.deps.Scene
	if scene.Dragging() {
		scene.EndDrag()
		return
	}
	pose, ok := scene.Pose(scene.Focused())
	if !ok {
		return
	}
	a.pointer = pose.Position
	scene.BeginDrag(a.pointer)
}

func (a *App) nudge(dx, dy float64) {
	if !a.deps.Scene.Dragging() {
		return
	}
	a.pointer = a.pointer.Add(mgl64.Vec3{dx, dy, 0})
	a.deps.Scene.MoveDrag(a.pointer)
}

// Frame returns the most recently rendered frame.
func (a *App) Frame() reveal.Frame { return a.frame }
