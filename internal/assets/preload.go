package assets

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jask/packreveal/internal/catalog"
)

const (
	DefaultConcurrency = 6
	DefaultTimeout     = 15 * time.Second
)

// Outcome is the settled result of one asset fetch.
type Outcome struct {
	CardID string
	Face   catalog.Face
	Ref    string
	Info   Info
	Err    error
}

// OK reports whether the asset loaded.
func (o Outcome) OK() bool { return o.Err == nil }

// Report aggregates every outcome of one preload, in card then face order.
type Report struct {
	Outcomes []Outcome
}

// Total is the number of settled assets.
func (r Report) Total() int { return len(r.Outcomes) }

// Failed counts the assets that did not load.
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// FallbackCards returns the ids of cards with at least one failed face.
func (r Report) FallbackCards() map[string]bool {
	out := make(map[string]bool)
	for _, o := range r.Outcomes {
		if !o.OK() {
			out[o.CardID] = true
		}
	}
	return out
}

// Preloader fetches both faces of every card and waits for all of them to
// settle. Individual failures are recorded, never propagated.
type Preloader struct {
	Fetcher     Fetcher
	Concurrency int
	Timeout     time.Duration
	Logger      *slog.Logger
}

var faces = [...]catalog.Face{catalog.FaceFront, catalog.FaceBack}

// Asset is one face of one card.
type Asset struct {
	CardID string
	Face   catalog.Face
	Ref    string
}

// AssetsOf lists both faces of every card, front first.
func AssetsOf(cards []catalog.Card) []Asset {
	out := make([]Asset, 0, len(cards)*len(faces))
	for _, c := range cards {
		for _, f := range faces {
			out = append(out, Asset{CardID: c.ID, Face: f, Ref: c.Ref(f)})
		}
	}
	return out
}

// Preload fetches both faces of every card. See Settle.
func (p *Preloader) Preload(ctx context.Context, cards []catalog.Card, onSettle func(Outcome)) Report {
	return p.Settle(ctx, AssetsOf(cards), onSettle)
}

// Settle returns once every asset has either loaded or failed. onSettle,
// when set, is called once per asset as it settles; calls are serialised
// and all of them happen before Settle returns.
func (p *Preloader) Settle(ctx context.Context, list []Asset, onSettle func(Outcome)) Report {
	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	outcomes := make([]Outcome, len(list))

	// A plain group: one failed asset must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(limit)
	var mu sync.Mutex
	for i, a := range list {
		g.Go(func() error {
			out := p.fetchOne(ctx, a)
			outcomes[i] = out
			if onSettle != nil {
				mu.Lock()
				onSettle(out)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Outcomes: outcomes}
	p.logger().Info("preload settled", "assets", report.Total(), "failed", report.Failed())
	return report
}

func (p *Preloader) fetchOne(ctx context.Context, a Asset) Outcome {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := Outcome{CardID: a.CardID, Face: a.Face, Ref: a.Ref}
	info, err := p.fetch(ctx, a.Ref)
	if err != nil {
		out.Err = &LoadError{CardID: a.CardID, Face: a.Face, Ref: a.Ref, Err: err}
		p.logger().Warn("asset failed", "card", a.CardID, "face", string(a.Face), "ref", a.Ref, "err", err)
		return out
	}
	out.Info = info
	return out
}

// fetch bounds a fetcher that ignores its context, so every asset settles.
func (p *Preloader) fetch(ctx context.Context, ref string) (Info, error) {
	type result struct {
		info Info
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		info, err := p.Fetcher.Fetch(ctx, ref)
		ch <- result{info, err}
	}()
	select {
	case r := <-ch:
		return r.info, r.err
	case <-ctx.Done():
		return Info{}, ctx.Err()
	}
}

func (p *Preloader) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
