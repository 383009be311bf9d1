package bridge

import (
	"sync"

	"github.com/jask/packreveal/internal/reveal"
)

// Feed fans the latest frame out to any number of subscribers. Slow
// subscribers miss intermediate frames; they always get the newest one.
type Feed struct {
	mu     sync.RWMutex
	latest reveal.Frame
	has    bool
	subs   map[chan reveal.Frame]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan reveal.Frame]struct{})}
}

// Publish records f as the latest frame and offers it to every subscriber
// without blocking.
func (f *Feed) Publish(fr reveal.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = fr
	f.has = true
	for ch := range f.subs {
		select {
		case ch <- fr:
			continue
		default:
		}
		// Full: drop the stale frame and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- fr:
		default:
		}
	}
}

// Latest returns the most recent frame, if any was published.
func (f *Feed) Latest() (reveal.Frame, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.has
}

// Subscribe returns a channel of frames and a func that ends the
// subscription and closes the channel.
func (f *Feed) Subscribe(buffer int) (<-chan reveal.Frame, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan reveal.Frame, buffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
