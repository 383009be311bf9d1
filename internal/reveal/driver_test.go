package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

type recorder struct {
	updates   []float64
	completed int
}

func (r *recorder) update(p float64) { r.updates = append(r.updates, p) }
func (r *recorder) complete() { r.completed++ }

func runUntilIdle(t *testing.T, d ProgressDriver, step time.Duration) {
	t.Helper()
	for range 1000 {
		if !d.Running() {
			return
		}
		d.Advance(step)
	}
	t.Fatal("driver never finished")
}

func TestTweenProgressIsMonotonicAndEndsAtOne(t *testing.T) {
	t.Parallel()
	for name, fn := range map[string]Easing{
		"linear":    ease.Linear,
		"inOutSine": ease.InOutSine,
		"inQuad":    ease.InQuad,
	} {
		t.Run(name, func(t *testing.T) {
			var r recorder
			tw := NewTween()
			tw.Start(time.Second, fn, r.update, r.complete)
			require.True(t, tw.Running())
			runUntilIdle(t, tw, 70*time.Millisecond)

			require.Equal(t, 0.0, r.updates[0])
			require.Equal(t, 1.0, r.updates[len(r.updates)-1])
			for i := 1; i < len(r.updates); i++ {
				require.GreaterOrEqual(t, r.updates[i], r.updates[i-1])
			}
			require.Equal(t, 1, r.completed)

			tw.Advance(time.Second)
			require.Equal(t, 1, r.completed)
		})
	}
}

func TestTweenCancelSuppressesCompletion(t *testing.T) {
	t.Parallel()
	var r recorder
	tw := NewTween()
	tw.Start(time.Second, ease.Linear, r.update, r.complete)
	tw.Advance(300 * time.Millisecond)
	seen := len(r.updates)

	tw.Cancel()
	require.False(t, tw.Running())
	tw.Advance(2 * time.Second)
	require.Len(t, r.updates, seen)
	require.Zero(t, r.completed)
}

func TestTweenCancelFromUpdate(t *testing.T) {
	t.Parallel()
	var completed int
	tw := NewTween()
	tw.Start(time.Second, ease.Linear, func(p float64) {
		if p >= 0.5 {
			tw.Cancel()
		}
	}, func() { completed++ })
	for range 40 {
		tw.Advance(100 * time.Millisecond)
	}
	require.Zero(t, completed)
}

func TestTweenRestartCancelsPreviousRun(t *testing.T) {
	t.Parallel()
	var first, second recorder
	tw := NewTween()
	tw.Start(time.Second, ease.Linear, first.update, first.complete)
	tw.Advance(500 * time.Millisecond)
	tw.Start(time.Second, ease.Linear, second.update, second.complete)
	runUntilIdle(t, tw, 100*time.Millisecond)

	require.Zero(t, first.completed)
	require.Equal(t, 1, second.completed)
	require.Equal(t, 0.0, second.updates[0])
}

func TestTweenZeroDurationCompletesImmediately(t *testing.T) {
	t.Parallel()
	var r recorder
	tw := NewTween()
	tw.Start(0, nil, r.update, r.complete)
	require.Equal(t, []float64{0, 1}, r.updates)
	require.Equal(t, 1, r.completed)
	require.False(t, tw.Running())
}
