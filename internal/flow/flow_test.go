package flow

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Duration
}

func (c *manualClock) Now() time.Duration { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now += d }

func TestUnlimited(t *testing.T) {
	var c Unlimited
	require.Equal(t, 1024.0, c.Allocate(1024))
	require.Equal(t, 0.0, c.Allocate(0))
	require.Equal(t, 0.0, c.Allocate(-1))
}

func TestCapped(t *testing.T) {
	c := Capped{Limit: 100}
	require.Equal(t, 100.0, c.Allocate(1000))
	require.Equal(t, 42.0, c.Allocate(42))
	require.Equal(t, 100.0, c.Allocate(1000), "capped is stateless")
}

func TestRationedConservation(t *testing.T) {
	r := NewRationed(1000, 300)

	var total float64
	for _, req := range []float64{500, 500, 100, 500, 500, 500} {
		g := r.Allocate(req)
		require.GreaterOrEqual(t, g, 0.0)
		require.LessOrEqual(t, g, req)
		require.LessOrEqual(t, g, 300.0)
		total += g
	}
	require.Equal(t, 1000.0, total)
	require.Equal(t, 0.0, r.Remaining())
	require.Equal(t, 0.0, r.Allocate(10))

	r.Permit(50)
	require.Equal(t, 50.0, r.Allocate(10000))
}

func TestRationedConcurrent(t *testing.T) {
	r := NewRationed(10000, 0)

	var mu sync.Mutex
	var total float64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g := r.Allocate(17)
				mu.Lock()
				total += g
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 10000.0, total)
}

func TestBandwidthLimited(t *testing.T) {
	clock := &manualClock{now: time.Second}
	b := NewBandwidthLimitedClock(1000, 8, 0, clock)

	require.Equal(t, 0.0, b.Allocate(100), "bucket starts empty")
	require.Equal(t, 0.0, b.Allocate(0))
	require.Equal(t, 0.0, b.Allocate(0))

	// Asking for nothing spends nothing.
	clock.advance(50 * time.Millisecond)
	require.Equal(t, 0.0, b.Allocate(0))
	require.Equal(t, 0.0, b.Allocate(0))
	require.InDelta(t, 50.0, b.Allocate(100), 1e-9)

	// Unspent permits carry over to the next call.
	clock.advance(100 * time.Millisecond)
	require.InDelta(t, 30.0, b.Allocate(30), 1e-9)
	require.InDelta(t, 70.0, b.Allocate(1000), 1e-9)
	require.Equal(t, 0.0, b.Allocate(1000))

	// Below the minimum bite nothing is granted, and nothing is spent.
	clock.advance(5 * time.Millisecond)
	require.Equal(t, 0.0, b.Allocate(1000))
	clock.advance(5 * time.Millisecond)
	require.InDelta(t, 10.0, b.Allocate(1000), 1e-9)
}

func TestBandwidthLimitedMaxBite(t *testing.T) {
	clock := &manualClock{}
	b := NewBandwidthLimitedClock(1000, 1, 100, clock)

	clock.advance(time.Second)
	require.Equal(t, 100.0, b.Allocate(500))
	require.Equal(t, 100.0, b.Allocate(math.Inf(1)))
	// Everything above the maximum bite was forfeited.
	require.Equal(t, 0.0, b.Allocate(math.Inf(1)))
}

func TestBandwidthLimitedConservation(t *testing.T) {
	clock := &manualClock{}
	b := NewBandwidthLimitedClock(2048, 1, 0, clock)

	var total float64
	for i := 0; i < 100; i++ {
		clock.advance(10 * time.Millisecond)
		g := b.Allocate(64)
		assert.LessOrEqual(t, g, 64.0)
		total += g
	}
	require.LessOrEqual(t, total, 2048.0+1e-6)
}

func TestWarm(t *testing.T) {
	clock := &manualClock{}
	b := NewBandwidthLimitedClock(1000, 1, 0, clock)
	clock.advance(time.Second)
	Warm(b)
	require.Equal(t, 0.0, b.Allocate(100))

	r := NewRationed(100, 0)
	Warm(r)
	require.Equal(t, 100.0, r.Remaining(), "rationed quota survives warming")
}
