// Package flow decides how much of a requested transfer may proceed right
// now. Textures ask their controller before each upload chunk and defer
// whatever was not granted to a later bind.
package flow

import (
	"math"
	"sync"
	"time"

	"github.com/loov/hrtime"
)

// Controller grants a share of a requested amount. Implementations satisfy
// 0 <= granted <= requested; calls may have side effects (spending quota,
// advancing a clock).
type Controller interface {
	Allocate(requested float64) (granted float64)
}

// Warmer is implemented by controllers that accrue allowance over time.
// Warm discards whatever has accrued, so that a new transfer starts from an
// empty bucket instead of a burst.
type Warmer interface {
	Warm()
}

// Warm warms c up if it supports it; it is a no-op otherwise.
func Warm(c Controller) {
	if w, ok := c.(Warmer); ok {
		w.Warm()
	}
}

// Unlimited grants every request in full.
type Unlimited struct{}

var _ Controller = Unlimited{}

func (Unlimited) Allocate(requested float64) float64 {
	return math.Max(requested, 0)
}

// Capped grants at most Limit per request.
type Capped struct {
	Limit float64
}

var _ Controller = Capped{}

func (c Capped) Allocate(requested float64) float64 {
	return math.Max(math.Min(c.Limit, requested), 0)
}

// Rationed hands out a finite quota, at most maxBite per request. The quota
// is replenished explicitly through Permit.
type Rationed struct {
	mu      sync.Mutex
	quota   float64
	maxBite float64
}

var _ Controller = (*Rationed)(nil)

// NewRationed returns a controller with the given initial quota. A maxBite
// of zero or less leaves individual requests unbounded.
func NewRationed(quota, maxBite float64) *Rationed {
	if maxBite <= 0 {
		maxBite = math.Inf(1)
	}
	return &Rationed{quota: quota, maxBite: maxBite}
}

// Permit adds n to the remaining quota.
func (r *Rationed) Permit(n float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quota += n
}

// Remaining returns the quota left.
func (r *Rationed) Remaining() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}

func (r *Rationed) Allocate(requested float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	granted := math.Max(math.Min(r.quota, math.Min(r.maxBite, requested)), 0)
	r.quota -= granted
	return granted
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Duration
}

type hrclock struct{}

func (hrclock) Now() time.Duration { return hrtime.Now() }

// MonotonicClock is the default clock of BandwidthLimited.
var MonotonicClock Clock = hrclock{}

// BandwidthLimited is a token bucket: allowance accrues at rate units per
// second, tracked as a virtual timestamp. Grants smaller than the minimum
// bite are refused; grants above the maximum bite are truncated and the
// excess is forfeited.
type BandwidthLimited struct {
	mu        sync.Mutex
	rate      float64
	min, max  float64
	timestamp float64 // seconds
	clock     Clock
}

var (
	_ Controller = (*BandwidthLimited)(nil)
	_ Warmer     = (*BandwidthLimited)(nil)
)

// NewBandwidthLimited returns a bucket accruing rate units per second. A max
// of zero or less leaves grants unbounded. The bucket starts empty.
func NewBandwidthLimited(rate, min, max float64) *BandwidthLimited {
	return NewBandwidthLimitedClock(rate, min, max, MonotonicClock)
}

// NewBandwidthLimitedClock is NewBandwidthLimited with an explicit clock.
func NewBandwidthLimitedClock(rate, min, max float64, clock Clock) *BandwidthLimited {
	if max <= 0 {
		max = math.Inf(1)
	}
	b := &BandwidthLimited{rate: rate, min: min, max: max, clock: clock}
	b.timestamp = b.now()
	return b
}

func (b *BandwidthLimited) now() float64 {
	return b.clock.Now().Seconds()
}

// Rate returns the accrual rate in units per second.
func (b *BandwidthLimited) Rate() float64 {
	return b.rate
}

// Warm discards accrued allowance.
func (b *BandwidthLimited) Warm() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timestamp = b.now()
}

func (b *BandwidthLimited) Allocate(requested float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	permits := (now - b.timestamp) * b.rate
	toSpend := math.Min(permits, requested)
	if toSpend <= 0 || toSpend < b.min {
		return 0
	}
	b.timestamp = now - (permits-toSpend)/b.rate
	return math.Min(toSpend, b.max)
}
