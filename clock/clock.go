// Package clock gates processor cycles to a fixed frequency.
//
// The gate is polled, never slept on: Update reports whether a period has
// elapsed since the last time it returned true, independently of how often
// the host loop calls it.
package clock

import (
	"errors"
	"sync/atomic"
	"time"

	wallclock "github.com/benbjohnson/clock"

	"github.com/ezrec/pemu/translate"
)

var f = translate.From

const (
	MIN_FREQUENCY = 1             // One cycle each second.
	MAX_FREQUENCY = 1_000_000_000 // One cycle each nanosecond.
)

var ErrFrequency = errors.New(f("clock frequency out of range"))

// ErrFrequencyRange reports a rejected frequency.
type ErrFrequencyRange int

func (err ErrFrequencyRange) Error() string {
	return f("clock frequency %dHz not in %d..%d", int(err), MIN_FREQUENCY, MAX_FREQUENCY)
}

func (err ErrFrequencyRange) Unwrap() error {
	return ErrFrequency
}

// Clock is a frequency gate.
//
// Update must only be called from one goroutine; the accessors may be read
// from any goroutine.
type Clock struct {
	frequency int
	interval  time.Duration
	source    wallclock.Clock

	lastUpdated time.Time
	lastDelta   atomic.Int64
}

// Option configures a Clock.
type Option func(clk *Clock)

// WithSource sets the time source, ie a wallclock.Mock for tests.
func WithSource(source wallclock.Clock) Option {
	return func(clk *Clock) {
		clk.source = source
	}
}

// NewClock creates a clock gate ticking at frequency Hz.
func NewClock(frequency int, opts ...Option) (clk *Clock, err error) {
	if frequency < MIN_FREQUENCY || frequency > MAX_FREQUENCY {
		err = ErrFrequencyRange(frequency)
		return
	}

	clk = &Clock{
		frequency: frequency,
		interval:  time.Second / time.Duration(frequency),
	}

	for _, opt := range opts {
		opt(clk)
	}

	if clk.source == nil {
		clk.source = wallclock.New()
	}

	return
}

// Frequency returns the gate frequency in Hz.
func (clk *Clock) Frequency() int {
	return clk.frequency
}

// Interval returns the period between gate ticks.
func (clk *Clock) Interval() time.Duration {
	return clk.interval
}

// Delta returns the time between the last two ticks.
func (clk *Clock) Delta() time.Duration {
	return time.Duration(clk.lastDelta.Load())
}

// Now returns the current time of the clock's source.
func (clk *Clock) Now() time.Time {
	return clk.source.Now()
}

// Since returns the time elapsed since t on the clock's source.
func (clk *Clock) Since(t time.Time) time.Duration {
	return clk.source.Since(t)
}

// Update returns true if at least one interval has elapsed since the last
// time it returned true.
func (clk *Clock) Update() bool {
	now := clk.source.Now()
	delta := now.Sub(clk.lastUpdated)
	if delta < clk.interval {
		return false
	}

	clk.lastDelta.Store(int64(delta))
	clk.lastUpdated = now

	return true
}
