package core

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock measures elapsed time against a pluggable time source, so that
// playback can be driven by a mock clock in tests.
type Clock struct {
	source    clock.Clock
	startTime time.Time
	elapsed   time.Duration
}

func NewClock(source clock.Clock) *Clock {
	if source == nil {
		source = clock.New()
	}
	return &Clock{source: source}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = c.source.Since(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.source.Now()
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

// Elapsed returns the time measured by the last Update, in seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}

// Source exposes the underlying time source.
func (c *Clock) Source() clock.Clock {
	return c.source
}
