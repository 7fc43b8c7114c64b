package testutil

import (
	"sync"
	"time"
)

// StepClock is a fake clock for time-budget tests. Every call to Now returns
// the current reading and then advances it by Step.
type StepClock struct {
	mu    sync.Mutex
	now   time.Time
	step  time.Duration
	calls int
}

// NewStepClock returns a StepClock starting at a fixed instant.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

// Now implements a func() time.Time clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *StepClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
