package session

import (
	"sync"
	"time"
)

// RoundClock is a one-tick-per-second countdown from the round's time budget
// to zero. Resetting it for a new round index invalidates any pending ticks
// of the old round: a generation counter guards every callback, so no timer
// ever fires against a superseded round.
//
// In manual mode no goroutine runs and the owner advances the clock itself;
// that is how tests (and any host with its own scheduler) drive it.
type RoundClock struct {
	mu        sync.Mutex
	manual    bool
	gen       int
	round     int
	remaining int
	stop      chan struct{}

	onTick   func(roundIndex, timeLeft int)
	onExpire func(roundIndex int)
}

// NewRoundClock creates a clock. Either callback may be nil. When manual is
// true the clock never schedules its own ticks.
func NewRoundClock(manual bool, onTick func(roundIndex, timeLeft int), onExpire func(roundIndex int)) *RoundClock {
	return &RoundClock{manual: manual, onTick: onTick, onExpire: onExpire}
}

// Reset starts the countdown for a new round. Any countdown still running
// for a previous round is cancelled.
func (c *RoundClock) Reset(roundIndex, seconds int) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.round = roundIndex
	c.remaining = seconds
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	if !c.manual && seconds > 0 {
		c.stop = make(chan struct{})
		go c.run(gen, c.stop)
	}
	c.mu.Unlock()
}

// Stop cancels the countdown entirely.
func (c *RoundClock) Stop() {
	c.mu.Lock()
	c.gen++
	c.remaining = 0
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.mu.Unlock()
}

// TimeLeft returns the seconds remaining in the current round.
func (c *RoundClock) TimeLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Round returns the round index the clock is counting for.
func (c *RoundClock) Round() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Advance moves the countdown forward by n seconds, firing the same
// callbacks the wall-clock ticker would. Manual-mode drivers and tests use
// this; ticks beyond zero are no-ops.
func (c *RoundClock) Advance(n int) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	for i := 0; i < n; i++ {
		if !c.step(gen) {
			return
		}
	}
}

func (c *RoundClock) run(gen int, stop chan struct{}) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if !c.step(gen) {
				return
			}
		case <-stop:
			return
		}
	}
}

// step decrements the countdown once. It reports false when the clock is
// exhausted or the generation is stale. Callbacks run outside the lock so a
// handler may query the clock again.
func (c *RoundClock) step(gen int) bool {
	c.mu.Lock()
	if gen != c.gen || c.remaining <= 0 {
		c.mu.Unlock()
		return false
	}
	c.remaining--
	round, left := c.round, c.remaining
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(round, left)
	}
	if left == 0 {
		if c.onExpire != nil {
			c.onExpire(round)
		}
		return false
	}
	return true
}
