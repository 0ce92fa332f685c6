// Package testutil holds deterministic stand-ins for the clock and the
// transport used across package tests.
package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/bnema/okc-cli/internal/ports"
)

// FakeClock is a ports.Clock whose time only moves on Advance. AfterFunc
// callbacks run synchronously inside Advance, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	timers  []*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	callback func()
	stopped  bool
	fired    bool
}

var _ ports.Clock = (*FakeClock)(nil)

func NewFakeClock(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{clock: c, deadline: c.current.Add(d), callback: f}
	c.timers = append(c.timers, timer)
	return timer
}

// Advance moves time forward by d and fires every timer that came due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		due := c.nextDue(target)
		if due == nil {
			c.current = target
			c.mu.Unlock()
			return
		}
		due.fired = true
		if due.deadline.After(c.current) {
			c.current = due.deadline
		}
		c.mu.Unlock()

		due.callback()
	}
}

// PendingCount reports timers that are armed and not yet fired.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}
	return count
}

// NextDeadline returns the earliest pending deadline.
func (c *FakeClock) NextDeadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	due := c.nextDue(time.Time{})
	if due == nil {
		return time.Time{}, false
	}
	return due.deadline, true
}

// nextDue picks the earliest live timer with a deadline at or before limit.
// A zero limit means no bound. Callers hold c.mu.
func (c *FakeClock) nextDue(limit time.Time) *fakeTimer {
	live := c.timers[:0]
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			live = append(live, timer)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})

	if len(c.timers) == 0 {
		return nil
	}
	first := c.timers[0]
	if !limit.IsZero() && first.deadline.After(limit) {
		return nil
	}
	return first
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
