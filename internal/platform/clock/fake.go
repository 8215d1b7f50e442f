package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a deterministic Clock. Time moves only when Advance is
// called; tick callbacks run synchronously inside Advance, in deadline
// order. Do not call Advance from within a tick callback.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*fakeTicker
}

type fakeTicker struct {
	clock    *FakeClock
	deadline time.Time
	interval time.Duration
	fn       func()
	stopped  bool
}

func NewFake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) ScheduleTick(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		panic("clock: non-positive tick interval")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ticker := &fakeTicker{
		clock:    c,
		deadline: c.current.Add(interval),
		interval: interval,
		fn:       fn,
	}
	c.tickers = append(c.tickers, ticker)
	return ticker
}

func (t *fakeTicker) Cancel() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

// Advance moves the clock forward by d, firing every tick whose deadline
// falls within the new time. A ticker spanning several intervals fires
// once per interval, and the clock reads each tick's own deadline while
// its callback runs.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		next.fn()
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()
}

// nextDue pops the earliest live ticker due at or before target, sets the
// clock to its deadline and reschedules it.
func (c *FakeClock) nextDue(target time.Time) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.tickers[:0]
	for _, ticker := range c.tickers {
		if !ticker.stopped {
			live = append(live, ticker)
		}
	}
	c.tickers = live
	if len(c.tickers) == 0 {
		return nil
	}
	sort.SliceStable(c.tickers, func(i, j int) bool {
		return c.tickers[i].deadline.Before(c.tickers[j].deadline)
	})
	due := c.tickers[0]
	if due.deadline.After(target) {
		return nil
	}
	c.current = due.deadline
	due.deadline = due.deadline.Add(due.interval)
	return due
}

// Pending reports how many tickers are still scheduled.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, ticker := range c.tickers {
		if !ticker.stopped {
			count++
		}
	}
	return count
}
