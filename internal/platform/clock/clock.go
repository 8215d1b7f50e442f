package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
	// ScheduleTick calls fn once per interval until the returned handle is
	// cancelled. Calls made through one handle never overlap.
	ScheduleTick(interval time.Duration, fn func()) Handle
}

// Handle cancels a scheduled tick. Cancel is safe to call more than once.
type Handle interface {
	Cancel()
}

type SystemClock struct{}

func System() Clock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (SystemClock) ScheduleTick(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		panic("clock: non-positive tick interval")
	}
	handle := &tickerHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-handle.stop:
				return
			case <-ticker.C:
				// Cancel may race with a tick already delivered on C.
				select {
				case <-handle.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return handle
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}
