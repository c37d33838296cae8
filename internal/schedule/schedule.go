// Package schedule runs a callback repeatedly after randomized delays until stopped.
package schedule

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Range bounds the delay drawn before each tick. Both ends are inclusive.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Validate reports whether the range is usable.
func (r Range) Validate() error {
	if r.Min < 0 {
		return fmt.Errorf("minimum delay must not be negative: %s", r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("maximum delay %s is below minimum %s", r.Max, r.Min)
	}
	return nil
}

func (r Range) draw(int64n func(int64) int64) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(int64n(int64(r.Max-r.Min)+1))
}

// Scheduler starts repeating timers. The zero value is ready to use.
type Scheduler struct {
	// Int64N returns a value in [0, n). Defaults to math/rand/v2.
	Int64N func(n int64) int64
}

// Handle controls one running timer.
type Handle struct {
	stop chan struct{}
	done chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Start calls fn after every delay drawn from r until the handle is stopped.
func (s *Scheduler) Start(r Range, fn func()) *Handle {
	int64n := rand.Int64N
	if s != nil && s.Int64N != nil {
		int64n = s.Int64N
	}
	if r.Min < 0 {
		r.Min = 0
	}

	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go h.loop(r, fn, int64n)
	return h
}

// Stop halts h. It is equivalent to h.Stop().
func (s *Scheduler) Stop(h *Handle) {
	if h != nil {
		h.Stop()
	}
}

// Stop prevents any further tick from starting and discards the pending timer.
// A callback that already passed its cancellation check may still finish.
// Stop is idempotent and may be called from inside the callback.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.stop)
}

// Done is closed once the timer goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) loop(r Range, fn func(), int64n func(int64) int64) {
	defer close(h.done)

	for {
		timer := time.NewTimer(r.draw(int64n))
		select {
		case <-h.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		if !h.active() {
			return
		}
		fn()
	}
}

func (h *Handle) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stopped
}
