package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRangeValidate(t *testing.T) {
	cases := []struct {
		name    string
		r       Range
		wantErr bool
	}{
		{"ok", Range{Min: time.Millisecond, Max: time.Second}, false},
		{"fixed", Range{Min: time.Second, Max: time.Second}, false},
		{"negative", Range{Min: -time.Second, Max: time.Second}, true},
		{"inverted", Range{Min: time.Second, Max: time.Millisecond}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRangeDrawBounds(t *testing.T) {
	r := Range{Min: 500 * time.Millisecond, Max: 3000 * time.Millisecond}

	lowest := r.draw(func(int64) int64 { return 0 })
	if lowest != r.Min {
		t.Fatalf("expected lowest draw %s, got %s", r.Min, lowest)
	}
	highest := r.draw(func(n int64) int64 { return n - 1 })
	if highest != r.Max {
		t.Fatalf("expected highest draw %s, got %s", r.Max, highest)
	}
}

func TestStartTicksUntilStopped(t *testing.T) {
	var s Scheduler
	var ticks atomic.Int32
	h := s.Start(Range{Min: time.Millisecond, Max: 2 * time.Millisecond}, func() {
		ticks.Add(1)
	})

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("timer did not tick, got %d ticks", ticks.Load())
		case <-time.After(time.Millisecond):
		}
	}

	s.Stop(h)
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("timer goroutine did not exit after Stop")
	}

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Fatalf("callback fired after stop: %d -> %d", after, got)
	}
}

func TestStopDiscardsPendingTimer(t *testing.T) {
	var s Scheduler
	var fired atomic.Bool
	h := s.Start(Range{Min: time.Hour, Max: time.Hour}, func() { fired.Store(true) })
	h.Stop()
	h.Stop()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("pending timer was not discarded")
	}
	if fired.Load() {
		t.Fatal("callback should not have fired")
	}
}

func TestStopFromCallback(t *testing.T) {
	var s Scheduler
	var ticks atomic.Int32
	var h *Handle
	ready := make(chan struct{})
	h = s.Start(Range{Min: time.Millisecond, Max: time.Millisecond}, func() {
		<-ready
		ticks.Add(1)
		h.Stop()
	})
	close(ready)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("stopping from inside the callback should end the loop")
	}
	if ticks.Load() != 1 {
		t.Fatalf("expected exactly one tick, got %d", ticks.Load())
	}
}
