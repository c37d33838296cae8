package feed

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"botpanel/internal/model"
	"botpanel/internal/ring"
	"botpanel/internal/schedule"
)

func newTestGenerator(delay schedule.Range) *Generator {
	return NewGenerator(Options{
		Rand:  rand.New(rand.NewPCG(1, 2)),
		Now:   func() time.Time { return time.Date(2025, 10, 1, 12, 34, 56, 0, time.Local) },
		Delay: delay,
	})
}

func TestSnapshotInvariants(t *testing.T) {
	g := newTestGenerator(schedule.Range{})
	online := 0
	const draws = 5000

	for i := 0; i < draws; i++ {
		snap, err := g.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("Snapshot returned error: %v", err)
		}
		if snap.RAMUsedMB > snap.RAMTotalMB || snap.StorageUsedGB > snap.StorageTotalGB || snap.NetworkSpeedMbps > snap.NetworkMaxMbps {
			t.Fatalf("used exceeds total: %+v", snap)
		}
		for _, p := range []int{snap.RAMPercent(), snap.StoragePercent(), snap.NetworkPercent(), snap.CPUPercent} {
			if p < 0 || p > 100 {
				t.Fatalf("percentage out of range: %d in %+v", p, snap)
			}
		}
		if snap.CPUPercent < 5 || snap.CPUPercent > 95 {
			t.Fatalf("cpu out of range: %d", snap.CPUPercent)
		}
		if snap.Connections < 100 || snap.Connections > 2500 {
			t.Fatalf("connections out of range: %d", snap.Connections)
		}
		bounds := []struct {
			name   string
			v      int
			lo, hi int
		}{
			{"ram used", snap.RAMUsedMB, 2048, 7372},
			{"storage used", snap.StorageUsedGB, 100, 450},
			{"network", snap.NetworkSpeedMbps, 50, 950},
			{"pid", snap.PID, 1000, 99999},
		}
		for _, b := range bounds {
			if b.v < b.lo || b.v > b.hi {
				t.Fatalf("%s out of [%d, %d]: %d", b.name, b.lo, b.hi, b.v)
			}
		}
		if snap.RAMTotalMB != RAMTotalMB || snap.StorageTotalGB != StorageTotalGB || snap.NetworkMaxMbps != NetworkMaxMbps {
			t.Fatalf("unexpected totals: %+v", snap)
		}
		if snap.Status == model.StatusOnline {
			online++
		}
	}

	ratio := float64(online) / draws
	if ratio < 0.85 || ratio > 0.95 {
		t.Fatalf("online ratio %.3f too far from 0.9", ratio)
	}
}

func TestSnapshotCancelledContext(t *testing.T) {
	g := newTestGenerator(schedule.Range{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Snapshot(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

var (
	apiCallPattern   = regexp.MustCompile(`^API call to \S+ took (\d+)ms$`)
	broadcastPattern = regexp.MustCompile(`^Broadcasting message to (\d+) users\.$`)
)

func TestRecordSubstitutesPlaceholders(t *testing.T) {
	g := newTestGenerator(schedule.Range{})
	levels := map[model.Level]bool{}
	var apiCalls, broadcasts int
	for i := 0; i < 2000; i++ {
		rec := g.Record()
		if rec.Timestamp != "12:34:56" {
			t.Fatalf("unexpected timestamp: %q", rec.Timestamp)
		}
		if strings.ContainsAny(rec.Message, "{}") {
			t.Fatalf("placeholder left in message: %q", rec.Message)
		}
		if _, err := model.ParseLevel(string(rec.Level)); err != nil {
			t.Fatalf("invalid level %q", rec.Level)
		}
		levels[rec.Level] = true

		if m := apiCallPattern.FindStringSubmatch(rec.Message); m != nil {
			apiCalls++
			if ms, _ := strconv.Atoi(m[1]); ms < 50 || ms > 500 {
				t.Fatalf("api latency out of [50, 500]: %q", rec.Message)
			}
		}
		if m := broadcastPattern.FindStringSubmatch(rec.Message); m != nil {
			broadcasts++
			if n, _ := strconv.Atoi(m[1]); n < 100 || n > 1000 {
				t.Fatalf("broadcast count out of [100, 1000]: %q", rec.Message)
			}
		}
	}
	if len(levels) != len(model.Levels) {
		t.Fatalf("expected every level to appear, got %v", levels)
	}
	if apiCalls == 0 || broadcasts == 0 {
		t.Fatalf("expected api and broadcast records, got %d and %d", apiCalls, broadcasts)
	}
}

func TestDefaultDelay(t *testing.T) {
	want := schedule.Range{Min: 500 * time.Millisecond, Max: 3000 * time.Millisecond}
	if DefaultDelay != want {
		t.Fatalf("unexpected default delay: %+v", DefaultDelay)
	}
	if g := NewGenerator(Options{}); g.delay != want {
		t.Fatalf("zero options should use the default delay, got %+v", g.delay)
	}
}

func TestStreamStopsAfterCancel(t *testing.T) {
	g := newTestGenerator(schedule.Range{Min: time.Millisecond, Max: 3 * time.Millisecond})

	var delivered atomic.Int32
	cancel := g.Stream(func(model.LogRecord) { delivered.Add(1) })

	deadline := time.After(2 * time.Second)
	for delivered.Load() < 5 {
		select {
		case <-deadline:
			t.Fatalf("stream produced only %d records", delivered.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	cancel()
	time.Sleep(5 * time.Millisecond)
	after := delivered.Load()

	// Wait well past the maximum delay.
	time.Sleep(30 * time.Millisecond)
	if got := delivered.Load(); got != after {
		t.Fatalf("records delivered after cancel: %d -> %d", after, got)
	}
}

func TestStreamIntoRingStaysBounded(t *testing.T) {
	g := newTestGenerator(schedule.Range{})
	g.delay = schedule.Range{Min: 0, Max: 0}

	buf := ring.New[model.LogRecord](200)
	var produced atomic.Int32
	cancel := g.Stream(func(rec model.LogRecord) {
		buf.Push(rec)
		produced.Add(1)
	})
	defer cancel()

	deadline := time.After(5 * time.Second)
	for produced.Load() < 1000 {
		select {
		case <-deadline:
			t.Fatalf("stream produced only %d records", produced.Load())
		case <-time.After(time.Millisecond):
		}
		if buf.Len() > 200 {
			t.Fatalf("ring exceeded capacity: %d", buf.Len())
		}
	}
	cancel()
	if buf.Len() != 200 {
		t.Fatalf("expected 200 retained records, got %d", buf.Len())
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	g := newTestGenerator(schedule.Range{Min: time.Millisecond, Max: 2 * time.Millisecond})

	var mu sync.Mutex
	counts := map[string]int{}
	stopA := g.Stream(func(model.LogRecord) { mu.Lock(); counts["a"]++; mu.Unlock() })
	stopB := g.Stream(func(model.LogRecord) { mu.Lock(); counts["b"]++; mu.Unlock() })
	defer stopB()

	stopA()
	time.Sleep(5 * time.Millisecond)
	mu.Lock()
	a := counts["a"]
	mu.Unlock()

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if counts["a"] != a {
		t.Fatalf("cancelled stream kept producing: %d -> %d", a, counts["a"])
	}
	if counts["b"] == 0 {
		t.Fatal("second stream should keep producing")
	}
}
