// Package feed synthesizes bot status snapshots and a live log stream.
package feed

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"botpanel/internal/model"
	"botpanel/internal/schedule"
)

// Fixed capacities reported by the mock source.
const (
	RAMTotalMB     = 8192
	StorageTotalGB = 512
	NetworkMaxMbps = 1000
)

// DefaultDelay is the wait between two streamed records.
var DefaultDelay = schedule.Range{Min: 500 * time.Millisecond, Max: 3000 * time.Millisecond}

// TimestampLayout formats streamed record timestamps.
const TimestampLayout = "15:04:05"

var templates = []string{
	"User {user} authenticated successfully",
	"Received command: /start from user {user}",
	"API call to {api} took {ms}ms",
	"Database query executed.",
	"Warning: High memory usage detected.",
	"Error: Could not connect to external service.",
	`User {user} sent a message: "{message}"`,
	"Broadcasting message to {count} users.",
}

// Options configures a Generator. Zero fields fall back to defaults.
type Options struct {
	Rand      *rand.Rand
	Now       func() time.Time
	Delay     schedule.Range
	Scheduler *schedule.Scheduler
}

// Generator produces randomized snapshots and log streams.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	delay schedule.Range
	sched *schedule.Scheduler
}

// NewGenerator builds a generator from opts.
func NewGenerator(opts Options) *Generator {
	g := &Generator{
		rng:   opts.Rand,
		now:   opts.Now,
		delay: opts.Delay,
		sched: opts.Scheduler,
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.delay == (schedule.Range{}) {
		g.delay = DefaultDelay
	}
	if g.sched == nil {
		g.sched = &schedule.Scheduler{Int64N: g.int64n}
	}
	return g
}

// Snapshot returns a fresh reading. Used values never exceed their totals.
func (g *Generator) Snapshot(ctx context.Context) (model.StatusSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.StatusSnapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	status := model.StatusOffline
	if g.rng.Float64() < 0.9 {
		status = model.StatusOnline
	}
	return model.StatusSnapshot{
		CPUPercent:       g.between(5, 95),
		RAMUsedMB:        g.between(2048, 7372),
		RAMTotalMB:       RAMTotalMB,
		StorageUsedGB:    g.between(100, 450),
		StorageTotalGB:   StorageTotalGB,
		NetworkSpeedMbps: g.between(50, 950),
		NetworkMaxMbps:   NetworkMaxMbps,
		Connections:      g.between(100, 2500),
		Status:           status,
		PID:              g.between(1000, 99999),
	}, nil
}

// Stream emits one record after every randomized delay until the returned
// cancel function is called. Each call starts an independent feed.
func (g *Generator) Stream(onRecord func(model.LogRecord)) (cancel func()) {
	h := g.sched.Start(g.delay, func() {
		onRecord(g.Record())
	})
	return h.Stop
}

// Record synthesizes a single log record.
func (g *Generator) Record() model.LogRecord {
	ts := g.now().Format(TimestampLayout)

	g.mu.Lock()
	defer g.mu.Unlock()

	level := model.Levels[g.rng.IntN(len(model.Levels))]
	tmpl := templates[g.rng.IntN(len(templates))]

	replacer := strings.NewReplacer(
		"{user}", g.username(),
		"{api}", g.domain(),
		"{ms}", strconv.Itoa(g.between(50, 500)),
		"{message}", g.sentence(),
		"{count}", strconv.Itoa(g.between(100, 1000)),
	)
	return model.LogRecord{
		Timestamp: ts,
		Level:     level,
		Message:   replacer.Replace(tmpl),
	}
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) int64n(n int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Int64N(n)
}
