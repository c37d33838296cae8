package feed

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"botpanel/internal/model"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// HostSource reads snapshots from the machine running the panel.
type HostSource struct {
	// DiskPath is the mount point measured for storage. Defaults to the root volume.
	DiskPath string
	// NetworkMaxMbps caps the reported throughput. Defaults to NetworkMaxMbps.
	NetworkMaxMbps int
	// SampleInterval separates the two network samples taken by the first
	// Snapshot, which has no earlier counter to compare with. Defaults to 250ms.
	SampleInterval time.Duration

	// netBytes reads the total bytes sent and received. Defaults to gopsutil.
	netBytes func(ctx context.Context) (uint64, error)

	mu        sync.Mutex
	lastBytes uint64
	lastAt    time.Time
}

// Snapshot gathers CPU, memory, disk and network counters.
func (h *HostSource) Snapshot(ctx context.Context) (model.StatusSnapshot, error) {
	snap := model.StatusSnapshot{
		Status: model.StatusOnline,
		PID:    os.Getpid(),
	}

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("read cpu: %w", err)
	}
	if len(percents) > 0 {
		snap.CPUPercent = clamp(int(math.Round(percents[0])), 0, 100)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("read memory: %w", err)
	}
	snap.RAMTotalMB = int(vm.Total / (1 << 20))
	snap.RAMUsedMB = clamp(int(vm.Used/(1<<20)), 0, snap.RAMTotalMB)

	usage, err := disk.UsageWithContext(ctx, h.diskPath())
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("read disk: %w", err)
	}
	snap.StorageTotalGB = int(usage.Total / (1 << 30))
	snap.StorageUsedGB = clamp(int(usage.Used/(1<<30)), 0, snap.StorageTotalGB)

	snap.NetworkMaxMbps = h.NetworkMaxMbps
	if snap.NetworkMaxMbps <= 0 {
		snap.NetworkMaxMbps = NetworkMaxMbps
	}
	mbps, err := h.networkMbps(ctx)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("read network: %w", err)
	}
	snap.NetworkSpeedMbps = clamp(mbps, 0, snap.NetworkMaxMbps)

	// Connection tables may need elevated privileges; report zero rather than fail.
	if conns, err := net.ConnectionsWithContext(ctx, "inet"); err == nil {
		snap.Connections = len(conns)
	}

	return snap, nil
}

// networkMbps returns the throughput since the previous reading. Without one,
// it samples twice SampleInterval apart.
func (h *HostSource) networkMbps(ctx context.Context) (int, error) {
	read := h.netBytes
	if read == nil {
		read = totalNetBytes
	}

	total, err := read(ctx)
	if err != nil {
		return 0, err
	}
	if h.primed() {
		return h.throughput(total, time.Now()), nil
	}
	h.throughput(total, time.Now())

	interval := h.SampleInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	total, err = read(ctx)
	if err != nil {
		return 0, err
	}
	return h.throughput(total, time.Now()), nil
}

func totalNetBytes(ctx context.Context) (uint64, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(counters) == 0 {
		return 0, nil
	}
	return counters[0].BytesSent + counters[0].BytesRecv, nil
}

func (h *HostSource) primed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.lastAt.IsZero()
}

func (h *HostSource) diskPath() string {
	if h.DiskPath != "" {
		return h.DiskPath
	}
	if runtime.GOOS == "windows" {
		return "C:\\"
	}
	return "/"
}

// throughput converts the byte delta since the previous call into Mbps.
func (h *HostSource) throughput(total uint64, now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	prevBytes, prevAt := h.lastBytes, h.lastAt
	h.lastBytes, h.lastAt = total, now
	if prevAt.IsZero() || total < prevBytes {
		return 0
	}
	elapsed := now.Sub(prevAt).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return int(float64(total-prevBytes) * 8 / elapsed / 1e6)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
