package model

// BotStatus is the reported bot state.
type BotStatus string

const (
	StatusOnline  BotStatus = "Online"
	StatusOffline BotStatus = "Offline"
)

// StatusSnapshot is a single reading of system metrics.
type StatusSnapshot struct {
	CPUPercent       int       `json:"cpu_percent"`
	RAMUsedMB        int       `json:"ram_used_mb"`
	RAMTotalMB       int       `json:"ram_total_mb"`
	StorageUsedGB    int       `json:"storage_used_gb"`
	StorageTotalGB   int       `json:"storage_total_gb"`
	NetworkSpeedMbps int       `json:"network_speed_mbps"`
	NetworkMaxMbps   int       `json:"network_max_mbps"`
	Connections      int       `json:"connections"`
	Status           BotStatus `json:"status"`
	PID              int       `json:"pid"`
}

// RAMPercent returns used RAM as a rounded percentage of the total.
func (s StatusSnapshot) RAMPercent() int { return percent(s.RAMUsedMB, s.RAMTotalMB) }

// StoragePercent returns used storage as a rounded percentage of the total.
func (s StatusSnapshot) StoragePercent() int { return percent(s.StorageUsedGB, s.StorageTotalGB) }

// NetworkPercent returns current throughput as a rounded percentage of the maximum.
func (s StatusSnapshot) NetworkPercent() int { return percent(s.NetworkSpeedMbps, s.NetworkMaxMbps) }

func percent(used, total int) int {
	if total <= 0 || used <= 0 {
		return 0
	}
	if used >= total {
		return 100
	}
	return (used*100 + total/2) / total
}
