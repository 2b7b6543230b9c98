package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/process"
)

type ProcessStats struct {
	RSS        uint64
	CPUPercent float64
	Status     string
}

// ProcessStatsWorker logs the memory and CPU usage of the running process.
type ProcessStatsWorker struct {
	log      *slog.Logger
	interval time.Duration
}

func NewProcessStatsWorker(log *slog.Logger, interval time.Duration) *ProcessStatsWorker {
	return &ProcessStatsWorker{log: log, interval: interval}
}

func (w *ProcessStatsWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Warn("Process stats unavailable", "error", err)
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats, err := SelfStats(p)
			if err != nil {
				w.log.Warn("Failed to collect self stats", "error", err)
				continue
			}
			w.log.Debug("Process stats",
				"rss", humanize.Bytes(stats.RSS),
				"cpu_percent", stats.CPUPercent,
				"status", stats.Status)
		}
	}
}

// SelfStats retrieves memory, CPU and OS status for the given process.
func SelfStats(p *process.Process) (ProcessStats, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}
	status, err := p.Status()
	if err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{RSS: memInfo.RSS, CPUPercent: cpuPercent, Status: status}, nil
}
