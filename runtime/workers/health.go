package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"live-hub/runtime"

	"github.com/shirou/gopsutil/process"
)

// HealthWorker periodically logs process-level metrics (CPU, RSS)
// together with registry gauges (rooms, connections). It is pure
// observability: nothing downstream depends on its output.
type HealthWorker struct {
	log      *slog.Logger
	registry *runtime.Registry
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, registry *runtime.Registry, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, registry: registry, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health worker")
			return nil
		case <-ticker.C:
			cpu, err := p.CPUPercent()
			if err != nil {
				w.log.Error("Failed to read process cpu usage", "error", err)
				continue
			}
			mem, err := p.MemoryInfo()
			if err != nil {
				w.log.Error("Failed to read process memory usage", "error", err)
				continue
			}

			rooms, connections := w.registry.Snapshot()
			w.log.Info("Health report",
				"cpu_percent", cpu,
				"rss_bytes", mem.RSS,
				"rooms", len(rooms),
				"connections", connections)
		}
	}
}
