package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const DefaultPerfStatsInterval = 30 * time.Second

type perfGauges struct {
	cpu        metric.Float64Gauge
	rss        metric.Int64Gauge
	heap       metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func newPerfGauges() perfGauges {
	meter := otel.Meter("icassist.perf_stats")
	var gauges perfGauges
	gauges.cpu, _ = meter.Float64Gauge("process.cpu_percent")
	gauges.rss, _ = meter.Int64Gauge("process.rss_mb")
	gauges.heap, _ = meter.Int64Gauge("go.heap_alloc_mb")
	gauges.goroutines, _ = meter.Int64Gauge("go.goroutines")
	return gauges
}

// perfSample is one reading of the process stats, fields that could not be read are
// left zero.
type perfSample struct {
	CPUPercent float64
	RSSMB      int64
	HeapMB     int64
	Goroutines int64
}

func readPerfSample(ctx context.Context, proc *process.Process) perfSample {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	sample := perfSample{
		HeapMB:     int64(memStats.HeapAlloc / 1_000_000),
		Goroutines: int64(runtime.NumGoroutine()),
	}
	if proc == nil {
		return sample
	}

	cpuPercent, err := proc.PercentWithContext(ctx, 0)
	if err != nil {
		slog.Debug("failed to read process cpu usage", "err", err)
	} else {
		sample.CPUPercent = cpuPercent
	}
	memory, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		slog.Debug("failed to read process memory", "err", err)
	} else {
		sample.RSSMB = int64(memory.RSS / 1_000_000)
	}
	return sample
}

// InstrumentPerfStats records gauges of this process every interval until ctx is
// done, DefaultPerfStatsInterval if interval is zero.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPerfStatsInterval
	}
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		slog.Warn("process stats unavailable, recording runtime stats only", "err", err)
		proc = nil
	}
	gauges := newPerfGauges()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sample := readPerfSample(ctx, proc)
				gauges.cpu.Record(ctx, sample.CPUPercent)
				gauges.rss.Record(ctx, sample.RSSMB)
				gauges.heap.Record(ctx, sample.HeapMB)
				gauges.goroutines.Record(ctx, sample.Goroutines)
			case <-ctx.Done():
				return
			}
		}
	}()
}
