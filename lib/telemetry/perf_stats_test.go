package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/require"
)

func TestReadPerfSample(t *testing.T) {
	ctx := context.Background()

	runtimeOnly := readPerfSample(ctx, nil)
	require.GreaterOrEqual(t, runtimeOnly.Goroutines, int64(1))
	require.Zero(t, runtimeOnly.CPUPercent)
	require.Zero(t, runtimeOnly.RSSMB)

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		t.Skip("process stats unavailable:", err)
	}
	sample := readPerfSample(ctx, proc)
	require.GreaterOrEqual(t, sample.Goroutines, int64(1))
	require.GreaterOrEqual(t, sample.RSSMB, int64(0))
}

func TestInstrumentPerfStatsStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	InstrumentPerfStats(ctx, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	cancel()
}
