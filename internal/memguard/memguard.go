// Package memguard holds back model queries while the machine is short on
// memory, which matters when every player runs on a local model.
package memguard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

const (
	gib             = 1 << 30
	defaultInterval = 10 * time.Second
)

// Guard blocks callers until available memory reaches a threshold.
type Guard struct {
	thresholdBytes uint64
	interval       time.Duration
	available      func(context.Context) (uint64, error)
	logger         *slog.Logger
}

// New returns a Guard for thresholdGB gibibytes of available memory. A
// threshold of zero disables the guard.
func New(thresholdGB float64, logger *slog.Logger) *Guard {
	return &Guard{
		thresholdBytes: uint64(thresholdGB * gib),
		interval:       defaultInterval,
		available:      systemAvailable,
		logger:         logger,
	}
}

func systemAvailable(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// Wait returns once available memory is at or above the threshold, polling
// at a fixed interval. A failing probe lets the caller through.
func (g *Guard) Wait(ctx context.Context) error {
	if g == nil || g.thresholdBytes == 0 {
		return nil
	}
	logged := false
	for {
		avail, err := g.available(ctx)
		if err != nil {
			g.logger.Warn("memory probe failed, not throttling", "error", err)
			return nil
		}
		if avail >= g.thresholdBytes {
			return nil
		}
		if !logged {
			g.logger.Info("waiting for memory",
				"available_gb", fmt.Sprintf("%.1f", float64(avail)/gib),
				"threshold_gb", fmt.Sprintf("%.1f", float64(g.thresholdBytes)/gib),
			)
			logged = true
		}

		t := time.NewTimer(g.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("memguard: %w", ctx.Err())
		case <-t.C:
		}
	}
}
