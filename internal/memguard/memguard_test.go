package memguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasdiez/llm-mafia/internal/logger"
)

func scripted(values ...uint64) func(context.Context) (uint64, error) {
	i := 0
	return func(context.Context) (uint64, error) {
		v := values[min(i, len(values)-1)]
		i++
		return v, nil
	}
}

func TestDisabledGuardNeverBlocks(t *testing.T) {
	g := New(0, logger.Discard())
	g.available = func(context.Context) (uint64, error) {
		t.Fatal("probe should not run when disabled")
		return 0, nil
	}
	assert.NoError(t, g.Wait(context.Background()))

	var nilGuard *Guard
	assert.NoError(t, nilGuard.Wait(context.Background()))
}

func TestWaitPollsUntilEnoughMemory(t *testing.T) {
	g := New(4, logger.Discard())
	g.interval = time.Millisecond
	calls := 0
	probe := scripted(1*gib, 2*gib, 5*gib)
	g.available = func(ctx context.Context) (uint64, error) {
		calls++
		return probe(ctx)
	}

	require.NoError(t, g.Wait(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestWaitHonoursCancellation(t *testing.T) {
	g := New(4, logger.Discard())
	g.interval = time.Hour
	g.available = scripted(1 * gib)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.Canceled)
}

func TestWaitLetsThroughOnProbeError(t *testing.T) {
	g := New(4, logger.Discard())
	g.available = func(context.Context) (uint64, error) { return 0, errors.New("no /proc") }
	assert.NoError(t, g.Wait(context.Background()))
}
