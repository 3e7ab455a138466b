package crawler

import (
	"context"
	"testing"
	"time"
)

func TestTimerPauserWaits(t *testing.T) {
	t.Parallel()

	start := time.Now()
	TimerPauser{}.Pause(context.Background(), 20*time.Millisecond)
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected pause of at least 20ms, got %v", elapsed)
	}
}

func TestTimerPauserReturnsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	TimerPauser{}.Pause(ctx, time.Minute)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected canceled pause to return immediately, took %v", elapsed)
	}
}

func TestTimerPauserIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	TimerPauser{}.Pause(context.Background(), 0)
	TimerPauser{}.Pause(context.Background(), -time.Second)
}
