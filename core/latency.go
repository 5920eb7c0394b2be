package core

import (
	"context"
	"math/rand"
	"time"
)

// Latency simulates the round trip of a remote call, waiting a random duration in [Min, Max].
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// Wait blocks for the simulated duration. It returns ctx.Err() if ctx is done first.
func (l Latency) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := l.Min
	if l.Max > l.Min {
		d += time.Duration(rand.Int63n(int64(l.Max - l.Min)))
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
