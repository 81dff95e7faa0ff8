package app

import (
	"context"
	"time"

	"github.com/bft-labs/enginewatch/internal/domain"
)

// retryPolicy computes the delay before the next connection attempt.
//
// Delays grow as base * 2^min(failures, capExponent) until failures reaches
// maxRetries. From then on the fixed fast delay is used: after that many
// misses the engine is most likely restarting, and polling quickly notices it
// coming back sooner than a long backoff would.
type retryPolicy struct {
	base        time.Duration
	capExponent uint32
	maxRetries  uint32
	fast        time.Duration
}

func newRetryPolicy(cfg domain.MonitoringConfig) retryPolicy {
	return retryPolicy{
		base:        cfg.BackoffBase,
		capExponent: cfg.BackoffCapExponent,
		maxRetries:  cfg.MaxRetries,
		fast:        cfg.FastRetryDelay,
	}
}

// Delay returns the wait after the given number of consecutive failures.
func (p retryPolicy) Delay(failures uint32) time.Duration {
	if failures >= p.maxRetries {
		return p.fast
	}
	exp := failures
	if exp > p.capExponent {
		exp = p.capExponent
	}
	return p.base * time.Duration(uint64(1)<<exp)
}

// sleepContext waits for d or until ctx is done. Returns false if ctx ended first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
