package retry

import (
	"math/rand/v2"
	"time"
)

// backoff computes the wait before the given attempt (1-based) using
// exponential growth capped at maxInterval, with optional full jitter.
// Full jitter draws uniformly from (0, interval] which spreads retries
// from many concurrent agents instead of synchronizing them.
func backoff(attempt int, initial, maxInterval time.Duration, multiplier float64, jitter bool) time.Duration {
	interval := float64(initial)
	for i := 1; i < attempt; i++ {
		interval *= multiplier
		if interval >= float64(maxInterval) {
			interval = float64(maxInterval)
			break
		}
	}
	if jitter {
		interval = rand.Float64() * interval
	}
	if interval < 1 {
		interval = 1
	}
	return time.Duration(interval)
}
