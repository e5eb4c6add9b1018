package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoffDelay computes the wait before retry number backoffCount.
// The first backoff (count=1) waits the initial duration, every following one
// multiplies it, capped at the max duration. A positive jitter adds a uniform
// random amount in [0, jitter).
func ExponentialBackoffDelay(
	backoffCount int,
	jitter time.Duration,
	rng *rand.Rand,
	backoffParam BackoffParam,
) time.Duration {
	if backoffCount < 1 {
		backoffCount = 1
	}

	exponent := float64(backoffCount - 1)
	delay := float64(backoffParam.InitialDuration()) * math.Pow(backoffParam.Multiplier(), exponent)
	if maxDelay := float64(backoffParam.MaxDuration()); maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}

	return time.Duration(delay) + ComputeJitter(jitter, rng)
}

// ComputeJitter returns a uniform random duration in [0, max).
// Non-positive max or a nil rng yields zero.
func ComputeJitter(max time.Duration, rng *rand.Rand) time.Duration {
	if max <= 0 || rng == nil {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}
