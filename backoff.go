package httpcore

import (
	"math/rand"
	"time"
)

// Backoff returns the delay to wait before the next attempt. attempt is the
// 1-based number of the attempt that just failed.
type Backoff func(attempt int) time.Duration

// ConstantBackoff waits a fixed delay between attempts. This is the default
// policy: with the default single-retry cap it bounds worst-case latency to
// roughly two timeouts plus one delay.
func ConstantBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles base on each attempt, caps the result at max,
// and adds ±25% jitter.
func ExponentialBackoff(base, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base << (attempt - 1)
		if d > max || d <= 0 {
			d = max
		}
		jitter := float64(d) * 0.25 * (rand.Float64()*2 - 1) //nolint:gosec
		d = time.Duration(float64(d) + jitter)
		if d < 0 {
			d = base
		}
		return d
	}
}
