package httpcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstantBackoff(t *testing.T) {
	b := ConstantBackoff(300 * time.Millisecond)
	for attempt := 1; attempt <= 3; attempt++ {
		assert.Equal(t, 300*time.Millisecond, b(attempt))
	}
}

func TestExponentialBackoffGrowth(t *testing.T) {
	base := 100 * time.Millisecond
	max := 2 * time.Second
	b := ExponentialBackoff(base, max)

	for attempt := 1; attempt <= 10; attempt++ {
		want := base << (attempt - 1)
		if want > max || want <= 0 {
			want = max
		}
		d := b(attempt)
		// ±25% jitter around the capped value.
		assert.GreaterOrEqual(t, d, time.Duration(float64(want)*0.75), "attempt %d", attempt)
		assert.LessOrEqual(t, d, time.Duration(float64(want)*1.25), "attempt %d", attempt)
	}
}

func TestExponentialBackoffClampsAttempt(t *testing.T) {
	b := ExponentialBackoff(100*time.Millisecond, time.Second)
	assert.Greater(t, b(0), time.Duration(0))
}
