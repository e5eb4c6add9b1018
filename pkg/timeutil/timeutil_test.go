package timeutil_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rohmanhakim/top-movies/pkg/timeutil"
	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoffDelay(t *testing.T) {
	tests := []struct {
		name         string
		backoffCount int
		backoffParam timeutil.BackoffParam
		want         time.Duration
	}{
		{
			name:         "first backoff uses initial duration",
			backoffCount: 1,
			backoffParam: timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
			want:         time.Second,
		},
		{
			name:         "second backoff doubles",
			backoffCount: 2,
			backoffParam: timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
			want:         2 * time.Second,
		},
		{
			name:         "third backoff quadruples",
			backoffCount: 3,
			backoffParam: timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
			want:         4 * time.Second,
		},
		{
			name:         "capped at max duration",
			backoffCount: 10,
			backoffParam: timeutil.NewBackoffParam(time.Second, 2.0, 10*time.Second),
			want:         10 * time.Second,
		},
		{
			name:         "zero initial duration",
			backoffCount: 5,
			backoffParam: timeutil.NewBackoffParam(0, 2.0, 30*time.Second),
			want:         0,
		},
		{
			name:         "fractional multiplier",
			backoffCount: 2,
			backoffParam: timeutil.NewBackoffParam(time.Second, 1.5, 30*time.Second),
			want:         1500 * time.Millisecond,
		},
		{
			name:         "zero count treated as first backoff",
			backoffCount: 0,
			backoffParam: timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
			want:         time.Second,
		},
		{
			name:         "negative count treated as first backoff",
			backoffCount: -3,
			backoffParam: timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second),
			want:         time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			got := timeutil.ExponentialBackoffDelay(tt.backoffCount, 0, rng, tt.backoffParam)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExponentialBackoffDelay_JitterStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	param := timeutil.NewBackoffParam(time.Second, 2.0, 30*time.Second)
	jitter := 100 * time.Millisecond

	for i := 0; i < 500; i++ {
		got := timeutil.ExponentialBackoffDelay(2, jitter, rng, param)
		assert.GreaterOrEqual(t, got, 2*time.Second)
		assert.Less(t, got, 2*time.Second+jitter)
	}
}

func TestComputeJitter(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	assert.Equal(t, time.Duration(0), timeutil.ComputeJitter(0, rng))
	assert.Equal(t, time.Duration(0), timeutil.ComputeJitter(-time.Second, rng))
	assert.Equal(t, time.Duration(0), timeutil.ComputeJitter(time.Second, nil))

	for i := 0; i < 100; i++ {
		got := timeutil.ComputeJitter(50*time.Millisecond, rng)
		assert.GreaterOrEqual(t, got, time.Duration(0))
		assert.Less(t, got, 50*time.Millisecond)
	}
}
