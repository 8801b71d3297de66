package credpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestAcquireStableOrder(t *testing.T) {
	clock := newFakeClock()
	pool := NewWithClock([]string{"key-a", "key-b"}, clock.Now)

	assert.Equal(t, "key-a", pool.Acquire())
	assert.Equal(t, "key-a", pool.Acquire(), "healthy first credential keeps being offered")
}

func TestCooldownAfterThresholdFailures(t *testing.T) {
	clock := newFakeClock()
	pool := NewWithClock([]string{"key-a", "key-b"}, clock.Now)

	for i := 0; i < 5; i++ {
		pool.ReportFailure("key-a")
	}

	// key-a is in cooldown; acquire must skip it until 60s elapse.
	for i := 0; i < 10; i++ {
		require.Equal(t, "key-b", pool.Acquire())
		clock.Advance(5 * time.Second)
	}

	clock.Advance(10 * time.Second) // past the 60s mark
	assert.Equal(t, "key-a", pool.Acquire(), "cooldown served, credential restored")
	assert.False(t, pool.Degraded())
}

func TestBelowThresholdStaysUsable(t *testing.T) {
	clock := newFakeClock()
	pool := NewWithClock([]string{"key-a", "key-b"}, clock.Now)

	for i := 0; i < 4; i++ {
		pool.ReportFailure("key-a")
	}
	assert.Equal(t, "key-a", pool.Acquire())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	clock := newFakeClock()
	pool := NewWithClock([]string{"key-a"}, clock.Now)

	for i := 0; i < 4; i++ {
		pool.ReportFailure("key-a")
	}
	pool.ReportSuccess("key-a")
	pool.ReportFailure("key-a")

	// One failure after a success is far from the threshold.
	assert.Equal(t, "key-a", pool.Acquire())
	assert.False(t, pool.Degraded())
}

func TestIdleWindowResetsFailures(t *testing.T) {
	clock := newFakeClock()
	pool := NewWithClock([]string{"key-a", "key-b"}, clock.Now)

	for i := 0; i < 4; i++ {
		pool.ReportFailure("key-a")
	}
	clock.Advance(6 * time.Minute)

	// The idle window clears the stale count before inspection.
	require.Equal(t, "key-a", pool.Acquire())

	pool.ReportFailure("key-a")
	// Without the idle reset this failure would have been the fifth.
	assert.Equal(t, "key-a", pool.Acquire())
}

func TestHardResetWhenExhausted(t *testing.T) {
	clock := newFakeClock()
	pool := NewWithClock([]string{"key-a", "key-b"}, clock.Now)

	for i := 0; i < 5; i++ {
		pool.ReportFailure("key-a")
		pool.ReportFailure("key-b")
	}

	got := pool.Acquire()
	assert.Equal(t, "key-a", got, "hard reset returns the first credential")
	assert.True(t, pool.Degraded())

	// After the reset the pool is fully usable again.
	assert.Equal(t, "key-a", pool.Acquire())
}

func TestEmptyPool(t *testing.T) {
	pool := New(nil)
	assert.Equal(t, "", pool.Acquire())
}
