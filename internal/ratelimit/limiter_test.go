package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_WindowReset(t *testing.T) {
	l := New(5, time.Minute)
	current := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	l.SetNow(func() time.Time { return current })

	for i := 0; i < 5; i++ {
		assert.True(t, l.Check("1.2.3.4").Allowed)
	}
	assert.False(t, l.Check("1.2.3.4").Allowed)

	// After the window elapses the next check opens a fresh window.
	current = current.Add(time.Minute)
	res := l.Check("1.2.3.4")
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
}

func TestLimiter_Saturation(t *testing.T) {
	l := New(15, time.Minute)

	for i := 0; i < 15; i++ {
		res := l.Check("client")
		assert.True(t, res.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 15-(i+1), res.Remaining)
	}

	res := l.Check("client")
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.False(t, res.ResetAt.IsZero())
}

func TestLimiter_IdentifiersIndependent(t *testing.T) {
	l := New(1, time.Minute)

	assert.True(t, l.Check("a").Allowed)
	assert.False(t, l.Check("a").Allowed)
	assert.True(t, l.Check("b").Allowed)
}

func TestLimiter_RetryAfter(t *testing.T) {
	l := New(1, time.Minute)
	current := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	l.SetNow(func() time.Time { return current })

	l.Check("x")
	res := l.Check("x")
	assert.False(t, res.Allowed)
	assert.Equal(t, 60, res.RetryAfter(current))

	current = current.Add(59 * time.Second)
	assert.Equal(t, 1, res.RetryAfter(current))
}

func TestLimiter_ConcurrentSameIdentifier(t *testing.T) {
	l := New(100, time.Minute)

	var wg sync.WaitGroup
	admitted := make([]bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			admitted[i] = l.Check("shared").Allowed
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range admitted {
		if ok {
			count++
		}
	}
	// No lost updates: exactly the window quota is admitted.
	assert.Equal(t, 100, count)
}
