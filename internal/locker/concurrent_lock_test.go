package locker

import (
	"sync"
	"testing"
	"time"

	"warbots/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireReturnsTheSameLockForTheSameResource(t *testing.T) {
	cl := NewConcurrentLocker(testsupport.NopLogger{})

	l1 := cl.Acquire("game-1")
	l2 := cl.Acquire("game-1")

	assert.Same(t, l1, l2)

	cl.Release(l1)
	cl.Release(l2)
}

func TestAcquireReturnsDistinctLocksForDistinctResources(t *testing.T) {
	cl := NewConcurrentLocker(testsupport.NopLogger{})

	l1 := cl.Acquire("game-1")
	l2 := cl.Acquire("game-2")

	assert.NotSame(t, l1, l2)

	cl.Release(l1)
	cl.Release(l2)
}

func TestLockSerializesAccessToTheSameResource(t *testing.T) {
	cl := NewConcurrentLocker(testsupport.NopLogger{})

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			l := cl.Acquire("game-1")
			defer cl.Release(l)

			l.Lock()
			defer l.Release()

			mu.Lock()
			order = append(order, i)
			mu.Unlock()

			time.Sleep(time.Millisecond)
		}()
	}

	wg.Wait()
	assert.Len(t, order, 5)
}

func TestReleaseRecyclesALockOnceItsLastUserIsDone(t *testing.T) {
	cl := NewConcurrentLocker(testsupport.NopLogger{})

	l1 := cl.Acquire("game-1")
	cl.Release(l1)

	l2 := cl.Acquire("game-2")
	require.NotNil(t, l2)

	cl.Release(l2)
}

func TestLockAndReleaseRoundTrip(t *testing.T) {
	cl := NewConcurrentLocker(testsupport.NopLogger{})

	l := cl.Acquire("game-1")
	l.Lock()

	err := l.Release()
	require.NoError(t, err)

	cl.Release(l)
}
