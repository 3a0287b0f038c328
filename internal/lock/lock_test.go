package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLocker_SerializesSameAccount(t *testing.T) {
	var l AccountLocker
	var active, maxActive atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), 7)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := active.Add(1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
	assert.Empty(t, l.locks, "entries should be released")
}

func TestAccountLocker_IndependentAccounts(t *testing.T) {
	var l AccountLocker
	unlockA, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	unlockB()
}

func TestAccountLocker_ContextCancelled(t *testing.T) {
	var l AccountLocker
	unlock, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op

	unlock2, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	unlock2()
}
