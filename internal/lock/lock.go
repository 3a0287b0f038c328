// Package lock serializes reconciliation runs per account.
package lock

import (
	"context"
	"sync"
)

// AccountLocker hands out one mutex per account id. The zero value is ready
// to use.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[uint]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// Lock blocks until the account is free or ctx is done. The returned func
// releases the lock and must be called exactly once.
func (l *AccountLocker) Lock(ctx context.Context, accountID uint) (func(), error) {
	e := l.acquire(accountID)

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(accountID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(accountID, e)
		})
	}, nil
}

func (l *AccountLocker) acquire(accountID uint) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[uint]*entry)
	}
	e, ok := l.locks[accountID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[accountID] = e
	}
	e.refs++
	return e
}

func (l *AccountLocker) release(accountID uint, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, accountID)
	}
}
