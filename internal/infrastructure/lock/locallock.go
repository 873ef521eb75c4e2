package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is an in-process lock for single-instance deployments.
type LocalLocker struct {
	mu      sync.Mutex
	holders map[string]localHold
	now     func() time.Time
}

type localHold struct {
	token   uint64
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		holders: make(map[string]localHold),
		now:     time.Now,
	}
}

func (l *LocalLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	current, held := l.holders[key]
	if held && now.Before(current.expires) {
		return nil, false, nil
	}

	hold := localHold{token: current.token + 1, expires: now.Add(ttl)}
	l.holders[key] = hold

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.holders[key].token == hold.token {
			delete(l.holders, key)
		}
		return nil
	}
	return release, true, nil
}
