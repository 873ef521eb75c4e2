// Package biztime provides the clock used by the complaint lifecycle.
// All storage and transport use UTC with millisecond precision.
package biztime

import (
	"sync"
	"time"
)

// Clock is the time source handed to use cases and workers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return NowUTC()
}

// NowUTC returns the current time in UTC truncated to milliseconds, the
// precision timestamps are stored with.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FixedClock is a manually advanced clock for tests and replays.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ToMillis converts t to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromMillisPtr converts a nullable epoch-millisecond column.
func FromMillisPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromMillis(*ms)
	return &t
}

// ToMillisPtr converts a nullable time to epoch milliseconds.
func ToMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
