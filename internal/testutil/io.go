package testutil

import (
	"errors"
	"sync"
	"time"
)

// ErrInjected is returned by the failing helpers below.
var ErrInjected = errors.New("injected failure")

// FailingReader fails every Read.
type FailingReader struct{}

func (FailingReader) Read([]byte) (int, error) { return 0, ErrInjected }

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
