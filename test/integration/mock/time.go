package mock

import (
	"sync"
	"time"
)

// Time is a clock that runs at wall-clock speed from a settable origin.
type Time struct {
	mu     sync.Mutex
	offset time.Duration
}

func NewTime() *Time {
	return &Time{}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = currentTime.Sub(time.Now())
}

func (t *Time) Advance(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset += d
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Now().Add(t.offset).UTC()
}

// Today returns the current date at midnight UTC.
func (t *Time) Today() time.Time {
	y, m, d := t.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
