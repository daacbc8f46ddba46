package service

import (
	"sync/atomic"
	"time"

	"github.com/raulk/clock"
)

// ActivitySource reports the last user activity. Reconciling is postponed
// while activity is recent.
type ActivitySource interface {
	LastActivity() time.Time
}

// ActivityTracker is an ActivitySource fed by explicit touches.
type ActivityTracker struct {
	clock clock.Clock
	last  atomic.Pointer[time.Time]
}

// NewActivityTracker creates a tracker with no recorded activity.
func NewActivityTracker(clk clock.Clock) *ActivityTracker {
	if clk == nil {
		clk = clock.New()
	}
	return &ActivityTracker{clock: clk}
}

// Touch records activity now.
func (t *ActivityTracker) Touch() {
	t.TouchAt(t.clock.Now())
}

// TouchAt records activity at ts. Older timestamps are ignored.
func (t *ActivityTracker) TouchAt(ts time.Time) {
	for {
		cur := t.last.Load()
		if cur != nil && !ts.After(*cur) {
			return
		}
		if t.last.CompareAndSwap(cur, &ts) {
			return
		}
	}
}

// LastActivity implements ActivitySource. It is the zero time until the
// first touch.
func (t *ActivityTracker) LastActivity() time.Time {
	if p := t.last.Load(); p != nil {
		return *p
	}
	return time.Time{}
}
