// Package scheduler provides the single logical event loop that every timer in
// the desktop runs on.
//
// Timers are keyed: scheduling a key that is already pending replaces the
// earlier timer, so each owner only ever has one live handle per purpose.
// Time is virtual and only moves when Advance is called, which lets the TUI
// drive it from a frame tick and lets tests step it deterministically.
package scheduler

import (
	"sort"
	"strings"
	"time"
)

type timer struct {
	key string
	due time.Duration
	seq uint64
	fn  func()
}

// Timeline is a keyed, cancellable timer queue on a virtual clock.
// It is not safe for concurrent use; all calls happen on one event loop.
type Timeline struct {
	now    time.Duration
	seq    uint64
	timers map[string]*timer
	fired  uint64
}

// NewTimeline creates an empty timeline at time zero
func NewTimeline() *Timeline {
	return &Timeline{
		timers: make(map[string]*timer),
	}
}

// Now returns the virtual time elapsed since the timeline was created
func (t *Timeline) Now() time.Duration {
	return t.now
}

// Schedule runs fn once d has elapsed. Any pending timer with the same key
// is cancelled first.
func (t *Timeline) Schedule(key string, d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	t.seq++
	t.timers[key] = &timer{
		key: key,
		due: t.now + d,
		seq: t.seq,
		fn:  fn,
	}
}

// Cancel removes the pending timer for key. Returns false if none was pending.
func (t *Timeline) Cancel(key string) bool {
	if _, ok := t.timers[key]; !ok {
		return false
	}
	delete(t.timers, key)
	return true
}

// CancelPrefix removes every pending timer whose key starts with prefix and
// returns how many were removed
func (t *Timeline) CancelPrefix(prefix string) int {
	n := 0
	for key := range t.timers {
		if strings.HasPrefix(key, prefix) {
			delete(t.timers, key)
			n++
		}
	}
	return n
}

// Pending reports whether a timer is scheduled under key
func (t *Timeline) Pending(key string) bool {
	_, ok := t.timers[key]
	return ok
}

// Len returns the number of pending timers
func (t *Timeline) Len() int {
	return len(t.timers)
}

// Keys returns the pending timer keys in firing order
func (t *Timeline) Keys() []string {
	ordered := t.ordered()
	keys := make([]string, len(ordered))
	for i, tm := range ordered {
		keys[i] = tm.key
	}
	return keys
}

// Fired returns how many callbacks have run since creation
func (t *Timeline) Fired() uint64 {
	return t.fired
}

// NextDue returns the due time of the earliest pending timer
func (t *Timeline) NextDue() (time.Duration, bool) {
	next := t.next()
	if next == nil {
		return 0, false
	}
	return next.due, true
}

// Advance moves the clock forward by d, running every timer that falls due
// in order. Timers scheduled by callbacks run too if they fall inside the
// window. Returns the number of callbacks run.
func (t *Timeline) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := t.now + d
	n := 0
	for {
		next := t.next()
		if next == nil || next.due > target {
			break
		}
		t.fire(next)
		n++
	}
	t.now = target
	return n
}

// RunUntilIdle jumps from timer to timer until nothing is pending or limit
// callbacks have run. A limit <= 0 means no limit. Returns the number run.
func (t *Timeline) RunUntilIdle(limit int) int {
	n := 0
	for limit <= 0 || n < limit {
		next := t.next()
		if next == nil {
			break
		}
		t.fire(next)
		n++
	}
	return n
}

func (t *Timeline) fire(tm *timer) {
	delete(t.timers, tm.key)
	if tm.due > t.now {
		t.now = tm.due
	}
	t.fired++
	tm.fn()
}

func (t *Timeline) next() *timer {
	var best *timer
	for _, tm := range t.timers {
		if best == nil || tm.due < best.due || (tm.due == best.due && tm.seq < best.seq) {
			best = tm
		}
	}
	return best
}

func (t *Timeline) ordered() []*timer {
	all := make([]*timer, 0, len(t.timers))
	for _, tm := range t.timers {
		all = append(all, tm)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].due != all[j].due {
			return all[i].due < all[j].due
		}
		return all[i].seq < all[j].seq
	})
	return all
}
