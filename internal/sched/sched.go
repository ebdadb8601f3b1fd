// Package sched abstracts delayed execution so UI timing rules
// (notification dismissal, modal transitions, post-login navigation)
// can be verified deterministically in tests.
package sched

import (
	"sort"
	"sync"
	"time"
)

// Scheduler defers a function call by a fixed delay.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Timers is the production scheduler backed by time.AfterFunc.
type Timers struct{}

// After schedules fn to run once d has elapsed.
func (Timers) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Manual is a deterministic scheduler for tests. Time only moves when
// Advance is called; due callbacks fire synchronously in due order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []manualTimer
}

type manualTimer struct {
	due time.Duration
	seq int
	fn  func()
}

// NewManual constructs a manual scheduler starting at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After registers fn to fire once virtual time reaches now+d.
func (m *Manual) After(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.pending = append(m.pending, manualTimer{due: m.now + d, seq: m.seq, fn: fn})
}

// Advance moves virtual time forward and fires every timer that became
// due, in due order. Registration order breaks ties.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now

	var due, rest []manualTimer
	for _, t := range m.pending {
		if t.due <= now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	m.pending = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	m.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// Pending reports how many timers have not fired yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
