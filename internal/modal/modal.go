// Package modal implements the dialog lifecycle used by the login and
// registration overlays.
package modal

import (
	"sync"
	"time"

	"stratforge/platform/internal/sched"
)

// State is the dialog lifecycle position.
type State int

const (
	StateHidden State = iota
	StateOpening
	StateVisible
	StateClosing
)

// String implements fmt.Stringer for logs and test failures.
func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateOpening:
		return "opening"
	case StateVisible:
		return "visible"
	case StateClosing:
		return "closing"
	}
	return "unknown"
}

const (
	// OpenTransition separates insertion from the visible transition so
	// the entrance is perceptible.
	OpenTransition = 10 * time.Millisecond
	// CloseDelay is how long a closing dialog lingers before it is
	// removed from the interactive layout entirely.
	CloseDelay = 300 * time.Millisecond
)

// Dialog is a single modal dialog's state machine.
type Dialog struct {
	mu        sync.Mutex
	state     State
	gen       int
	scheduler sched.Scheduler
	onChange  func()
}

// New constructs a hidden dialog.
func New(scheduler sched.Scheduler) *Dialog {
	return &Dialog{scheduler: scheduler}
}

// OnChange registers a hook invoked after every state transition.
func (d *Dialog) OnChange(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Show moves hidden -> opening -> visible. Calls on a non-hidden
// dialog are ignored.
func (d *Dialog) Show() {
	d.mu.Lock()
	if d.state != StateHidden {
		d.mu.Unlock()
		return
	}
	d.state = StateOpening
	d.gen++
	gen := d.gen
	changed := d.onChange
	d.mu.Unlock()

	if changed != nil {
		changed()
	}
	d.scheduler.After(OpenTransition, func() {
		d.transition(gen, StateOpening, StateVisible)
	})
}

// Close moves visible -> closing -> hidden. After CloseDelay the
// dialog no longer intercepts input. Calls on a non-visible dialog are
// ignored.
func (d *Dialog) Close() {
	d.mu.Lock()
	if d.state != StateVisible {
		d.mu.Unlock()
		return
	}
	d.state = StateClosing
	d.gen++
	gen := d.gen
	changed := d.onChange
	d.mu.Unlock()

	if changed != nil {
		changed()
	}
	d.scheduler.After(CloseDelay, func() {
		d.transition(gen, StateClosing, StateHidden)
	})
}

// Dismiss closes the dialog in response to an external trigger (escape
// key, click outside the content area). Only a visible dialog reacts.
func (d *Dialog) Dismiss() {
	d.Close()
}

// transition completes a scheduled state change unless a newer
// transition superseded it.
func (d *Dialog) transition(gen int, from, to State) {
	d.mu.Lock()
	if d.gen != gen || d.state != from {
		d.mu.Unlock()
		return
	}
	d.state = to
	changed := d.onChange
	d.mu.Unlock()

	if changed != nil {
		changed()
	}
}

// State returns the current lifecycle position.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Interactive reports whether the dialog still occupies the layout and
// intercepts input addressed to underlying content.
func (d *Dialog) Interactive() bool {
	return d.State() != StateHidden
}
