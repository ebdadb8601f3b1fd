// Package notify renders transient, auto-dismissing status messages.
package notify

import (
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"stratforge/platform/internal/sched"
)

// Severity classifies a notification for color selection.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DisplayDuration is how long every notification stays visible.
const DisplayDuration = 3000 * time.Millisecond

// Severity colors, fixed regardless of theme.
var severityColors = map[Severity]lipgloss.Color{
	SeveritySuccess: lipgloss.Color("#4CAF50"), // green
	SeverityError:   lipgloss.Color("#E53935"), // red
	SeverityWarning: lipgloss.Color("#FF9800"), // orange
	SeverityInfo:    lipgloss.Color("#2196F3"), // blue
}

// Color returns the fixed display color for the severity. Unknown
// severities fall back to the info blue.
func (s Severity) Color() lipgloss.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[SeverityInfo]
}

// Notification is a single transient message.
type Notification struct {
	ID       int
	Message  string
	Severity Severity
}

// Presenter owns the set of visible notifications. Each posted message
// is removed exactly DisplayDuration after it appeared, independent of
// any other activity.
type Presenter struct {
	mu        sync.Mutex
	scheduler sched.Scheduler
	active    []Notification
	nextID    int
	onChange  func()
}

// NewPresenter constructs a presenter using the given scheduler for
// auto-dismissal.
func NewPresenter(scheduler sched.Scheduler) *Presenter {
	return &Presenter{scheduler: scheduler}
}

// OnChange registers a hook invoked whenever the visible set changes,
// so a host UI can redraw.
func (p *Presenter) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Post makes a notification visible and schedules its removal. It
// always succeeds.
func (p *Presenter) Post(message string, severity Severity) {
	if severity == "" {
		severity = SeverityInfo
	}

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.active = append(p.active, Notification{ID: id, Message: message, Severity: severity})
	changed := p.onChange
	p.mu.Unlock()

	p.scheduler.After(DisplayDuration, func() { p.dismiss(id) })

	if changed != nil {
		changed()
	}
}

func (p *Presenter) dismiss(id int) {
	p.mu.Lock()
	kept := p.active[:0]
	for _, n := range p.active {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	p.active = kept
	changed := p.onChange
	p.mu.Unlock()

	if changed != nil {
		changed()
	}
}

// Active returns a snapshot of the currently visible notifications in
// posting order.
func (p *Presenter) Active() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notification, len(p.active))
	copy(out, p.active)
	return out
}

var messageStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true)

// View renders the visible notifications as a stacked overlay block.
func (p *Presenter) View() string {
	notifications := p.Active()
	if len(notifications) == 0 {
		return ""
	}

	var lines []string
	for _, n := range notifications {
		style := messageStyle.
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(n.Severity.Color())
		lines = append(lines, style.Render(n.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
