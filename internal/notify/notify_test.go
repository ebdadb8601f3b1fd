package notify

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratforge/platform/internal/sched"
)

func TestSeverityColors(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#4CAF50"), SeveritySuccess.Color())
	assert.Equal(t, lipgloss.Color("#E53935"), SeverityError.Color())
	assert.Equal(t, lipgloss.Color("#FF9800"), SeverityWarning.Color())
	assert.Equal(t, lipgloss.Color("#2196F3"), SeverityInfo.Color())

	// Anything unrecognized renders as info.
	assert.Equal(t, SeverityInfo.Color(), Severity("fatal").Color())
}

func TestPostDismissesAfterDisplayDuration(t *testing.T) {
	clock := sched.NewManual()
	p := NewPresenter(clock)

	p.Post("saved", SeveritySuccess)
	require.Len(t, p.Active(), 1)

	clock.Advance(DisplayDuration - time.Millisecond)
	require.Len(t, p.Active(), 1, "notification dismissed early")

	clock.Advance(time.Millisecond)
	require.Empty(t, p.Active())
}

func TestEachNotificationHasIndependentLifetime(t *testing.T) {
	clock := sched.NewManual()
	p := NewPresenter(clock)

	p.Post("first", SeverityInfo)
	clock.Advance(1 * time.Second)
	p.Post("second", SeverityInfo)

	clock.Advance(2 * time.Second)
	active := p.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)

	clock.Advance(1 * time.Second)
	require.Empty(t, p.Active())
}

func TestEmptySeverityDefaultsToInfo(t *testing.T) {
	p := NewPresenter(sched.NewManual())
	p.Post("heads up", "")

	active := p.Active()
	require.Len(t, active, 1)
	assert.Equal(t, SeverityInfo, active[0].Severity)
}

func TestOnChangeFiresOnPostAndDismiss(t *testing.T) {
	clock := sched.NewManual()
	p := NewPresenter(clock)

	changes := 0
	p.OnChange(func() { changes++ })

	p.Post("one", SeverityInfo)
	assert.Equal(t, 1, changes)

	clock.Advance(DisplayDuration)
	assert.Equal(t, 2, changes)
}
