package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureCommands(t *testing.T, err error) *[][]string {
	t.Helper()
	var calls [][]string
	orig := runCommand
	runCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return err
	}
	t.Cleanup(func() { runCommand = orig })
	return &calls
}

func TestSendBuildsNotifySendArgs(t *testing.T) {
	calls := captureCommands(t, nil)
	n := NewNotifier(true)

	require.NoError(t, n.SendTimerStopped("Write report", "00:25:00"))
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{
		"notify-send", "-u", "low", "-t", "5000", "-i", "alarm-symbolic",
		"-a", "moodlist", "Stopwatch stopped", "Write report: 00:25:00 logged",
	}, (*calls)[0])
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	calls := captureCommands(t, nil)
	n := NewNotifier(false)

	require.NoError(t, n.SendTasksGenerated("plan"))
	assert.Empty(t, *calls)

	n.SetEnabled(true)
	assert.True(t, n.IsEnabled())
	require.NoError(t, n.SendSessionExpired("http://x/login"))
	require.Len(t, *calls, 1)
	assert.Contains(t, (*calls)[0], "critical")
}

func TestSendWrapsErrors(t *testing.T) {
	captureCommands(t, errors.New("missing binary"))
	err := NewNotifier(true).SendTasksGenerated("x")
	assert.ErrorContains(t, err, "failed to send notification")
}
