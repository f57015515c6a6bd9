package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// runCommand is swapped in tests
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	// Add urgency
	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Add timeout (in milliseconds)
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	// Add icon if specified
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	// Add app name
	args = append(args, "-a", "moodlist")

	// Add title and body
	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	if err := runCommand("notify-send", args...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// SendTimerStopped reports the time logged when a stopwatch stops
func (n *Notifier) SendTimerStopped(taskText, timeSpent string) error {
	return n.Send(Notification{
		Title:   "Stopwatch stopped",
		Body:    fmt.Sprintf("%s: %s logged", taskText, timeSpent),
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "alarm-symbolic",
	})
}

// SendTasksGenerated reports a finished generation request
func (n *Notifier) SendTasksGenerated(prompt string) error {
	return n.Send(Notification{
		Title:   "Tasks generated",
		Body:    prompt,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
		Icon:    "view-list-symbolic",
	})
}

// SendSessionExpired asks the user to sign in again
func (n *Notifier) SendSessionExpired(loginURL string) error {
	return n.Send(Notification{
		Title:   "Session expired",
		Body:    "Sign in again at " + loginURL,
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "dialog-password-symbolic",
	})
}
