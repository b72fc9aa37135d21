// Package notify delivers desktop notifications for guest activity via a
// user-configured shell command template.
package notify

import (
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Notification is a single alert about guest activity.
type Notification struct {
	Title     string // e.g. "New message from Ana"
	Body      string // message preview
	GuestName string
	House     string
	Urgent    bool
}

// Notifier runs the configured command for each notification. Best-effort:
// failures are logged, never returned, so a broken notify command cannot
// stall the watcher.
type Notifier struct {
	command string
	logger  *zap.Logger
	// run is swapped in tests.
	run func(cmd string) ([]byte, error)
}

// New creates a Notifier. An empty command disables delivery.
func New(command string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		command: command,
		logger:  logger,
		run: func(cmd string) ([]byte, error) {
			return exec.Command("sh", "-c", cmd).CombinedOutput()
		},
	}
}

// Enabled reports whether a notify command is configured.
func (n *Notifier) Enabled() bool { return n.command != "" }

// Notify delivers one notification.
func (n *Notifier) Notify(note Notification) {
	if n.command == "" {
		return
	}
	cmdStr := expandTemplate(n.command, note)
	if out, err := n.run(cmdStr); err != nil {
		n.logger.Warn("notify command failed",
			zap.Error(err),
			zap.String("output", strings.TrimSpace(string(out))),
		)
	}
}

// expandTemplate replaces placeholders in the command template with
// notification values. Single quotes are stripped from values so they
// cannot break out of a quoted template argument.
func expandTemplate(command string, note Notification) string {
	title := note.Title
	if note.Urgent {
		title = "URGENT: " + title
	}
	r := strings.NewReplacer(
		"{{.Title}}", sanitize(title),
		"{{.Body}}", sanitize(note.Body),
		"{{.Guest}}", sanitize(note.GuestName),
		"{{.House}}", sanitize(note.House),
	)
	return r.Replace(command)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, "$", "")
	return s
}
