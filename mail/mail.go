// Package mail defines the notification contract the engine sends through
// and two transports: a slog-backed notifier for development and a Resend
// API notifier for production.
//
// The engine decides when a message is sent; this package never decides.
// Send failures are reported to the caller, which treats them as best-effort
// (logged, never surfaced to the HTTP response).
package mail

import (
	"context"
	"log/slog"
)

// Message is one outbound notification. Body is rendered as HTML when HTML
// is set, plain text otherwise.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Notifier defines a public type used by authflow APIs.
//
// Notifier instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier logs messages instead of delivering them. It is the default
// when no transport is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier describes the newlognotifier operation and its observable behavior.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send describes the send operation and its observable behavior.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("mail (log transport)",
		"to", msg.To,
		"subject", msg.Subject,
		"html", msg.HTML,
		"body", msg.Body,
	)
	return nil
}
