// Package logonly provides an email transport that only logs sends.
// It is the default when no SMTP host is configured, for development and
// single-instance trials.
package logonly

import (
	"context"
	"log/slog"

	"github.com/leadrail/leadrail/internal/core/ports"
)

// Transport implements ports.EmailTransport by logging each send.
type Transport struct {
	logger *slog.Logger
}

// NewTransport creates a log-only transport.
func NewTransport(logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{logger: logger}
}

// Send logs the message instead of delivering it.
func (t *Transport) Send(ctx context.Context, to, subject, body string) error {
	t.logger.Info("email send (log-only transport)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}

var _ ports.EmailTransport = (*Transport)(nil)
