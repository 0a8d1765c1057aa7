// Package smtp provides an SMTP email transport.
package smtp

import (
	"context"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/leadrail/leadrail/internal/core/ports"
)

// Transport implements ports.EmailTransport over plain SMTP. Delivery is
// best-effort: there is no retry or queueing here, the automation engine's
// worker pool bounds concurrency and logs failures.
type Transport struct {
	addr string
	from string
	auth smtp.Auth
}

// Config configures the SMTP transport.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewTransport creates an SMTP transport. Auth is used only when a
// username is configured.
func NewTransport(cfg Config) (*Transport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host required")
	}
	if _, err := mail.ParseAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", cfg.From, err)
	}

	t := &Transport{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
	}
	if cfg.Username != "" {
		t.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return t, nil
}

// Send delivers one message. The recipient address is validated before
// dialing so obviously bad data fails fast.
func (t *Transport) Send(ctx context.Context, to, subject, body string) error {
	parsed, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(t.from, parsed.Address, subject, body)
	if err := smtp.SendMail(t.addr, t.auth, t.from, []string{parsed.Address}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", parsed.Address, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sanitizeHeader strips CR/LF so template output cannot inject headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

var _ ports.EmailTransport = (*Transport)(nil)
