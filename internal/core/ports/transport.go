package ports

import "context"

// EmailTransport delivers one notification email. Implementations may
// reject; the automation engine absorbs and logs failures instead of
// propagating them to the event producer. Durable retry is the
// transport's own concern, not the engine's.
type EmailTransport interface {
	Send(ctx context.Context, to, subject, body string) error
}
