// Package redis provides a short-TTL Redis cache in front of the form
// read model. Plan gating hits the form lookup on every automation event
// and board render; caching it keeps those paths off the database without
// touching core semantics.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadrail/leadrail/internal/core/domain"
	"github.com/leadrail/leadrail/internal/core/ports"
)

const defaultTTL = 30 * time.Second

// FormReader decorates a ports.FormReadModel with a read-through cache.
// Cache errors fall through to the inner store; a stale plan is bounded by
// the TTL.
type FormReader struct {
	inner  ports.FormReadModel
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewFormReader creates the caching decorator.
func NewFormReader(inner ports.FormReadModel, client *redis.Client, ttl time.Duration, logger *slog.Logger) *FormReader {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FormReader{inner: inner, client: client, ttl: ttl, logger: logger}
}

// GetForm returns the cached form when present, otherwise reads through
// and populates the cache. Not-found results are not cached.
func (r *FormReader) GetForm(ctx context.Context, formID string) (*domain.Form, error) {
	key := "leadrail:form:" + formID

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var f domain.Form
		if err := json.Unmarshal(raw, &f); err == nil {
			return &f, nil
		}
		// Corrupt entry; drop it and fall through.
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Warn("form cache read failed", slog.String("form_id", formID), slog.String("error", err.Error()))
	}

	f, err := r.inner.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(f); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.logger.Warn("form cache write failed", slog.String("form_id", formID), slog.String("error", err.Error()))
		}
	}
	return f, nil
}

var _ ports.FormReadModel = (*FormReader)(nil)
