// Package transport delivers compiled command envelopes to downstream
// consumers. Publishers never mutate envelopes; a failed publish leaves the
// batch unconsumed so callers can retry it whole.
package transport

import (
	"context"
	"log/slog"

	"github.com/2nist/dawsheet/internal/command"
)

// Publisher sends an ordered batch of envelopes to a destination.
type Publisher interface {
	Publish(ctx context.Context, envelopes []command.Envelope) error
}

// LogPublisher writes envelopes to a structured logger instead of a broker.
// It is the dry-run destination.
type LogPublisher struct {
	Logger *slog.Logger
}

// Publish logs one line per envelope.
func (p LogPublisher) Publish(ctx context.Context, envelopes []command.Envelope) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, env := range envelopes {
		logger.InfoContext(ctx, "command",
			"id", env.ID,
			"type", string(env.Type),
			"at", env.At,
			"target", env.Target,
		)
	}
	return nil
}
