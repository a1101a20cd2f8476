package inference

import (
	"context"
	"errors"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
)

// Gateway walks an ordered provider chain with first-success semantics: the
// first provider that returns non-empty text wins and later providers are
// never contacted. A failed attempt advances the chain immediately; there is
// no per-provider retry.
type Gateway struct {
	providers []*Provider
	log       *logger.Logger
}

func NewGateway(baseLog *logger.Logger, providers ...*Provider) *Gateway {
	return &Gateway{
		providers: providers,
		log:       baseLog.With("service", "InferenceGateway"),
	}
}

// Providers returns the chain in order, for startup logging.
func (g *Gateway) Providers() []*Provider {
	return g.providers
}

func (g *Gateway) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	attempts := make([]AttemptFailure, 0, len(g.providers))

	for _, p := range g.providers {
		if !p.Configured() {
			attempts = append(attempts, AttemptFailure{Provider: p.Name(), Reason: ErrNoCredential.Error()})
			continue
		}

		text, err := p.Complete(ctx, messages, temperature)
		if err != nil {
			g.log.Warn("provider attempt failed", "provider", p.Name(), "error", err)
			attempts = append(attempts, AttemptFailure{Provider: p.Name(), Reason: err.Error()})
			continue
		}
		return text, nil
	}

	return "", &ExhaustedError{Attempts: attempts}
}

// IsExhausted reports whether err is a whole-chain failure.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
