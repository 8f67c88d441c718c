package vecstore

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const probeTimeout = 5 * time.Second

// Provider is a candidate embedding backend, tried in order at startup.
type Provider struct {
	Name string
	New  func() (Embedder, error)
}

// Probe returns the first provider whose embedder answers a test query.
// Candidates that fail to construct or to embed are skipped with a warning,
// so a dead API key or an unreachable local model demotes the service to the
// next provider instead of killing startup.
func Probe(ctx context.Context, providers []Provider, log *slog.Logger) (Embedder, error) {
	if log == nil {
		log = slog.Default()
	}

	for _, p := range providers {
		embedder, err := p.New()
		if err != nil {
			log.Warn("embedding provider unavailable", "provider", p.Name, "error", err)
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		_, err = embedder.EmbedQuery(probeCtx, "ping")
		cancel()
		if err != nil {
			log.Warn("embedding provider failed probe", "provider", p.Name, "error", err)
			continue
		}

		log.Info("embedding provider selected", "provider", p.Name)
		return embedder, nil
	}

	return nil, errors.New("no embedding provider available")
}
