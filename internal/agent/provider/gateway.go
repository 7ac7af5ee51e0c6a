// Package provider abstracts text-generation backends behind a gateway with
// an ordered fallback chain whose terminal strategy cannot fail.
package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/common/config"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	"github.com/arcbrain/arcbrain/internal/common/tracing"
)

const probeTimeout = 5 * time.Second

// Gateway routes generation requests through an ordered chain of strategies:
// the primary backend model, a fallback model with adjusted sampling, and
// finally the local mock generator. Generate never returns an error.
type Gateway struct {
	backend       Backend
	available     bool
	defaultModel  string
	fallbackModel string
	timeout       time.Duration
	mock          *MockGenerator
	logger        *logger.Logger
}

// NewGateway creates a gateway and probes the backend once. If the probe
// fails, every call is served by the mock generator for the lifetime of the
// gateway; there is no periodic re-probe.
func NewGateway(backend Backend, cfg config.ProviderConfig, log *logger.Logger) *Gateway {
	g := &Gateway{
		backend:       backend,
		defaultModel:  cfg.DefaultModel,
		fallbackModel: cfg.FallbackModel,
		timeout:       cfg.TimeoutDuration(),
		mock:          NewMockGenerator(),
		logger:        log,
	}

	if backend != nil {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		if err := backend.Probe(ctx); err != nil {
			log.Warn("generation backend unavailable, serving from local generator", zap.Error(err))
		} else {
			g.available = true
			log.Info("generation backend available", zap.String("model", cfg.DefaultModel))
		}
	}

	return g
}

// Available reports whether the remote backend passed its startup probe
func (g *Gateway) Available() bool {
	return g.available
}

// Generate produces text for the prompt. The model hint overrides the
// configured default for the first attempt. Errors from remote backends are
// absorbed by the chain; the mock generator is the unconditional safety net.
func (g *Gateway) Generate(ctx context.Context, prompt, modelHint string) (text, modelUsed string) {
	if g.available {
		model := g.defaultModel
		if modelHint != "" {
			model = modelHint
		}

		// Primary attempt with conservative sampling
		if out, err := g.tryBackend(ctx, model, prompt, GenerationOptions{
			Temperature:     0.7,
			MaxOutputTokens: 2000,
		}); err == nil {
			return out, model
		} else {
			g.logger.Warn("primary generation attempt failed",
				zap.String("model", model),
				zap.Error(err))
		}

		// Fallback model with looser sampling and a shorter completion
		if g.fallbackModel != "" && g.fallbackModel != model {
			if out, err := g.tryBackend(ctx, g.fallbackModel, prompt, GenerationOptions{
				Temperature:     0.9,
				MaxOutputTokens: 1000,
			}); err == nil {
				return out, g.fallbackModel
			} else {
				g.logger.Warn("fallback generation attempt failed",
					zap.String("model", g.fallbackModel),
					zap.Error(err))
			}
		}
	}

	return g.mock.Generate(prompt), MockModel
}

func (g *Gateway) tryBackend(ctx context.Context, model, prompt string, opts GenerationOptions) (string, error) {
	ctx, span := tracing.TraceProviderGenerate(ctx, model)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.backend.Generate(ctx, model, prompt, opts)
	if err != nil {
		span.RecordError(err)
	}
	return out, err
}
