package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const engineTracerName = "arcbrain-engine"

func engineTracer() trace.Tracer {
	return Tracer(engineTracerName)
}

// TraceAgentRun creates a span covering a single agent execution.
func TraceAgentRun(ctx context.Context, agentID, userID string) (context.Context, trace.Span) {
	ctx, span := engineTracer().Start(ctx, "agent.run",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("agent_id", agentID),
		attribute.String("user_id", userID),
	)
	return ctx, span
}

// TraceRunOutcome records the terminal status of a run on its span.
func TraceRunOutcome(span trace.Span, status string, err error) {
	span.SetAttributes(attribute.String("run_status", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// TraceProviderGenerate creates a span for one backend generation attempt.
func TraceProviderGenerate(ctx context.Context, model string) (context.Context, trace.Span) {
	ctx, span := engineTracer().Start(ctx, "provider.generate",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(attribute.String("model", model))
	return ctx, span
}
