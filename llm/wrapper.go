package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/BaSui01/roundtable/llm"

// wrappedProvider applies a middleware chain to Completion calls while
// delegating Stream and HealthCheck to the underlying provider unchanged.
type wrappedProvider struct {
	inner   Provider
	handler Handler
}

// WrapProvider composes a middleware chain over a Provider. The chain only
// covers Completion; streaming requests bypass it.
func WrapProvider(p Provider, chain *Chain) Provider {
	if chain == nil || chain.Len() == 0 {
		return p
	}
	return &wrappedProvider{
		inner:   p,
		handler: chain.Then(p.Completion),
	}
}

func (w *wrappedProvider) Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	return w.handler(ctx, req)
}

func (w *wrappedProvider) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	return w.inner.Stream(ctx, req)
}

func (w *wrappedProvider) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	return w.inner.HealthCheck(ctx)
}

func (w *wrappedProvider) Name() string { return w.inner.Name() }

// TracingMiddleware 为每次补全调用创建 OpenTelemetry span。
// 导出器由上层应用配置；未配置时为 no-op。
func TracingMiddleware(provider string) Middleware {
	tracer := otel.Tracer(tracerName)
	return func(next Handler) Handler {
		return func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
			ctx, span := tracer.Start(ctx, "llm.completion",
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("llm.provider", provider),
					attribute.String("llm.model", req.Model),
					attribute.Int("llm.messages", len(req.Messages)),
				),
			)
			defer span.End()

			resp, err := next(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}

			span.SetAttributes(
				attribute.Int("llm.usage.prompt_tokens", resp.Usage.PromptTokens),
				attribute.Int("llm.usage.completion_tokens", resp.Usage.CompletionTokens),
			)
			return resp, nil
		}
	}
}
