package transport

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const instrumentationName = "github.com/xela07ax/agentplatform-go"

// UnaryTracing opens one client span per call.
func UnaryTracing(tp trace.TracerProvider) grpc.UnaryClientInterceptor {
	tracer := tp.Tracer(instrumentationName)
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx, span := tracer.Start(ctx, method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("rpc.system", "grpc"),
				attribute.String("rpc.method", method),
			),
		)
		defer span.End()

		if traceID := TraceIDFromContext(ctx); traceID != "" {
			span.SetAttributes(attribute.String("agentplatform.trace_id", traceID))
		}

		err := invoker(ctx, method, req, reply, cc, opts...)
		st := status.Convert(err)
		span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, st.Message())
		}
		return err
	}
}
