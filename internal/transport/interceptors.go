// Package transport holds the unary client interceptors the SDK installs
// below the façade: trace ids, logging, metrics, spans, reliability and
// credentials. Nothing here knows about organizations or agents.
package transport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TraceIDHeader is the metadata key carrying the per-call trace id.
const TraceIDHeader = "x-trace-id"

type ctxKey string

const traceIDKey ctxKey = "trace_id"

// WithTraceID pins the trace id the next calls made with ctx will carry.
// SDK users reach it through agentplatform.WithTraceID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext returns the trace id set by WithTraceID or by
// UnaryTraceID, or "" if there is none.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

// UnaryTraceID makes sure every call carries an x-trace-id header.
func UnaryTraceID() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		// 1. An explicit header wins
		if md, ok := metadata.FromOutgoingContext(ctx); ok {
			if ids := md.Get(TraceIDHeader); len(ids) > 0 {
				return invoker(WithTraceID(ctx, ids[0]), method, req, reply, cc, opts...)
			}
		}

		// 2. Then a pinned id, otherwise a fresh one
		traceID := TraceIDFromContext(ctx)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx = metadata.AppendToOutgoingContext(WithTraceID(ctx, traceID), TraceIDHeader, traceID)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// UnaryLogging logs every call at debug level.
func UnaryLogging(logger *zap.Logger) grpc.UnaryClientInterceptor {
	logger = logger.With(zap.String("mod", "transport"))
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("trace_id", TraceIDFromContext(ctx)),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		logger.Debug("rpc", fields...)
		return err
	}
}
