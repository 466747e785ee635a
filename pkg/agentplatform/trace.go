package agentplatform

import (
	"context"

	"github.com/xela07ax/agentplatform-go/internal/transport"
)

// WithTraceID pins the x-trace-id carried by calls made with ctx. Without it
// every call gets a fresh id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return transport.WithTraceID(ctx, id)
}

// TraceIDFromContext returns the id pinned with WithTraceID, or "".
func TraceIDFromContext(ctx context.Context) string {
	return transport.TraceIDFromContext(ctx)
}
