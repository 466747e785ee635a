package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/xela07ax/agentplatform-go/internal/transport"
	"github.com/xela07ax/agentplatform-go/pkg/agentplatform"
)

type orgScoped interface {
	GetOrgId() string
}

type agentScoped interface {
	GetAgentId() string
}

// UnaryClientInterceptor records one event per call. Installed through
// agentplatform.WithUnaryInterceptors it sits above the retry layer, so a
// retried call is recorded once.
func (j *Journal) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)

		event := CallEvent{
			ID:         uuid.NewString(),
			TraceID:    transport.TraceIDFromContext(ctx),
			Method:     method,
			Code:       status.Code(err).String(),
			DurationMs: time.Since(start).Milliseconds(),
			Timestamp:  start,
		}
		if r, ok := req.(orgScoped); ok {
			event.OrgID = r.GetOrgId()
		}
		if r, ok := req.(agentScoped); ok {
			event.AgentID = r.GetAgentId()
		}
		if err != nil {
			event.Kind = agentplatform.StatusKind(err).String()
			event.Error = status.Convert(err).Message()
		}

		j.Log(event)
		return err
	}
}
