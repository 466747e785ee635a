package transport

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testMethod = "/agent_platform.ControlPlane/GetOrganization"

// capture is an invoker that remembers the outgoing context and returns err.
type capture struct {
	ctx   context.Context
	calls int
	err   error
}

func (c *capture) invoke(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
	c.ctx = ctx
	c.calls++
	return c.err
}

func (c *capture) header(key string) []string {
	md, _ := metadata.FromOutgoingContext(c.ctx)
	return md.Get(key)
}

func TestUnaryTraceIDGeneratesID(t *testing.T) {
	inv := &capture{}
	err := UnaryTraceID()(context.Background(), testMethod, nil, nil, nil, inv.invoke)
	require.NoError(t, err)

	ids := inv.header(TraceIDHeader)
	require.Len(t, ids, 1)
	_, err = uuid.Parse(ids[0])
	assert.NoError(t, err)
	assert.Equal(t, ids[0], TraceIDFromContext(inv.ctx))
}

func TestUnaryTraceIDKeepsPinnedID(t *testing.T) {
	inv := &capture{}
	ctx := WithTraceID(context.Background(), "trace-123")
	require.NoError(t, UnaryTraceID()(ctx, testMethod, nil, nil, nil, inv.invoke))
	assert.Equal(t, []string{"trace-123"}, inv.header(TraceIDHeader))
}

func TestUnaryTraceIDKeepsExplicitHeader(t *testing.T) {
	inv := &capture{}
	ctx := metadata.AppendToOutgoingContext(context.Background(), TraceIDHeader, "from-caller")
	require.NoError(t, UnaryTraceID()(ctx, testMethod, nil, nil, nil, inv.invoke))
	assert.Equal(t, []string{"from-caller"}, inv.header(TraceIDHeader))
	assert.Equal(t, "from-caller", TraceIDFromContext(inv.ctx))
}

func TestTraceIDFromEmptyContext(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
}

func TestUnaryLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	inv := &capture{err: status.Error(codes.NotFound, "missing")}

	err := UnaryLogging(zap.New(core))(WithTraceID(context.Background(), "t-1"), testMethod, nil, nil, nil, inv.invoke)
	assert.Equal(t, codes.NotFound, status.Code(err))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, testMethod, fields["method"])
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "NotFound", fields["code"])
	assert.Equal(t, "transport", fields["mod"])
	assert.Contains(t, fields, "error")
}
