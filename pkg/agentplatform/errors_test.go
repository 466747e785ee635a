package agentplatform

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func withReason(t *testing.T, code codes.Code, domain, reason string) error {
	t.Helper()
	st, err := status.New(code, "refused").WithDetails(&errdetails.ErrorInfo{Domain: domain, Reason: reason})
	require.NoError(t, err)
	return st.Err()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), KindConnection},
		{"not found", status.Error(codes.NotFound, "org x not found"), KindNotFound},
		{"internal", status.Error(codes.Internal, "boom"), KindCall},
		{"unauthenticated", status.Error(codes.Unauthenticated, "invalid API key"), KindCall},
		{"permission denied without detail", status.Error(codes.PermissionDenied, "no"), KindCall},
		{"resource exhausted without detail", status.Error(codes.ResourceExhausted, "no"), KindCall},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), KindCall},
		{"context canceled", context.Canceled, KindCall},
		{"plain error", errors.New("odd"), KindCall},
		{"policy denied", withReason(t, codes.PermissionDenied, ErrorDomain, ReasonPolicyDenied), KindPolicyDenied},
		{"budget exhausted", withReason(t, codes.ResourceExhausted, ErrorDomain, ReasonBudgetExhausted), KindBudgetExhausted},
		{"detail wins over code", withReason(t, codes.NotFound, ErrorDomain, ReasonBudgetExhausted), KindBudgetExhausted},
		{"foreign domain ignored", withReason(t, codes.PermissionDenied, "other.example", ReasonPolicyDenied), KindCall},
		{"unknown reason ignored", withReason(t, codes.Unavailable, ErrorDomain, "SOMETHING_ELSE"), KindConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := classify("Op", tt.err)
			assert.Equal(t, tt.want, e.Kind)
			assert.Equal(t, "Op", e.Op)
			assert.ErrorIs(t, e, tt.err)
		})
	}
}

func TestClassifyCanceledKeepsCode(t *testing.T) {
	e := classify("GetOrg", context.Canceled)
	assert.Equal(t, codes.Canceled, e.Code)

	e = classify("GetOrg", context.DeadlineExceeded)
	assert.Equal(t, codes.DeadlineExceeded, e.Code)
}

func TestErrorSentinels(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", classify("GetOrg", status.Error(codes.NotFound, "missing")))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrCall)
	assert.NotErrorIs(t, err, ErrConnection)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindNone, KindOf(errors.New("x")))
	assert.Equal(t, KindNone, KindOf(nil))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, codes.NotFound, e.Code)
	assert.Equal(t, "agentplatform: GetOrg: NotFound: missing", e.Error())
}

func TestClassifyIsIdempotent(t *testing.T) {
	first := classify("CreateOrg", status.Error(codes.InvalidArgument, "bad"))
	assert.Same(t, first, classify("CreateOrg", first))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ConnectionError", KindConnection.String())
	assert.Equal(t, "CallError", KindCall.String())
	assert.Equal(t, "NotFound", KindNotFound.String())
	assert.Equal(t, "PolicyDenied", KindPolicyDenied.String())
	assert.Equal(t, "BudgetExhausted", KindBudgetExhausted.String())
}

func TestStatusKind(t *testing.T) {
	assert.Equal(t, KindNone, StatusKind(nil))
	assert.Equal(t, KindNotFound, StatusKind(status.Error(codes.NotFound, "missing")))
	assert.Equal(t, KindPolicyDenied, StatusKind(withReason(t, codes.PermissionDenied, ErrorDomain, ReasonPolicyDenied)))
	assert.Equal(t, KindCall, StatusKind(status.Error(codes.Internal, "boom")))
}
