package agentplatform

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is the failure category of an *Error. Callers branch on the kind,
// never on the message text.
type Kind int

const (
	KindNone Kind = iota
	// KindConnection: the channel could not be established or was lost.
	KindConnection
	// KindCall: the remote call failed with a status not otherwise classified.
	KindCall
	// KindNotFound: the target organization, agent, policy or budget does not exist.
	KindNotFound
	// KindPolicyDenied: the call itself was refused by policy.
	KindPolicyDenied
	// KindBudgetExhausted: the call itself was refused because the budget is spent.
	KindBudgetExhausted
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "ConnectionError"
	case KindCall:
		return "CallError"
	case KindNotFound:
		return "NotFound"
	case KindPolicyDenied:
		return "PolicyDenied"
	case KindBudgetExhausted:
		return "BudgetExhausted"
	default:
		return "None"
	}
}

// ErrorInfo domain and reasons the control plane uses to mark hard denials.
const (
	ErrorDomain           = "agentplatform"
	ReasonPolicyDenied    = "POLICY_DENIED"
	ReasonBudgetExhausted = "BUDGET_EXHAUSTED"
)

// Sentinels for errors.Is.
var (
	ErrConnection      error = sentinel(KindConnection)
	ErrCall            error = sentinel(KindCall)
	ErrNotFound        error = sentinel(KindNotFound)
	ErrPolicyDenied    error = sentinel(KindPolicyDenied)
	ErrBudgetExhausted error = sentinel(KindBudgetExhausted)
)

type sentinel Kind

func (s sentinel) Error() string { return "agentplatform: " + Kind(s).String() }

// Error is returned by every failing Client operation.
type Error struct {
	Kind    Kind
	Op      string
	Code    codes.Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("agentplatform: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("agentplatform: %s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := target.(sentinel)
	return ok && Kind(s) == e.Kind
}

// KindOf reports the kind of err, or KindNone if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// StatusKind classifies a raw gRPC error the way Client operations classify
// their failures. It returns KindNone for a nil error.
func StatusKind(err error) Kind {
	if err == nil {
		return KindNone
	}
	return classify("", err).Kind
}

func connectionError(op string, err error) *Error {
	return &Error{
		Kind:    KindConnection,
		Op:      op,
		Code:    codes.Unavailable,
		Message: err.Error(),
		Err:     err,
	}
}

// classify maps a failed call to exactly one kind. An ErrorInfo detail from
// the control plane wins over the status code.
func classify(op string, err error) *Error {
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	st, ok := status.FromError(err)
	if !ok {
		st = status.FromContextError(err)
	}

	e := &Error{
		Kind:    KindCall,
		Op:      op,
		Code:    st.Code(),
		Message: st.Message(),
		Err:     err,
	}

	if kind, found := reasonKind(st); found {
		e.Kind = kind
		return e
	}

	switch st.Code() {
	case codes.Unavailable:
		e.Kind = KindConnection
	case codes.NotFound:
		e.Kind = KindNotFound
	}
	return e
}

func reasonKind(st *status.Status) (Kind, bool) {
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		switch info.GetReason() {
		case ReasonPolicyDenied:
			return KindPolicyDenied, true
		case ReasonBudgetExhausted:
			return KindBudgetExhausted, true
		}
	}
	return KindNone, false
}
