// Package agentplatformtest provides an in-memory ControlPlane server for
// tests, served over bufconn.
//
//	srv := agentplatformtest.NewServer()
//	defer srv.Close()
//	client, err := agentplatform.Connect(ctx, srv.Address(),
//		agentplatform.WithDialOptions(srv.DialOption()))
//
// The server implements a small version of the control plane rules (policy
// merge with deny precedence, org and agent budgets) so client behavior can
// be exercised end to end. It also records requests and can be told to fail.
package agentplatformtest

import (
	"context"
	"crypto/rsa"
	"net"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/xela07ax/agentplatform-go/internal/transport"
	"github.com/xela07ax/agentplatform-go/pkg/agentplatform"
	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

const bufSize = 1024 * 1024

type Server struct {
	lis    *bufconn.Listener
	srv    *grpc.Server
	logger *zap.Logger
	cp     *controlPlane

	apiKey    string
	validator *transport.Validator

	mu       sync.Mutex
	failures map[string]error
	requests map[string]any
	headers  map[string]metadata.MD
	calls    map[string]int
}

type Option func(*Server)

// WithAPIKey makes every call require x-api-key == key.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithTokenValidator makes every call require a bearer token signed by the
// private half of pub.
func WithTokenValidator(pub *rsa.PublicKey) Option {
	return func(s *Server) { s.validator = transport.NewValidator(pub) }
}

// WithStrictNotFound makes DeleteOrganization and DeactivateAgent answer
// NOT_FOUND for unknown ids instead of success=false.
func WithStrictNotFound() Option {
	return func(s *Server) { s.cp.strictNotFound = true }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer starts serving immediately. Call Close when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		lis:      bufconn.Listen(bufSize),
		logger:   zap.NewNop(),
		cp:       newControlPlane(),
		failures: make(map[string]error),
		requests: make(map[string]any),
		headers:  make(map[string]metadata.MD),
		calls:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("controlplane-fake")

	s.srv = grpc.NewServer(
		grpc.ForceServerCodec(v1.Codec{}),
		grpc.ChainUnaryInterceptor(s.recordInterceptor, s.authInterceptor, s.failureInterceptor),
	)
	v1.RegisterControlPlaneServer(s.srv, s.cp)

	go func() {
		if err := s.srv.Serve(s.lis); err != nil {
			s.logger.Debug("serve stopped", zap.Error(err))
		}
	}()
	return s
}

// Address is the target to pass to agentplatform.Connect together with
// DialOption.
func (s *Server) Address() string { return "passthrough:///bufnet" }

func (s *Server) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return s.lis.DialContext(ctx)
	})
}

// Close stops the server. Open client connections break.
func (s *Server) Close() {
	s.srv.Stop()
	_ = s.lis.Close()
}

// Fail makes every call of method (e.g. "GetOrganization") return err until
// ClearFailures.
func (s *Server) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]error)
}

// LastRequest returns the last request message received for method, or nil.
func (s *Server) LastRequest(method string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method]
}

// LastSetPolicy is LastRequest("SetPolicy") with its concrete type.
func (s *Server) LastSetPolicy() *v1.SetPolicyRequest {
	req, _ := s.LastRequest("SetPolicy").(*v1.SetPolicyRequest)
	return req
}

// LastHeader returns the incoming metadata of the last call of method.
func (s *Server) LastHeader(method string) metadata.MD {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[method]
}

// Calls returns how many times method reached the server.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func shortMethod(full string) string {
	return full[strings.LastIndex(full, "/")+1:]
}

func (s *Server) recordInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	method := shortMethod(info.FullMethod)
	md, _ := metadata.FromIncomingContext(ctx)

	s.mu.Lock()
	s.calls[method]++
	s.requests[method] = req
	s.headers[method] = md.Copy()
	s.mu.Unlock()

	resp, err := handler(ctx, req)
	s.logger.Debug("handled", zap.String("method", method), zap.Stringer("code", status.Code(err)))
	return resp, err
}

func (s *Server) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.apiKey == "" && s.validator == nil {
		return handler(ctx, req)
	}

	// 1. Metadata is required once any check is on
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Errorf(codes.Unauthenticated, "missing metadata")
	}

	// 2. API key
	if s.apiKey != "" {
		keys := md.Get(transport.APIKeyHeader)
		if len(keys) == 0 || keys[0] != s.apiKey {
			return nil, status.Errorf(codes.Unauthenticated, "invalid API key")
		}
	}

	// 3. Bearer token
	if s.validator != nil {
		tokens := md.Get("authorization")
		if len(tokens) == 0 {
			return nil, status.Errorf(codes.Unauthenticated, "missing access token")
		}
		if _, err := s.validator.VerifyToken(tokens[0]); err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "%v", err)
		}
	}

	return handler(ctx, req)
}

func (s *Server) failureInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	s.mu.Lock()
	err := s.failures[shortMethod(info.FullMethod)]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

// PolicyDeniedError is the status a control plane returns when a call is
// refused by policy.
func PolicyDeniedError(msg string) error {
	return reasonError(codes.PermissionDenied, agentplatform.ReasonPolicyDenied, msg)
}

// BudgetExhaustedError is the status a control plane returns when a call is
// refused because the budget is spent.
func BudgetExhaustedError(msg string) error {
	return reasonError(codes.ResourceExhausted, agentplatform.ReasonBudgetExhausted, msg)
}

func reasonError(code codes.Code, reason, msg string) error {
	st, err := status.New(code, msg).WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: agentplatform.ErrorDomain,
	})
	if err != nil {
		return status.Error(code, msg)
	}
	return st.Err()
}
