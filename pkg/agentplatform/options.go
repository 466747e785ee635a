package agentplatform

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/xela07ax/agentplatform-go/internal/transport"
)

const DefaultConnectTimeout = 10 * time.Second

// Option configures Connect.
type Option func(*options)

type options struct {
	logger         *zap.Logger
	connectTimeout time.Duration
	creds          credentials.TransportCredentials
	perRPC         []credentials.PerRPCCredentials
	registerer     prometheus.Registerer
	metrics        bool
	tracerProvider trace.TracerProvider
	reliability    *ReliabilityConfig
	interceptors   []grpc.UnaryClientInterceptor
	dialOptions    []grpc.DialOption
	setupErr       error
}

func defaultOptions() *options {
	return &options{
		logger:         zap.NewNop(),
		connectTimeout: DefaultConnectTimeout,
	}
}

// WithLogger sets the logger. Failures and calls are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConnectTimeout bounds how long Connect waits for the channel to become
// ready.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

// WithTransportCredentials overrides the credentials derived from the address
// scheme.
func WithTransportCredentials(creds credentials.TransportCredentials) Option {
	return func(o *options) { o.creds = creds }
}

// WithAPIKey sends the key as x-api-key metadata on every call.
func WithAPIKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.perRPC = append(o.perRPC, transport.APIKey(key))
		}
	}
}

// TokenConfig describes the bearer tokens WithSignedTokens issues. OrgID,
// when set, is carried as the org_id claim. Tokens are only sent over TLS
// unless AllowPlaintext is set; Connect fails on a plaintext address
// otherwise.
type TokenConfig struct {
	Issuer         string
	Subject        string
	OrgID          string
	TTL            time.Duration
	AllowPlaintext bool
}

// WithSignedTokens attaches an RS256 bearer token, signed with the given PEM
// private key, to every call.
func WithSignedTokens(privateKeyPEM []byte, cfg TokenConfig) Option {
	return func(o *options) {
		key, err := transport.ParseRSAPrivateKey(privateKeyPEM)
		if err != nil {
			o.setupErr = fmt.Errorf("signed tokens: %w", err)
			return
		}
		o.perRPC = append(o.perRPC, transport.NewTokenSigner(key, transport.TokenConfig(cfg)))
	}
}

// WithMetrics registers client metrics with reg. Clients connected with the
// same registerer share the collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.metrics = true
		o.registerer = reg
	}
}

// WithTracerProvider opens a client span per call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// ReliabilityConfig configures the transport reliability layer: a client
// rate limit, a circuit breaker and retries of Unavailable calls. Zero
// fields disable their piece.
type ReliabilityConfig struct {
	RateLimit float64
	Burst     int

	BreakerFailures    uint32
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration

	MaxAttempts    uint
	RetryDelay     time.Duration
	AttemptTimeout time.Duration
}

// WithReliability installs the reliability layer below the façade. Every
// façade method still issues one logical call.
func WithReliability(cfg ReliabilityConfig) Option {
	return func(o *options) { o.reliability = &cfg }
}

// WithUnaryInterceptors appends interceptors after the built-in ones.
func WithUnaryInterceptors(interceptors ...grpc.UnaryClientInterceptor) Option {
	return func(o *options) { o.interceptors = append(o.interceptors, interceptors...) }
}

// WithDialOptions passes raw grpc dial options, e.g. a bufconn dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOptions = append(o.dialOptions, opts...) }
}

// chain orders interceptors from outermost to innermost.
func (o *options) chain() ([]grpc.UnaryClientInterceptor, error) {
	var metrics *transport.Metrics
	if o.metrics {
		var err error
		if metrics, err = transport.NewMetrics(o.registerer); err != nil {
			return nil, err
		}
	}

	chain := []grpc.UnaryClientInterceptor{transport.UnaryTraceID()}
	if o.tracerProvider != nil {
		chain = append(chain, transport.UnaryTracing(o.tracerProvider))
	}
	chain = append(chain, transport.UnaryLogging(o.logger))
	if metrics != nil {
		chain = append(chain, metrics.UnaryClientInterceptor())
	}
	chain = append(chain, o.interceptors...)
	if o.reliability != nil {
		r := transport.NewReliability(transport.ReliabilityConfig(*o.reliability), metrics)
		chain = append(chain, r.UnaryClientInterceptor())
	}
	return chain, nil
}
