package transport

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ReliabilityConfig switches on the pieces of the reliability layer. Zero
// values disable the corresponding piece.
type ReliabilityConfig struct {
	// Client-side rate limit in calls per second.
	RateLimit float64
	Burst     int

	// Breaker trips after this many consecutive transport failures.
	BreakerFailures    uint32
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration

	// Attempts per call; only Unavailable is retried.
	MaxAttempts    uint
	RetryDelay     time.Duration
	AttemptTimeout time.Duration
}

type Reliability struct {
	cfg     ReliabilityConfig
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	metrics *Metrics
}

const breakerName = "agentplatform-control-plane"

// NewReliability builds the layer. metrics may be nil.
func NewReliability(cfg ReliabilityConfig, metrics *Metrics) *Reliability {
	r := &Reliability{cfg: cfg, metrics: metrics}

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if cfg.BreakerFailures > 0 {
		r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: cfg.BreakerMaxRequests,
			Interval:    cfg.BreakerInterval,
			Timeout:     cfg.BreakerTimeout, // how long the breaker stays open before probing
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.BreakerFailures
			},
			IsSuccessful: func(err error) bool {
				return !isTransportFailure(err)
			},
			OnStateChange: func(name string, _, to gobreaker.State) {
				if metrics != nil {
					metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
				}
			},
		})
		if metrics != nil {
			metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(float64(gobreaker.StateClosed))
		}
	}

	return r
}

// isTransportFailure reports whether err says something about the health of
// the control plane rather than about the request.
func isTransportFailure(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.Unknown:
		return true
	}
	return false
}

func (r *Reliability) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		// 1. Rate limiter
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return status.FromContextError(ctx.Err()).Err()
				}
				return status.Errorf(codes.ResourceExhausted, "client rate limit exceeded: %v", err)
			}
		}

		call := func() error {
			if r.cfg.AttemptTimeout <= 0 {
				return invoker(ctx, method, req, reply, cc, opts...)
			}
			tCtx, cancel := context.WithTimeout(ctx, r.cfg.AttemptTimeout)
			defer cancel()
			return invoker(tCtx, method, req, reply, cc, opts...)
		}

		// 2. Retry, inside the breaker so one logical call counts once
		if r.cfg.MaxAttempts > 1 {
			call = r.retrying(ctx, method, call)
		}

		// 3. Circuit breaker
		if r.cb == nil {
			return call()
		}
		_, err := r.cb.Execute(func() (interface{}, error) {
			return nil, call()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return status.Errorf(codes.Unavailable, "circuit breaker %s: %v", breakerName, err)
		}
		return err
	}
}

func (r *Reliability) retrying(ctx context.Context, method string, call func() error) func() error {
	return func() error {
		delay := r.cfg.RetryDelay
		if delay <= 0 {
			delay = 100 * time.Millisecond
		}

		attempt := 0
		return retry.New(
			retry.Context(ctx),
			retry.Attempts(r.cfg.MaxAttempts),
			retry.Delay(delay),
			retry.DelayType(retry.BackOffDelay),
			retry.RetryIf(func(err error) bool {
				return status.Code(err) == codes.Unavailable
			}),
			retry.LastErrorOnly(true),
		).Do(func() error {
			attempt++
			if attempt > 1 && r.metrics != nil {
				r.metrics.RetryTotal.WithLabelValues(method).Inc()
			}
			return call()
		})
	}
}
