package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type Metrics struct {
	// Latency per method and final status code
	RequestDuration *prometheus.HistogramVec

	// Traffic
	TotalRequests *prometheus.CounterVec

	// Failures by status code
	ErrorTotal *prometheus.CounterVec

	// Extra attempts made by the retry layer
	RetryTotal *prometheus.CounterVec

	// 0 closed, 1 half-open, 2 open
	CircuitBreakerState *prometheus.GaugeVec
}

// NewMetrics registers the client collectors with reg. Collectors already
// registered by an earlier client are reused, so several clients can share
// one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	// Without a registerer the collectors go to a private registry nobody scrapes
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	var err error
	m := &Metrics{
		RequestDuration: register(reg, &err, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentplatform_client_request_duration_seconds",
			Help:    "Histogram of control plane call latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "code"})),

		TotalRequests: register(reg, &err, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentplatform_client_requests_total",
			Help: "Total number of control plane calls.",
		}, []string{"method"})),

		ErrorTotal: register(reg, &err, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentplatform_client_errors_total",
			Help: "Total number of failed control plane calls by status code.",
		}, []string{"method", "code"})),

		RetryTotal: register(reg, &err, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentplatform_client_retries_total",
			Help: "Total number of retried control plane calls.",
		}, []string{"method"})),

		CircuitBreakerState: register(reg, &err, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agentplatform_client_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"breaker"})),
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// register keeps the first error in errp and returns the collector to use.
func register[C prometheus.Collector](reg prometheus.Registerer, errp *error, c C) C {
	if *errp != nil {
		return c
	}
	err := reg.Register(c)
	if err == nil {
		return c
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	*errp = fmt.Errorf("register metrics: %w", err)
	return c
}

func (m *Metrics) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		m.TotalRequests.WithLabelValues(method).Inc()

		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		code := status.Code(err).String()

		m.RequestDuration.WithLabelValues(method, code).Observe(time.Since(start).Seconds())
		if err != nil {
			m.ErrorTotal.WithLabelValues(method, code).Inc()
		}
		return err
	}
}
