package transport

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	interceptor := m.UnaryClientInterceptor()

	ok := &capture{}
	failing := &capture{err: status.Error(codes.NotFound, "missing")}
	_ = interceptor(context.Background(), testMethod, nil, nil, nil, ok.invoke)
	_ = interceptor(context.Background(), testMethod, nil, nil, nil, ok.invoke)
	_ = interceptor(context.Background(), testMethod, nil, nil, nil, failing.invoke)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.TotalRequests.WithLabelValues(testMethod)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorTotal.WithLabelValues(testMethod, "NotFound")))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "agentplatform_client_request_duration_seconds"))
}

func TestNewMetricsWithoutRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := NewMetrics(nil)
		require.NoError(t, err)
		_, err = NewMetrics(nil)
		require.NoError(t, err)
	})
}

func TestNewMetricsSharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	// Both clients count into the same series
	ok := &capture{}
	_ = first.UnaryClientInterceptor()(context.Background(), testMethod, nil, nil, nil, ok.invoke)
	_ = second.UnaryClientInterceptor()(context.Background(), testMethod, nil, nil, nil, ok.invoke)
	assert.Same(t, first.TotalRequests, second.TotalRequests)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.TotalRequests.WithLabelValues(testMethod)))
}

func TestNewMetricsConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agentplatform_client_requests_total",
		Help: "Something else entirely.",
	}))

	_, err := NewMetrics(reg)
	assert.ErrorContains(t, err, "register metrics")
}
