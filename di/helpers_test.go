package di

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/injex/logger"
	"github.com/kbukum/injex/observability"
)

type widget struct {
	n int
}

type counter struct {
	mu    sync.Mutex
	calls int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) count(substr string) int {
	return strings.Count(b.String(), substr)
}

// newTestRegistry returns a registry whose log output is captured.
func newTestRegistry(t *testing.T, opts ...RegistryOption) (*Registry, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)
	opts = append([]RegistryOption{WithLogger(log), WithName("test")}, opts...)
	return New(opts...), buf
}

// newMeteredRegistry returns a registry recording metrics into a manual reader.
func newMeteredRegistry(t *testing.T) (*Registry, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := observability.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	r, _ := newTestRegistry(t, WithMetrics(metrics))
	return r, reader
}

// counterTotal sums every data point of the named int64 counter.
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
