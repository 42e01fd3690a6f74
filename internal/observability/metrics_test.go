package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumescore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, settings config.CustomMetricsConfig) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"), settings)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func counterTotal(t *testing.T, data map[string]metricdata.Aggregation, name string) int64 {
	t.Helper()
	agg, ok := data[name]
	if !ok {
		return 0
	}
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordScore(t *testing.T) {
	m, reader := newTestMetrics(t, allMetrics())

	m.RecordScore(context.Background(), "cli", 5*time.Millisecond, 72)
	m.RecordScore(context.Background(), "http", 3*time.Millisecond, 95)

	data := collect(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, data, "resumescore_resumes_scored_total"))

	hist, ok := data["resumescore_overall_score"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestRecordScoreWithoutDistribution(t *testing.T) {
	settings := allMetrics()
	settings.Scoring.TrackDistribution = false
	m, reader := newTestMetrics(t, settings)

	m.RecordScore(context.Background(), "cli", time.Millisecond, 50)

	data := collect(t, reader)
	assert.Equal(t, int64(1), counterTotal(t, data, "resumescore_resumes_scored_total"))
	assert.NotContains(t, data, "resumescore_overall_score")
}

func TestTrackAIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, allMetrics())

	err := m.TrackAIOperation(context.Background(), "review", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}
	})
	require.NoError(t, err)

	failure := fmt.Errorf("model unavailable")
	err = m.TrackAIOperation(context.Background(), "keywords", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: failure}
	})
	assert.ErrorIs(t, err, failure)

	data := collect(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, data, "resumescore_ai_requests_total"))
	assert.Equal(t, int64(1), counterTotal(t, data, "resumescore_ai_errors_total"))

	tokens, ok := data["resumescore_ai_token_usage"].(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3)
}

func TestInfrastructureMetrics(t *testing.T) {
	m, reader := newTestMetrics(t, allMetrics())
	ctx := context.Background()

	m.RecordRateLimitHit(ctx, "ip")
	m.RecordCacheLookup(ctx, true)
	m.RecordCacheLookup(ctx, false)
	m.RecordCacheLookup(ctx, false)
	m.RecordTaxonomyReload(ctx, true)
	m.RecordAIFallback(ctx, "review")

	data := collect(t, reader)
	assert.Equal(t, int64(1), counterTotal(t, data, "resumescore_rate_limit_hits_total"))
	assert.Equal(t, int64(3), counterTotal(t, data, "resumescore_cache_lookups_total"))
	assert.Equal(t, int64(1), counterTotal(t, data, "resumescore_taxonomy_reloads_total"))
	assert.Equal(t, int64(1), counterTotal(t, data, "resumescore_ai_fallbacks_total"))
}

func TestDisabledGroupsRecordNothing(t *testing.T) {
	m, reader := newTestMetrics(t, config.CustomMetricsConfig{})
	ctx := context.Background()

	m.RecordScore(ctx, "cli", time.Millisecond, 10)
	m.RecordRateLimitHit(ctx, "ip")
	m.RecordCacheLookup(ctx, true)
	_ = m.TrackAIOperation(ctx, "review", func(context.Context) *AIOperationResult { return nil })

	data := collect(t, reader)
	assert.Zero(t, counterTotal(t, data, "resumescore_resumes_scored_total"))
	assert.Zero(t, counterTotal(t, data, "resumescore_rate_limit_hits_total"))
	assert.Zero(t, counterTotal(t, data, "resumescore_cache_lookups_total"))
	assert.Zero(t, counterTotal(t, data, "resumescore_ai_requests_total"))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordScore(ctx, "cli", time.Millisecond, 10)
		m.RecordRateLimitHit(ctx, "ip")
		m.RecordCacheLookup(ctx, true)
		m.RecordTaxonomyReload(ctx, false)
		m.RecordAIFallback(ctx, "review")
	})

	called := false
	err := m.TrackAIOperation(ctx, "review", func(context.Context) *AIOperationResult {
		called = true
		return &AIOperationResult{}
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestPrometheusExporterServesMetrics(t *testing.T) {
	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Endpoint: "/metrics"})
	require.NoError(t, err)
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"), allMetrics())
	require.NoError(t, err)
	m.RecordScore(context.Background(), "http", time.Millisecond, 80)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "resumescore_resumes_scored_total")
}

func TestPrometheusExporterDisabled(t *testing.T) {
	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{})
	require.NoError(t, err)
	assert.Nil(t, reader)
	assert.Nil(t, mux)
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "resumescore"
	cfg.Observability.Prometheus.Port = "9191"

	obs := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, 15*time.Second, obs.CollectionInterval)
	assert.Equal(t, "9191", obs.Prometheus.Port)

	cfg.Observability.ServiceVersion = "custom"
	assert.Equal(t, "custom", GetObservabilityConfig(cfg, "1.2.3").ServiceVersion)

	fallback := GetObservabilityConfig(nil, "dev")
	assert.True(t, fallback.Enabled)
	assert.True(t, fallback.CustomMetrics.Scoring.Enabled)
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, om.GetMetrics())
	assert.NotNil(t, om.Tracer("test"))

	h := om.HTTPMiddleware()(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, om.Shutdown(context.Background()))
}
