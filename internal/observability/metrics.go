package observability

import (
	"context"
	"fmt"
	"time"

	"resumescore/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application instruments. All methods are safe to call on
// a nil receiver and skip metric groups switched off in configuration.
type Metrics struct {
	settings config.CustomMetricsConfig

	// Scoring metrics
	ScoringDuration metric.Float64Histogram
	ResumesScored   metric.Int64Counter
	OverallScore    metric.Int64Histogram

	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram
	AIFallbacks      metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits   metric.Int64Counter
	CacheLookups    metric.Int64Counter
	TaxonomyReloads metric.Int64Counter
}

// NewMetrics creates every application instrument on meter
func NewMetrics(meter metric.Meter, settings config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{settings: settings}
	var err error

	if m.ScoringDuration, err = meter.Float64Histogram(
		"resumescore_scoring_duration_seconds",
		metric.WithDescription("Time spent scoring one resume"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create scoring duration metric: %w", err)
	}
	if m.ResumesScored, err = meter.Int64Counter(
		"resumescore_resumes_scored_total",
		metric.WithDescription("Total number of resumes scored"),
	); err != nil {
		return nil, fmt.Errorf("failed to create resumes scored metric: %w", err)
	}
	if m.OverallScore, err = meter.Int64Histogram(
		"resumescore_overall_score",
		metric.WithDescription("Distribution of overall ATS scores"),
		metric.WithExplicitBucketBoundaries(20, 40, 60, 70, 80, 90, 100, 120),
	); err != nil {
		return nil, fmt.Errorf("failed to create overall score metric: %w", err)
	}

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"resumescore_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter(
		"resumescore_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter(
		"resumescore_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumescore_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}
	if m.AIFallbacks, err = meter.Int64Counter(
		"resumescore_ai_fallbacks_total",
		metric.WithDescription("Total number of AI responses replaced by a fallback"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI fallback metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumescore_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}
	if m.CacheLookups, err = meter.Int64Counter(
		"resumescore_cache_lookups_total",
		metric.WithDescription("Report cache lookups by result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookup metric: %w", err)
	}
	if m.TaxonomyReloads, err = meter.Int64Counter(
		"resumescore_taxonomy_reloads_total",
		metric.WithDescription("Total number of taxonomy reloads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create taxonomy reload metric: %w", err)
	}

	return m, nil
}

// RecordScore records one scored resume. source is "cli" or "http".
func (m *Metrics) RecordScore(ctx context.Context, source string, duration time.Duration, overall int) {
	if m == nil || !m.settings.Scoring.Enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.ResumesScored.Add(ctx, 1, attrs)
	m.ScoringDuration.Record(ctx, duration.Seconds(), attrs)
	if m.settings.Scoring.TrackDistribution {
		m.OverallScore.Record(ctx, int64(overall), attrs)
	}
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TrackAIOperation instruments an AI operation with tracing, metrics and token usage
func (m *Metrics) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	tracer := otel.Tracer("resumescore.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	if result != nil && result.TokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
		)
	}

	if m == nil || !m.settings.AIOperations.Enabled {
		return err
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	span.SetAttributes(attrs...)

	if m.settings.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if m.settings.AIOperations.TrackTokenUsage && result != nil && result.TokenUsage != nil {
		m.recordTokenUsage(ctx, operation, result.TokenUsage)
	}

	return err
}

func (m *Metrics) recordTokenUsage(ctx context.Context, operation string, usage *TokenUsage) {
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordAIFallback counts an AI failure answered with a fallback response
func (m *Metrics) RecordAIFallback(ctx context.Context, operation string) {
	if m == nil || !m.settings.AIOperations.Enabled {
		return
	}
	m.AIFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordRateLimitHit counts a request rejected by the rate limiter. keyType
// is "ip" or "api_key".
func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	if m == nil || !m.settings.Infrastructure.Enabled || !m.settings.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
}

// RecordCacheLookup counts a report cache lookup
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil || !m.settings.Infrastructure.Enabled || !m.settings.Infrastructure.TrackCache {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordTaxonomyReload counts a taxonomy reload attempt
func (m *Metrics) RecordTaxonomyReload(ctx context.Context, success bool) {
	if m == nil || !m.settings.Infrastructure.Enabled {
		return
	}
	m.TaxonomyReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
