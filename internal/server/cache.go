package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"resumescore/internal/ats"
	"resumescore/internal/config"
	"resumescore/internal/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReportCache stores score reports keyed by request content
type ReportCache interface {
	Get(ctx context.Context, key string) (ats.Report, bool, error)
	Set(ctx context.Context, key string, report ats.Report) error
	Close() error
}

// reportNamespace scopes cache keys derived from resume bodies
var reportNamespace = uuid.MustParse("3f1c9a52-6d0e-4c4b-9a43-2f7e8b1d5a60")

// scorerFingerprint identifies a scorer by the taxonomy and weights it
// scores with, independent of process or load order.
func scorerFingerprint(scorer *ats.Scorer) uuid.UUID {
	settings := struct {
		Taxonomy ats.Taxonomy `json:"taxonomy"`
		Weights  ats.Weights  `json:"weights"`
	}{scorer.Taxonomy(), scorer.Weights()}

	data, err := json.Marshal(settings)
	if err != nil {
		// NaN or infinite weights do not encode as JSON
		data = fmt.Appendf(nil, "%#v", settings)
	}
	return uuid.NewSHA1(reportNamespace, data)
}

// cacheKey derives a stable key for a resume body scored by the scorer with
// the given fingerprint.
func cacheKey(fingerprint uuid.UUID, body []byte) string {
	return uuid.NewSHA1(fingerprint, body).String()
}

// RedisReportCache is a ReportCache backed by Redis
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisReportCache connects to Redis and verifies the connection
func NewRedisReportCache(ctx context.Context, cfg config.CacheConfig) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewNetworkError(errors.ErrCodeCacheUnavailable,
			fmt.Sprintf("failed to connect to redis at %s", cfg.Address), err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "resumescore:report:"
	}

	return &RedisReportCache{client: client, ttl: cfg.TTL, prefix: prefix}, nil
}

// Get returns the cached report for key. A missing key is not an error.
func (c *RedisReportCache) Get(ctx context.Context, key string) (ats.Report, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if isCacheMiss(err) {
		return ats.Report{}, false, nil
	}
	if err != nil {
		return ats.Report{}, false, errors.NewNetworkError(errors.ErrCodeCacheUnavailable, "failed to read cached report", err)
	}

	var report ats.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return ats.Report{}, false, errors.NewInternalError(errors.ErrCodeCacheUnavailable, "failed to decode cached report", err)
	}
	return report, true, nil
}

// isCacheMiss reports whether err means the key does not exist
func isCacheMiss(err error) bool {
	return stderrors.Is(err, redis.Nil)
}

// Set stores report under key with the configured TTL. A zero TTL keeps the
// entry until evicted.
func (c *RedisReportCache) Set(ctx context.Context, key string, report ats.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeCacheUnavailable, "failed to encode report", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return errors.NewNetworkError(errors.ErrCodeCacheUnavailable, "failed to store report", err)
	}
	return nil
}

// Ping reports whether Redis is reachable
func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection pool
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}
