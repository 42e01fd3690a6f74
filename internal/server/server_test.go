package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resumescore/internal/ai"
	"resumescore/internal/ats"
	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `{
  "contact": {"firstName": "Ada", "email": "ada@example.com", "github": "github.com/ada"},
  "summary": {"content": "Backend engineer building Go services on AWS"},
  "skills": {"languages": "Go, Python", "tools": "Docker, Kubernetes"},
  "experiences": [
    {"id": "e1", "title": "Senior Software Engineer", "company": "Acme", "startDate": "2019-01", "current": true,
     "description": "Led a team of 5 engineers and reduced latency by 40%"}
  ]
}`

type fakeReviewer struct {
	review types.ResumeReview
	err    error
	calls  int
}

func (f *fakeReviewer) ReviewResume(ctx context.Context, doc ats.ResumeDocument) (types.ResumeReview, *ai.TokenUsage, error) {
	f.calls++
	return f.review, &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, f.err
}

func (f *fakeReviewer) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake-review", Available: f.err == nil}
}

type fakeKeywords struct {
	keywords []string
	err      error
	lastJD   string
}

func (f *fakeKeywords) MatchKeywords(ctx context.Context, doc ats.ResumeDocument, jobDescription string) (types.KeywordRecommendations, *ai.TokenUsage, error) {
	f.lastJD = jobDescription
	return types.KeywordRecommendations{Keywords: f.keywords}, nil, f.err
}

func (f *fakeKeywords) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake-keywords", Available: true}
}

func testLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
}

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	s := NewServer(&config.Config{}, cfg, testLogger())
	t.Cleanup(s.Close)
	return s
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestScoreEndpoint(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	h := s.Handler(nil)

	rec := doRequest(t, h, http.MethodPost, "/score", sampleResume, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("X-Cache"))

	report := decodeBody[ats.Report](t, rec)
	want := s.Scorer().Score(mustDecode(t, sampleResume))
	assert.Equal(t, want.Overall, report.Overall)
	assert.GreaterOrEqual(t, report.Overall, 0)
	assert.LessOrEqual(t, report.Overall, 100)
	assert.Contains(t, report.KeywordMatches, "python")
}

func TestScoreEndpointRejectsBadDocuments(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	h := s.Handler(nil)

	t.Run("schema violation", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/score", `{"experiences": {"title": "x"}}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "Invalid resume", resp.Error)
		require.NotEmpty(t, resp.Violations)
		assert.Equal(t, "experiences", resp.Violations[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/score", `{"contact":`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, decodeBody[ErrorResponse](t, rec).Violations)
	})

	t.Run("wrong content type", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/score", sampleResume, map[string]string{"Content-Type": "text/plain"})
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/score", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestScoreEndpointRequestTooLarge(t *testing.T) {
	s := newTestServer(t, ServerConfig{MaxRequestSize: 16})
	rec := doRequest(t, s.Handler(nil), http.MethodPost, "/score", sampleResume, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request too large", decodeBody[ErrorResponse](t, rec).Error)
}

func TestScoreEndpointUsesCache(t *testing.T) {
	cache, _ := newMiniredisCache(t)
	s := newTestServer(t, ServerConfig{Cache: cache})
	h := s.Handler(nil)

	first := doRequest(t, h, http.MethodPost, "/score", sampleResume, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := doRequest(t, h, http.MethodPost, "/score", sampleResume, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// Reloading an identical scorer keeps its reports
	s.SwapScorer(ats.NewScorer())
	third := doRequest(t, h, http.MethodPost, "/score", sampleResume, nil)
	assert.Equal(t, "HIT", third.Header().Get("X-Cache"))

	// Different weights must not reuse reports of the old scorer
	s.SwapScorer(ats.NewScorer(ats.WithWeights(ats.DefaultWeights().Normalized())))
	fourth := doRequest(t, h, http.MethodPost, "/score", sampleResume, nil)
	assert.Equal(t, "MISS", fourth.Header().Get("X-Cache"))
}

func TestScoreEndpointSharedCacheAcrossScorers(t *testing.T) {
	mr := miniredis.RunT(t)
	newCache := func() *RedisReportCache {
		cache, err := NewRedisReportCache(context.Background(), config.CacheConfig{Address: mr.Addr(), TTL: time.Hour})
		require.NoError(t, err)
		return cache
	}

	// Both replicas start at generation 0 with different weights
	a := newTestServer(t, ServerConfig{Cache: newCache()})
	b := newTestServer(t, ServerConfig{
		Cache:  newCache(),
		Scorer: ats.NewScorer(ats.WithWeights(ats.DefaultWeights().Normalized())),
	})

	recA := doRequest(t, a.Handler(nil), http.MethodPost, "/score", sampleResume, nil)
	require.Equal(t, http.StatusOK, recA.Code)
	assert.Equal(t, "MISS", recA.Header().Get("X-Cache"))

	recB := doRequest(t, b.Handler(nil), http.MethodPost, "/score", sampleResume, nil)
	require.Equal(t, http.StatusOK, recB.Code)
	assert.Equal(t, "MISS", recB.Header().Get("X-Cache"))

	want := b.Scorer().Score(mustDecode(t, sampleResume))
	assert.Equal(t, want.Overall, decodeBody[ats.Report](t, recB).Overall)
	assert.NotEqual(t, decodeBody[ats.Report](t, recA).Overall, decodeBody[ats.Report](t, recB).Overall)

	// A restarted replica with the same settings reuses the stored report
	restarted := newTestServer(t, ServerConfig{Cache: newCache()})
	recRestart := doRequest(t, restarted.Handler(nil), http.MethodPost, "/score", sampleResume, nil)
	assert.Equal(t, "HIT", recRestart.Header().Get("X-Cache"))
	assert.JSONEq(t, recA.Body.String(), recRestart.Body.String())
}

func TestScoreEndpointSurvivesCacheOutage(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	s := newTestServer(t, ServerConfig{Cache: cache})
	mr.Close()

	rec := doRequest(t, s.Handler(nil), http.MethodPost, "/score", sampleResume, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestReviewEndpoint(t *testing.T) {
	body := fmt.Sprintf(`{"resume": %s}`, sampleResume)

	t.Run("success", func(t *testing.T) {
		reviewer := &fakeReviewer{review: types.ResumeReview{
			Suggestions:     []string{"Quantify impact"},
			OverallFeedback: "Solid",
		}}
		s := newTestServer(t, ServerConfig{Reviewer: reviewer})

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/review", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, rec.Header().Get("X-AI-Degraded"))
		review := decodeBody[types.ResumeReview](t, rec)
		assert.Equal(t, []string{"Quantify impact"}, review.Suggestions)
		assert.Equal(t, 1, reviewer.calls)
	})

	t.Run("model failure falls back", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{Reviewer: &fakeReviewer{err: fmt.Errorf("quota exceeded")}})

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/review", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("X-AI-Degraded"))
		assert.Equal(t, types.FallbackReview(), decodeBody[types.ResumeReview](t, rec))
	})

	t.Run("missing resume", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{Reviewer: &fakeReviewer{}})

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/review", `{}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Message, "resume is required")
	})

	t.Run("ai disabled", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{})

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/review", body, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestKeywordsEndpoint(t *testing.T) {
	t.Run("success trims job description", func(t *testing.T) {
		kw := &fakeKeywords{keywords: []string{"terraform", "grpc"}}
		s := newTestServer(t, ServerConfig{Keywords: kw})
		body := fmt.Sprintf(`{"resume": %s, "jobDescription": "  Platform engineer with Terraform  "}`, sampleResume)

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/keywords", body, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"terraform", "grpc"}, decodeBody[types.KeywordRecommendations](t, rec).Keywords)
		assert.Equal(t, "Platform engineer with Terraform", kw.lastJD)
	})

	t.Run("blank job description", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{Keywords: &fakeKeywords{}})
		body := fmt.Sprintf(`{"resume": %s, "jobDescription": "   "}`, sampleResume)

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/keywords", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing job description", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{Keywords: &fakeKeywords{}})
		body := fmt.Sprintf(`{"resume": %s}`, sampleResume)

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/keywords", body, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, rec).Message, "jobDescription is required")
	})

	t.Run("model failure falls back", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{Keywords: &fakeKeywords{err: fmt.Errorf("timeout")}})
		body := fmt.Sprintf(`{"resume": %s, "jobDescription": "Go developer"}`, sampleResume)

		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/keywords", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("X-AI-Degraded"))
		assert.JSONEq(t, `{"keywords": []}`, rec.Body.String())
	})

	t.Run("ai disabled", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{})
		rec := doRequest(t, s.Handler(nil), http.MethodPost, "/keywords", `{}`, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy without optional components", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{})
		rec := doRequest(t, s.Handler(nil), http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "resumescore", resp["service"])
		scorer := resp["scorer"].(map[string]any)
		assert.Equal(t, float64(ats.DefaultTaxonomy().Size()), scorer["taxonomy_keywords"])
	})

	t.Run("unavailable model degrades", func(t *testing.T) {
		s := newTestServer(t, ServerConfig{Reviewer: &fakeReviewer{err: fmt.Errorf("down")}})
		rec := doRequest(t, s.Handler(nil), http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "degraded", decodeBody[map[string]any](t, rec)["status"])
	})

	t.Run("unreachable cache degrades", func(t *testing.T) {
		cache, mr := newMiniredisCache(t)
		s := newTestServer(t, ServerConfig{Cache: cache})
		mr.Close()

		rec := doRequest(t, s.Handler(nil), http.MethodGet, "/health", "", nil)
		resp := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "degraded", resp["status"])
		assert.Equal(t, "unreachable", resp["cache"].(map[string]any)["status"])
	})
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t, ServerConfig{
		MaxRequestSize: 1024,
		RateLimit:      &config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5, ByIP: true},
	})

	rec := doRequest(t, s.Handler(nil), http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(1024), resp["server"].(map[string]any)["max_request_size_bytes"])
	assert.Equal(t, true, resp["rate_limit_config"].(map[string]any)["enabled"])
	assert.Equal(t, false, resp["cache_enabled"])
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	h := s.Handler(nil)

	rec := doRequest(t, h, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = doRequest(t, h, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestReloadTaxonomy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages:\n  core: [Go, Rust]\n"), 0o600))

	s := NewServer(&config.Config{Scoring: config.ScoringConfig{TaxonomyFile: path}}, ServerConfig{}, testLogger())
	t.Cleanup(s.Close)
	h := s.Handler(nil)

	require.NoError(t, s.ReloadTaxonomy(nil))
	assert.Equal(t, 2, s.Scorer().Taxonomy().Size())

	rec := doRequest(t, h, http.MethodGet, "/taxonomy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tax := decodeBody[ats.Taxonomy](t, rec)
	assert.Equal(t, []string{"go", "rust"}, tax.Languages.Core)

	// A broken file keeps the current scorer
	require.NoError(t, os.WriteFile(path, []byte("languages: {}\n"), 0o600))
	assert.Error(t, s.ReloadTaxonomy(nil))
	assert.Equal(t, 2, s.Scorer().Taxonomy().Size())
}

func TestSwapScorerIncrementsGeneration(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	assert.Equal(t, uint64(1), s.SwapScorer(ats.NewScorer()))
	assert.Equal(t, uint64(2), s.SwapScorer(ats.NewScorer()))
}

func mustDecode(t *testing.T, body string) ats.ResumeDocument {
	t.Helper()
	var doc ats.ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	return doc
}
