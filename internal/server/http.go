package server

import (
	"context"
	"encoding/json"
	"io"
	"sync/atomic"
	"time"

	"resumescore/internal/ai"
	"resumescore/internal/ats"
	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/resume"
	"resumescore/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ReviewRequest represents the request body for the review endpoint
type ReviewRequest struct {
	Resume json.RawMessage `json:"resume" validate:"required"`
}

// KeywordsRequest represents the request body for the keywords endpoint
type KeywordsRequest struct {
	Resume         json.RawMessage `json:"resume" validate:"required"`
	JobDescription string          `json:"jobDescription" validate:"required,max=20000"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string              `json:"error"`
	Message    string              `json:"message,omitempty"`
	Violations []resume.FieldError `json:"violations,omitempty"`
}

// ReviewService produces AI feedback on a resume
type ReviewService interface {
	ReviewResume(ctx context.Context, doc ats.ResumeDocument) (types.ResumeReview, *ai.TokenUsage, error)
	GetModelInfo(ctx context.Context) *ai.ModelInfo
}

// KeywordService finds job keywords a resume is missing
type KeywordService interface {
	MatchKeywords(ctx context.Context, doc ats.ResumeDocument, jobDescription string) (types.KeywordRecommendations, *ai.TokenUsage, error)
	GetModelInfo(ctx context.Context) *ai.ModelInfo
}

// scorerState is the active scorer, the generation it was loaded in and a
// fingerprint of its taxonomy and weights. Cache keys use the fingerprint so
// replicas and restarts only share reports scored by an identical scorer.
type scorerState struct {
	scorer      *ats.Scorer
	generation  uint64
	fingerprint uuid.UUID
}

func newScorerState(scorer *ats.Scorer, generation uint64) *scorerState {
	return &scorerState{
		scorer:      scorer,
		generation:  generation,
		fingerprint: scorerFingerprint(scorer),
	}
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool
	JWTAuth *JWTAuthenticator

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Scoring, swapped atomically on taxonomy reload
	scorer atomic.Pointer[scorerState]

	// Optional collaborators, nil when not configured
	Cache    ReportCache
	Reviewer ReviewService
	Keywords KeywordService
	Watcher  *TaxonomyWatcher

	validate *validator.Validate

	// Logger
	Logger *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	JWT            config.JWTConfig
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig

	Scorer   *ats.Scorer
	Cache    ReportCache
	Reviewer ReviewService
	Keywords KeywordService
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *errors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	var jwtAuth *JWTAuthenticator
	if cfg.JWT.Secret != "" {
		jwtAuth = NewJWTAuthenticator(cfg.JWT.Secret, cfg.JWT.Issuer)
	}

	scorer := cfg.Scorer
	if scorer == nil {
		scorer = ats.NewScorer()
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		JWTAuth:        jwtAuth,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Cache:          cfg.Cache,
		Reviewer:       cfg.Reviewer,
		Keywords:       cfg.Keywords,
		validate:       newValidator(),
		Logger:         logger,
	}
	s.scorer.Store(newScorerState(scorer, 0))
	return s
}

// NewServerFromConfig builds a server and its collaborators (scorer, AI
// services, report cache) from the application configuration.
func NewServerFromConfig(appCfg *config.Config, version string, logger *errors.Logger) (*Server, error) {
	scorer, err := config.BuildScorer(appCfg.Scoring)
	if err != nil {
		return nil, err
	}

	sc := ServerConfig{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		TLSConfig:      appCfg.Server.TLS,
		APIKeys:        appCfg.Server.APIKeys,
		JWT:            appCfg.Server.JWT,
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxRequestSize: appCfg.Server.MaxRequestSize,
		RateLimit:      &appCfg.Server.RateLimit,
		Scorer:         scorer,
	}

	if appCfg.AI.Enabled {
		review, err := ai.NewServiceForOperation(appCfg, ai.OperationReview, logger)
		if err != nil {
			return nil, err
		}
		keywords, err := ai.NewServiceForOperation(appCfg, ai.OperationKeywords, logger)
		if err != nil {
			_ = review.Close()
			return nil, err
		}
		sc.Reviewer, sc.Keywords = review, keywords
	}

	if appCfg.Cache.Enabled {
		cache, err := NewRedisReportCache(context.Background(), appCfg.Cache)
		if err != nil {
			// Scoring works without the cache
			logger.LogError(err, "Report cache unavailable, continuing without it")
		} else {
			sc.Cache = cache
		}
	}

	return NewServer(appCfg, sc, logger), nil
}

// Scorer returns the active scorer
func (s *Server) Scorer() *ats.Scorer {
	return s.scorer.Load().scorer
}

// SwapScorer installs a new scorer and returns its generation
func (s *Server) SwapScorer(scorer *ats.Scorer) uint64 {
	fingerprint := scorerFingerprint(scorer)
	for {
		old := s.scorer.Load()
		next := &scorerState{scorer: scorer, generation: old.generation + 1, fingerprint: fingerprint}
		if s.scorer.CompareAndSwap(old, next) {
			return next.generation
		}
	}
}

// Close releases the server's collaborators
func (s *Server) Close() {
	s.cleanupRateLimiter()
	if s.Watcher != nil {
		if err := s.Watcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop taxonomy watcher")
		}
	}
	for name, c := range map[string]any{"cache": s.Cache, "review": s.Reviewer, "keywords": s.Keywords} {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				s.Logger.LogError(err, "Failed to close server component", "component", name)
			}
		}
	}
}
