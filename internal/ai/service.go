package ai

import (
	"context"
	"fmt"
	"strings"

	"resumescore/internal/ats"
	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/types"
)

// Operation names used for per-operation configuration and metrics
const (
	OperationReview   = "review"
	OperationKeywords = "keywords"
)

// Service handles AI operations for one configured operation
type Service struct {
	Provider AIProvider
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	if cfg.Timeout == nil || cfg.MaxRetries == nil || cfg.Temperature == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"AI operation config is missing defaults", nil).WithContext("operation", operationType)
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries)

	var provider AIProvider
	var err error
	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// NewServiceForOperation builds the service for a named operation, failing
// with AI_DISABLED when AI features are switched off.
func NewServiceForOperation(cfg *config.Config, operation string, logger *errors.Logger) (*Service, error) {
	if !cfg.AI.Enabled {
		return nil, errors.NewConfigError(errors.ErrCodeAIDisabled,
			"AI features are disabled (set ai.enabled)", nil)
	}

	var opCfg config.OperationAIConfig
	switch operation {
	case OperationReview:
		opCfg = cfg.GetReviewConfig()
	case OperationKeywords:
		opCfg = cfg.GetKeywordsConfig()
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unknown AI operation: %s", operation), nil)
	}
	return NewService(&opCfg, operation, logger)
}

// ReviewResume asks the provider for feedback on doc
func (s *Service) ReviewResume(ctx context.Context, doc ats.ResumeDocument) (types.ResumeReview, *TokenUsage, error) {
	return s.Provider.ReviewResume(ctx, types.ReviewResumeInput{Resume: doc})
}

// MatchKeywords asks the provider which job keywords doc is missing
func (s *Service) MatchKeywords(ctx context.Context, doc ats.ResumeDocument, jobDescription string) (types.KeywordRecommendations, *TokenUsage, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return types.KeywordRecommendations{}, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Job description is required", nil)
	}
	return s.Provider.MatchKeywords(ctx, types.MatchKeywordsInput{Resume: doc, JobDescription: jobDescription})
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}
