package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumescore/internal/ai"
)

// healthCheckTimeout bounds the AI model and cache probes of /health
const healthCheckTimeout = 5 * time.Second

var errUnsupportedContentType = errors.New("content-type must be application/json")

// healthHandler reports scorer, AI model and cache status. Missing AI models
// or an unreachable cache degrade the status but never fail the check, since
// scoring still works without them.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	state := s.scorer.Load()
	response := map[string]any{
		"status":  "healthy",
		"service": "resumescore",
		"version": s.Version,
		"scorer": map[string]any{
			"taxonomy_keywords": state.scorer.Taxonomy().Size(),
			"generation":        state.generation,
			"watching_taxonomy": s.Watcher != nil && s.Watcher.IsRunning(),
		},
	}

	aiStatus, aiHealthy := s.checkAIModelsHealth(ctx)
	response["ai_models"] = aiStatus

	cacheStatus, cacheHealthy := s.checkCacheHealth(ctx)
	response["cache"] = cacheStatus

	if !aiHealthy || !cacheHealthy {
		response["status"] = "degraded"
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// checkAIModelsHealth reports the model behind each AI operation
func (s *Server) checkAIModelsHealth(ctx context.Context) (map[string]any, bool) {
	if s.Reviewer == nil && s.Keywords == nil {
		return map[string]any{"enabled": false}, true
	}

	healthy := true
	status := map[string]any{"enabled": true}
	for name, svc := range map[string]interface {
		GetModelInfo(ctx context.Context) *ai.ModelInfo
	}{
		ai.OperationReview:   s.Reviewer,
		ai.OperationKeywords: s.Keywords,
	} {
		if svc == nil {
			continue
		}
		info := svc.GetModelInfo(ctx)
		if info == nil || !info.Available {
			healthy = false
		}
		status[name] = info
	}
	return status, healthy
}

// checkCacheHealth pings the report cache when it supports it
func (s *Server) checkCacheHealth(ctx context.Context) (map[string]any, bool) {
	if s.Cache == nil {
		return map[string]any{"enabled": false}, true
	}

	status := map[string]any{"enabled": true, "status": "ok"}
	if pinger, ok := s.Cache.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			status["status"] = "unreachable"
			status["error"] = err.Error()
			return status, false
		}
	}
	return status, true
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	state := s.scorer.Load()
	response := map[string]any{
		"service": "resumescore",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"scorer": map[string]any{
			"generation":  state.generation,
			"fingerprint": state.fingerprint.String(),
			"weights":     state.scorer.Weights(),
		},
		"cache_enabled": s.Cache != nil,
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// readJSONBody reads a request body that must be declared as JSON
func readJSONBody(r *http.Request) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, errUnsupportedContentType
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, fmt.Errorf("request body too large (limit is %d bytes): %w", maxBytesErr.Limit, err)
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	return body, nil
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	body, err := readJSONBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeRequestError maps a body read or parse failure to a response
func writeRequestError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		writeErrorResponse(w, "Request too large", err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, errUnsupportedContentType):
		writeErrorResponse(w, "Unsupported media type", err.Error(), http.StatusUnsupportedMediaType)
	default:
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
	}
}

// writeJSONResponse writes v as the JSON body of a response
func writeJSONResponse(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
