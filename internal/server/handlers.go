package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"resumescore/internal/ai"
	"resumescore/internal/ats"
	"resumescore/internal/errors"
	"resumescore/internal/observability"
	"resumescore/internal/resume"
	"resumescore/internal/types"
)

// createScoreHandler scores a resume document posted as the request body.
// Reports are cached by body and scorer fingerprint when a cache is set.
func (s *Server) createScoreHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := readJSONBody(r)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		state := s.scorer.Load()
		key := cacheKey(state.fingerprint, body)

		if s.Cache != nil {
			report, hit, err := s.Cache.Get(ctx, key)
			if err != nil {
				s.Logger.LogError(err, "Report cache lookup failed")
			} else {
				metrics.RecordCacheLookup(ctx, hit)
				if hit {
					w.Header().Set("X-Cache", "HIT")
					writeJSONResponse(w, http.StatusOK, report)
					return
				}
			}
			w.Header().Set("X-Cache", "MISS")
		}

		doc, err := resume.Decode(body)
		if err != nil {
			writeDocumentError(w, err)
			return
		}

		start := time.Now()
		report := state.scorer.Score(doc)
		metrics.RecordScore(ctx, "http", time.Since(start), report.Overall)

		s.Logger.Debug("Resume scored",
			"overall", report.Overall,
			"request_id", RequestIDFromContext(ctx))

		if s.Cache != nil {
			if err := s.Cache.Set(ctx, key, report); err != nil {
				s.Logger.LogError(err, "Failed to cache report")
			}
		}

		writeJSONResponse(w, http.StatusOK, report)
	}
}

// createReviewHandler returns AI feedback on a resume. A failing model
// yields the fallback review flagged with X-AI-Degraded.
func (s *Server) createReviewHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Reviewer == nil {
			writeAIDisabled(w)
			return
		}

		var req ReviewRequest
		doc, ok := s.decodeAIRequest(w, r, &req, func() []byte { return req.Resume })
		if !ok {
			return
		}

		var review types.ResumeReview
		err := metrics.TrackAIOperation(r.Context(), ai.OperationReview, func(ctx context.Context) *observability.AIOperationResult {
			var usage *ai.TokenUsage
			var err error
			review, usage, err = s.Reviewer.ReviewResume(ctx, doc)
			return &observability.AIOperationResult{Error: err, TokenUsage: toObservabilityUsage(usage)}
		})
		if err != nil {
			s.Logger.LogError(err, "AI review failed, serving fallback", "request_id", RequestIDFromContext(r.Context()))
			metrics.RecordAIFallback(r.Context(), ai.OperationReview)
			w.Header().Set("X-AI-Degraded", "true")
			review = types.FallbackReview()
		}

		writeJSONResponse(w, http.StatusOK, review)
	}
}

// createKeywordsHandler returns job keywords a resume is missing. A failing
// model yields an empty list flagged with X-AI-Degraded.
func (s *Server) createKeywordsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Keywords == nil {
			writeAIDisabled(w)
			return
		}

		var req KeywordsRequest
		doc, ok := s.decodeAIRequest(w, r, &req, func() []byte { return req.Resume })
		if !ok {
			return
		}
		jobDescription := strings.TrimSpace(req.JobDescription)
		if jobDescription == "" {
			writeErrorResponse(w, "Invalid request", "jobDescription is required", http.StatusBadRequest)
			return
		}

		var recs types.KeywordRecommendations
		err := metrics.TrackAIOperation(r.Context(), ai.OperationKeywords, func(ctx context.Context) *observability.AIOperationResult {
			var usage *ai.TokenUsage
			var err error
			recs, usage, err = s.Keywords.MatchKeywords(ctx, doc, jobDescription)
			return &observability.AIOperationResult{Error: err, TokenUsage: toObservabilityUsage(usage)}
		})
		if err != nil {
			s.Logger.LogError(err, "AI keyword match failed, serving fallback", "request_id", RequestIDFromContext(r.Context()))
			metrics.RecordAIFallback(r.Context(), ai.OperationKeywords)
			w.Header().Set("X-AI-Degraded", "true")
			recs = types.KeywordRecommendations{Keywords: []string{}}
		}

		writeJSONResponse(w, http.StatusOK, recs)
	}
}

// taxonomyHandler returns the taxonomy of the active scorer
func (s *Server) taxonomyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.Scorer().Taxonomy())
}

// decodeAIRequest parses and validates req, then decodes the embedded resume
// returned by resumeOf. It writes the error response itself on failure.
func (s *Server) decodeAIRequest(w http.ResponseWriter, r *http.Request, req any, resumeOf func() []byte) (ats.ResumeDocument, bool) {
	if err := parseJSONRequest(r, req); err != nil {
		writeRequestError(w, err)
		return ats.ResumeDocument{}, false
	}
	if err := s.validateRequest(req); err != nil {
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return ats.ResumeDocument{}, false
	}

	doc, err := resume.Decode(resumeOf())
	if err != nil {
		writeDocumentError(w, err)
		return ats.ResumeDocument{}, false
	}
	return doc, true
}

// writeDocumentError reports a resume that failed schema validation or decoding
func writeDocumentError(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		Error:      "Invalid resume",
		Message:    err.Error(),
		Violations: resume.Violations(err),
	}
	if appErr, ok := errors.As(err); ok {
		response.Message = appErr.Message
	}
	writeJSONResponse(w, http.StatusBadRequest, response)
}

func writeAIDisabled(w http.ResponseWriter) {
	writeErrorResponse(w, "AI disabled", "AI features are not configured on this server", http.StatusServiceUnavailable)
}

func toObservabilityUsage(usage *ai.TokenUsage) *observability.TokenUsage {
	if usage == nil {
		return nil
	}
	return &observability.TokenUsage{
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		TotalTokens:  usage.TotalTokens,
	}
}
