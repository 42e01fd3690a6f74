package types

import "resumescore/internal/ats"

// ReviewResumeInput represents the input for an AI resume review
type ReviewResumeInput struct {
	Resume ats.ResumeDocument `json:"resume"`
}

// ResumeReview represents AI feedback on a resume
type ResumeReview struct {
	Suggestions            []string `json:"suggestions"`
	KeywordRecommendations []string `json:"keywordRecommendations"`
	ImprovementAreas       []string `json:"improvementAreas"`
	OverallFeedback        string   `json:"overallFeedback"`
}

// Normalize fills absent lists and feedback the model omitted
func (r ResumeReview) Normalize() ResumeReview {
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	if r.KeywordRecommendations == nil {
		r.KeywordRecommendations = []string{}
	}
	if r.ImprovementAreas == nil {
		r.ImprovementAreas = []string{}
	}
	if r.OverallFeedback == "" {
		r.OverallFeedback = "No feedback available"
	}
	return r
}

// FallbackReview is returned when the AI service cannot produce a review
func FallbackReview() ResumeReview {
	return ResumeReview{
		Suggestions:            []string{"Unable to analyze resume at this time. Please try again later."},
		KeywordRecommendations: []string{},
		ImprovementAreas:       []string{},
		OverallFeedback:        "Analysis temporarily unavailable",
	}
}

// MatchKeywordsInput represents the input for job keyword matching
type MatchKeywordsInput struct {
	Resume         ats.ResumeDocument `json:"resume"`
	JobDescription string             `json:"jobDescription"`
}

// KeywordRecommendations lists keywords to add so a resume better matches a job
type KeywordRecommendations struct {
	Keywords []string `json:"keywords"`
}

// ScoredResume pairs a report with the file or request it came from
type ScoredResume struct {
	Source string     `json:"source"`
	Report ats.Report `json:"report"`
}
