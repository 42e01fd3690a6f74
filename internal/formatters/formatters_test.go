package formatters

import (
	"encoding/json"
	"testing"

	"resumescore/internal/ats"
	"resumescore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() ats.Report {
	r := ats.Report{
		Overall: 72,
		Breakdown: ats.Breakdown{
			TechnicalSkills: 80, Experience: 65.5, Achievements: 40,
			Projects: 30, Education: 20, Format: 90,
		},
		Suggestions:     []string{"Add more quantified achievements"},
		KeywordMatches:  []string{"go", "kubernetes"},
		MissingKeywords: []string{"rust"},
	}
	r.Details.TechnicalSkills.Languages = ats.Factor{Score: 16, Details: []string{"go"}}
	return r
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		data     any
		format   string
		contains []string
	}{
		{
			name:     "report text",
			data:     sampleReport(),
			format:   "text",
			contains: []string{"=== ATS SCORE ===", "Overall: 72/100", "Languages", "(go)", "Matched: go, kubernetes", "Missing: rust", "1. Add more quantified achievements"},
		},
		{
			name:     "report markdown",
			data:     sampleReport(),
			format:   "markdown",
			contains: []string{"# ATS Score: 72/100", "## Breakdown", "| **Experience** | | **65.5** | |", "- Add more quantified achievements"},
		},
		{
			name:     "batch text",
			data:     []types.ScoredResume{{Source: "a.json", Report: sampleReport()}, {Source: "b.json", Report: ats.Report{Overall: 10}}},
			format:   "text",
			contains: []string{"##### a.json #####", "##### b.json #####", "Overall: 10/100", "Matched: none"},
		},
		{
			name:     "batch markdown",
			data:     []types.ScoredResume{{Source: "a.json", Report: sampleReport()}},
			format:   "markdown",
			contains: []string{"| a.json | 72 |", "## a.json", "### ATS Score: 72/100", "#### Keywords"},
		},
		{
			name: "review text",
			data: types.ResumeReview{
				Suggestions:            []string{"Lead with impact"},
				KeywordRecommendations: []string{"terraform"},
				OverallFeedback:        "Solid resume",
			},
			format:   "text",
			contains: []string{"=== OVERALL FEEDBACK ===", "Solid resume", "1. Lead with impact", "- terraform"},
		},
		{
			name:     "review markdown",
			data:     types.FallbackReview(),
			format:   "markdown",
			contains: []string{"# Resume Review", "Analysis temporarily unavailable"},
		},
		{
			name:     "keywords text",
			data:     types.KeywordRecommendations{Keywords: []string{"graphql", "grpc"}},
			format:   "text",
			contains: []string{"=== KEYWORDS TO ADD ===", "- graphql", "- grpc"},
		},
		{
			name:     "keywords text empty",
			data:     types.KeywordRecommendations{},
			format:   "text",
			contains: []string{"No additional keywords recommended."},
		},
		{
			name:     "keywords markdown",
			data:     types.KeywordRecommendations{Keywords: []string{"graphql"}},
			format:   "markdown",
			contains: []string{"# Keywords to Add", "- `graphql`"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := registry.Format(tt.data, tt.format)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestJSONFormatterIsFallback(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleReport(), "json")
	require.NoError(t, err)

	var decoded ats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 72, decoded.Overall)
	assert.Equal(t, []string{"rust"}, decoded.MissingKeywords)

	// unregistered types still render as json
	out, err = registry.Format(map[string]int{"n": 1}, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, out)
}

func TestUnknownFormatOrType(t *testing.T) {
	registry := NewFormatterRegistry()

	_, err := registry.Format(sampleReport(), "yaml")
	assert.ErrorContains(t, err, "no formatter found for format 'yaml'")

	_, err = registry.Format(map[string]int{}, "text")
	assert.ErrorContains(t, err, "type 'any'")
}

func TestFormatterRejectsWrongType(t *testing.T) {
	_, err := (&ReportTextFormatter{}).Format(types.ResumeReview{})
	assert.Error(t, err)
	_, err = (&ReviewMarkdownFormatter{}).Format(ats.Report{})
	assert.Error(t, err)
	_, err = (&BatchTextFormatter{}).Format(ats.Report{})
	assert.Error(t, err)
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text"}, NewFormatterRegistry().GetSupportedFormats())
}
