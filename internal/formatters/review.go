package formatters

import (
	"fmt"
	"strings"

	"resumescore/internal/types"
)

// ReviewTextFormatter handles text formatting for AI reviews
type ReviewTextFormatter struct{}

func (rtf *ReviewTextFormatter) Format(data any) (string, error) {
	review, ok := data.(types.ResumeReview)
	if !ok {
		return "", fmt.Errorf("expected ResumeReview, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== OVERALL FEEDBACK ===\n")
	output.WriteString(review.OverallFeedback)
	output.WriteString("\n")

	writeTextList(&output, "SUGGESTIONS", review.Suggestions, true)
	writeTextList(&output, "RECOMMENDED KEYWORDS", review.KeywordRecommendations, false)
	writeTextList(&output, "IMPROVEMENT AREAS", review.ImprovementAreas, false)

	return output.String(), nil
}

func (rtf *ReviewTextFormatter) SupportedType() string {
	return typeReview
}

func writeTextList(output *strings.Builder, title string, items []string, numbered bool) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", title)
	for i, item := range items {
		if numbered {
			fmt.Fprintf(output, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(output, "- %s\n", item)
		}
	}
}

// ReviewMarkdownFormatter handles markdown formatting for AI reviews
type ReviewMarkdownFormatter struct{}

func (rmf *ReviewMarkdownFormatter) Format(data any) (string, error) {
	review, ok := data.(types.ResumeReview)
	if !ok {
		return "", fmt.Errorf("expected ResumeReview, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Review\n\n")
	output.WriteString("## Overall Feedback\n\n")
	output.WriteString(review.OverallFeedback)
	output.WriteString("\n\n")

	if len(review.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, s := range review.Suggestions {
			fmt.Fprintf(&output, "%d. %s\n", i+1, s)
		}
		output.WriteString("\n")
	}
	if len(review.KeywordRecommendations) > 0 {
		output.WriteString("## Recommended Keywords\n\n")
		for _, kw := range review.KeywordRecommendations {
			fmt.Fprintf(&output, "- `%s`\n", kw)
		}
		output.WriteString("\n")
	}
	if len(review.ImprovementAreas) > 0 {
		output.WriteString("## Improvement Areas\n\n")
		for _, a := range review.ImprovementAreas {
			fmt.Fprintf(&output, "- %s\n", a)
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rmf *ReviewMarkdownFormatter) SupportedType() string {
	return typeReview
}

// KeywordsTextFormatter handles text formatting for job keyword matches
type KeywordsTextFormatter struct{}

func (ktf *KeywordsTextFormatter) Format(data any) (string, error) {
	kw, ok := data.(types.KeywordRecommendations)
	if !ok {
		return "", fmt.Errorf("expected KeywordRecommendations, got %T", data)
	}
	if len(kw.Keywords) == 0 {
		return "No additional keywords recommended.\n", nil
	}

	var output strings.Builder
	output.WriteString("=== KEYWORDS TO ADD ===\n")
	for _, k := range kw.Keywords {
		fmt.Fprintf(&output, "- %s\n", k)
	}
	return output.String(), nil
}

func (ktf *KeywordsTextFormatter) SupportedType() string {
	return typeKeywords
}

// KeywordsMarkdownFormatter handles markdown formatting for job keyword matches
type KeywordsMarkdownFormatter struct{}

func (kmf *KeywordsMarkdownFormatter) Format(data any) (string, error) {
	kw, ok := data.(types.KeywordRecommendations)
	if !ok {
		return "", fmt.Errorf("expected KeywordRecommendations, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Keywords to Add\n\n")
	if len(kw.Keywords) == 0 {
		output.WriteString("_No additional keywords recommended._\n")
		return output.String(), nil
	}
	for _, k := range kw.Keywords {
		fmt.Fprintf(&output, "- `%s`\n", k)
	}
	return output.String(), nil
}

func (kmf *KeywordsMarkdownFormatter) SupportedType() string {
	return typeKeywords
}
