package formatters

import (
	"fmt"
	"strings"

	"resumescore/internal/ats"
	"resumescore/internal/types"
)

type namedFactor struct {
	name   string
	factor ats.Factor
}

type area struct {
	title   string
	score   float64
	factors []namedFactor
}

// areas lists the six sub-scores in report order
func areas(r ats.Report) []area {
	d := r.Details
	return []area{
		{"Technical Skills", r.Breakdown.TechnicalSkills, []namedFactor{
			{"Languages", d.TechnicalSkills.Languages},
			{"Frameworks", d.TechnicalSkills.Frameworks},
			{"Tools", d.TechnicalSkills.Tools},
			{"Methodologies", d.TechnicalSkills.Methodologies},
			{"Bonuses", d.TechnicalSkills.Bonuses},
		}},
		{"Experience", r.Breakdown.Experience, []namedFactor{
			{"Years", d.Experience.Years},
			{"Title", d.Experience.Title},
			{"Company", d.Experience.Company},
			{"Progression", d.Experience.Progression},
			{"Bonuses", d.Experience.Bonuses},
		}},
		{"Achievements", r.Breakdown.Achievements, []namedFactor{
			{"Metrics", d.Achievements.Metrics},
			{"Scale", d.Achievements.Scale},
			{"Quality", d.Achievements.Quality},
			{"Leadership", d.Achievements.Leadership},
			{"Business", d.Achievements.Business},
		}},
		{"Projects", r.Breakdown.Projects, []namedFactor{
			{"Complexity", d.Projects.Complexity},
			{"Portfolio", d.Projects.Portfolio},
			{"Documentation", d.Projects.Documentation},
		}},
		{"Education", r.Breakdown.Education, []namedFactor{
			{"Degree", d.Education.Degree},
			{"University", d.Education.University},
			{"Certifications", d.Education.Certifications},
		}},
		{"Format", r.Breakdown.Format, []namedFactor{
			{"Structure", d.Format.Structure},
			{"Headers", d.Format.Headers},
			{"Contact", d.Format.Contact},
		}},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// ReportTextFormatter handles text formatting for score reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(ats.Report)
	if !ok {
		return "", fmt.Errorf("expected ats.Report, got %T", data)
	}
	var output strings.Builder
	writeReportText(&output, report)
	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return typeReport
}

func writeReportText(output *strings.Builder, report ats.Report) {
	output.WriteString("=== ATS SCORE ===\n")
	fmt.Fprintf(output, "Overall: %d/100\n\n", report.Overall)

	output.WriteString("=== BREAKDOWN ===\n")
	for _, a := range areas(report) {
		fmt.Fprintf(output, "%-17s %6.1f\n", a.title, a.score)
		for _, f := range a.factors {
			fmt.Fprintf(output, "  %-15s %6.1f", f.name, f.factor.Score)
			if len(f.factor.Details) > 0 {
				fmt.Fprintf(output, "  (%s)", strings.Join(f.factor.Details, ", "))
			}
			output.WriteString("\n")
		}
	}
	output.WriteString("\n")

	output.WriteString("=== KEYWORDS ===\n")
	fmt.Fprintf(output, "Matched: %s\n", joinOrNone(report.KeywordMatches))
	fmt.Fprintf(output, "Missing: %s\n", joinOrNone(report.MissingKeywords))

	if len(report.Suggestions) > 0 {
		output.WriteString("\n=== SUGGESTIONS ===\n")
		for i, s := range report.Suggestions {
			fmt.Fprintf(output, "%d. %s\n", i+1, s)
		}
	}
}

// ReportMarkdownFormatter handles markdown formatting for score reports
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(ats.Report)
	if !ok {
		return "", fmt.Errorf("expected ats.Report, got %T", data)
	}
	var output strings.Builder
	writeReportMarkdown(&output, report, "#")
	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return typeReport
}

func writeReportMarkdown(output *strings.Builder, report ats.Report, level string) {
	fmt.Fprintf(output, "%s ATS Score: %d/100\n\n", level, report.Overall)

	fmt.Fprintf(output, "%s# Breakdown\n\n", level)
	output.WriteString("| Area | Factor | Score | Evidence |\n")
	output.WriteString("|------|--------|------:|----------|\n")
	for _, a := range areas(report) {
		fmt.Fprintf(output, "| **%s** | | **%.1f** | |\n", a.title, a.score)
		for _, f := range a.factors {
			fmt.Fprintf(output, "| | %s | %.1f | %s |\n", f.name, f.factor.Score, strings.Join(f.factor.Details, ", "))
		}
	}
	output.WriteString("\n")

	fmt.Fprintf(output, "%s# Keywords\n\n", level)
	fmt.Fprintf(output, "**Matched:** %s\n\n", joinOrNone(report.KeywordMatches))
	fmt.Fprintf(output, "**Missing:** %s\n\n", joinOrNone(report.MissingKeywords))

	if len(report.Suggestions) > 0 {
		fmt.Fprintf(output, "%s# Suggestions\n\n", level)
		for _, s := range report.Suggestions {
			fmt.Fprintf(output, "- %s\n", s)
		}
		output.WriteString("\n")
	}
}

// BatchTextFormatter handles text formatting for several scored resumes
type BatchTextFormatter struct{}

func (btf *BatchTextFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.ScoredResume)
	if !ok {
		return "", fmt.Errorf("expected []types.ScoredResume, got %T", data)
	}

	var output strings.Builder
	for i, r := range results {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "##### %s #####\n", r.Source)
		writeReportText(&output, r.Report)
	}
	return output.String(), nil
}

func (btf *BatchTextFormatter) SupportedType() string {
	return typeBatch
}

// BatchMarkdownFormatter handles markdown formatting for several scored resumes
type BatchMarkdownFormatter struct{}

func (bmf *BatchMarkdownFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.ScoredResume)
	if !ok {
		return "", fmt.Errorf("expected []types.ScoredResume, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# ATS Scores\n\n")
	output.WriteString("| Resume | Overall |\n|--------|--------:|\n")
	for _, r := range results {
		fmt.Fprintf(&output, "| %s | %d |\n", r.Source, r.Report.Overall)
	}
	output.WriteString("\n")

	for _, r := range results {
		fmt.Fprintf(&output, "## %s\n\n", r.Source)
		writeReportMarkdown(&output, r.Report, "###")
	}
	return output.String(), nil
}

func (bmf *BatchMarkdownFormatter) SupportedType() string {
	return typeBatch
}
