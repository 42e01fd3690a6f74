package ats

import "strings"

// Points per matched keyword and per-category ceilings
const (
	languagePoints    = 2.0
	languageCap       = 20.0
	frameworkPoints   = 1.5
	frameworkCap      = 12.0
	toolPoints        = 1.0
	toolCap           = 10.0
	methodologyPoints = 1.0
	methodologyCap    = 8.0
)

var (
	aiSignals           = []string{"machine learning", "ai", "tensorflow", "pytorch"}
	systemDesignSignals = []string{"system design", "architecture", "microservices"}
)

// keywordEvidence is the keyword output of one sub-scorer
type keywordEvidence struct {
	matched []string
	missing []string
}

func scoreTechnicalSkills(text string, tax Taxonomy) (float64, TechnicalSkillsDetails, keywordEvidence) {
	var ev keywordEvidence
	d := TechnicalSkillsDetails{
		Languages:     matchCategory(text, tax.Languages.Core, languagePoints, languageCap),
		Frameworks:    matchCategory(text, tax.Frameworks.all(), frameworkPoints, frameworkCap),
		Tools:         matchCategory(text, tax.Tools.all(), toolPoints, toolCap),
		Methodologies: matchCategory(text, tax.Methodologies, methodologyPoints, methodologyCap),
		Bonuses:       newFactor(),
	}
	for _, f := range []Factor{d.Languages, d.Frameworks, d.Tools, d.Methodologies} {
		ev.matched = append(ev.matched, f.Details...)
	}

	if d.Frameworks.Score >= 8 && d.Languages.Score >= 15 {
		d.Bonuses.add(15, "Full-Stack Proficiency")
	}
	if d.Tools.Score >= 6 {
		d.Bonuses.add(20, "Cloud & DevOps Skills")
	}
	if containsAny(text, aiSignals...) {
		d.Bonuses.add(25, "AI/ML Skills (2025 Trend)")
	}
	if containsAny(text, systemDesignSignals...) {
		d.Bonuses.add(10, "System Design Experience")
	}

	ev.missing = missingTrending(text, tax)

	score := d.Languages.Score + d.Frameworks.Score + d.Tools.Score + d.Methodologies.Score + d.Bonuses.Score
	return min(score, 100), d, ev
}

// matchCategory awards points for every keyword found in text, capped at
// ceiling. The matched keywords become the factor's evidence.
func matchCategory(text string, keywords []string, points, ceiling float64) Factor {
	f := newFactor()
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			f.add(points, kw)
		}
	}
	f.capAt(ceiling)
	return f
}

// missingTrending lists trending languages and frameworks absent from text
func missingTrending(text string, tax Taxonomy) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, kw := range flatten(tax.Languages.Trending, tax.Frameworks.Trending) {
		if seen[kw] || strings.Contains(text, kw) {
			continue
		}
		seen[kw] = true
		missing = append(missing, kw)
	}
	return missing
}
