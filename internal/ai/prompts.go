package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	ReviewResume  string
	MatchKeywords string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	ReviewResume  string
	MatchKeywords string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	ReviewResume: `You are an expert ATS resume analyzer and software engineering career coach.

Your principles:
- Base every observation on content that is actually present in the resume
- Prefer specific, actionable advice over generic tips
- Recommend keywords that recruiters and applicant tracking systems look for in 2025

Provide detailed, actionable feedback for software engineers looking to improve their resume's ATS score and overall quality.`,

	MatchKeywords: `You are an ATS keyword optimization expert. Analyze job descriptions and provide specific keyword recommendations.

Only recommend keywords or short phrases that:
- Appear in, or are clearly implied by, the job description
- Are missing from or underrepresented in the current resume
- Would be recognised by an applicant tracking system`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	ReviewResume: `Analyze this software engineer resume and provide specific improvement suggestions based on 2025 ATS standards and industry best practices.

**Focus on:**

1. Technical keywords that should be added
2. Quantifiable achievements that could be enhanced
3. ATS optimization improvements
4. Industry-specific recommendations for software engineers

Return suggestions, keywordRecommendations, improvementAreas and a comprehensive overallFeedback paragraph.

**Resume (JSON):**
-----
%s
-----`,

	MatchKeywords: `Compare this job description with the current resume and suggest specific keywords or phrases that should be added to better match the job requirements.

**Job Description:**
-----
%s
-----

**Current Resume (JSON):**
-----
%s
-----`,
}

// resolvePrompt returns the configured prompt, or the default when none is set.
// Prompt files are already folded into the configured value at load time.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
