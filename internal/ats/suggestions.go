package ats

// Scores below these thresholds trigger suggestions
const (
	overallThreshold    = 70.0
	suggestionThreshold = 60.0
)

var (
	overallSuggestions = []string{
		"Focus on adding more technical keywords and skills",
		"Include quantifiable achievements with metrics",
		"Add more detailed project descriptions",
	}

	categorySuggestions = []struct {
		score    func(Breakdown) float64
		messages []string
	}{
		{func(b Breakdown) float64 { return b.TechnicalSkills }, []string{
			"Expand your technical skills section with more programming languages",
			"Include trending technologies like AI/ML, cloud platforms",
		}},
		{func(b Breakdown) float64 { return b.Experience }, []string{
			"Highlight career progression and increasing responsibilities",
			"Emphasize experience with well-known tech companies",
		}},
		{func(b Breakdown) float64 { return b.Achievements }, []string{
			"Add more quantifiable achievements with specific metrics",
			"Include business impact and scale metrics",
		}},
		{func(b Breakdown) float64 { return b.Projects }, []string{
			"Add more complex projects with system architecture details",
			"Include live demos and GitHub links for projects",
		}},
		{func(b Breakdown) float64 { return b.Education }, []string{
			"Consider adding relevant certifications (AWS, GCP, Kubernetes)",
			"Highlight any AI/ML coursework or certifications",
		}},
		{func(b Breakdown) float64 { return b.Format }, []string{
			"Ensure all standard resume sections are present",
			"Add professional contact information and LinkedIn/GitHub links",
		}},
	}
)

// Suggest returns improvement tips for every triggered condition in fixed
// priority order. total is the unrounded weighted score.
func Suggest(total float64, b Breakdown) []string {
	suggestions := []string{}
	if total < overallThreshold {
		suggestions = append(suggestions, overallSuggestions...)
	}
	for _, c := range categorySuggestions {
		if c.score(b) < suggestionThreshold {
			suggestions = append(suggestions, c.messages...)
		}
	}
	return suggestions
}
