package ats

import "strings"

const (
	achievementPoints = 4.0
	achievementCap    = 20.0
)

var (
	metricSignals     = []string{"%", "improved", "reduced", "increased"}
	scaleSignals      = []string{"million", "100k", "1m+", "users"}
	qualitySignals    = []string{"test coverage", "quality", "performance"}
	leadershipSignals = []string{"team", "led", "managed"}
	businessSignals   = []string{"revenue", "business", "cost"}
)

// scoreAchievements tests every achievement against each category
// independently, so one achievement may earn points in several categories.
func scoreAchievements(doc ResumeDocument) (float64, AchievementsDetails, keywordEvidence) {
	d := AchievementsDetails{
		Metrics:    newFactor(),
		Scale:      newFactor(),
		Quality:    newFactor(),
		Leadership: newFactor(),
		Business:   newFactor(),
	}
	if len(doc.Achievements) == 0 {
		return 0, d, keywordEvidence{}
	}

	categories := []struct {
		factor  *Factor
		signals []string
	}{
		{&d.Metrics, metricSignals},
		{&d.Scale, scaleSignals},
		{&d.Quality, qualitySignals},
		{&d.Leadership, leadershipSignals},
		{&d.Business, businessSignals},
	}

	var score float64
	for _, c := range categories {
		for _, a := range doc.Achievements {
			if containsAny(strings.ToLower(a.Description), c.signals...) {
				c.factor.add(achievementPoints, a.Title)
			}
		}
		c.factor.capAt(achievementCap)
		score += c.factor.Score
	}

	return min(score, 100), d, keywordEvidence{}
}
