package ats

import (
	"strings"
	"unicode/utf8"
)

const (
	complexityCap        = 30.0
	portfolioCap         = 40.0
	documentationCap     = 30.0
	linkPoints           = 5.0
	documentationPoints  = 5.0
	documentedDescLength = 100
)

// projectTopics are checked against each project description; every topic
// present adds its points.
var projectTopics = []struct {
	label  string
	points float64
	match  func(desc string) bool
}{
	{"System Architecture", 3, func(s string) bool { return containsAny(s, "microservices", "distributed") }},
	{"Data Engineering", 4, func(s string) bool { return containsAny(s, "machine learning", "data pipeline") }},
	{"Mobile Development", 2, func(s string) bool { return containsAny(s, "mobile", "ios", "android") }},
	{"Full-Stack Web", 2, func(s string) bool {
		return strings.Contains(s, "full-stack") || (strings.Contains(s, "frontend") && strings.Contains(s, "backend"))
	}},
	{"DevOps/Infrastructure", 3, func(s string) bool { return containsAny(s, "ci/cd", "devops", "kubernetes") }},
}

func scoreProjects(doc ResumeDocument) (float64, ProjectsDetails, keywordEvidence) {
	d := ProjectsDetails{
		Complexity:    newFactor(),
		Portfolio:     newFactor(),
		Documentation: newFactor(),
	}
	if len(doc.Projects) == 0 {
		return 0, d, keywordEvidence{}
	}

	for _, p := range doc.Projects {
		desc := strings.ToLower(p.Description)
		for _, topic := range projectTopics {
			if topic.match(desc) {
				d.Complexity.add(topic.points, topic.label)
			}
		}

		if p.GitHub != "" {
			d.Portfolio.add(linkPoints, p.GitHub)
		}
		if p.Demo != "" {
			d.Portfolio.add(linkPoints, p.Demo)
		}

		if utf8.RuneCountInString(p.Description) > documentedDescLength {
			d.Documentation.add(documentationPoints, p.Name)
		}
	}
	d.Complexity.capAt(complexityCap)
	d.Portfolio.capAt(portfolioCap)
	d.Documentation.capAt(documentationCap)

	score := d.Complexity.Score + d.Portfolio.Score + d.Documentation.Score
	return min(score, 100), d, keywordEvidence{}
}
