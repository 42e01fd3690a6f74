package ats

import (
	"fmt"
	"strings"
	"time"
)

const (
	titlePoints   = 2.0
	titleCap      = 10.0
	companyPoints = 3.0
	companyCap    = 7.0
)

var techTitles = []string{"engineer", "developer", "architect", "lead", "manager", "consultant"}

// dateLayouts are tried in order when reading experience dates
var dateLayouts = []string{"2006-01", "2006-01-02", "2006", time.RFC3339}

func scoreExperience(doc ResumeDocument, tax Taxonomy) (float64, ExperienceDetails, keywordEvidence) {
	var ev keywordEvidence
	d := ExperienceDetails{
		Years:       newFactor(),
		Title:       newFactor(),
		Company:     newFactor(),
		Progression: newFactor(),
		Bonuses:     newFactor(),
	}
	if len(doc.Experiences) == 0 {
		return 0, d, ev
	}

	years := totalYears(doc.Experiences)
	switch {
	case years >= 5:
		d.Years.Score = 10
	case years >= 3:
		d.Years.Score = 8
	case years >= 1:
		d.Years.Score = 6
	default:
		d.Years.Score = 4
	}
	if years > 0 {
		d.Years.Details = append(d.Years.Details, fmt.Sprintf("%d years of experience", years))
	}

	companies := tax.Companies.all()
	for _, exp := range doc.Experiences {
		title := strings.ToLower(exp.Title)
		for _, t := range techTitles {
			if title != "" && strings.Contains(title, t) {
				d.Title.add(titlePoints, exp.Title)
				ev.matched = append(ev.matched, exp.Title)
			}
		}

		company := strings.ToLower(exp.Company)
		for _, c := range companies {
			if company != "" && strings.Contains(company, c) {
				d.Company.add(companyPoints, exp.Company)
			}
		}
	}
	d.Title.capAt(titleCap)
	d.Company.capAt(companyCap)

	if len(doc.Experiences) >= 2 {
		d.Progression.add(5, "Multiple positions showing career growth")
	} else {
		d.Progression.Score = 3
	}

	for _, exp := range doc.Experiences {
		if strings.Contains(strings.ToLower(exp.Company), "startup") {
			d.Bonuses.add(5, "Startup Experience")
			break
		}
	}
	for _, p := range doc.Projects {
		if p.GitHub != "" {
			d.Bonuses.add(5, "Open Source Contributions")
			break
		}
	}

	score := d.Years.Score + d.Title.Score + d.Company.Score + d.Progression.Score + d.Bonuses.Score
	return min(score, 100), d, ev
}

// totalYears sums whole-year spans of finished positions. Current roles and
// entries with a missing or unparseable date contribute nothing.
func totalYears(experiences []Experience) int {
	var total int
	for _, exp := range experiences {
		if exp.Current || exp.StartDate == "" || exp.EndDate == "" {
			continue
		}
		start, ok := parseYear(exp.StartDate)
		if !ok {
			continue
		}
		end, ok := parseYear(exp.EndDate)
		if !ok {
			continue
		}
		total += end - start
	}
	return total
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
