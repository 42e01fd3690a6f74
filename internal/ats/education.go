package ats

import "strings"

const (
	universityPoints  = 15.0
	certificationsCap = 40.0
)

// scoreEducation rates degrees, institutions and certifications. The degree
// factor is overwritten by each matching entry so the last match wins.
// Certifications are searched in the whole document text.
func scoreEducation(doc ResumeDocument, text string, tax Taxonomy) (float64, EducationDetails, keywordEvidence) {
	d := EducationDetails{
		Degree:         newFactor(),
		University:     newFactor(),
		Certifications: newFactor(),
	}
	if len(doc.Education) == 0 {
		return 0, d, keywordEvidence{}
	}

	for _, edu := range doc.Education {
		degree := strings.ToLower(edu.Degree)
		switch {
		case degree == "":
		case containsAny(degree, "computer science", "engineering"):
			d.Degree.Score = 20
			d.Degree.Details = append(d.Degree.Details, "CS/Engineering Degree")
		case strings.Contains(degree, "bachelor"):
			d.Degree.Score = 15
			d.Degree.Details = append(d.Degree.Details, "Bachelor's Degree")
		case containsAny(degree, "master", "phd"):
			d.Degree.Score = 25
			d.Degree.Details = append(d.Degree.Details, "Advanced Degree")
		}
	}

university:
	for _, edu := range doc.Education {
		institution := strings.ToLower(edu.Institution)
		if institution == "" {
			continue
		}
		for _, uni := range tax.Education.TopTier {
			if strings.Contains(institution, uni) {
				d.University.add(universityPoints, "Top-Tier University")
				break university
			}
		}
	}

	for _, group := range tax.Education.Certifications {
		for _, cert := range group.Keywords {
			if strings.Contains(text, cert) {
				d.Certifications.add(group.Weight, cert)
			}
		}
	}
	d.Certifications.capAt(certificationsCap)

	score := d.Degree.Score + d.University.Score + d.Certifications.Score
	return min(score, 100), d, keywordEvidence{}
}
