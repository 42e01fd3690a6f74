package ats

import "strings"

const (
	completeSectionCount = 6
	headerPoints         = 4.0
	headerCap            = 25.0
)

var standardHeaders = []string{"personal", "summary", "experience", "education", "skills", "projects"}

// scoreFormat always runs, even for an empty document
func scoreFormat(doc ResumeDocument) (float64, FormatDetails, keywordEvidence) {
	d := FormatDetails{
		Structure: newFactor(),
		Headers:   newFactor(),
		Contact:   newFactor(),
	}

	if len(doc.Sections) >= completeSectionCount {
		d.Structure.add(25, "Complete section structure")
	} else {
		d.Structure.Score = 15
	}

	for _, s := range doc.Sections {
		if containsAny(strings.ToLower(s.Title), standardHeaders...) {
			d.Headers.add(headerPoints, s.Title)
		}
	}
	d.Headers.capAt(headerCap)

	c := doc.Contact
	if c.Email != "" {
		d.Contact.add(10, "Email")
	}
	if c.Phone != "" {
		d.Contact.add(5, "Phone")
	}
	if c.LinkedIn != "" {
		d.Contact.add(5, "LinkedIn")
	}
	if c.GitHub != "" {
		d.Contact.add(5, "GitHub")
	}

	score := d.Structure.Score + d.Headers.Score + d.Contact.Score
	return min(score, 100), d, keywordEvidence{}
}
