package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestOrdering(t *testing.T) {
	got := Suggest(50, Breakdown{
		TechnicalSkills: 40,
		Experience:      80,
		Achievements:    80,
		Projects:        80,
		Education:       80,
		Format:          80,
	})

	want := []string{
		"Focus on adding more technical keywords and skills",
		"Include quantifiable achievements with metrics",
		"Add more detailed project descriptions",
		"Expand your technical skills section with more programming languages",
		"Include trending technologies like AI/ML, cloud platforms",
	}
	assert.Equal(t, want, got)
}

func TestSuggestUsesUnroundedTotal(t *testing.T) {
	high := Breakdown{TechnicalSkills: 90, Experience: 90, Achievements: 90, Projects: 90, Education: 90, Format: 90}

	assert.Len(t, Suggest(69.6, high), 3)
	assert.Empty(t, Suggest(70, high))
	assert.NotNil(t, Suggest(70, high))
}

func TestSuggestEveryCategory(t *testing.T) {
	got := Suggest(90, Breakdown{})
	assert.Len(t, got, 12)
	assert.Equal(t, "Add professional contact information and LinkedIn/GitHub links", got[len(got)-1])
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		name        string
		experiences []Experience
		want        float64
	}{
		{"five years", []Experience{{StartDate: "2015-03", EndDate: "2020-01"}}, 10},
		{"three years across entries", []Experience{
			{StartDate: "2016-01", EndDate: "2018-12"},
			{StartDate: "2020", EndDate: "2021-06-30"},
		}, 8},
		{"one year", []Experience{{StartDate: "2021-11", EndDate: "2022-02"}}, 6},
		{"same year", []Experience{{StartDate: "2022-01", EndDate: "2022-09"}}, 4},
		{"missing end date", []Experience{{StartDate: "2010-01"}}, 4},
		{"unparseable", []Experience{{StartDate: "spring", EndDate: "2022-09"}}, 4},
		{"current ignores end date", []Experience{{StartDate: "2010-01", EndDate: "2020-01", Current: true}}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d, _ := scoreExperience(ResumeDocument{Experiences: tt.experiences}.normalized(), DefaultTaxonomy())
			assert.Equal(t, tt.want, d.Years.Score)
		})
	}
}

func TestExperienceTitleAndCompany(t *testing.T) {
	doc := ResumeDocument{
		Experiences: []Experience{
			{Title: "Lead Software Engineer", Company: "Google"},
			{Title: "Engineering Manager", Company: "Amazon"},
			{Title: "Principal Architect", Company: "Netflix"},
			{Title: "Barista", Company: "Cafe"},
		},
	}.normalized()

	score, d, ev := scoreExperience(doc, DefaultTaxonomy())

	assert.Equal(t, 10.0, d.Title.Score)
	assert.Equal(t, 7.0, d.Company.Score)
	assert.Equal(t, []string{"Google", "Amazon", "Netflix"}, d.Company.Details)
	assert.Equal(t, []string{"Lead Software Engineer", "Lead Software Engineer", "Engineering Manager", "Engineering Manager", "Principal Architect"}, ev.matched)
	assert.Equal(t, []string{"Multiple positions showing career growth"}, d.Progression.Details)
	assert.Equal(t, 4.0+10+7+5, score)
}

func TestExperienceEmpty(t *testing.T) {
	score, d, ev := scoreExperience(ResumeDocument{Projects: []Project{{GitHub: "x"}}}.normalized(), DefaultTaxonomy())
	assert.Zero(t, score)
	assert.Empty(t, d.Bonuses.Details)
	assert.Empty(t, ev.matched)
}

func TestAchievementsCap(t *testing.T) {
	var achievements []Achievement
	for range 7 {
		achievements = append(achievements, Achievement{Title: "Growth", Description: "Increased revenue"})
	}

	score, d, _ := scoreAchievements(ResumeDocument{Achievements: achievements})

	assert.Equal(t, 20.0, d.Metrics.Score)
	assert.Equal(t, 20.0, d.Business.Score)
	assert.Len(t, d.Metrics.Details, 7)
	assert.Equal(t, 40.0, score)
}

func TestProjectsComplexityTopics(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want []string
	}{
		{"frontend only is not full-stack", "A frontend dashboard", []string{}},
		{"frontend and backend", "Frontend and backend in one repo", []string{"Full-Stack Web"}},
		{"full-stack", "A full-stack app", []string{"Full-Stack Web"}},
		{"mobile", "An Android client", []string{"Mobile Development"}},
		{"several topics", "Microservices with a machine learning model on Kubernetes", []string{"System Architecture", "Data Engineering", "DevOps/Infrastructure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d, _ := scoreProjects(ResumeDocument{Projects: []Project{{Description: tt.desc}}})
			assert.Equal(t, tt.want, d.Complexity.Details)
		})
	}
}

func TestProjectsDocumentationLength(t *testing.T) {
	short := string(make([]rune, 100))
	long := string(make([]rune, 101))

	_, d, _ := scoreProjects(ResumeDocument{Projects: []Project{{Description: short}, {Description: long, Name: "long"}}})

	assert.Equal(t, 5.0, d.Documentation.Score)
	assert.Equal(t, []string{"long"}, d.Documentation.Details)
}

func TestProjectsDocumentationCountsRunes(t *testing.T) {
	// 60 emoji are 240 bytes and 120 UTF-16 units but only 60 characters
	emoji := strings.Repeat("\U0001F600", 60)
	accented := strings.Repeat("é", 101)

	_, d, _ := scoreProjects(ResumeDocument{Projects: []Project{
		{Name: "emoji", Description: emoji},
		{Name: "accented", Description: accented},
	}})

	assert.Equal(t, []string{"accented"}, d.Documentation.Details)
}

func TestProjectsPortfolioCap(t *testing.T) {
	var projects []Project
	for range 5 {
		projects = append(projects, Project{GitHub: "gh", Demo: "demo"})
	}

	score, d, _ := scoreProjects(ResumeDocument{Projects: projects})

	assert.Equal(t, 40.0, d.Portfolio.Score)
	assert.Equal(t, 40.0, score)
}

func TestEducationDegreeLastMatchWins(t *testing.T) {
	doc := ResumeDocument{Education: []Education{
		{Degree: "Master of Science"},
		{Degree: "Bachelor of Arts"},
		{Degree: "High School Diploma"},
	}}

	_, d, _ := scoreEducation(doc, doc.searchText(), DefaultTaxonomy())

	assert.Equal(t, 15.0, d.Degree.Score)
	assert.Equal(t, []string{"Advanced Degree", "Bachelor's Degree"}, d.Degree.Details)
}

func TestEducationUniversityCountedOnce(t *testing.T) {
	doc := ResumeDocument{Education: []Education{
		{Institution: "Stanford University"},
		{Institution: "MIT"},
	}}

	_, d, _ := scoreEducation(doc, doc.searchText(), DefaultTaxonomy())

	assert.Equal(t, 15.0, d.University.Score)
	assert.Equal(t, []string{"Top-Tier University"}, d.University.Details)
}

func TestEducationCertifications(t *testing.T) {
	doc := ResumeDocument{
		Education: []Education{{Degree: "BSc"}},
		Summary:   Summary{Content: "Certified: AWS Solutions Architect, Google Cloud Architect"},
	}

	score, d, _ := scoreEducation(doc, doc.searchText(), DefaultTaxonomy())

	assert.Equal(t, 22.0, d.Certifications.Score)
	assert.Equal(t, []string{"aws solutions architect", "google cloud architect"}, d.Certifications.Details)
	assert.Equal(t, 22.0, score)
}

func TestEducationCertificationWeightsFromTaxonomy(t *testing.T) {
	tax := Taxonomy{Education: EducationKeywords{
		Certifications: []CertificationGroup{{Name: "security", Weight: 30, Keywords: []string{"cissp", "oscp"}}},
	}}
	doc := ResumeDocument{Education: []Education{{Coursework: "CISSP, OSCP"}}}

	_, d, _ := scoreEducation(doc, doc.searchText(), tax)

	assert.Equal(t, 40.0, d.Certifications.Score)
}

func TestFormatContact(t *testing.T) {
	tests := []struct {
		name    string
		contact ContactInfo
		want    float64
	}{
		{"none", ContactInfo{}, 0},
		{"email", ContactInfo{Email: "a@b.c"}, 10},
		{"all", ContactInfo{Email: "a@b.c", Phone: "1", LinkedIn: "in", GitHub: "gh"}, 25},
		{"links only", ContactInfo{LinkedIn: "in", GitHub: "gh", Portfolio: "site"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d, _ := scoreFormat(ResumeDocument{Contact: tt.contact}.normalized())
			assert.Equal(t, tt.want, d.Contact.Score)
		})
	}
}

func TestFormatHeadersIgnoreNonStandardTitles(t *testing.T) {
	doc := ResumeDocument{Sections: []Section{{Title: "Hobbies"}, {Title: "Work Experience"}}}

	score, d, _ := scoreFormat(doc)

	assert.Equal(t, 15.0, d.Structure.Score)
	assert.Equal(t, 4.0, d.Headers.Score)
	assert.Equal(t, []string{"Work Experience"}, d.Headers.Details)
	assert.Equal(t, 19.0, score)
}

func TestSearchTextExcludesIdentifiers(t *testing.T) {
	doc := ResumeDocument{
		Experiences: []Experience{{ID: "ai-1", Title: "Clerk", Current: true}},
		Sections:    []Section{{ID: "rust", Title: "Summary"}},
	}

	text := doc.searchText()

	assert.NotContains(t, text, "ai-1")
	assert.NotContains(t, text, "rust")
	assert.Contains(t, text, "clerk")
	assert.Contains(t, text, "summary")
}
