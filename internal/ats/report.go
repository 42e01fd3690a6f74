package ats

// Factor is one scored component of a sub-score together with the evidence
// that earned its points.
type Factor struct {
	Score   float64  `json:"score"`
	Details []string `json:"details"`
}

func newFactor() Factor {
	return Factor{Details: []string{}}
}

func (f *Factor) add(points float64, evidence ...string) {
	f.Score += points
	f.Details = append(f.Details, evidence...)
}

// capAt limits the factor's score to ceiling
func (f *Factor) capAt(ceiling float64) {
	f.Score = min(f.Score, ceiling)
}

// TechnicalSkillsDetails breaks down the technical skills sub-score
type TechnicalSkillsDetails struct {
	Languages     Factor `json:"languages"`
	Frameworks    Factor `json:"frameworks"`
	Tools         Factor `json:"tools"`
	Methodologies Factor `json:"methodologies"`
	Bonuses       Factor `json:"bonuses"`
}

// ExperienceDetails breaks down the experience sub-score
type ExperienceDetails struct {
	Years       Factor `json:"years"`
	Title       Factor `json:"title"`
	Company     Factor `json:"company"`
	Progression Factor `json:"progression"`
	Bonuses     Factor `json:"bonuses"`
}

// AchievementsDetails breaks down the achievements sub-score
type AchievementsDetails struct {
	Metrics    Factor `json:"metrics"`
	Scale      Factor `json:"scale"`
	Quality    Factor `json:"quality"`
	Leadership Factor `json:"leadership"`
	Business   Factor `json:"business"`
}

// ProjectsDetails breaks down the projects sub-score
type ProjectsDetails struct {
	Complexity    Factor `json:"complexity"`
	Portfolio     Factor `json:"portfolio"`
	Documentation Factor `json:"documentation"`
}

// EducationDetails breaks down the education sub-score
type EducationDetails struct {
	Degree         Factor `json:"degree"`
	University     Factor `json:"university"`
	Certifications Factor `json:"certifications"`
}

// FormatDetails breaks down the format sub-score
type FormatDetails struct {
	Structure Factor `json:"structure"`
	Headers   Factor `json:"headers"`
	Contact   Factor `json:"contact"`
}

// Details holds the per-factor breakdown of all six sub-scores
type Details struct {
	TechnicalSkills TechnicalSkillsDetails `json:"technicalSkills"`
	Experience      ExperienceDetails      `json:"experience"`
	Achievements    AchievementsDetails    `json:"achievements"`
	Projects        ProjectsDetails        `json:"projects"`
	Education       EducationDetails       `json:"education"`
	Format          FormatDetails          `json:"format"`
}

// Breakdown holds the six unrounded sub-scores
type Breakdown struct {
	TechnicalSkills float64 `json:"technicalSkills"`
	Experience      float64 `json:"experience"`
	Achievements    float64 `json:"achievements"`
	Projects        float64 `json:"projects"`
	Education       float64 `json:"education"`
	Format          float64 `json:"format"`
}

// Report is the result of scoring one resume
type Report struct {
	Overall         int       `json:"overall"`
	Breakdown       Breakdown `json:"breakdown"`
	Details         Details   `json:"details"`
	Suggestions     []string  `json:"suggestions"`
	KeywordMatches  []string  `json:"keywordMatches"`
	MissingKeywords []string  `json:"missingKeywords"`
}
