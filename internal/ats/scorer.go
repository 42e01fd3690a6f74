// Package ats implements a deterministic Applicant Tracking System
// compatibility scorer for structured resumes.
package ats

import (
	"fmt"
	"math"
)

// Weights are the multipliers applied to each sub-score when computing the
// overall score.
type Weights struct {
	TechnicalSkills float64 `mapstructure:"technicalSkills" json:"technicalSkills"`
	Experience      float64 `mapstructure:"experience" json:"experience"`
	Achievements    float64 `mapstructure:"achievements" json:"achievements"`
	Projects        float64 `mapstructure:"projects" json:"projects"`
	Education       float64 `mapstructure:"education" json:"education"`
	Format          float64 `mapstructure:"format" json:"format"`
}

// DefaultWeights returns the standard weighting. The weights sum to 1.225,
// so the overall score can exceed 100 for very strong resumes.
func DefaultWeights() Weights {
	return Weights{
		TechnicalSkills: 0.45,
		Experience:      0.275,
		Achievements:    0.175,
		Projects:        0.125,
		Education:       0.10,
		Format:          0.075,
	}
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.TechnicalSkills + w.Experience + w.Achievements + w.Projects + w.Education + w.Format
}

// Normalized returns the weights scaled to sum to 1
func (w Weights) Normalized() Weights {
	sum := w.Sum()
	if sum == 0 {
		return w
	}
	return Weights{
		TechnicalSkills: w.TechnicalSkills / sum,
		Experience:      w.Experience / sum,
		Achievements:    w.Achievements / sum,
		Projects:        w.Projects / sum,
		Education:       w.Education / sum,
		Format:          w.Format / sum,
	}
}

// Validate checks that no weight is negative and at least one is set
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"technicalSkills": w.TechnicalSkills,
		"experience":      w.Experience,
		"achievements":    w.Achievements,
		"projects":        w.Projects,
		"education":       w.Education,
		"format":          w.Format,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	if w.Sum() == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

func (w Weights) apply(b Breakdown) float64 {
	return b.TechnicalSkills*w.TechnicalSkills +
		b.Experience*w.Experience +
		b.Achievements*w.Achievements +
		b.Projects*w.Projects +
		b.Education*w.Education +
		b.Format*w.Format
}

// Scorer computes ATS reports. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	taxonomy Taxonomy
	weights  Weights
}

// Option configures a Scorer
type Option func(*Scorer)

// WithTaxonomy replaces the built-in keyword taxonomy
func WithTaxonomy(t Taxonomy) Option {
	return func(s *Scorer) {
		s.taxonomy = t
	}
}

// WithWeights replaces the default sub-score weights
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// NewScorer creates a scorer using the default taxonomy and weights unless
// overridden by opts.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		taxonomy: DefaultTaxonomy(),
		weights:  DefaultWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Taxonomy returns the taxonomy the scorer matches against
func (s *Scorer) Taxonomy() Taxonomy {
	return s.taxonomy
}

// Weights returns the scorer's sub-score weights
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score rates a resume. It never fails: absent collections count as empty
// and unparseable values contribute nothing. doc is not modified.
func (s *Scorer) Score(doc ResumeDocument) Report {
	doc = doc.normalized()
	text := doc.searchText()

	var (
		r        Report
		evidence [6]keywordEvidence
	)
	r.Breakdown.TechnicalSkills, r.Details.TechnicalSkills, evidence[0] = scoreTechnicalSkills(text, s.taxonomy)
	r.Breakdown.Experience, r.Details.Experience, evidence[1] = scoreExperience(doc, s.taxonomy)
	r.Breakdown.Achievements, r.Details.Achievements, evidence[2] = scoreAchievements(doc)
	r.Breakdown.Projects, r.Details.Projects, evidence[3] = scoreProjects(doc)
	r.Breakdown.Education, r.Details.Education, evidence[4] = scoreEducation(doc, text, s.taxonomy)
	r.Breakdown.Format, r.Details.Format, evidence[5] = scoreFormat(doc)

	r.KeywordMatches = []string{}
	r.MissingKeywords = []string{}
	for _, ev := range evidence {
		r.KeywordMatches = append(r.KeywordMatches, ev.matched...)
		r.MissingKeywords = append(r.MissingKeywords, ev.missing...)
	}

	total := s.weights.apply(r.Breakdown)
	r.Overall = int(math.Round(total))
	r.Suggestions = Suggest(total, r.Breakdown)
	return r
}

// Score rates doc with the default taxonomy and weights
func Score(doc ResumeDocument) Report {
	return defaultScorer.Score(doc)
}

var defaultScorer = NewScorer()
