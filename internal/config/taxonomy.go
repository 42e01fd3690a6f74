package config

import (
	"fmt"
	"log"
	"strings"

	"resumescore/internal/ats"
	"resumescore/internal/errors"

	"github.com/spf13/viper"
)

// LoadTaxonomy reads a keyword taxonomy from a yaml or json file. Keywords
// are lowercased and trimmed; blank entries are dropped.
func LoadTaxonomy(path string) (ats.Taxonomy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ats.Taxonomy{}, errors.NewConfigError(errors.ErrCodeTaxonomyLoadFailed, "failed to read taxonomy file", err).
			WithContext("path", path)
	}

	var tax ats.Taxonomy
	if err := v.Unmarshal(&tax); err != nil {
		return ats.Taxonomy{}, errors.NewConfigError(errors.ErrCodeTaxonomyLoadFailed, "failed to decode taxonomy file", err).
			WithContext("path", path)
	}

	tax = normalizeTaxonomy(tax)
	if tax.Size() == 0 {
		return ats.Taxonomy{}, errors.NewConfigError(errors.ErrCodeTaxonomyLoadFailed, "taxonomy file defines no keywords", nil).
			WithContext("path", path)
	}
	for _, g := range tax.Education.Certifications {
		if g.Weight < 0 {
			return ats.Taxonomy{}, errors.NewConfigError(errors.ErrCodeTaxonomyLoadFailed,
				fmt.Sprintf("certification group %q has a negative weight", g.Name), nil).WithContext("path", path)
		}
	}

	log.Printf("[CONFIG] Loaded taxonomy from %s (%d keywords)", path, tax.Size())
	return tax, nil
}

// BuildScorer creates the scorer described by the scoring configuration
func BuildScorer(cfg ScoringConfig) (*ats.Scorer, error) {
	tax := ats.DefaultTaxonomy()
	if cfg.TaxonomyFile != "" {
		loaded, err := LoadTaxonomy(cfg.TaxonomyFile)
		if err != nil {
			return nil, err
		}
		tax = loaded
	}
	return NewScorer(cfg, tax), nil
}

// NewScorer creates a scorer for tax using the configured weights
func NewScorer(cfg ScoringConfig, tax ats.Taxonomy) *ats.Scorer {
	weights := cfg.Weights
	if weights.Sum() == 0 {
		weights = ats.DefaultWeights()
	}
	if cfg.NormalizeWeights {
		weights = weights.Normalized()
	}
	return ats.NewScorer(ats.WithTaxonomy(tax), ats.WithWeights(weights))
}

func normalizeTaxonomy(t ats.Taxonomy) ats.Taxonomy {
	t.Languages.Core = normalizeKeywords(t.Languages.Core)
	t.Languages.Trending = normalizeKeywords(t.Languages.Trending)
	t.Frameworks.Frontend = normalizeKeywords(t.Frameworks.Frontend)
	t.Frameworks.Backend = normalizeKeywords(t.Frameworks.Backend)
	t.Frameworks.Mobile = normalizeKeywords(t.Frameworks.Mobile)
	t.Frameworks.Trending = normalizeKeywords(t.Frameworks.Trending)
	t.Tools.Cloud = normalizeKeywords(t.Tools.Cloud)
	t.Tools.DevOps = normalizeKeywords(t.Tools.DevOps)
	t.Tools.Monitoring = normalizeKeywords(t.Tools.Monitoring)
	t.Tools.Databases = normalizeKeywords(t.Tools.Databases)
	t.Methodologies = normalizeKeywords(t.Methodologies)
	t.Companies.TopTier = normalizeKeywords(t.Companies.TopTier)
	t.Companies.Unicorns = normalizeKeywords(t.Companies.Unicorns)
	t.Companies.Established = normalizeKeywords(t.Companies.Established)
	t.Education.TopTier = normalizeKeywords(t.Education.TopTier)

	groups := make([]ats.CertificationGroup, len(t.Education.Certifications))
	for i, g := range t.Education.Certifications {
		g.Keywords = normalizeKeywords(g.Keywords)
		groups[i] = g
	}
	t.Education.Certifications = groups
	return t
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
