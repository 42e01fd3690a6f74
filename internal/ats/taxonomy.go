package ats

// LanguageKeywords groups programming languages. Only Core is scored;
// Trending drives missing-keyword reporting.
type LanguageKeywords struct {
	Core     []string `mapstructure:"core" json:"core"`
	Trending []string `mapstructure:"trending" json:"trending"`
}

// FrameworkKeywords groups frameworks by area
type FrameworkKeywords struct {
	Frontend []string `mapstructure:"frontend" json:"frontend"`
	Backend  []string `mapstructure:"backend" json:"backend"`
	Mobile   []string `mapstructure:"mobile" json:"mobile"`
	Trending []string `mapstructure:"trending" json:"trending"`
}

// all returns every group flattened in declaration order. A keyword listed
// in two groups appears twice.
func (f FrameworkKeywords) all() []string {
	return flatten(f.Frontend, f.Backend, f.Mobile, f.Trending)
}

// ToolKeywords groups platforms and tooling
type ToolKeywords struct {
	Cloud      []string `mapstructure:"cloud" json:"cloud"`
	DevOps     []string `mapstructure:"devops" json:"devops"`
	Monitoring []string `mapstructure:"monitoring" json:"monitoring"`
	Databases  []string `mapstructure:"databases" json:"databases"`
}

func (t ToolKeywords) all() []string {
	return flatten(t.Cloud, t.DevOps, t.Monitoring, t.Databases)
}

// CompanyTiers lists notable employers
type CompanyTiers struct {
	TopTier     []string `mapstructure:"topTier" json:"topTier"`
	Unicorns    []string `mapstructure:"unicorns" json:"unicorns"`
	Established []string `mapstructure:"established" json:"established"`
}

func (c CompanyTiers) all() []string {
	return flatten(c.TopTier, c.Unicorns, c.Established)
}

// CertificationGroup is a vendor or domain family of certifications. Every
// keyword found in the resume adds Weight points.
type CertificationGroup struct {
	Name     string   `mapstructure:"name" json:"name"`
	Weight   float64  `mapstructure:"weight" json:"weight"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// EducationKeywords holds institution tiers and certification families
type EducationKeywords struct {
	TopTier        []string             `mapstructure:"topTier" json:"topTier"`
	Certifications []CertificationGroup `mapstructure:"certifications" json:"certifications"`
}

// Taxonomy is the read-only keyword reference data used by every sub-scorer.
// All keywords are lowercase.
type Taxonomy struct {
	Languages     LanguageKeywords  `mapstructure:"languages" json:"languages"`
	Frameworks    FrameworkKeywords `mapstructure:"frameworks" json:"frameworks"`
	Tools         ToolKeywords      `mapstructure:"tools" json:"tools"`
	Methodologies []string          `mapstructure:"methodologies" json:"methodologies"`
	Companies     CompanyTiers      `mapstructure:"companies" json:"companies"`
	Education     EducationKeywords `mapstructure:"education" json:"education"`
}

// DefaultTaxonomy returns a fresh copy of the built-in 2025 keyword lists
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Languages: LanguageKeywords{
			Core:     []string{"java", "python", "javascript", "typescript", "c++", "go", "rust", "kotlin", "swift"},
			Trending: []string{"rust", "go", "kotlin", "swift", "dart", "elixir", "clojure"},
		},
		Frameworks: FrameworkKeywords{
			Frontend: []string{"react", "angular", "vue", "svelte", "next.js", "nuxt.js", "gatsby"},
			Backend:  []string{"spring boot", "node.js", "django", "flask", "fastapi", "express", "laravel"},
			Mobile:   []string{"react native", "flutter", "xamarin", "ionic"},
			Trending: []string{"svelte", "astro", "solid", "qwik"},
		},
		Tools: ToolKeywords{
			Cloud:      []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible"},
			DevOps:     []string{"jenkins", "gitlab ci", "github actions", "circleci", "travis ci"},
			Monitoring: []string{"prometheus", "grafana", "datadog", "new relic", "splunk"},
			Databases:  []string{"postgresql", "mongodb", "mysql", "redis", "elasticsearch", "dynamodb"},
		},
		Methodologies: []string{"agile", "scrum", "kanban", "ci/cd", "tdd", "bdd", "devops", "gitops", "sre"},
		Companies: CompanyTiers{
			TopTier:     []string{"google", "meta", "facebook", "amazon", "apple", "netflix", "microsoft"},
			Unicorns:    []string{"stripe", "airbnb", "uber", "lyft", "robinhood", "coinbase", "plaid"},
			Established: []string{"ibm", "oracle", "cisco", "intel", "amd", "salesforce", "adobe"},
		},
		Education: EducationKeywords{
			TopTier: []string{"mit", "stanford", "harvard", "berkeley", "cmu", "caltech", "princeton"},
			Certifications: []CertificationGroup{
				{Name: "aws", Weight: 12, Keywords: []string{"aws solutions architect", "aws developer", "aws devops engineer"}},
				{Name: "gcp", Weight: 10, Keywords: []string{"google cloud professional", "google cloud architect"}},
				{Name: "kubernetes", Weight: 8, Keywords: []string{"cka", "ckad", "cks"}},
				{Name: "ai", Weight: 15, Keywords: []string{"tensorflow", "pytorch", "scikit-learn", "deep learning", "machine learning"}},
			},
		},
	}
}

// Size returns the total number of keywords across all categories
func (t Taxonomy) Size() int {
	n := len(t.Languages.Core) + len(t.Languages.Trending) +
		len(t.Frameworks.all()) + len(t.Tools.all()) +
		len(t.Methodologies) + len(t.Companies.all()) + len(t.Education.TopTier)
	for _, g := range t.Education.Certifications {
		n += len(g.Keywords)
	}
	return n
}

func flatten(groups ...[]string) []string {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	out := make([]string, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
