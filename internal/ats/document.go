package ats

import "strings"

// ContactInfo holds the personal header of a resume
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

// Summary is the free-text professional summary
type Summary struct {
	Content string `json:"content"`
}

// Skills holds the five free-text skill categories
type Skills struct {
	Languages  string `json:"languages"`
	Frameworks string `json:"frameworks"`
	Databases  string `json:"databases"`
	Cloud      string `json:"cloud"`
	Tools      string `json:"tools"`
}

// Experience is a single position. When Current is set the end date is
// ignored for duration math.
type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Achievement is a free-text accomplishment
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Impact      string `json:"impact"`
}

// Education is a degree entry
type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Year        string `json:"year"`
	GPA         string `json:"gpa"`
	Coursework  string `json:"coursework"`
}

// Project is a portfolio project
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Technologies string `json:"technologies"`
	Description  string `json:"description"`
	GitHub       string `json:"github"`
	Demo         string `json:"demo"`
}

// Section describes a logical resume section and its display order
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
	Visible bool   `json:"visible"`
}

// ResumeDocument is the structured resume consumed by the scorer
type ResumeDocument struct {
	Contact      ContactInfo   `json:"contact"`
	Summary      Summary       `json:"summary"`
	Experiences  []Experience  `json:"experiences"`
	Skills       Skills        `json:"skills"`
	Achievements []Achievement `json:"achievements"`
	Education    []Education   `json:"education"`
	Projects     []Project     `json:"projects"`
	Sections     []Section     `json:"sections"`
}

// normalized returns a shallow copy with every absent collection replaced
// by an empty one. The receiver's backing arrays are shared, never written.
func (d ResumeDocument) normalized() ResumeDocument {
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.Achievements == nil {
		d.Achievements = []Achievement{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	return d
}

// searchText flattens every text value of the document into one lowercase
// blob for substring matching. Identifiers and flags are left out.
func (d ResumeDocument) searchText() string {
	var b strings.Builder
	add := func(values ...string) {
		for _, v := range values {
			if v == "" {
				continue
			}
			b.WriteString(v)
			b.WriteByte('\n')
		}
	}

	c := d.Contact
	add(c.FirstName, c.LastName, c.Email, c.Phone, c.Location, c.LinkedIn, c.GitHub, c.Portfolio)
	add(d.Summary.Content)
	for _, e := range d.Experiences {
		add(e.Title, e.Company, e.Location, e.StartDate, e.EndDate, e.Description)
	}
	s := d.Skills
	add(s.Languages, s.Frameworks, s.Databases, s.Cloud, s.Tools)
	for _, a := range d.Achievements {
		add(a.Title, a.Description, a.Date, a.Impact)
	}
	for _, e := range d.Education {
		add(e.Degree, e.Institution, e.Location, e.Year, e.GPA, e.Coursework)
	}
	for _, p := range d.Projects {
		add(p.Name, p.Technologies, p.Description, p.GitHub, p.Demo)
	}
	for _, s := range d.Sections {
		add(s.Title)
	}

	return strings.ToLower(b.String())
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
