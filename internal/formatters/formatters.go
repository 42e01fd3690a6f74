package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"resumescore/internal/ats"
	"resumescore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", typeReport, &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", typeReport, &ReportMarkdownFormatter{})
	registry.RegisterFormatter("text", typeBatch, &BatchTextFormatter{})
	registry.RegisterFormatter("markdown", typeBatch, &BatchMarkdownFormatter{})
	registry.RegisterFormatter("text", typeReview, &ReviewTextFormatter{})
	registry.RegisterFormatter("markdown", typeReview, &ReviewMarkdownFormatter{})
	registry.RegisterFormatter("text", typeKeywords, &KeywordsTextFormatter{})
	registry.RegisterFormatter("markdown", typeKeywords, &KeywordsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

const (
	typeReport   = "Report"
	typeBatch    = "ScoredResumes"
	typeReview   = "ResumeReview"
	typeKeywords = "KeywordRecommendations"
)

func getDataType(data any) string {
	switch data.(type) {
	case ats.Report:
		return typeReport
	case []types.ScoredResume:
		return typeBatch
	case types.ResumeReview:
		return typeReview
	case types.KeywordRecommendations:
		return typeKeywords
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// GlobalRegistry is the registry used by the CLI output handler
var GlobalRegistry = NewFormatterRegistry()
