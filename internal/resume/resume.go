// Package resume validates resume documents against the embedded JSON
// schema and decodes them for scoring.
package resume

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"resumescore/internal/ats"
	"resumescore/internal/errors"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Schema returns the raw JSON schema resume documents are checked against
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// FieldError is a single schema violation at a field path
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// Validate checks raw JSON against the resume schema. Malformed JSON yields
// INVALID_DOCUMENT; shape violations yield SCHEMA_VIOLATION with the
// offending field paths in the error context.
func Validate(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return errors.NewInternalError("SCHEMA_LOAD_FAILED", "failed to compile resume schema", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidDocument, "resume is not valid JSON", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, FieldError{Field: field, Message: desc.Description()})
	}

	return errors.NewValidationError(errors.ErrCodeSchemaViolation, summarize(violations), nil).
		WithContext("violations", violations)
}

func summarize(violations []FieldError) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("resume does not match schema: %s", strings.Join(parts, "; "))
}

// Decode validates data and decodes it into a ResumeDocument
func Decode(data []byte) (ats.ResumeDocument, error) {
	if err := Validate(data); err != nil {
		return ats.ResumeDocument{}, err
	}

	var doc ats.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ats.ResumeDocument{}, errors.NewValidationError(errors.ErrCodeInvalidDocument, "failed to decode resume", err)
	}
	return doc, nil
}

// Violations extracts the field errors attached to a schema violation
func Violations(err error) []FieldError {
	appErr, ok := errors.As(err)
	if !ok || appErr.Code != errors.ErrCodeSchemaViolation {
		return nil
	}
	v, _ := appErr.Context["violations"].([]FieldError)
	return v
}
