package common

import (
	"fmt"
	"slices"

	"resumescore/internal/errors"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveOutputFormat returns the requested format, or defaultFormat when
// none was given, after checking it against the supported list.
func ResolveOutputFormat(requested, defaultFormat string, supportedFormats []string) (string, error) {
	format := requested
	if format == "" {
		format = defaultFormat
	}
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, err.Error(), nil)
	}
	return format, nil
}

// ValidateConcurrency checks a worker count supplied on the command line
func ValidateConcurrency(n int) error {
	if n < 1 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("concurrency must be at least 1, got %d", n), nil)
	}
	return nil
}
