package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := NewValidationError(ErrCodeInvalidDocument, "resume is not valid JSON", cause)

	assert.Equal(t, "INVALID_DOCUMENT: resume is not valid JSON (caused by: unexpected EOF)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "CACHE_UNAVAILABLE: redis down", NewInternalError(ErrCodeCacheUnavailable, "redis down", nil).Error())
}

func TestAsAndIsType(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewConfigError(ErrCodeTaxonomyLoadFailed, "bad taxonomy", nil))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeTaxonomyLoadFailed, appErr.Code)
	assert.True(t, IsType(wrapped, ErrorTypeConfig))
	assert.False(t, IsType(wrapped, ErrorTypeAI))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeConfig))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogErrorExpandsAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	err := NewValidationError(ErrCodeSchemaViolation, "schema mismatch", nil).WithContext("file", "resume.json")
	logger.LogError(err, "scoring failed", "request_id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "scoring failed", record["msg"])
	assert.Equal(t, "validation", record["error_type"])
	assert.Equal(t, ErrCodeSchemaViolation, record["error_code"])
	assert.Equal(t, "resume.json", record["file"])
	assert.Equal(t, "abc", record["request_id"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelWarn).With("component", "test")

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), `"component":"test"`)
}
