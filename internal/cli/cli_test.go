package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumescore/internal/ats"
	"resumescore/internal/common"
	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	strongResume = `{
  "contact": {"firstName": "Ada", "email": "ada@example.com", "linkedin": "linkedin.com/in/ada", "github": "github.com/ada"},
  "summary": {"content": "Senior engineer building Python and Kubernetes platforms"},
  "skills": {"languages": "Python, TypeScript, Rust", "frameworks": "React, Django", "tools": "Docker, Kubernetes, AWS"},
  "experiences": [
    {"title": "Senior Software Engineer", "company": "Google", "startDate": "2018-01", "current": true,
     "description": "Led 6 engineers and cut latency by 40%"}
  ]
}`
	emptyResume = `{}`
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			LogLevel:         "error",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			Concurrency:      2,
			MaxFileSize:      1 << 20,
		},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run executes the root command with args and returns its stdout
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	// Commands and their flag variables are package state shared by tests
	scoreConfig = common.CommandConfig{}
	scoreConcurrency = 0
	reviewConfig = common.CommandConfig{}
	keywordsConfig = common.CommandConfig{}
	taxonomyOutput = ""
	for _, c := range rootCmd.Commands() {
		c.SetContext(nil) //nolint:staticcheck // children inherit the context passed to Execute only when unset
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	logger := errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
	err := Execute(context.Background(), cfg, logger)
	return out.String(), err
}

func TestScoreSingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ada.json", strongResume)

	out, err := run(t, testConfig(), "score", path)
	require.NoError(t, err)

	var report ats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Greater(t, report.Overall, 0)
	assert.Contains(t, report.KeywordMatches, "python")
}

func TestScoreBatchKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "c.json", emptyResume),
		writeFile(t, dir, "a.json", strongResume),
		writeFile(t, dir, "b.json", emptyResume),
	}

	out, err := run(t, testConfig(), append([]string{"score", "--concurrency", "3"}, files...)...)
	require.NoError(t, err)

	var results []types.ScoredResume
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	for i, f := range files {
		assert.Equal(t, f, results[i].Source)
	}
	assert.Greater(t, results[1].Report.Overall, results[0].Report.Overall)
}

func TestScoreTextFormat(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", strongResume)
	b := writeFile(t, dir, "b.json", emptyResume)

	out, err := run(t, testConfig(), "score", "--format", "text", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "=== ATS SCORE ===")
	assert.Less(t, strings.Index(out, "##### "+a), strings.Index(out, "##### "+b))
}

func TestScoreWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ada.json", strongResume)
	outPath := filepath.Join(dir, "reports", "ada.md")

	out, err := run(t, testConfig(), "score", "--format", "markdown", "-o", outPath, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# ATS Score: "))
}

func TestScoreErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "ok.json", strongResume)
	invalid := writeFile(t, dir, "bad.json", `{"experiences": "none"}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"schema violation names the file", []string{"score", valid, invalid}, "bad.json"},
		{"missing file", []string{"score", filepath.Join(dir, "missing.json")}, "missing.json"},
		{"unsupported format", []string{"score", "--format", "yaml", valid}, "unsupported output format"},
		{"bad concurrency", []string{"score", "--concurrency", "-1", valid}, "concurrency must be at least 1"},
		{"no files", []string{"score"}, "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, testConfig(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScoreFilesOrderAndLimit(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"1.json", "2.json", "3.json", "4.json", "5.json"} {
		files = append(files, writeFile(t, dir, name, emptyResume))
	}

	fp := common.NewFileProcessor(nil, 0)
	for _, concurrency := range []int{1, 2, 8} {
		results, err := scoreFiles(context.Background(), ats.NewScorer(), fp, files, concurrency)
		require.NoError(t, err)
		require.Len(t, results, len(files))
		for i, f := range files {
			assert.Equal(t, f, results[i].Source)
		}
	}
}

func TestScoreFilesCanceled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.json", emptyResume)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scoreFiles(ctx, ats.NewScorer(), common.NewFileProcessor(nil, 0), []string{path}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaxonomyCommand(t *testing.T) {
	out, err := run(t, testConfig(), "taxonomy")
	require.NoError(t, err)

	var tax ats.Taxonomy
	require.NoError(t, json.Unmarshal([]byte(out), &tax))
	assert.Equal(t, ats.DefaultTaxonomy(), tax)
}

func TestTaxonomyCommandUsesConfiguredFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "taxonomy.yaml", "methodologies: [Scrum, Kanban]\n")
	cfg := testConfig()
	cfg.Scoring.TaxonomyFile = path

	out, err := run(t, cfg, "taxonomy")
	require.NoError(t, err)

	var tax ats.Taxonomy
	require.NoError(t, json.Unmarshal([]byte(out), &tax))
	assert.Equal(t, []string{"scrum", "kanban"}, tax.Methodologies)
	assert.Empty(t, tax.Languages.Core)
}

func TestAICommandsRequireAI(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeFile(t, dir, "ada.json", strongResume)
	jdPath := writeFile(t, dir, "job.txt", "Platform engineer")

	for _, args := range [][]string{
		{"review", resumePath},
		{"keywords", resumePath, jdPath},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := run(t, testConfig(), args...)
			require.Error(t, err)
			appErr, ok := errors.As(err)
			require.True(t, ok, err.Error())
			assert.Equal(t, errors.ErrCodeAIDisabled, appErr.Code)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, testConfig(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumescore version "+Version)
}
