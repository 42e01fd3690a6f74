package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptFiles reads every configured prompt file into its inline field.
// A file takes precedence over an inline prompt for the same slot.
func (c *Config) loadPromptFiles() error {
	ops := []struct {
		name string
		cfg  *OperationAIConfig
	}{
		{"review", &c.AI.Review},
		{"keywords", &c.AI.Keywords},
	}

	var problems []string
	loaded := 0
	for _, op := range ops {
		slots := []struct {
			kind   string
			file   string
			target *string
		}{
			{"system", op.cfg.SystemPromptFile, &op.cfg.SystemPrompt},
			{"user", op.cfg.UserPromptFile, &op.cfg.UserPrompt},
		}
		for _, slot := range slots {
			if slot.file == "" {
				continue
			}
			content, err := readPromptFile(slot.file)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s %s prompt: %v", op.name, slot.kind, err))
				continue
			}
			*slot.target = content
			loaded++
			log.Printf("[CONFIG] Loaded %s %s prompt from %s (%d characters)", op.name, slot.kind, slot.file, len(content))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	if loaded == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	}
	return nil
}

// readPromptFile returns the trimmed content of a prompt file. Empty files
// are rejected.
func readPromptFile(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		return "", fmt.Errorf("failed to read %s: %w", absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("file %s is empty", absPath)
	}
	return trimmed, nil
}
