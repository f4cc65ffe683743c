package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and environment variables.
type FileConfig struct {
	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Op      string `yaml:"op" json:"op"`
	Session string `yaml:"session" json:"session"`
	Input   string `yaml:"input" json:"input"`
	Output  string `yaml:"output" json:"output"`

	Prompts struct {
		SummarySystemPrompt string `yaml:"summarySystemPrompt" json:"summarySystemPrompt"`
	} `yaml:"prompts" json:"prompts"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset in cfg. Flags should already have been parsed; this lets
// file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.Endpoint == "" && fc.LLM.BaseURL != "" {
		cfg.Endpoint = fc.LLM.BaseURL
	}
	if cfg.Model == "" && fc.LLM.Model != "" {
		cfg.Model = fc.LLM.Model
	}
	if cfg.APIKey == "" && fc.LLM.APIKey != "" {
		cfg.APIKey = fc.LLM.APIKey
	}

	if (cfg.Op == "" || cfg.Op == OpComplete) && fc.Op != "" {
		cfg.Op = fc.Op
	}
	if cfg.SessionID == "" && fc.Session != "" {
		cfg.SessionID = fc.Session
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}

	if cfg.SummaryPrompt == "" && fc.Prompts.SummarySystemPrompt != "" {
		cfg.SummaryPrompt = fc.Prompts.SummarySystemPrompt
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
// Connection settings are validated by the chat client at construction.
func ValidateConfig(cfg Config) error {
	switch cfg.Op {
	case OpComplete, OpSummarize:
	default:
		return fmt.Errorf("config: unknown op %q (want %q or %q)", cfg.Op, OpComplete, OpSummarize)
	}
	if strings.TrimSpace(cfg.Prompt) == "" && strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: a prompt or an input path is required")
	}
	return nil
}
