package app

import "os"

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv("LLM_BASE_URL")
	}
	if cfg.Model == "" {
		cfg.Model = os.Getenv("LLM_MODEL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.SessionID == "" {
		cfg.SessionID = os.Getenv("SESSION_ID")
	}
	if cfg.SummaryPrompt == "" {
		cfg.SummaryPrompt = os.Getenv("SUMMARY_SYSTEM_PROMPT")
	}
}
