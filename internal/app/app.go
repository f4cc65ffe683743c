package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/chatbridge/internal/chat"
)

// App wires configuration to a chat client and runs one operation.
type App struct {
	cfg  Config
	chat *chat.Client
}

// New builds the chat client from the configured connection settings. No
// network call is made here; credential problems surface on first use.
func New(cfg Config) (*App, error) {
	client, err := chat.New(cfg.Endpoint, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("init chat client: %w", err)
	}
	if strings.TrimSpace(cfg.SummaryPrompt) != "" {
		client.SummaryPrompt = cfg.SummaryPrompt
	}
	return &App{cfg: cfg, chat: client}, nil
}

// Run resolves the prompt, dispatches the configured operation once, and
// writes the resulting text to the configured output. A degraded Complete
// result is still a valid result and returns nil; a Summarize failure is
// returned to the caller.
func (a *App) Run(ctx context.Context) error {
	prompt, err := a.resolvePrompt()
	if err != nil {
		return err
	}

	switch a.cfg.Op {
	case OpComplete:
		res := a.chat.Complete(ctx, a.cfg.SessionID, prompt)
		log.Info().
			Int("prompt_tokens", res.PromptTokens).
			Int("completion_tokens", res.CompletionTokens).
			Msg("completion finished")
		return a.writeOutput(res.Text)
	case OpSummarize:
		text, err := a.chat.Summarize(ctx, a.cfg.SessionID, prompt)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
		return a.writeOutput(text)
	default:
		return fmt.Errorf("unknown operation %q", a.cfg.Op)
	}
}

// resolvePrompt prefers the inline prompt; otherwise the input path is read,
// with "-" meaning stdin.
func (a *App) resolvePrompt() (string, error) {
	if strings.TrimSpace(a.cfg.Prompt) != "" {
		return a.cfg.Prompt, nil
	}
	if a.cfg.InputPath == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(a.cfg.InputPath)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func (a *App) writeOutput(text string) error {
	if a.cfg.OutputPath == "" || a.cfg.OutputPath == "-" {
		_, err := fmt.Fprintln(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
