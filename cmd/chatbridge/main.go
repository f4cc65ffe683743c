package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/chatbridge/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		endpoint      string
		model         string
		apiKey        string
		op            string
		sessionID     string
		prompt        string
		inputPath     string
		outputPath    string
		configPath    string
		envFiles      string
		summaryPrompt string
		verbose       bool
		showVersion   bool
	)

	flag.StringVar(&endpoint, "llm.base", "", "OpenAI-compatible base URL of the completion endpoint")
	flag.StringVar(&model, "llm.model", "", "Deployed model name")
	flag.StringVar(&apiKey, "llm.key", "", "API key for the completion endpoint")
	flag.StringVar(&op, "op", app.OpComplete, "Operation: complete or summarize")
	flag.StringVar(&sessionID, "session", "", "Opaque session identifier forwarded for attribution")
	flag.StringVar(&prompt, "prompt", "", "Inline prompt text")
	flag.StringVar(&inputPath, "input", "", "Path to a file holding the prompt ('-' for stdin)")
	flag.StringVar(&outputPath, "output", "", "Path to write the response text (default stdout)")
	flag.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load")
	flag.StringVar(&summaryPrompt, "summary.systemPrompt", "", "Override the summary system prompt (inline string)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("chatbridge %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	// Dotenv first so env overlay below can see the values.
	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		log.Error().Err(err).Msg("load env files")
		os.Exit(1)
	}

	cfg := app.Config{
		Endpoint:      endpoint,
		Model:         model,
		APIKey:        apiKey,
		Op:            op,
		SessionID:     sessionID,
		Prompt:        prompt,
		InputPath:     inputPath,
		OutputPath:    outputPath,
		SummaryPrompt: summaryPrompt,
		Verbose:       verbose,
	}

	// Precedence: flags > config file > environment.
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("chatbridge failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
