package app

// Operations the CLI can dispatch.
const (
	OpComplete  = "complete"
	OpSummarize = "summarize"
)

// Config holds runtime configuration for a single chatbridge invocation.
type Config struct {
	// LLM connection
	Endpoint string
	Model    string
	APIKey   string

	// Operation
	Op         string
	SessionID  string
	Prompt     string
	InputPath  string
	OutputPath string

	// SummaryPrompt overrides the built-in summary system message.
	SummaryPrompt string

	Verbose bool
}
