package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/chatbridge/internal/llm"
)

// Result is the normalized outcome of a completion. All fields are always
// populated: a contained failure carries FallbackText and zero token counts.
type Result struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// ErrConfig indicates a missing construction argument.
var ErrConfig = errors.New("chat: missing configuration")

// ErrRemote indicates a failure while invoking the completion endpoint.
var ErrRemote = errors.New("chat: completion endpoint failure")

// FallbackText is the user-safe reply Complete substitutes for any remote
// failure.
const FallbackText = "I am sorry, I cannot display this information."

// assistantSystemPrompt is the persona message for ordinary completions. It is
// held as data next to summarySystemPrompt but is not attached to the outgoing
// request: Complete sends the user message alone.
const assistantSystemPrompt = "You are an AI assistant that helps people find information."

// summarySystemPrompt asks for a label short enough for a UI button.
const summarySystemPrompt = "Summarize the following conversation in one or two words so it can be used as the label of a button in a user interface."

// Sampling parameters are fixed per operation.
const (
	completionMaxTokens   = 4000
	completionTemperature = 0.3
	completionTopP        = 0.5

	summaryMaxTokens   = 200
	summaryTemperature = 0.0
	summaryTopP        = 1.0
)

// Client is a validated handle to a chat model deployment. It is immutable
// after construction and safe for concurrent use; no call mutates its state.
type Client struct {
	AI    llm.Client
	Model string
	// SummaryPrompt, when non-empty, overrides the default summary system
	// message.
	SummaryPrompt string
}

// New validates the three connection settings and returns a ready handle.
// Validation runs before any transport resource is allocated, and no network
// call is made here; credential validity surfaces on first use.
func New(endpoint, apiKey, model string) (*Client, error) {
	switch {
	case strings.TrimSpace(endpoint) == "":
		return nil, fmt.Errorf("%w: endpoint", ErrConfig)
	case strings.TrimSpace(apiKey) == "":
		return nil, fmt.Errorf("%w: api key", ErrConfig)
	case strings.TrimSpace(model) == "":
		return nil, fmt.Errorf("%w: model", ErrConfig)
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = endpoint
	cfg.HTTPClient = newTransportClient()
	return &Client{
		AI:    &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)},
		Model: model,
	}, nil
}

// Complete sends the user prompt as a single-turn completion and returns the
// first choice with its token usage. The session identifier rides the request
// for attribution on the remote side only. Failures are contained: any error
// from the call path, an empty choice list included, degrades to FallbackText
// with zero usage, and no error ever reaches the caller. The call is made
// exactly once, with no retry.
func (c *Client) Complete(ctx context.Context, sessionID, prompt string) Result {
	log.Debug().Str("session", sessionID).Str("model", c.Model).Int("prompt_len", len(prompt)).Msg("completion request")
	resp, err := c.AI.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:        completionMaxTokens,
		Temperature:      completionTemperature,
		TopP:             completionTopP,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		User:             sessionID,
	})
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("completion failed; returning fallback text")
		return Result{Text: FallbackText}
	}
	if len(resp.Choices) == 0 {
		log.Warn().Str("session", sessionID).Msg("completion returned no choices; returning fallback text")
		return Result{Text: FallbackText}
	}
	return Result{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
}

// Summarize condenses the supplied text, typically a conversation transcript,
// into a short label and returns the first choice verbatim. Unlike Complete,
// remote failures propagate to the caller wrapped in ErrRemote. The call is
// made exactly once, with no retry.
func (c *Client) Summarize(ctx context.Context, sessionID, prompt string) (string, error) {
	system := summarySystemPrompt
	if strings.TrimSpace(c.SummaryPrompt) != "" {
		system = c.SummaryPrompt
	}
	log.Debug().Str("session", sessionID).Str("model", c.Model).Int("prompt_len", len(prompt)).Msg("summary request")
	resp, err := c.AI.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:        summaryMaxTokens,
		Temperature:      summaryTemperature,
		TopP:             summaryTopP,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		User:             sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRemote, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choice list", ErrRemote)
	}
	return resp.Choices[0].Message.Content, nil
}
