package chat

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// capturingClient records the last request and replies with a canned response.
type capturingClient struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (c *capturingClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastReq = req
	return c.resp, c.err
}

func okResponse(text string, promptTokens, completionTokens int) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text},
		}},
		Usage: openai.Usage{PromptTokens: promptTokens, CompletionTokens: completionTokens},
	}
}

func TestNew_RejectsEmptyArguments(t *testing.T) {
	cases := []struct {
		name                   string
		endpoint, apiKey, model string
	}{
		{"empty endpoint", "", "key", "model"},
		{"empty key", "https://llm.example/v1", "", "model"},
		{"empty model", "https://llm.example/v1", "key", ""},
		{"whitespace endpoint", "   ", "key", "model"},
		{"all empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.endpoint, tc.apiKey, tc.model)
			if err == nil {
				t.Fatalf("expected configuration error, got client %+v", c)
			}
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestNew_ValidArgumentsReturnHandle(t *testing.T) {
	c, err := New("https://llm.example/v1", "secret", "gpt-test")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.AI == nil {
		t.Fatalf("expected a wired provider")
	}
	if c.Model != "gpt-test" {
		t.Fatalf("model = %q, want gpt-test", c.Model)
	}
}

func TestComplete_ReturnsChoiceAndUsage(t *testing.T) {
	cc := &capturingClient{resp: okResponse("Hi there", 3, 2)}
	c := &Client{AI: cc, Model: "gpt-test"}

	res := c.Complete(context.Background(), "s1", "Hello")
	if res.Text != "Hi there" {
		t.Fatalf("text = %q, want Hi there", res.Text)
	}
	if res.PromptTokens != 3 || res.CompletionTokens != 2 {
		t.Fatalf("usage = (%d,%d), want (3,2)", res.PromptTokens, res.CompletionTokens)
	}
}

func TestComplete_RequestShape(t *testing.T) {
	cc := &capturingClient{resp: okResponse("ok", 1, 1)}
	c := &Client{AI: cc, Model: "gpt-test"}

	c.Complete(context.Background(), "s1", "Hello")

	req := cc.lastReq
	if req.Model != "gpt-test" {
		t.Fatalf("model = %q, want gpt-test", req.Model)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleUser || req.Messages[0].Content != "Hello" {
		t.Fatalf("unexpected message %+v", req.Messages[0])
	}
	if req.MaxTokens != 4000 {
		t.Fatalf("max tokens = %d, want 4000", req.MaxTokens)
	}
	if req.Temperature != 0.3 {
		t.Fatalf("temperature = %v, want 0.3", req.Temperature)
	}
	if req.TopP != 0.5 {
		t.Fatalf("topP = %v, want 0.5", req.TopP)
	}
	if req.FrequencyPenalty != 0 || req.PresencePenalty != 0 {
		t.Fatalf("penalties = (%v,%v), want zero", req.FrequencyPenalty, req.PresencePenalty)
	}
	if req.User != "s1" {
		t.Fatalf("user = %q, want s1", req.User)
	}
}

func TestComplete_FailureDegradesToFallback(t *testing.T) {
	failures := []error{
		errors.New("connection refused"),
		errors.New("context deadline exceeded"),
		errors.New("status 500: internal error"),
		errors.New("invalid character '<' looking for beginning of value"),
	}
	for _, failure := range failures {
		cc := &capturingClient{err: failure}
		c := &Client{AI: cc, Model: "gpt-test"}

		res := c.Complete(context.Background(), "s1", "Hello")
		if res.Text != FallbackText {
			t.Fatalf("text = %q, want fallback", res.Text)
		}
		if res.PromptTokens != 0 || res.CompletionTokens != 0 {
			t.Fatalf("usage = (%d,%d), want zero", res.PromptTokens, res.CompletionTokens)
		}
	}
}

func TestComplete_EmptyChoicesDegradesToFallback(t *testing.T) {
	cc := &capturingClient{resp: openai.ChatCompletionResponse{}}
	c := &Client{AI: cc, Model: "gpt-test"}

	res := c.Complete(context.Background(), "s1", "Hello")
	if res.Text != FallbackText || res.PromptTokens != 0 || res.CompletionTokens != 0 {
		t.Fatalf("expected fallback result, got %+v", res)
	}
}

func TestSummarize_ReturnsChoiceVerbatim(t *testing.T) {
	cc := &capturingClient{resp: okResponse("Billing Issue", 120, 2)}
	c := &Client{AI: cc, Model: "gpt-test"}

	out, err := c.Summarize(context.Background(), "s1", "customer: my invoice is wrong...")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if out != "Billing Issue" {
		t.Fatalf("out = %q, want Billing Issue", out)
	}
}

func TestSummarize_RequestShape(t *testing.T) {
	cc := &capturingClient{resp: okResponse("Label", 1, 1)}
	c := &Client{AI: cc, Model: "gpt-test"}

	c.Summarize(context.Background(), "s1", "transcript")

	req := cc.lastReq
	if len(req.Messages) != 2 {
		t.Fatalf("expected exactly two messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("first message role = %q, want system", req.Messages[0].Role)
	}
	if req.Messages[0].Content != summarySystemPrompt {
		t.Fatalf("unexpected system message %q", req.Messages[0].Content)
	}
	if req.Messages[1].Role != openai.ChatMessageRoleUser || req.Messages[1].Content != "transcript" {
		t.Fatalf("unexpected user message %+v", req.Messages[1])
	}
	if req.MaxTokens != 200 {
		t.Fatalf("max tokens = %d, want 200", req.MaxTokens)
	}
	if req.Temperature != 0 {
		t.Fatalf("temperature = %v, want 0", req.Temperature)
	}
	if req.TopP != 1 {
		t.Fatalf("topP = %v, want 1", req.TopP)
	}
	if req.User != "s1" {
		t.Fatalf("user = %q, want s1", req.User)
	}
}

func TestSummarize_SummaryPromptOverride(t *testing.T) {
	cc := &capturingClient{resp: okResponse("Label", 1, 1)}
	c := &Client{AI: cc, Model: "gpt-test", SummaryPrompt: "Reply with a single emoji."}

	c.Summarize(context.Background(), "s1", "transcript")

	if got := cc.lastReq.Messages[0].Content; got != "Reply with a single emoji." {
		t.Fatalf("system message = %q, want override", got)
	}
}

func TestSummarize_FailurePropagates(t *testing.T) {
	cc := &capturingClient{err: errors.New("connection refused")}
	c := &Client{AI: cc, Model: "gpt-test"}

	out, err := c.Summarize(context.Background(), "s1", "transcript")
	if err == nil {
		t.Fatalf("expected error, got %q", out)
	}
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no placeholder text on failure, got %q", out)
	}
}

func TestSummarize_EmptyChoicesIsError(t *testing.T) {
	cc := &capturingClient{resp: openai.ChatCompletionResponse{}}
	c := &Client{AI: cc, Model: "gpt-test"}

	if _, err := c.Summarize(context.Background(), "s1", "transcript"); !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}
