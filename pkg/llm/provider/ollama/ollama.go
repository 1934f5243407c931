package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/llm"
)

const (
	// Name is the provider name.
	Name = "ollama"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://127.0.0.1:11434"

	// DefaultTimeout bounds chat calls.
	DefaultTimeout = 45 * time.Second

	// numCtx keeps the context window small; large windows cost RAM.
	numCtx = 2048

	// listTimeout caps model listing.
	listTimeout = 15 * time.Second
)

// Config holds configuration for the Ollama client.
type Config struct {
	// BaseURL is the Ollama API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Timeout bounds each chat call. Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Client talks to a local Ollama server.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a new Ollama client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (c *Client) Name() string { return Name }

// Chat sends a non-streaming /api/chat request.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := ollamaRequest{
		Model:    req.Model,
		Messages: make([]ollamaMessage, 0, len(req.Messages)),
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: req.Temperature,
			NumCtx:      numCtx,
			LowVRAM:     true,
		},
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, c.fail(fmt.Errorf("marshaling request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, c.fail(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp ollamaResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}

	var usage *llm.Usage
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 || resp.TotalDuration > 0 {
		usage = &llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
			TotalDurationNs:  resp.TotalDuration,
		}
	}

	stopReason := resp.DoneReason
	if stopReason == "" && resp.Done {
		stopReason = "stop"
	}

	return &llm.ChatResponse{
		Model:      resp.Model,
		CreatedAt:  resp.CreatedAt,
		Message:    llm.NewTextMessage(llm.RoleAssistant, strings.TrimSpace(resp.Message.Content)),
		StopReason: stopReason,
		Usage:      usage,
	}, nil
}

// ListModels returns the installed model names, de-duplicated in server
// order.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, min(listTimeout, c.timeout))
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, c.fail(fmt.Errorf("creating request: %w", err))
	}

	var tags tagsResponse
	if err := c.do(httpReq, &tags); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func (c *Client) do(req *http.Request, into any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &llm.ProviderError{Provider: "Ollama", Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return c.fail(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func (c *Client) fail(err error) error {
	return &llm.ProviderError{Provider: "Ollama", Err: err}
}

// Ensure Client implements llm.Client
var _ llm.Client = (*Client)(nil)
