package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/llm"
)

const (
	// Name is the provider name.
	Name = "openai"

	// DefaultBaseURL is the default API root, without the /v1 suffix.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultTimeout bounds chat calls.
	DefaultTimeout = 45 * time.Second

	listTimeout = 15 * time.Second

	displayName = "OpenAI-compatible"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")

// Config holds configuration for the OpenAI-compatible client.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Timeout bounds each chat call. Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a new OpenAI-compatible client.
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
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (c *Client) Name() string { return Name }

// Chat sends a /v1/chat/completions request and returns the first choice.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if c.apiKey == "" {
		return nil, c.fail(ErrMissingAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := openaiRequest{
		Model:       req.Model,
		Messages:    make([]openaiMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, openaiMessage{Role: m.Role, Content: m.Content})
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, c.fail(fmt.Errorf("marshaling request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("v1/chat/completions"), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, c.fail(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp openaiResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}

	out := &llm.ChatResponse{
		Model:   resp.Model,
		Message: llm.NewTextMessage(llm.RoleAssistant, ""),
	}
	if resp.Created > 0 {
		out.CreatedAt = time.Unix(resp.Created, 0)
	}
	if len(resp.Choices) > 0 {
		out.Message.Content = strings.TrimSpace(resp.Choices[0].Message.Content)
		out.StopReason = resp.Choices[0].FinishReason
	}
	if resp.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// ListModels returns the sorted, de-duplicated model ids.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if c.apiKey == "" {
		return nil, c.fail(ErrMissingAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, min(listTimeout, c.timeout))
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("v1/models"), nil)
	if err != nil {
		return nil, c.fail(fmt.Errorf("creating request: %w", err))
	}

	var models modelsResponse
	if err := c.do(httpReq, &models); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(models.Data))
	for _, m := range models.Data {
		if id := strings.TrimSpace(m.ID); id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(req *http.Request, into any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &llm.ProviderError{Provider: displayName, Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return c.fail(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func (c *Client) fail(err error) error {
	return &llm.ProviderError{Provider: displayName, Err: err}
}

// Ensure Client implements llm.Client
var _ llm.Client = (*Client)(nil)
