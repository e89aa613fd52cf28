// Package anthropic implements the completion gateway against the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bhouston/chat-app/internal/domain"
	"github.com/bhouston/chat-app/internal/ports"
)

const (
	// DefaultBaseURL is the base URL for the Anthropic API.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultTimeout bounds a completion round trip when the caller's
	// context carries no deadline of its own.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxTokens is the output token bound sent with each completion.
	DefaultMaxTokens = 1024

	// validationModel is the cheap model used for API key probes.
	validationModel = "claude-3-haiku-20240307"

	apiVersion = "2023-06-01"

	// maxResponseSize caps response body reads.
	maxResponseSize = 10 * 1024 * 1024
)

// ErrNotConfigured indicates no API key is set. It is returned before any
// network attempt so callers can tell "configure a key" apart from a failed
// call.
var ErrNotConfigured = errors.New("anthropic api key not configured")

// APIError is a non-2xx response from the Anthropic API.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("anthropic error [%s] (HTTP %d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("anthropic error (HTTP %d): %s", e.Status, e.Message)
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []wireMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a completion gateway backed by the Anthropic Messages API. Each
// Complete call is a single stateless round trip; the client never retries.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

var _ ports.CompletionGateway = (*Client)(nil)

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = domain.DefaultModel
	}

	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		maxTokens:  DefaultMaxTokens,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// WithMaxTokens sets the output token bound sent with each completion.
func (c *Client) WithMaxTokens(maxTokens int) *Client {
	c.maxTokens = maxTokens
	return c
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Complete sends the ordered message history and returns the generated reply
// text. Only role and content go on the wire.
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	wire := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		wire = append(wire, wireMessage{Role: string(msg.Role), Content: msg.Content})
	}

	resp, err := c.doMessages(ctx, c.apiKey, messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  wire,
	})
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", errors.New("anthropic response contained no text content")
}

// ValidateKey probes the API with a minimal request under the given key.
func (c *Client) ValidateKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return ErrNotConfigured
	}

	_, err := c.doMessages(ctx, apiKey, messagesRequest{
		Model:     validationModel,
		MaxTokens: 10,
		Messages:  []wireMessage{{Role: string(domain.RoleUser), Content: "Hello"}},
	})
	return err
}

func (c *Client) doMessages(ctx context.Context, apiKey string, reqBody messagesRequest) (*messagesResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", apiKey)
	req.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send messages request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read messages response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	var decoded messagesResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode messages response: %w", err)
	}

	return &decoded, nil
}

func decodeAPIError(status int, data []byte) error {
	var decoded apiErrorResponse
	if err := json.Unmarshal(data, &decoded); err == nil && decoded.Error.Message != "" {
		return &APIError{Status: status, Type: decoded.Error.Type, Message: decoded.Error.Message}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}
