// Package llm talks to an OpenRouter-compatible chat completions API.
package llm

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mwhitfield/commitflow/http"
	"github.com/mwhitfield/commitflow/prompt"
)

const (
	// DefaultBaseURL is the OpenRouter API base.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "google/gemini-3-flash-preview"

	// DefaultMaxDiffBytes caps the diff text included in a commit
	// message prompt. Diffs past the cap are truncated with a marker.
	DefaultMaxDiffBytes = 64 * 1024
)

// ErrNoAPIKey is returned when the client is constructed without a key.
var ErrNoAPIKey = errors.New("llm: no API key configured")

// ErrEmptyCompletion is returned when the API responds with no choices
// or an empty message.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Config holds client configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	// HTTPClient overrides the underlying HTTP client, mainly for tests.
	HTTPClient *nethttp.Client

	// MaxDiffBytes caps diff size in commit message prompts.
	MaxDiffBytes int

	Logger *zap.Logger
}

// Client generates commit messages and completions via a chat API.
type Client struct {
	http         *http.Client
	model        string
	maxDiffBytes int
	loader       *prompt.Loader
	logger       *zap.Logger
}

// NewClient creates a chat completions client.
func NewClient(cfg Config, loader *prompt.Loader) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxDiffBytes <= 0 {
		cfg.MaxDiffBytes = DefaultMaxDiffBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	apiKey := cfg.APIKey
	return &Client{
		http: http.NewClient(http.ClientConfig{
			Client:      cfg.HTTPClient,
			BaseURL:     cfg.BaseURL,
			ServiceName: "openrouter",
			BeforeRequest: func(req *nethttp.Request) {
				req.Header.Set("Authorization", "Bearer "+apiKey)
				req.Header.Set("X-Title", "commitflow")
			},
		}),
		model:        cfg.Model,
		maxDiffBytes: cfg.MaxDiffBytes,
		loader:       loader,
		logger:       cfg.Logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single user prompt and returns the model's reply.
func (c *Client) Complete(ctx context.Context, text string) (string, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: text}},
	}

	c.logger.Debug("sending completion request",
		zap.String("model", c.model),
		zap.Int("prompt_bytes", len(text)))

	var resp chatResponse
	if err := c.http.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// CommitMessage generates a conventional commit message for the staged
// changes. Oversized diffs are truncated before prompting.
func (c *Client) CommitMessage(ctx context.Context, diff string, files []string) (string, error) {
	if len(diff) > c.maxDiffBytes {
		c.logger.Debug("truncating diff",
			zap.Int("size", len(diff)),
			zap.Int("limit", c.maxDiffBytes))
		diff = diff[:c.maxDiffBytes] + "\n... (diff truncated)"
	}

	text, err := c.loader.LoadWithVars("commit_message", map[string]any{
		"Files": files,
		"Diff":  diff,
	})
	if err != nil {
		return "", fmt.Errorf("loading commit message prompt: %w", err)
	}

	raw, err := c.Complete(ctx, text)
	if err != nil {
		return "", err
	}
	return stripFence(raw), nil
}

// stripFence removes a surrounding markdown code fence, if present.
// Models occasionally wrap a commit message in one despite instructions.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
