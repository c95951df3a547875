// Package ai implements the chat-completion client used by the analysis
// and tagging engines. The AI boundary is treated as untrusted input: in
// JSON mode the response content must parse as JSON before it is returned.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"content-intel-service/internal/domain"
	"content-intel-service/internal/infra/httpclient"
)

// Endpoint is the chat-completions API path.
const Endpoint = "/v1/chat/completions"

// Config holds AI backend settings.
type Config struct {
	Client       httpclient.ClientConfig
	APIKey       string
	DefaultModel string
}

// Client implements domain.Completer against a chat-completions backend.
type Client struct {
	client       *resty.Client
	cb           *gobreaker.CircuitBreaker[*resty.Response]
	defaultModel string
	logger       *zap.Logger
}

// New creates a new AI client.
func New(cfg Config, logger *zap.Logger) *Client {
	client := httpclient.NewRestyClient(cfg.Client)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		client:       client,
		cb:           httpclient.NewCircuitBreaker[*resty.Response]("ai-backend", cfg.Client.CB),
		defaultModel: cfg.DefaultModel,
		logger:       logger,
	}
}

// Complete performs one chat-completion call and returns the assistant
// message content. There is no automatic application-level retry; callers
// decide whether to fall back to heuristics based on the error class.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (json.RawMessage, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	body := chatRequest{
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result chatResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&result).
			SetError(&result).
			Post(Endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, classifyHTTPError(r, &result)
		}

		return r, nil
	})

	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrAITimeout, err)
		}

		c.logger.Warn("ai completion failed",
			zap.String("model", model),
			zap.String("breaker_state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, err
	}

	result := resp.Result().(*chatResponse)
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", domain.ErrMalformedResponse)
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if req.JSONMode {
		content = stripCodeFence(content)
		if !json.Valid([]byte(content)) {
			c.logger.Warn("ai returned invalid json in json mode",
				zap.String("model", model),
				zap.Int("content_length", len(content)),
			)

			return nil, domain.ErrMalformedResponse
		}
	}

	return json.RawMessage(content), nil
}

// classifyHTTPError maps backend HTTP failures onto the domain error classes
// so callers can choose retry, backoff, or heuristic fallback.
func classifyHTTPError(r *resty.Response, result *chatResponse) error {
	status := r.StatusCode()

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", domain.ErrRateLimited, status)
	case result != nil && result.Error != nil && isPolicyCode(result.Error):
		return fmt.Errorf("%w: %s", domain.ErrContentPolicy, result.Error.Message)
	default:
		return fmt.Errorf("ai backend returned status %d", status)
	}
}

func isPolicyCode(e *wireError) bool {
	code := strings.ToLower(e.Code + " " + e.Type)

	return strings.Contains(code, "content_policy") || strings.Contains(code, "content_filter")
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "Client.Timeout")
}

// stripCodeFence removes a markdown code fence some models wrap around
// JSON output despite the response format instruction.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
