package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-intel-service/internal/domain"
	"content-intel-service/internal/infra/httpclient"
)

const testEndpoint = "https://ai.example.com/v1/chat/completions"

func newTestClient() *Client {
	cfg := Config{
		Client: httpclient.ClientConfig{
			BaseURL: "https://ai.example.com",
			Timeout: 5 * time.Second,
			Retry: httpclient.RetryConfig{
				MaxAttempts: 0, // no retries, keep failure tests fast
			},
			CB: httpclient.CBConfig{
				MaxRequests:  5,
				Interval:     60 * time.Second,
				Timeout:      15 * time.Second,
				FailureRatio: 0.6,
			},
		},
		APIKey:       "test-key",
		DefaultModel: "test-model",
	}
	client := New(cfg, zap.NewNop())

	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func jsonRequest() domain.CompletionRequest {
	return domain.CompletionRequest{
		Messages: []domain.Message{
			{Role: "system", Content: "Respond with JSON."},
			{Role: "user", Content: "Analyze this."},
		},
		MaxTokens: 100,
		JSONMode:  true,
	}
}

// TestComplete_Success tests a well-formed JSON completion.
func TestComplete_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, completionResponse(`{"summary":"ok"}`)))

	client := newTestClient()
	raw, err := client.Complete(context.Background(), jsonRequest())

	require.NoError(t, err)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "ok", parsed["summary"])
}

// TestComplete_StripsCodeFence tests tolerance for fenced JSON output.
func TestComplete_StripsCodeFence(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	fenced := "```json\n{\"tags\": []}\n```"
	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, completionResponse(fenced)))

	client := newTestClient()
	raw, err := client.Complete(context.Background(), jsonRequest())

	require.NoError(t, err)
	assert.JSONEq(t, `{"tags": []}`, string(raw))
}

// TestComplete_DefaultModel tests that the configured model fills in when
// the request leaves it empty.
func TestComplete_DefaultModel(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	var gotModel string
	httpmock.RegisterResponder("POST", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			var body chatRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			gotModel = body.Model

			return httpmock.NewJsonResponse(200, completionResponse(`{}`))
		})

	client := newTestClient()
	_, err := client.Complete(context.Background(), jsonRequest())

	require.NoError(t, err)
	assert.Equal(t, "test-model", gotModel)
}

// TestComplete_MalformedJSON tests rejection of non-JSON content in JSON mode.
func TestComplete_MalformedJSON(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, completionResponse("Sure! Here is the analysis you asked for.")))

	client := newTestClient()
	raw, err := client.Complete(context.Background(), jsonRequest())

	require.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Nil(t, raw)
}

// TestComplete_EmptyChoices tests rejection of responses with no choices.
func TestComplete_EmptyChoices(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{"choices": []any{}}))

	client := newTestClient()
	raw, err := client.Complete(context.Background(), jsonRequest())

	require.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Nil(t, raw)
}

// TestComplete_RateLimited tests 429 mapping.
func TestComplete_RateLimited(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(429, `{"error":{"message":"rate limit exceeded","type":"requests"}}`))

	client := newTestClient()
	raw, err := client.Complete(context.Background(), jsonRequest())

	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Nil(t, raw)
}

// TestComplete_ContentPolicy tests policy rejection mapping.
func TestComplete_ContentPolicy(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(400,
			`{"error":{"message":"flagged by moderation","type":"invalid_request_error","code":"content_policy_violation"}}`))

	client := newTestClient()
	raw, err := client.Complete(context.Background(), jsonRequest())

	require.ErrorIs(t, err, domain.ErrContentPolicy)
	assert.Nil(t, raw)
}

// TestComplete_Timeout tests deadline mapping.
func TestComplete_Timeout(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			time.Sleep(200 * time.Millisecond)

			return httpmock.NewJsonResponse(200, completionResponse(`{}`))
		})

	client := newTestClient()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	raw, err := client.Complete(ctx, jsonRequest())

	require.ErrorIs(t, err, domain.ErrAITimeout)
	assert.Nil(t, raw)
}

// TestComplete_CircuitBreakerOpens tests fail-fast after consecutive failures.
func TestComplete_CircuitBreakerOpens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	client := newTestClient()

	for i := 0; i < 5; i++ {
		_, err := client.Complete(context.Background(), jsonRequest())
		require.Error(t, err)
	}

	start := time.Now()
	_, err := client.Complete(context.Background(), jsonRequest())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Less(t, elapsed.Milliseconds(), int64(100))
}
