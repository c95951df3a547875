package ai

// Wire types for the chat-completions contract. Any backend that speaks
// this shape and supports a JSON response format works.

// chatRequest is the outbound completion request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"` // "json_object"
}

// chatResponse is the completion response body.
type chatResponse struct {
	Choices []choice   `json:"choices"`
	Error   *wireError `json:"error,omitempty"`
}

type choice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// wireError is the backend's structured error payload.
type wireError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
