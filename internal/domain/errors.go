package domain

import "errors"

// Input errors. Caller-caused, never retried.
var (
	ErrMalformedURL   = errors.New("malformed url")
	ErrUnsafeURL      = errors.New("url blocked by ssrf policy")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidInput   = errors.New("invalid input")
)

// Upstream-transient errors. Recoverable; engines degrade to
// heuristic output instead of propagating these.
var (
	ErrFetchTimeout = errors.New("fetch timed out")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrParseFailed  = errors.New("content parse failed")
	ErrRateLimited  = errors.New("ai backend rate limited")
	ErrAITimeout    = errors.New("ai completion timed out")
)

// Upstream-content errors. The AI boundary is untrusted input.
var (
	ErrContentPolicy     = errors.New("ai backend rejected content")
	ErrMalformedResponse = errors.New("ai response is not valid json")
)

// ErrInternal covers unexpected failures. Details are logged, not returned.
var ErrInternal = errors.New("internal error")
