package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a model and returns its output.
type Provider interface {
	// Generate runs req. When req.Schema is set the returned Content is a
	// JSON document that already passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider was configured with.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the backend for structured JSON output. Nil means free
	// text, returned verbatim in Response.Content.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the backend default for providers
	// that distinguish "unset".
	Temperature float64
}

// UserRequest is the common shape used by puzzle and hint generation: a
// system prompt plus one user turn.
func UserRequest(system, prompt string, schema *Schema, maxTokens int, temperature float64) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name becomes the OpenAI schema name and
// should be kebab-case, e.g. "technical-puzzle".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is the normalized reason a backend stopped generating.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the request
	StopReason StopReason
}

// Decode unmarshals the structured content into v. Decoding failures are
// reported as *ErrInvalidResponse so callers can treat them like schema
// violations.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(StripFences(r.Content), v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish applies the checks every adapter shares. Truncated structured
// output is reported as such instead of as a schema failure, and fenced
// JSON is unwrapped before validation.
func finish(req Request, resp *Response) (*Response, error) {
	if req.Schema == nil {
		return resp, nil
	}
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	resp.Content = StripFences(resp.Content)
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
