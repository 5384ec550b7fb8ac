package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

const hintJSON = `{"hint_text":"Think about what happens when the list is empty."}`

func hintSchema() *Schema {
	return &Schema{
		Name: "test-hint",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"hint_text": map[string]any{"type": "string"},
			},
			"required":             []any{"hint_text"},
			"additionalProperties": false,
		},
	}
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func openAIReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52},
		})
	}
}

func statusReply(status int, body map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply("```json\n"+hintJSON+"\n```", "stop"))

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write hints for technical puzzles.",
		Messages:  []Message{{Role: RoleUser, Content: "Give a hint."}},
		Schema:    hintSchema(),
		MaxTokens: 128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != hintJSON {
		t.Errorf("content = %s, want fences stripped", resp.Content)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 12 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestOpenAIProvider_TruncatedStructuredOutput(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply(`{"hint_text":"Think ab`, "length"))

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Give a hint."}},
		Schema:   hintSchema(),
	})
	var trunc *ErrMaxTokensExceeded
	if !errors.As(err, &trunc) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply(`{"hint":"wrong key"}`, "stop"))

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Give a hint."}},
		Schema:   hintSchema(),
	})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": hintJSON}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Give a hint."}},
		Schema:    hintSchema(),
		MaxTokens: 128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.Total() != 80 {
		t.Errorf("total tokens = %d, want 80", resp.Usage.Total())
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestProviders_ErrorMapping(t *testing.T) {
	openAIErr := func(typ string) map[string]any {
		return map[string]any{"error": map[string]any{"type": typ, "message": "boom"}}
	}
	anthropicErr := func(typ string) map[string]any {
		return map[string]any{"type": "error", "error": map[string]any{"type": typ, "message": "boom"}}
	}

	tests := []struct {
		name         string
		provider     func(t *testing.T) Provider
		wantRate     bool
		wantRejected bool
	}{
		{
			name: "openai bad key",
			provider: func(t *testing.T) Provider {
				return newTestOpenAIProvider(t, statusReply(http.StatusUnauthorized, openAIErr("invalid_request_error")))
			},
			wantRejected: true,
		},
		{
			name: "anthropic unknown model",
			provider: func(t *testing.T) Provider {
				return newTestAnthropicProvider(t, statusReply(http.StatusNotFound, anthropicErr("not_found_error")))
			},
			wantRejected: true,
		},
		{
			name: "openai rate limit",
			provider: func(t *testing.T) Provider {
				return newTestOpenAIProvider(t, statusReply(http.StatusTooManyRequests, openAIErr("tokens")))
			},
			wantRate: true,
		},
		{
			name: "openai server error",
			provider: func(t *testing.T) Provider {
				return newTestOpenAIProvider(t, statusReply(http.StatusInternalServerError, openAIErr("server_error")))
			},
		},
		{
			name: "anthropic rate limit",
			provider: func(t *testing.T) Provider {
				return newTestAnthropicProvider(t, statusReply(http.StatusTooManyRequests, anthropicErr("rate_limit_error")))
			},
			wantRate: true,
		},
		{
			name: "anthropic server error",
			provider: func(t *testing.T) Provider {
				return newTestAnthropicProvider(t, statusReply(http.StatusInternalServerError, anthropicErr("api_error")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.provider(t)
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 16,
			})
			if err == nil {
				t.Fatal("expected error")
			}
			var rl *ErrRateLimit
			var rej *ErrRequestRejected
			var unavail *ErrProviderUnavailable
			switch {
			case tt.wantRate && !errors.As(err, &rl):
				t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
			case tt.wantRejected && !errors.As(err, &rej):
				t.Fatalf("expected ErrRequestRejected, got %T (%v)", err, err)
			case !tt.wantRate && !tt.wantRejected && !errors.As(err, &unavail):
				t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		models map[string]string
		input  string
		want   string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
		{openaiModels, "gpt-4o-mini", "gpt-4o-mini"},
		{geminiModels, "gemini-flash", "gemini-2.5-flash"},
		{geminiModels, "gemini-2.5-pro", "gemini-2.5-pro"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("model = %q", p.ModelID())
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"puzzle_description": map[string]any{"type": "string"},
			"difficulty":         map[string]any{"type": "string", "enum": []any{"Easy", "Medium", "Hard"}},
			"keywords": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"match_all": map[string]any{"type": "boolean"},
		},
		"required": []any{"puzzle_description", "difficulty"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("got %d properties, want 4", len(schema.Properties))
	}
	if got := len(schema.Properties["difficulty"].Enum); got != 3 {
		t.Errorf("got %d enum values, want 3", got)
	}
	if schema.Properties["keywords"].Items.Type != "STRING" {
		t.Errorf("keywords items = %s, want STRING", schema.Properties["keywords"].Items.Type)
	}
	if schema.Properties["match_all"].Type != "BOOLEAN" {
		t.Errorf("match_all = %s, want BOOLEAN", schema.Properties["match_all"].Type)
	}
	if len(schema.Required) != 2 {
		t.Errorf("got %d required, want 2", len(schema.Required))
	}
	wantOrder := []string{"puzzle_description", "difficulty", "keywords", "match_all"}
	if !slices.Equal(schema.PropertyOrdering, wantOrder) {
		t.Errorf("ordering = %v, want %v", schema.PropertyOrdering, wantOrder)
	}
}

func TestBuildGeminiSchema_Nullable(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type":     []any{"integer", "null"},
		"required": []string{"x"},
	})
	if schema.Type != "INTEGER" {
		t.Errorf("type = %s, want INTEGER", schema.Type)
	}
	if schema.Nullable == nil || !*schema.Nullable {
		t.Error("expected nullable")
	}
	if !slices.Equal(schema.Required, []string{"x"}) {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestParseRetryAfter(t *testing.T) {
	h := http.Header{}
	if got := parseRetryAfter(h); got != 0 {
		t.Errorf("missing header = %s, want 0", got)
	}
	h.Set("Retry-After", "7")
	if got := parseRetryAfter(h); got != 7*time.Second {
		t.Errorf("got %s, want 7s", got)
	}
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	if got := parseRetryAfter(h); got != 0 {
		t.Errorf("http-date = %s, want 0", got)
	}
}

func TestResponseDecode(t *testing.T) {
	var out struct {
		HintText string `json:"hint_text"`
	}
	resp := &Response{Content: json.RawMessage("```json\n" + hintJSON + "\n```")}
	if err := resp.Decode(&out); err != nil || out.HintText == "" {
		t.Fatalf("decode fenced: %v %+v", err, out)
	}

	resp = &Response{Content: json.RawMessage(`not json`)}
	var inv *ErrInvalidResponse
	if err := resp.Decode(&out); !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}
