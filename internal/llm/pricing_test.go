package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model     string
		wantInput float64
		wantNil   bool
	}{
		{model: "gpt-4o-mini", wantInput: 0.15},
		{model: "gpt-4o-mini-2024-07-18", wantInput: 0.15},
		{model: "gpt-4o-2024-11-20", wantInput: 2.5},
		{model: "openai/gpt-4o-mini", wantInput: 0.15},
		{model: "claude-haiku-4-5-20251001", wantInput: 1},
		{model: "claude-sonnet-4-20250514", wantInput: 3},
		{model: "models/gemini-2.5-flash", wantInput: 0.3},
		{model: "gemini-2.5-flash-lite-preview-06-17", wantInput: 0.1},
		{model: "mock", wantNil: true},
		{model: "google/gemini-2.0-flash-exp", wantInput: 0.1},
		{model: "llama-3-70b", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if tt.wantNil {
				if c != nil {
					t.Fatalf("expected no price, got %+v", *c)
				}
				return
			}
			if c == nil {
				t.Fatal("expected a price")
			}
			if c.InputPerMTok != tt.wantInput {
				t.Errorf("input = %v, want %v", c.InputPerMTok, tt.wantInput)
			}
		})
	}
}

func TestModelCost(t *testing.T) {
	got := ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}.Cost(2_000_000, 500_000)
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("cost = %v, want 0.6", got)
	}
}
