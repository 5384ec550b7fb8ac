package puzzlegen

import "testing"

func TestParseDomain(t *testing.T) {
	tests := []struct {
		in   string
		want Domain
		ok   bool
	}{
		{"Frontend", DomainFrontend, true},
		{"backend", DomainBackend, true},
		{" DATABASE ", DomainDatabase, true},
		{"AI Engineering", DomainAIEngineering, true},
		{"ai-engineering", DomainAIEngineering, true},
		{"ai_engineering", DomainAIEngineering, true},
		{"Mobile", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseDomain(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDomain(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		ok   bool
	}{
		{"Easy", DifficultyEasy, true},
		{"medium", DifficultyMedium, true},
		{"HARD", DifficultyHard, true},
		{"expert", "", false},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDifficulty(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
