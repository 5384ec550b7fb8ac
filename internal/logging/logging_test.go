package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		verbose   bool
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"defaults", DefaultConfig(), false, zapcore.WarnLevel, false},
		{"json info", Config{Level: "info", Format: "json"}, false, zapcore.InfoLevel, false},
		{"verbose overrides level", Config{Level: "error", Format: "console"}, true, zapcore.DebugLevel, false},
		{"bad level", Config{Level: "loud", Format: "console"}, false, 0, true},
		{"bad format", Config{Level: "info", Format: "xml"}, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg, tt.verbose)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := log.Level(); got != tt.wantLevel {
				t.Errorf("level = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}
