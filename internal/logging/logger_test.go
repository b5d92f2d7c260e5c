package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{"error", ERROR},
		{"bogus", INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFieldLoggerAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.WithFields(Fields{"provider": "acme", "group": "sg-1"}).Info("removed %d tags", 2)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Message != "removed 2 tags" {
		t.Errorf("Message = %q, want %q", entries[0].Message, "removed 2 tags")
	}
	ctx := entries[0].ContextMap()
	if ctx["provider"] != "acme" || ctx["group"] != "sg-1" {
		t.Errorf("ContextMap() = %v, want provider and group fields", ctx)
	}
}

func TestSetLevelFilters(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))
	l.SetLevel(WARN)

	l.Info("dropped")
	l.Warn("kept")

	if logs.Len() != 1 || logs.All()[0].Message != "kept" {
		t.Errorf("expected only the warning to be logged, got %v", logs.All())
	}
}
