package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})
	logger.WithComponent(ComponentLedger).Info("Expense saved", FieldRecordID, 7)

	line := buf.String()
	if strings.Count(line, "component=") != 1 {
		t.Fatalf("expected a single component attribute, got %q", line)
	}
	if !strings.Contains(line, "component=ledger") || !strings.Contains(line, "id=7") {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %q", buf.String())
	}
}

func TestContextLoggerCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf}).With(FieldRequestID, "req-1")

	got := FromContext(NewContext(context.Background(), base))
	got.Info("inside")

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("request id missing from %q", buf.String())
	}
}

func TestLogErrorAddsOperationAndType(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))

	sl.LogError(context.Background(), "Request failed", errors.New("disk full"), OpCreate,
		NewFields().WithErrorType(ErrorTypeInternal))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "error=\"disk full\"", "operation=create", "error_type=internal_error", "component=http"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %s", out, want)
		}
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatal("expected fallback logger")
	}
}
