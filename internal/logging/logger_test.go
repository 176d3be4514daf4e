package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.With(String(FieldComponent, "review")).Info("decision recorded",
		String(FieldIdentity, "mst3k"),
		Int(FieldCursor, 2),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO review: decision recorded") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "identity=mst3k") || !strings.Contains(line, "cursor=2") {
		t.Fatalf("missing fields: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("saved", String(FieldGroup, "Bone Issues"))

	if !strings.Contains(buf.String(), `group="Bone Issues"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be suppressed at warn level, got %q", buf.String())
	}
	logger.Warn("loud")
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
