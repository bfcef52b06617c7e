package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Info("uploaded file",
		String(FieldComponent, "batch"),
		String(FieldFilename, "report.pdf"),
		Int(FieldRow, 4),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO batch: uploaded file") {
		t.Fatalf("component not promoted into prefix: %q", line)
	}
	if !strings.Contains(line, "filename=report.pdf") || !strings.Contains(line, "row=4") {
		t.Fatalf("attributes missing from output: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as attribute: %q", line)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Info("match", String("label", "NO MATCH"))
	if !strings.Contains(buf.String(), `label="NO MATCH"`) {
		t.Fatalf("value with space not quoted: %q", buf.String())
	}
}

func TestPrettyHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be suppressed: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewComponentLogger(t *testing.T) {
	logger := NewComponentLogger(nil, "resolver")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("must not panic")
}
