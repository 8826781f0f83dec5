package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"filmstrip/internal/services"
)

func newTestConsole(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newConsoleHandler(buf, lvl, false))
}

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelInfo)

	logger.Info("render started", String(FieldComponent, "compose"), Int("segments", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Fatalf("expected level label in %q", line)
	}
	if !strings.Contains(line, "compose: render started") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "segments=3") {
		t.Fatalf("expected attr in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be folded into prefix, got %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelInfo)

	logger.Info("fetch failed", String("url", "http://example.com/a b"))

	if !strings.Contains(buf.String(), `url="http://example.com/a b"`) {
		t.Fatalf("expected quoted value in %q", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn record missing from %q", out)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelInfo)

	logger.Info("published", Group("artifact", String("key", "job-1.mp4"), Int64("bytes", 2048)))

	out := buf.String()
	if !strings.Contains(out, "artifact.key=job-1.mp4") {
		t.Fatalf("expected flattened group key in %q", out)
	}
	if !strings.Contains(out, "artifact.bytes=2048") {
		t.Fatalf("expected flattened group value in %q", out)
	}
}

func TestFanoutDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	logger := slog.New(newFanout(
		newConsoleHandler(&first, lvl, false),
		newConsoleHandler(&second, lvl, false),
	))

	logger.Info("both sinks")

	if !strings.Contains(first.String(), "both sinks") {
		t.Fatalf("first handler missing record: %q", first.String())
	}
	if !strings.Contains(second.String(), "both sinks") {
		t.Fatalf("second handler missing record: %q", second.String())
	}
}

func TestFanoutDropsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	handler := newFanout(nil, newConsoleHandler(&buf, lvl, false), nil)
	slog.New(handler).Info("survives")
	if !strings.Contains(buf.String(), "survives") {
		t.Fatalf("expected record despite nil handlers, got %q", buf.String())
	}
}

func TestWithContextAddsJobFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsole(&buf, slog.LevelInfo)

	ctx := services.WithJobID(context.Background(), "job-9")
	ctx = services.WithStage(ctx, "fetching")

	WithContext(ctx, logger).Info("asset stored")

	out := buf.String()
	if !strings.Contains(out, "job_id=job-9") {
		t.Fatalf("expected job id field in %q", out)
	}
	if !strings.Contains(out, "stage=fetching") {
		t.Fatalf("expected stage field in %q", out)
	}
}

func TestParseLevelDefaults(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("goes nowhere")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
