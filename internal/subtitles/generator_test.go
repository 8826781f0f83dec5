package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmstrip/internal/logging"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
)

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	gen, err := NewGenerator(opts, logging.NewNop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return gen
}

func TestNewGeneratorCanonicalizesLanguage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty defaults to english", "", "en"},
		{"bare code", "de", "de"},
		{"region stripped", "en-US", "en"},
		{"three letter form", "deu", "de"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newTestGenerator(t, Options{Language: tt.input})
			if got := gen.Language(); got != tt.want {
				t.Fatalf("Language() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewGeneratorRejectsGarbageLanguage(t *testing.T) {
	_, err := NewGenerator(Options{Language: "not a language!"}, logging.NewNop())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGenerateWritesSRT(t *testing.T) {
	dir := t.TempDir()
	gen := newTestGenerator(t, Options{Language: "en", MaxLineChars: 9})
	seg := segment.Segment{SubtitleText: "one two three four"}

	result, err := gen.Generate(context.Background(), seg, dir, 3, 8, Style{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.CalculatedDuration != 8 {
		t.Fatalf("CalculatedDuration = %v, want 8", result.CalculatedDuration)
	}
	wantPath := filepath.Join(dir, "segment-003.en.srt")
	if result.SRTPath != wantPath {
		t.Fatalf("SRTPath = %q, want %q", result.SRTPath, wantPath)
	}

	data, err := os.ReadFile(result.SRTPath)
	if err != nil {
		t.Fatalf("reading srt: %v", err)
	}
	// Wrapping at 9 chars yields lines "one two", "three", "four"; the
	// default two lines per cue gives a 3-word cue and a 1-word cue, so an
	// 8 second segment splits 6s/2s.
	want := "1\n" +
		"00:00:00,000 --> 00:00:06,000\n" +
		"one two\nthree\n" +
		"\n" +
		"2\n" +
		"00:00:06,000 --> 00:00:08,000\n" +
		"four\n"
	if string(data) != want {
		t.Errorf("srt content = %q, want %q", data, want)
	}
}

func TestGenerateWordTimingsOverrideDuration(t *testing.T) {
	dir := t.TempDir()
	gen := newTestGenerator(t, Options{})
	seg := segment.Segment{
		SubtitleText: "hello world",
		WordTimings: []segment.WordTiming{
			{Word: "hello", Duration: 0.6},
			{Word: "world", Duration: 0.9},
		},
	}

	result, err := gen.Generate(context.Background(), seg, dir, 0, 10, Style{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.CalculatedDuration != 1.5 {
		t.Fatalf("CalculatedDuration = %v, want 1.5", result.CalculatedDuration)
	}

	data, err := os.ReadFile(result.SRTPath)
	if err != nil {
		t.Fatalf("reading srt: %v", err)
	}
	if !strings.Contains(string(data), "00:00:00,000 --> 00:00:01,500") {
		t.Errorf("cue window should span the timing sum: %q", data)
	}
}

func TestGenerateTimingsWithoutTextSkipFile(t *testing.T) {
	dir := t.TempDir()
	gen := newTestGenerator(t, Options{})
	seg := segment.Segment{
		WordTimings: []segment.WordTiming{{Duration: 1.25}, {Duration: 0.75}},
	}

	result, err := gen.Generate(context.Background(), seg, dir, 0, 5, Style{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.SRTPath != "" {
		t.Fatalf("no caption text should produce no file, got %q", result.SRTPath)
	}
	if result.CalculatedDuration != 2 {
		t.Fatalf("CalculatedDuration = %v, want 2", result.CalculatedDuration)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("work dir should stay empty, found %d entries", len(entries))
	}
}

func TestGenerateIgnoresNonPositiveTimings(t *testing.T) {
	gen := newTestGenerator(t, Options{})
	seg := segment.Segment{
		SubtitleText: "steady",
		WordTimings:  []segment.WordTiming{{Duration: -1}, {Duration: 0}},
	}

	result, err := gen.Generate(context.Background(), seg, t.TempDir(), 0, 4, Style{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.CalculatedDuration != 4 {
		t.Fatalf("unusable timings must fall back, got %v", result.CalculatedDuration)
	}
}

func TestGenerateNormalizesWhitespace(t *testing.T) {
	dir := t.TempDir()
	gen := newTestGenerator(t, Options{})
	seg := segment.Segment{SubtitleText: "  spaced \t out\n text  "}

	result, err := gen.Generate(context.Background(), seg, dir, 0, 2, Style{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(result.SRTPath)
	if err != nil {
		t.Fatalf("reading srt: %v", err)
	}
	if !strings.Contains(string(data), "spaced out text") {
		t.Errorf("whitespace should be collapsed: %q", data)
	}
}

func TestGenerateMinimalStyleSingleLineCues(t *testing.T) {
	dir := t.TempDir()
	gen := newTestGenerator(t, Options{MaxLineChars: 9})
	style, err := ResolveStyle("minimal")
	if err != nil {
		t.Fatalf("ResolveStyle: %v", err)
	}
	seg := segment.Segment{SubtitleText: "one two three four"}

	result, err := gen.Generate(context.Background(), seg, dir, 0, 6, style)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(result.SRTPath)
	if err != nil {
		t.Fatalf("reading srt: %v", err)
	}
	blocks := strings.Split(strings.TrimSpace(string(data)), "\n\n")
	if len(blocks) != 3 {
		t.Fatalf("minimal style should emit one line per cue, got %d blocks: %q", len(blocks), data)
	}
	if result.Style.Name != "minimal" {
		t.Fatalf("result should echo the resolved style, got %q", result.Style.Name)
	}
}

func TestResolveStyle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty picks default", "", "default", false},
		{"case insensitive", "BOLD", "bold", false},
		{"unknown rejected", "neon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style, err := ResolveStyle(tt.input)
			if tt.wantErr {
				if !errors.Is(err, services.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveStyle: %v", err)
			}
			if style.Name != tt.want {
				t.Fatalf("Name = %q, want %q", style.Name, tt.want)
			}
		})
	}
}

func TestNeeded(t *testing.T) {
	if Needed(segment.Segment{}) {
		t.Fatal("empty segment should not need subtitles")
	}
	if !Needed(segment.Segment{SubtitleText: "hi"}) {
		t.Fatal("caption text should need subtitles")
	}
	if !Needed(segment.Segment{WordTimings: []segment.WordTiming{{Duration: 1}}}) {
		t.Fatal("timing hints should need subtitles")
	}
}

func TestFormatSRTTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.042, "00:01:01,042"},
		{3661.999, "01:01:01,999"},
		{-4, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := formatSRTTimestamp(tt.seconds); got != tt.want {
			t.Errorf("formatSRTTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
