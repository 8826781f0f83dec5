package textutil

import (
	"reflect"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "job-123", "job-123"},
		{"slashes become dashes", "a/b\\c", "a-b-c"},
		{"colons become dashes", "job:2024", "job-2024"},
		{"unsafe removed", "wh?at\"is<this>|", "whatisthis"},
		{"trimmed", "  spaced  ", "spaced"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "EN-us", "en-us"},
		{"replaces punctuation", "pt.BR", "pt_br"},
		{"trims separators", "__x__", "x"},
		{"empty becomes unknown", "", "unknown"},
		{"all symbols becomes unknown", "!!!", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.input); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace", "hello   world\n\tagain", "hello world again"},
		{"trims", "  padded  ", "padded"},
		{"composes accents", "éclair", "éclair"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrapLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		want     []string
	}{
		{
			name:     "fits on one line",
			input:    "short text",
			maxChars: 42,
			want:     []string{"short text"},
		},
		{
			name:     "wraps on word boundary",
			input:    "the quick brown fox jumps over",
			maxChars: 15,
			want:     []string{"the quick brown", "fox jumps over"},
		},
		{
			name:     "long word keeps its own line",
			input:    "a pneumonoultramicroscopic b",
			maxChars: 10,
			want:     []string{"a", "pneumonoultramicroscopic", "b"},
		},
		{
			name:     "zero max returns single line",
			input:    "a b c",
			maxChars: 0,
			want:     []string{"a b c"},
		},
		{
			name:     "empty returns nil",
			input:    "   ",
			maxChars: 10,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapLines(tt.input, tt.maxChars)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapLines(%q, %d) = %v, want %v", tt.input, tt.maxChars, got, tt.want)
			}
		})
	}
}
