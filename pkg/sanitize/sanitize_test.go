package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "plain ascii unchanged",
			input: "Hello World",
			want:  "Hello World",
		},
		{
			name:  "nil becomes empty string",
			input: nil,
			want:  "",
		},
		{
			name:  "number rendered as text",
			input: 2024,
			want:  "2024",
		},
		{
			name:  "bool rendered as text",
			input: true,
			want:  "true",
		},
		{
			name:  "typographic double quotes folded",
			input: "“quoted”",
			want:  `"quoted"`,
		},
		{
			name:  "typographic single quotes folded",
			input: "it’s ‘fine’",
			want:  "it's 'fine'",
		},
		{
			name:  "nfc composition",
			input: "Café", // e + combining acute accent
			want:  "Café",
		},
		{
			name:  "newlines and tabs stripped",
			input: "line1\nline2\tend",
			want:  "line1line2end",
		},
		{
			name:  "control characters stripped",
			input: "abc\x00\x1bdef",
			want:  "abcdef",
		},
		{
			name:  "spaces kept",
			input: "a b c",
			want:  "a b c",
		},
		{
			name:  "vietnamese text preserved",
			input: "Người Nhện",
			want:  "Người Nhện",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"“mixed” and ‘quoted’",
		"Café with\nnewline\x00and control",
		"Phép thuật — tập 12",
	}

	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Errorf("Text not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{
			name:     "short string untouched",
			input:    strings.Repeat("a", 500),
			maxRunes: 1000,
			want:     strings.Repeat("a", 500),
		},
		{
			name:     "long string cut with marker",
			input:    strings.Repeat("a", 1500),
			maxRunes: 1000,
			want:     strings.Repeat("a", 1000) + "...",
		},
		{
			name:     "exact length untouched",
			input:    strings.Repeat("a", 1000),
			maxRunes: 1000,
			want:     strings.Repeat("a", 1000),
		},
		{
			name:     "counts code points not bytes",
			input:    strings.Repeat("é", 1500),
			maxRunes: 1000,
			want:     strings.Repeat("é", 1000) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxRunes, "...")
			if got != tt.want {
				t.Errorf("Truncate length = %d, want %d", len([]rune(got)), len([]rune(tt.want)))
			}
		})
	}
}
