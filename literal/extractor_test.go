package literal

import (
	"strings"
	"testing"

	"github.com/coregx/backre/syntax"
)

// extractPrefixes parses pattern and renders its prefix set.
func extractPrefixes(t *testing.T, pattern string, config ExtractorConfig) string {
	t.Helper()
	re, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Failed to parse regex %q: %v", pattern, err)
	}
	return New(config).ExtractPrefixes(re).String()
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"hello", "[hello]"},
		{"(foo|bar)", "[foo bar]"},
		{"foo|foobar", "[foo]"},
		{"[abc]x", "[ax bx cx]"},
		{"[a-c]", "[a b c]"},
		{"hello.*world", "[hello~]"},
		{`hello\d`, "[hello~]"},
		{"a?b", "[b ab]"},
		{"a*b", "[a~ b]"},
		{"a+b", "[a~]"},
		{"(?:ab){2}c", "[ab~]"},
		{"x{0}y", "[y]"},
		{`^\bfoo`, "[foo]"},
		{"(?=x)foo", "[foo]"},
		{"(?>ab|cd)e", "[abe cde]"},
		{"é", "[é]"},
		{"", "[]"},
		{"a|", "[]"},
		{".*foo", "inf"},
		{`\d+`, "inf"},
		{"[^a]", "inf"},
		{"[a-z]", "inf"},
		{`[\da]`, "inf"},
		{`(a)\1`, "[a~]"},
		{`\w?a`, "inf"},
		{"a|.", "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := extractPrefixes(t, tt.pattern, DefaultConfig())
			if got != tt.want {
				t.Errorf("ExtractPrefixes(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestExtractPrefixes_Limits(t *testing.T) {
	config := ExtractorConfig{MaxLiterals: 4, MaxLiteralLen: 3, MaxClassSize: 3}

	tests := []struct {
		pattern string
		want    string
	}{
		{"abcdef", "[abc~]"},
		{"a|b|c|d", "[a b c d]"},
		{"a|b|c|d|e", "inf"},
		{"[ab][cd][ef]", "inf"},
		{"[abcd]", "inf"},
		{"[abc]", "[a b c]"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := extractPrefixes(t, tt.pattern, config)
			if got != tt.want {
				t.Errorf("ExtractPrefixes(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestExtractPrefixes_DeepNesting(t *testing.T) {
	pattern := strings.Repeat("(?:", 150) + "a" + strings.Repeat(")", 150)
	if got := extractPrefixes(t, pattern, DefaultConfig()); got != "inf" {
		t.Errorf("ExtractPrefixes(deep) = %s, want inf", got)
	}
}
