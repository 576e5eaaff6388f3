package backre

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/coregx/backre/meta"
	"github.com/coregx/backre/syntax"
)

func spansOf(matches []*Match) [][2]int {
	var out [][2]int
	for _, m := range matches {
		out = append(out, [2]int{m.Start(), m.End()})
	}
	return out
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    syntax.ErrorCode
	}{
		{`(a`, syntax.ErrMissingParen},
		{`a)`, syntax.ErrUnexpectedParen},
		{`[a`, syntax.ErrMissingBracket},
		{`*a`, syntax.ErrMissingRepeatArg},
		{`\2(a)`, syntax.ErrUnresolvedBackref},
		{`a\`, syntax.ErrDanglingBackslash},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			require.Nil(t, re)
			var serr *syntax.Error
			require.True(t, errors.As(err, &serr), "got %v", err)
			require.Equal(t, tt.code, serr.Code)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	require.Panics(t, func() { MustCompile(`(`) })
	require.NotPanics(t, func() { MustCompile(`()`) })
}

func TestCompileEscaped(t *testing.T) {
	re, err := CompileEscaped(`\\d+\\.\\d+`)
	require.NoError(t, err)
	require.Equal(t, `\\d+\\.\\d+`, re.String())
	require.Equal(t, `\d+\.\d+`, re.Source())
	require.Equal(t, "3.14", re.FindString("pi is 3.14"))

	_, err = CompileEscaped(`abc\`)
	var serr *syntax.Error
	require.True(t, errors.As(err, &serr))
	require.Equal(t, syntax.ErrDanglingBackslash, serr.Code)
	var cerr *meta.CompileError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, `abc\`, cerr.Pattern)
}

// TestSearchAll covers the behaviors every search must exhibit.
func TestSearchAll(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		flags   string
		want    [][2]int
	}{
		{"greedy plus", `a+`, "aaab", "", [][2]int{{0, 3}}},
		{"empty matches", `a*`, "bb", "", [][2]int{{0, 0}, {1, 1}, {2, 2}}},
		{"atomic blocks backtracking", `(?>a+)a`, "aaa", "", nil},
		{"numbered backrefs", `(a)(b)\1\2`, "abab", "", [][2]int{{0, 4}}},
		{"named backrefs", `(?<x>a)(?<y>b)\k<x>\k<y>`, "abab", "", [][2]int{{0, 4}}},
		{"possessive", `a++a`, "aaa", "", nil},
		{"lazy", `<.+?>`, "<a><b>", "", [][2]int{{0, 3}, {3, 6}}},
		{"multiline anchors", `^\d$`, "1\n2\n3", "m", [][2]int{{0, 1}, {2, 3}, {4, 5}}},
		{"unknown flags ignored", `^\d$`, "1\n2", "xi", nil},
		{"contiguous", `\G\d`, "12a3", "", [][2]int{{0, 1}, {1, 2}}},
		{"negative lookahead", `\d+(?!px)\b`, "10px 20em 30", "", [][2]int{{10, 12}}},
		{"lookbehind always holds", `(?<=x)a`, "ba", "", [][2]int{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			matches, st := re.SearchAll(tt.input, tt.flags)
			if tt.want == nil {
				require.Equal(t, StatusNoMatch, st)
				require.Empty(t, matches)
				return
			}
			require.Equal(t, StatusMatch, st)
			if diff := cmp.Diff(tt.want, spansOf(matches)); diff != "" {
				t.Errorf("SearchAll mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchAll_Timeout(t *testing.T) {
	config := DefaultConfig()
	config.MaxSteps = 100_000
	re, err := CompileWithConfig(`(a+)+b`, config)
	require.NoError(t, err)

	matches, st := re.SearchAll(strings.Repeat("a", 40)+"c", "")
	require.Equal(t, StatusTimeout, st)
	require.Nil(t, matches)

	// Convenience methods treat a timeout as no match.
	require.False(t, re.MatchString(strings.Repeat("a", 40)+"c"))
	require.True(t, re.MatchString("aab"))
}

func TestMatchFrom(t *testing.T) {
	re := MustCompile(`(?<num>\d+)`)

	m, st := re.MatchFrom("ab123", "", 2)
	require.Equal(t, StatusMatch, st)
	require.Equal(t, "123", m.String())
	num, ok := m.NamedGroup("num")
	require.True(t, ok)
	require.Equal(t, "123", num)

	_, st = re.MatchFrom("ab123", "", 1)
	require.Equal(t, StatusNoMatch, st)

	_, st = re.MatchFrom("ab123", "", 99)
	require.Equal(t, StatusNoMatch, st)

	m, st = MustCompile(`^b`).MatchFrom("a\nb", "m", 2)
	require.Equal(t, StatusMatch, st)
	require.Equal(t, "b", m.String())
}

// TestIdempotentCompile checks that compiling the same pattern twice gives
// engines with identical behavior.
func TestIdempotentCompile(t *testing.T) {
	for _, pattern := range []string{`(a|b)*c`, `(?<w>\w+)\s\k<w>`, `x++|(?=y)\w`} {
		a, b := MustCompile(pattern), MustCompile(pattern)
		require.Equal(t, a.DumpNFA(), b.DumpNFA(), pattern)
		require.Equal(t, a.Tokens(), b.Tokens(), pattern)
	}
}

// TestTokenSpans checks that token spans reconstruct the pattern.
func TestTokenSpans(t *testing.T) {
	re := MustCompile(`(?<year>\d{4})-[^\s]+?\k<year>`)
	var b strings.Builder
	for _, tok := range re.Tokens() {
		b.WriteString(re.Source()[tok.Span.Begin:tok.Span.End])
	}
	require.Equal(t, re.Source(), b.String())
}

func TestConvenienceAPI(t *testing.T) {
	re := MustCompile(`(?<user>\w+)@(\w+)`)

	require.True(t, re.MatchString("mail user@host now"))
	require.True(t, re.Match([]byte("a@b")))
	require.False(t, re.MatchString("no at sign"))

	require.Equal(t, "user@host", re.FindString("mail user@host now"))
	require.Equal(t, []int{5, 14}, re.FindStringIndex("mail user@host now"))
	require.Nil(t, re.FindStringIndex("none"))

	require.Equal(t, []string{"user@host", "user", "host"}, re.FindStringSubmatch("mail user@host now"))
	require.Equal(t, []int{5, 14, 5, 9, 10, 14}, re.FindStringSubmatchIndex("mail user@host now"))
	require.Nil(t, re.FindStringSubmatch("none"))

	input := "a@b c@d e@f"
	require.Equal(t, []string{"a@b", "c@d", "e@f"}, re.FindAllString(input, -1))
	require.Equal(t, []string{"a@b", "c@d"}, re.FindAllString(input, 2))
	require.Nil(t, re.FindAllString(input, 0))
	require.Equal(t, [][]int{{0, 3}, {4, 7}, {8, 11}}, re.FindAllStringIndex(input, -1))
	require.Equal(t, [][]string{{"a@b", "a", "b"}, {"c@d", "c", "d"}}, re.FindAllStringSubmatch(input, 2))
	require.Equal(t, 3, re.CountString(input))

	require.Equal(t, 2, re.NumSubexp())
	require.Equal(t, []string{"", "user", ""}, re.SubexpNames())
	require.Equal(t, 1, re.SubexpIndex("user"))
	require.Equal(t, -1, re.SubexpIndex("host"))
	require.Equal(t, -1, re.SubexpIndex(""))
	require.Equal(t, `(?<user>\w+)@(\w+)`, re.String())
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"1.5+2", `1\.5\+2`},
		{`a\b`, `a\\b`},
		{"[x]{1}(y)|^$*?", `\[x\]\{1\}\(y\)\|\^\$\*\?`},
	}
	for _, tt := range tests {
		got := QuoteMeta(tt.in)
		require.Equal(t, tt.want, got)
		require.Equal(t, tt.in, MustCompile(got).FindString("<<"+tt.in+">>"))
	}
}

func TestDiagnostics(t *testing.T) {
	re := MustCompile(`[aa]`)
	require.NotEmpty(t, re.Diagnostics())

	re = MustCompile(`abc`)
	require.Empty(t, re.Diagnostics())
}

func TestStats(t *testing.T) {
	re := MustCompile(`\d`)
	re.CountString("a1b2")
	require.Equal(t, uint64(1), re.Stats().Searches)
	re.ResetStats()
	require.Zero(t, re.Stats().Searches)
}
