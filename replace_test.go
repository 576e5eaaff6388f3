package backre

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceAllString(t *testing.T) {
	tests := []struct {
		pattern string
		src     string
		repl    string
		want    string
	}{
		{`(\w+)@(\w+)\.(\w+)`, "user@example.com", "$1 at $2 dot $3", "user at example dot com"},
		{`(?<user>\w+)@(\w+)`, "a@b c@d", "${user}[${2}]", "a[b] c[d]"},
		{`\d+`, "age: 42", "$$", "age: $"},
		{`\d+`, "age: 42", "$0$0", "age: 4242"},
		{`(a)|(b)`, "ab", "[$1$2]", "[a][b]"},
		{`x`, "axbx", "${", "a${b${"},
		{`x`, "axb", "$z", "a$zb"},
		{`(\w)\1`, "aabbc", "<$1>", "<a><b>c"},
		{`q`, "abc", "$1", "abc"},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		require.Equal(t, tt.want, re.ReplaceAllString(tt.src, tt.repl), "%s on %q", tt.pattern, tt.src)
	}
}

func TestReplaceAllLiteralString(t *testing.T) {
	re := MustCompile(`\d+`)
	require.Equal(t, "age: $1", re.ReplaceAllLiteralString("age: 42", "$1"))
	require.Equal(t, "-a-b-", MustCompile(`x*`).ReplaceAllLiteralString("ab", "-"))
}

func TestReplaceAllStringFunc(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.ReplaceAllStringFunc("1 2 30", func(s string) string {
		n, _ := strconv.Atoi(s)
		return strconv.Itoa(n * 2)
	})
	require.Equal(t, "2 4 60", got)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		n       int
		want    []string
	}{
		{`,`, "a,b,c", -1, []string{"a", "b", "c"}},
		{`,`, "a,b,c", 2, []string{"a", "b,c"}},
		{`,`, "a,b,c", 1, []string{"a,b,c"}},
		{`,`, "a,b,c", 0, nil},
		{`\s*,\s*`, "a , b,c", -1, []string{"a", "b", "c"}},
		{`x`, "abc", -1, []string{"abc"}},
		{`,`, ",a,", -1, []string{"", "a", ""}},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		require.Equal(t, tt.want, re.Split(tt.s, tt.n), "%s on %q n=%d", tt.pattern, tt.s, tt.n)
	}
}
