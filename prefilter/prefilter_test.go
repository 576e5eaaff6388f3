package prefilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregx/backre/literal"
	"github.com/coregx/backre/syntax"
)

func build(t *testing.T, pattern string) Prefilter {
	t.Helper()
	re, err := syntax.Parse(pattern)
	require.NoError(t, err)
	return New(literal.New(literal.DefaultConfig()).ExtractPrefixes(re))
}

func TestNew_Selection(t *testing.T) {
	tests := []struct {
		pattern string
		want    string // "" means no prefilter
	}{
		{`a\d+`, "memchr"},
		{`hello\s`, "memmem"},
		{`foo|foobar`, "memmem"},
		{`(get|put|post) /`, "aho-corasick"},
		{`[abc]x`, "aho-corasick"},
		{`\w+`, ""},
		{`a?`, ""},
		{``, ""},
		{`.*x`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := build(t, tt.pattern)
			if tt.want == "" {
				require.Nil(t, pf)
				return
			}
			require.NotNil(t, pf)
			require.Equal(t, tt.want, pf.String())
		})
	}

	require.Nil(t, New(nil))
	require.Nil(t, New(literal.NewSeq()))
}

func TestPrefilter_Find(t *testing.T) {
	haystack := []byte("foo hello bar world baz hello")
	tests := []struct {
		pattern string
		start   int
		want    int
	}{
		{`h\w+`, 0, 4},
		{`h\w+`, 5, 24},
		{`h\w+`, 25, -1},
		{`hello`, 0, 4},
		{`hello`, 4, 4},
		{`hello`, 5, 24},
		{`hello`, 25, -1},
		{`hello|world`, 0, 4},
		{`hello|world`, 5, 14},
		{`hello|world`, 15, 24},
		{`zzz|yyy`, 0, -1},
		{`hello`, len(haystack), -1},
	}
	for _, tt := range tests {
		pf := build(t, tt.pattern)
		require.NotNil(t, pf, tt.pattern)
		require.Equal(t, tt.want, pf.Find(haystack, tt.start), "%s from %d", tt.pattern, tt.start)
	}
}

func TestMemchr_Find(t *testing.T) {
	long := strings.Repeat("x", 37)
	for _, tt := range []struct {
		haystack string
		needle   byte
		start    int
		want     int
	}{
		{"", 'a', 0, -1},
		{"abc", 'c', 0, 2},
		{"abc", 'z', 0, -1},
		{"abca", 'a', 1, 3},
		{"abc", 'a', 3, -1},
		{"abc", 'a', -1, -1},
		{long + "a", 'a', 0, 37},
		{long[:16] + "a" + long, 'a', 10, 16},
		{"\x80\xff" + long + "\xff", 0xff, 2, 39},
	} {
		pf := newMemchrPrefilter(tt.needle)
		require.Equal(t, tt.want, pf.Find([]byte(tt.haystack), tt.start), "%q %q from %d", tt.haystack, tt.needle, tt.start)
	}
}

// TestMemmem_Overlapping checks verification after a first-byte hit that
// fails near the end of the haystack.
func TestMemmem_Overlapping(t *testing.T) {
	pf := newMemmemPrefilter([]byte("aab"))
	require.Equal(t, 4, pf.Find([]byte("aaaaaabaaaa"), 0))
	require.Equal(t, -1, pf.Find([]byte("aaaaaaa"), 0))
	require.Equal(t, -1, pf.Find([]byte("aa"), 0))
	require.Equal(t, 3, pf.HeapBytes())
}
