package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/coregx/backre/meta"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const poem = `the the cat
sat on
on the mat
`

func TestGrep(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"lines", []string{`(\w+) \1`}, "the the cat\n"},
		{"only matching", []string{"-o", `\bon\b`}, "on\non\n"},
		{"count", []string{"-c", `at\b`}, "3\n"},
		{"atomic", []string{`^(?>\w+) \w+$`}, "sat on\n"},
		{"lookahead", []string{`on(?= the)`}, "on the mat\n"},
		{"escaped", []string{"--escaped", "-o", `\\bm\\w+`}, "mat\n"},
		{"multiline lines", []string{"-m", `^on`}, "on the mat\n"},
		{"multiline only matching", []string{"-m", "-o", `on$`}, "on\n"},
		{"multiline count", []string{"-m", "-c", `^\w`}, "3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, poem, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestGrepNoMatch(t *testing.T) {
	out, _, err := execute(t, poem, "dog")
	require.True(t, errors.Is(err, errNoMatch))
	require.Empty(t, out)
}

func TestGrepInvalidPattern(t *testing.T) {
	_, _, err := execute(t, poem, "(a")
	var ce *meta.CompileError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "(a", ce.Pattern)
}

func TestGrepTimeout(t *testing.T) {
	_, _, err := execute(t, strings.Repeat("a", 30)+"c\n", "--max-steps", "1000", `(a+)+b`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "step budget exhausted")
}

func TestGrepFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("foo\nbar\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("baz\nfoo foo\n"), 0o644))

	out, _, err := execute(t, "", "-c", "foo", a, b)
	require.NoError(t, err)
	require.Equal(t, a+":1\n"+b+":1\n", out)

	out, _, err = execute(t, "", "ba.", b)
	require.NoError(t, err)
	require.Equal(t, "baz\n", out)

	_, _, err = execute(t, "", "foo", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening")
}

func TestGrepWarnings(t *testing.T) {
	_, stderr, err := execute(t, "aa\n", "--warnings", "[aa]")
	require.NoError(t, err)
	require.Contains(t, stderr, "redundant")
}

func TestGrepDumpNFA(t *testing.T) {
	out, _, err := execute(t, "abc\n", "--dump-nfa", "b")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "abc\n"))
	require.Greater(t, len(out), len("abc\n"))
}

func TestGrepEnvironment(t *testing.T) {
	t.Setenv("BACKGREP_ONLY_MATCHING", "true")
	out, _, err := execute(t, poem, `m\w+`)
	require.NoError(t, err)
	require.Equal(t, "mat\n", out)
}

func TestGrepConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "backgrep.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("count: true\n"), 0o644))

	out, _, err := execute(t, poem, "--config", cfg, "the")
	require.NoError(t, err)
	require.Equal(t, "2\n", out)

	_, _, err = execute(t, poem, "--config", filepath.Join(t.TempDir(), "none.yaml"), "the")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}
