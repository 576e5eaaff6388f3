package syntax

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, pattern string) *Regexp {
	t.Helper()
	re, err := Parse(pattern)
	require.NoError(t, err, "Parse(%q)", pattern)
	return re
}

func TestParse_Structure(t *testing.T) {
	re := mustParse(t, "ab|c*")
	alt, ok := re.Root.(*Alternation)
	require.True(t, ok, "root is %T", re.Root)
	require.Len(t, alt.Alts, 2)
	require.Equal(t, Span{0, 5}, alt.Span())

	cat, ok := alt.Alts[0].(*Concat)
	require.True(t, ok)
	require.Len(t, cat.Items, 2)
	require.Equal(t, "ab", re.Text(cat.Span()))

	rep, ok := alt.Alts[1].(*Repeat)
	require.True(t, ok)
	require.Equal(t, Quantifier{Min: 0, Max: -1}, rep.Quant)
	require.Equal(t, "c*", re.Text(rep.Span()))
}

func TestParse_Empty(t *testing.T) {
	for _, p := range []string{"", "|", "()", "a|"} {
		t.Run(p, func(t *testing.T) {
			mustParse(t, p)
		})
	}

	re := mustParse(t, "")
	_, ok := re.Root.(*Empty)
	require.True(t, ok)

	re = mustParse(t, "a|")
	alt := re.Root.(*Alternation)
	e, ok := alt.Alts[1].(*Empty)
	require.True(t, ok)
	require.Equal(t, Span{2, 2}, e.Span())
}

func TestParse_GroupNumbering(t *testing.T) {
	re := mustParse(t, `(a(?<inner>b)(?:c)(?>d(?>e)))(f)`)
	require.Equal(t, 3, re.NumGroups)
	require.Equal(t, 2, re.NumAtomic)
	require.Equal(t, 3, re.Groups.Len())
	require.Equal(t, []string{"", "", "inner", ""}, re.Groups.Names())

	g, ok := re.Groups.LookupName("inner")
	require.True(t, ok)
	require.Equal(t, 2, g.Index)
	require.Equal(t, "(?<inner>b)", re.Text(g.Span()))

	g, ok = re.Groups.Lookup(3)
	require.True(t, ok)
	require.Equal(t, "(f)", re.Text(g.Span()))

	var atomic []int
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Group:
			if n.Kind == GroupAtomic {
				atomic = append(atomic, n.Index)
			}
			walk(n.Sub)
		case *Concat:
			for _, it := range n.Items {
				walk(it)
			}
		}
	}
	walk(re.Root)
	require.Equal(t, []int{-1, -2}, atomic)
}

func TestParse_Backrefs(t *testing.T) {
	re := mustParse(t, `(?<x>a)(?<y>b)\k<x>\k<y>\1`)
	cat := re.Root.(*Concat)
	want := []*Backref{
		{Loc: Span{14, 19}, Index: 1, Name: "x"},
		{Loc: Span{19, 24}, Index: 2, Name: "y"},
		{Loc: Span{24, 26}, Index: 1},
	}
	for i, w := range want {
		require.Equal(t, w, cat.Items[2+i])
	}

	// A group may be referenced from inside itself.
	mustParse(t, `(a\1)`)
}

func TestParse_Class(t *testing.T) {
	tests := []struct {
		pattern string
		negate  bool
		items   []ClassItem
	}{
		{"[abc]", false, []ClassItem{
			{Kind: ItemChar, Lo: 'a', Hi: 'a', Span: Span{1, 2}},
			{Kind: ItemChar, Lo: 'b', Hi: 'b', Span: Span{2, 3}},
			{Kind: ItemChar, Lo: 'c', Hi: 'c', Span: Span{3, 4}},
		}},
		{"[^a-z]", true, []ClassItem{
			{Kind: ItemRange, Lo: 'a', Hi: 'z', Span: Span{2, 5}},
		}},
		{"[-a]", false, []ClassItem{
			{Kind: ItemChar, Lo: '-', Hi: '-', Span: Span{1, 2}},
			{Kind: ItemChar, Lo: 'a', Hi: 'a', Span: Span{2, 3}},
		}},
		{"[a-]", false, []ClassItem{
			{Kind: ItemChar, Lo: 'a', Hi: 'a', Span: Span{1, 2}},
			{Kind: ItemChar, Lo: '-', Hi: '-', Span: Span{2, 3}},
		}},
		{`[\d-x]`, false, []ClassItem{
			{Kind: ItemShorthand, Lo: 'd', Hi: 'd', Span: Span{1, 3}},
			{Kind: ItemChar, Lo: '-', Hi: '-', Span: Span{3, 4}},
			{Kind: ItemChar, Lo: 'x', Hi: 'x', Span: Span{4, 5}},
		}},
		{"[a-c-e]", false, []ClassItem{
			{Kind: ItemRange, Lo: 'a', Hi: 'c', Span: Span{1, 4}},
			{Kind: ItemChar, Lo: '-', Hi: '-', Span: Span{4, 5}},
			{Kind: ItemChar, Lo: 'e', Hi: 'e', Span: Span{5, 6}},
		}},
		{"[--/]", false, []ClassItem{
			{Kind: ItemRange, Lo: '-', Hi: '/', Span: Span{1, 4}},
		}},
		{`[\x41-\x43]`, false, []ClassItem{
			{Kind: ItemRange, Lo: 'A', Hi: 'C', Span: Span{1, 10}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := mustParse(t, tt.pattern)
			cls, ok := re.Root.(*Class)
			require.True(t, ok, "root is %T", re.Root)
			require.Equal(t, tt.negate, cls.Class.Negate)
			if diff := cmp.Diff(tt.items, cls.Class.Items); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, Span{0, len(tt.pattern)}, cls.Span())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
		offset  int
	}{
		{"(a", ErrMissingParen, 0},
		{"a)", ErrUnexpectedParen, 1},
		{"*a", ErrMissingRepeatArg, 0},
		{"a**", ErrMissingRepeatArg, 2},
		{"a|?", ErrMissingRepeatArg, 2},
		{"[abc", ErrMissingBracket, 0},
		{"[z-a]", ErrInvalidClassRange, 1},
		{`[a-\d]`, ErrInvalidClassRange, 1},
		{"[a--z]", ErrInvalidClassRange, 1},
		{`\1(a)`, ErrUnresolvedBackref, 0},
		{`(a)\2`, ErrUnresolvedBackref, 3},
		{`\k<nope>`, ErrUnresolvedBackref, 0},
		{`(?<x>a)(?<x>b)`, ErrDuplicateGroupName, 7},
		{"((a)", ErrMissingParen, 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			require.Error(t, err)
			var serr *Error
			require.True(t, errors.As(err, &serr), "want *Error, got %T", err)
			require.Equal(t, tt.code, serr.Code, serr.Error())
			require.Equal(t, tt.offset, serr.Offset)
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	deep := make([]byte, 0, 2*(maxNesting+1))
	for i := 0; i <= maxNesting; i++ {
		deep = append(deep, '(')
	}
	for i := 0; i <= maxNesting; i++ {
		deep = append(deep, ')')
	}
	_, err := Parse(string(deep))
	var serr *Error
	require.True(t, errors.As(err, &serr))
	require.Equal(t, ErrNestingDepth, serr.Code)
}

// TestParse_Idempotent checks that parsing is a pure function of the text.
func TestParse_Idempotent(t *testing.T) {
	patterns := []string{
		`(a+)+b`,
		`(?<y>\d{4})-(?<m>\d\d)|[^\s]*?`,
		`(?>x|xy)(z)(?=q)(?!r)\1?`,
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			a := mustParse(t, p)
			b := mustParse(t, p)
			opts := cmp.AllowUnexported(GroupTable{})
			if diff := cmp.Diff(a, b, opts); diff != "" {
				t.Errorf("Parse not deterministic (-first +second):\n%s", diff)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`abc`, `abc`, false},
		{`\\d+`, `\d+`, false},
		{`a\.b`, `a.b`, false},
		{`\\\\`, `\\`, false},
		{`x\`, ``, true},
		{`\\\`, ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Unescape(tt.in)
			if tt.wantErr {
				var serr *Error
				require.True(t, errors.As(err, &serr))
				require.Equal(t, ErrDanglingBackslash, serr.Code)
				require.Equal(t, len(tt.in)-1, serr.Offset)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
