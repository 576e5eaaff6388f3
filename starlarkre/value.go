package starlarkre

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/coregx/backre"
)

// errTimeout reports a search that exhausted its step budget.
func errTimeout(fn string) error {
	return errors.Errorf("%s: step budget exhausted, the pattern backtracks too much on this input", fn)
}

// Pattern is a compiled regular expression as a Starlark value.
type Pattern struct {
	re    *backre.Regex
	flags int
}

func newPattern(re *backre.Regex, flags int) *Pattern {
	return &Pattern{re: re, flags: flags}
}

var (
	_ starlark.Value      = (*Pattern)(nil)
	_ starlark.HasAttrs   = (*Pattern)(nil)
	_ starlark.Comparable = (*Pattern)(nil)
)

func (p *Pattern) String() string {
	var b strings.Builder
	b.WriteString("re.compile(")
	b.WriteString(syntax.Quote(p.re.String(), false))
	if p.flags&FlagMultiline != 0 {
		b.WriteString(", re.MULTILINE")
	}
	b.WriteByte(')')
	return b.String()
}

func (p *Pattern) Type() string          { return "pattern" }
func (p *Pattern) Freeze()               {}
func (p *Pattern) Truth() starlark.Bool  { return p.re.String() != "" }
func (p *Pattern) Hash() (uint32, error) { return starlark.String(p.re.String()).Hash() }

func (p *Pattern) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Pattern)
	eq := p.re.String() == o.re.String() && p.flags == o.flags
	switch op {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", p.Type(), op, o.Type())
	}
}

var patternMethods = map[string]*starlark.Builtin{
	"search":   starlark.NewBuiltin("search", patternSearch),
	"match":    starlark.NewBuiltin("match", patternMatch),
	"findall":  starlark.NewBuiltin("findall", patternFindall),
	"finditer": starlark.NewBuiltin("finditer", patternFinditer),
	"split":    starlark.NewBuiltin("split", patternSplit),
	"sub":      starlark.NewBuiltin("sub", patternSub),
}

var patternMembers = map[string]func(p *Pattern) starlark.Value{
	"pattern": func(p *Pattern) starlark.Value { return starlark.String(p.re.String()) },
	"flags":   func(p *Pattern) starlark.Value { return starlark.MakeInt(p.flags) },
	"groups":  func(p *Pattern) starlark.Value { return starlark.MakeInt(p.re.NumSubexp()) },
	"groupindex": func(p *Pattern) starlark.Value {
		names := p.re.SubexpNames()
		gi := starlark.NewDict(len(names))
		for i, name := range names {
			if name != "" {
				_ = gi.SetKey(starlark.String(name), starlark.MakeInt(i))
			}
		}
		gi.Freeze()
		return gi
	},
}

func (p *Pattern) Attr(name string) (starlark.Value, error) {
	if o, ok := patternMethods[name]; ok {
		return o.BindReceiver(p), nil
	}
	if o, ok := patternMembers[name]; ok {
		return o(p), nil
	}
	return nil, nil
}

func (p *Pattern) AttrNames() []string {
	names := make([]string, 0, len(patternMethods)+len(patternMembers))
	for name := range patternMethods {
		names = append(names, name)
	}
	for name := range patternMembers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (p *Pattern) flagString() string {
	if p.flags&FlagMultiline != 0 {
		return "m"
	}
	return ""
}

// window clamps pos and endpos into str the way Python's re does and
// returns the searchable prefix. ok is false when the window is inverted.
func window(str string, pos, endpos int) (string, int, bool) {
	pos = min(max(pos, 0), len(str))
	endpos = min(max(endpos, 0), len(str))
	if pos > endpos {
		return "", 0, false
	}
	return str[:endpos], pos, true
}

// search scans start offsets from pos for the first match.
func (p *Pattern) search(fn, str string, pos, endpos int) (starlark.Value, error) {
	text, pos, ok := window(str, pos, endpos)
	if !ok {
		return starlark.None, nil
	}
	if pos == 0 {
		m, st := p.re.Search(text, p.flagString())
		return p.result(fn, str, m, st)
	}
	for at := pos; at <= len(text); {
		m, st := p.re.MatchFrom(text, p.flagString(), at)
		if st != backre.StatusNoMatch {
			return p.result(fn, str, m, st)
		}
		_, w := utf8.DecodeRuneInString(text[at:])
		at += max(w, 1)
	}
	return starlark.None, nil
}

// match makes one anchored attempt at pos.
func (p *Pattern) match(fn, str string, pos, endpos int) (starlark.Value, error) {
	text, pos, ok := window(str, pos, endpos)
	if !ok {
		return starlark.None, nil
	}
	m, st := p.re.MatchFrom(text, p.flagString(), pos)
	return p.result(fn, str, m, st)
}

func (p *Pattern) result(fn, str string, m *backre.Match, st backre.Status) (starlark.Value, error) {
	switch st {
	case backre.StatusTimeout:
		return nil, errTimeout(fn)
	case backre.StatusNoMatch:
		return starlark.None, nil
	}
	return newMatch(p, str, m), nil
}

func (p *Pattern) all(fn, str string) ([]*backre.Match, error) {
	matches, st := p.re.SearchAll(str, p.flagString())
	if st == backre.StatusTimeout {
		return nil, errTimeout(fn)
	}
	return matches, nil
}

// findall returns the matched strings when the pattern has no groups, the
// first group when it has one, and tuples of all groups otherwise.
// Non-participating groups yield "".
func (p *Pattern) findall(fn, str string) (starlark.Value, error) {
	matches, err := p.all(fn, str)
	if err != nil {
		return nil, err
	}
	n := p.re.NumSubexp()
	out := make([]starlark.Value, len(matches))
	for i, m := range matches {
		switch n {
		case 0:
			out[i] = starlark.String(m.String())
		case 1:
			s, _ := m.Group(1)
			out[i] = starlark.String(s)
		default:
			t := make(starlark.Tuple, n)
			for g := 1; g <= n; g++ {
				s, _ := m.Group(g)
				t[g-1] = starlark.String(s)
			}
			out[i] = t
		}
	}
	return starlark.NewList(out), nil
}

func (p *Pattern) finditer(fn, str string) (starlark.Value, error) {
	matches, err := p.all(fn, str)
	if err != nil {
		return nil, err
	}
	out := make([]starlark.Value, len(matches))
	for i, m := range matches {
		out[i] = newMatch(p, str, m)
	}
	return starlark.NewList(out), nil
}

// split splits str around the matches. The text of capture groups is
// included between the pieces, None for groups that did not participate.
// If maxsplit > 0, at most maxsplit splits occur.
func (p *Pattern) split(fn, str string, maxsplit int) (starlark.Value, error) {
	matches, err := p.all(fn, str)
	if err != nil {
		return nil, err
	}
	var out []starlark.Value
	last := 0
	for i, m := range matches {
		if maxsplit > 0 && i == maxsplit {
			break
		}
		out = append(out, starlark.String(str[last:m.Start()]))
		for g := 1; g <= p.re.NumSubexp(); g++ {
			if s, ok := m.Group(g); ok {
				out = append(out, starlark.String(s))
			} else {
				out = append(out, starlark.None)
			}
		}
		last = m.End()
	}
	out = append(out, starlark.String(str[last:]))
	return starlark.NewList(out), nil
}

// sub replaces the first count matches (all if count <= 0). repl is either
// a template string or a function called with each match object.
func (p *Pattern) sub(thread *starlark.Thread, fn string, repl starlark.Value, str string, count int) (starlark.Value, error) {
	matches, err := p.all(fn, str)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	last := 0
	for i, m := range matches {
		if count > 0 && i == count {
			break
		}
		b.WriteString(str[last:m.Start()])
		switch r := repl.(type) {
		case starlark.String:
			b.WriteString(p.re.ExpandString(string(r), m))
		case starlark.Callable:
			v, err := starlark.Call(thread, r, starlark.Tuple{newMatch(p, str, m)}, nil)
			if err != nil {
				return nil, err
			}
			s, ok := starlark.AsString(v)
			if !ok {
				return nil, errors.Errorf("%s: replacement function returned %s, want string", fn, v.Type())
			}
			b.WriteString(s)
		default:
			return nil, errors.Errorf("%s: repl must be string or callable, got %s", fn, repl.Type())
		}
		last = m.End()
	}
	b.WriteString(str[last:])
	return starlark.String(b.String()), nil
}

func patternSearch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str    string
		pos    int
		endpos = math.MaxInt
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "pos?", &pos, "endpos?", &endpos); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).search(b.Name(), str, pos, endpos)
}

func patternMatch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str    string
		pos    int
		endpos = math.MaxInt
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "pos?", &pos, "endpos?", &endpos); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).match(b.Name(), str, pos, endpos)
}

func patternFindall(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var str string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).findall(b.Name(), str)
}

func patternFinditer(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var str string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).finditer(b.Name(), str)
}

func patternSplit(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str      string
		maxsplit int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "maxsplit?", &maxsplit); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).split(b.Name(), str, maxsplit)
}

func patternSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		repl  starlark.Value
		str   string
		count int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "repl", &repl, "string", &str, "count?", &count); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).sub(thread, b.Name(), repl, str, count)
}

// Match is a match object as a Starlark value.
type Match struct {
	pattern *Pattern
	str     string
	m       *backre.Match
}

func newMatch(p *Pattern, str string, m *backre.Match) *Match {
	return &Match{pattern: p, str: str, m: m}
}

var (
	_ starlark.Value    = (*Match)(nil)
	_ starlark.HasAttrs = (*Match)(nil)
	_ starlark.Mapping  = (*Match)(nil)
)

func (m *Match) String() string {
	return fmt.Sprintf("<re.Match object; span=(%d, %d), match=%s>",
		m.m.Start(), m.m.End(), syntax.Quote(m.m.String(), false))
}

func (m *Match) Type() string         { return "match" }
func (m *Match) Freeze()              {}
func (m *Match) Truth() starlark.Bool { return true }

func (m *Match) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: %s", m.Type())
}

var matchMethods = map[string]*starlark.Builtin{
	"expand":    starlark.NewBuiltin("expand", matchExpand),
	"group":     starlark.NewBuiltin("group", matchGroup),
	"groups":    starlark.NewBuiltin("groups", matchGroups),
	"groupdict": starlark.NewBuiltin("groupdict", matchGroupDict),
	"start":     starlark.NewBuiltin("start", matchStart),
	"end":       starlark.NewBuiltin("end", matchEnd),
	"span":      starlark.NewBuiltin("span", matchSpan),
}

var matchMembers = map[string]func(m *Match) starlark.Value{
	"re":     func(m *Match) starlark.Value { return m.pattern },
	"string": func(m *Match) starlark.Value { return starlark.String(m.str) },
}

func (m *Match) Attr(name string) (starlark.Value, error) {
	if o, ok := matchMethods[name]; ok {
		return o.BindReceiver(m), nil
	}
	if o, ok := matchMembers[name]; ok {
		return o(m), nil
	}
	return nil, nil
}

func (m *Match) AttrNames() []string {
	names := make([]string, 0, len(matchMethods)+len(matchMembers))
	for name := range matchMethods {
		names = append(names, name)
	}
	for name := range matchMembers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get implements m[g], which is the same as m.group(g).
func (m *Match) Get(v starlark.Value) (starlark.Value, bool, error) {
	g, err := m.group(v, starlark.None)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// index resolves a group number or name.
func (m *Match) index(v starlark.Value) (int, error) {
	switch t := v.(type) {
	case starlark.Int:
		i, ok := t.Int64()
		if ok && i >= 0 && i <= int64(m.pattern.re.NumSubexp()) {
			return int(i), nil
		}
	case starlark.String:
		if i := m.pattern.re.SubexpIndex(string(t)); i >= 0 {
			return i, nil
		}
	}
	return 0, errors.Errorf("no such group: %s", v)
}

func (m *Match) group(v, dflt starlark.Value) (starlark.Value, error) {
	i, err := m.index(v)
	if err != nil {
		return nil, err
	}
	s, ok := m.m.Group(i)
	if !ok {
		return dflt, nil
	}
	return starlark.String(s), nil
}

func matchGroup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, errors.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	m := b.Receiver().(*Match)
	switch len(args) {
	case 0:
		return m.group(starlark.MakeInt(0), starlark.None)
	case 1:
		return m.group(args[0], starlark.None)
	}
	out := make(starlark.Tuple, len(args))
	for i, a := range args {
		g, err := m.group(a, starlark.None)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

func matchGroups(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dflt starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &dflt); err != nil {
		return nil, err
	}
	m := b.Receiver().(*Match)
	n := m.pattern.re.NumSubexp()
	out := make(starlark.Tuple, n)
	for i := 1; i <= n; i++ {
		g, err := m.group(starlark.MakeInt(i), dflt)
		if err != nil {
			return nil, err
		}
		out[i-1] = g
	}
	return out, nil
}

func matchGroupDict(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dflt starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &dflt); err != nil {
		return nil, err
	}
	m := b.Receiver().(*Match)
	names := m.pattern.re.SubexpNames()
	d := starlark.NewDict(len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		g, err := m.group(starlark.MakeInt(i), dflt)
		if err != nil {
			return nil, err
		}
		if err := d.SetKey(starlark.String(name), g); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (m *Match) span(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (int, int, error) {
	var g starlark.Value = starlark.MakeInt(0)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &g); err != nil {
		return 0, 0, err
	}
	i, err := m.index(g)
	if err != nil {
		return 0, 0, err
	}
	begin, end := m.m.GroupIndex(i)
	return begin, end, nil
}

func matchStart(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	begin, _, err := b.Receiver().(*Match).span(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(begin), nil
}

func matchEnd(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	_, end, err := b.Receiver().(*Match).span(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(end), nil
}

func matchSpan(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	begin, end, err := b.Receiver().(*Match).span(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.Tuple{starlark.MakeInt(begin), starlark.MakeInt(end)}, nil
}

func matchExpand(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var template string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "template", &template); err != nil {
		return nil, err
	}
	m := b.Receiver().(*Match)
	return starlark.String(m.pattern.re.ExpandString(template, m.m)), nil
}
