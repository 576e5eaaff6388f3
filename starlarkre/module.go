// Package starlarkre exposes backre to Starlark scripts as a module named
// "re".
//
// The module mirrors a subset of Python's re module:
//
//	re.compile(pattern, flags=0)
//	re.search(pattern, string, flags=0)
//	re.match(pattern, string, flags=0)
//	re.findall(pattern, string, flags=0)
//	re.finditer(pattern, string, flags=0)
//	re.split(pattern, string, maxsplit=0, flags=0)
//	re.sub(pattern, repl, string, count=0, flags=0)
//	re.escape(string)
//
// Patterns use backre syntax, including backreferences, atomic groups and
// lookahead. Replacement templates use $1, ${1} and ${name}. A search that
// exhausts the step budget fails with an error instead of returning None.
package starlarkre

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"github.com/coregx/backre"
)

// Flags for the flags parameter. The values match Python's re module.
const (
	FlagMultiline = 8
)

// Module is the Starlark value of the re module.
type Module struct {
	members starlark.StringDict
	config  backre.Config
}

// NewModule creates a re module compiling patterns with the default
// configuration.
func NewModule() *Module {
	return NewModuleWithConfig(backre.DefaultConfig())
}

// NewModuleWithConfig creates a re module compiling patterns with config.
func NewModuleWithConfig(config backre.Config) *Module {
	members := starlark.StringDict{
		"M":         starlark.MakeInt(FlagMultiline),
		"MULTILINE": starlark.MakeInt(FlagMultiline),
		"NOFLAG":    starlark.MakeInt(0),

		"compile":  starlark.NewBuiltin("compile", reCompile),
		"search":   starlark.NewBuiltin("search", reSearch),
		"match":    starlark.NewBuiltin("match", reMatch),
		"findall":  starlark.NewBuiltin("findall", reFindall),
		"finditer": starlark.NewBuiltin("finditer", reFinditer),
		"split":    starlark.NewBuiltin("split", reSplit),
		"sub":      starlark.NewBuiltin("sub", reSub),
		"escape":   starlark.NewBuiltin("escape", reEscape),
	}
	return &Module{members: members, config: config}
}

var (
	_ starlark.Value    = (*Module)(nil)
	_ starlark.HasAttrs = (*Module)(nil)
)

func (m *Module) Freeze()               { m.members.Freeze() }
func (m *Module) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", m.Type()) }
func (m *Module) String() string        { return "<module re>" }
func (m *Module) Truth() starlark.Bool  { return true }
func (m *Module) Type() string          { return "module" }

func (m *Module) Attr(name string) (starlark.Value, error) {
	if v, ok := m.members[name]; ok {
		if b, ok := v.(*starlark.Builtin); ok {
			return b.BindReceiver(m), nil
		}
		return v, nil
	}
	return nil, nil
}

func (m *Module) AttrNames() []string { return m.members.Keys() }

func (m *Module) compile(pattern string, flags int) (*Pattern, error) {
	re, err := backre.CompileWithConfig(pattern, m.config)
	if err != nil {
		return nil, err
	}
	return newPattern(re, flags), nil
}

// patternParam accepts either a pattern string or a compiled Pattern.
type patternParam struct {
	compiled *Pattern
	raw      string
}

var _ starlark.Unpacker = (*patternParam)(nil)

func (p *patternParam) Unpack(v starlark.Value) error {
	switch t := v.(type) {
	case *Pattern:
		p.compiled = t
	case starlark.String:
		p.raw = string(t)
	default:
		return errors.Errorf("first argument must be string or compiled pattern, got %s", v.Type())
	}
	return nil
}

// resolve returns the compiled pattern for p. Flags may only accompany a
// pattern string.
func resolve(b *starlark.Builtin, p patternParam, flags int) (*Pattern, error) {
	if p.compiled != nil {
		if flags != 0 {
			return nil, errors.Errorf("%s: cannot process flags argument with a compiled pattern", b.Name())
		}
		return p.compiled, nil
	}
	pat, err := b.Receiver().(*Module).compile(p.raw, flags)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", b.Name())
	}
	return pat, nil
}

func reCompile(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// reSearch scans the string for the first match and returns a match object,
// or None if no position matches.
func reSearch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.search(b.Name(), str, 0, math.MaxInt)
}

// reMatch matches only at the beginning of the string.
func reMatch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.match(b.Name(), str, 0, math.MaxInt)
}

func reFindall(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.findall(b.Name(), str)
}

func reFinditer(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.finditer(b.Name(), str)
}

func reSplit(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern  patternParam
		str      string
		maxsplit int
		flags    int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "maxsplit?", &maxsplit, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.split(b.Name(), str, maxsplit)
}

func reSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		repl    starlark.Value
		str     string
		count   int
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "repl", &repl, "string", &str, "count?", &count, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := resolve(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.sub(thread, b.Name(), repl, str, count)
}

func reEscape(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &s); err != nil {
		return nil, err
	}
	return starlark.String(backre.QuoteMeta(s)), nil
}
