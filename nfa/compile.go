package nfa

import (
	"github.com/coregx/backre/internal/conv"
	"github.com/coregx/backre/internal/sparse"
	"github.com/coregx/backre/syntax"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxRecursionDepth limits syntax tree depth during compilation
	// to prevent stack overflow.
	// Default: 100
	MaxRecursionDepth int

	// MaxStates limits the size of the state arena. Counted repetition
	// multiplies its body, so this bounds patterns like (a{100}){100}.
	// Default: 100000
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 100,
		MaxStates:         100_000,
	}
}

// Compiler compiles syntax trees into NFAs.
// A Compiler is not safe for concurrent use; the NFAs it returns are.
type Compiler struct {
	config     CompilerConfig
	b          *Builder
	depth      int
	nextLoop   int
	nextAtomic int
	subs       []Frag
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses and compiles a pattern.
// Syntax errors are returned wrapped in a *CompileError.
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	re, err := syntax.Parse(pattern)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}
	nfa, err := c.CompileRegexp(re)
	if cerr, ok := err.(*CompileError); ok {
		cerr.Pattern = pattern
	}
	return nfa, err
}

// Compile compiles a parsed pattern with the given configuration.
func Compile(re *syntax.Regexp, config CompilerConfig) (*NFA, error) {
	return NewCompiler(config).CompileRegexp(re)
}

// CompileRegexp compiles a parsed pattern into an NFA.
//
// Capture group numbers and atomic ids are taken from the syntax tree.
// Possessive quantifiers are compiled as greedy ones wrapped in an implicit
// atomic group whose id is allocated after the pattern's own atomic ids.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*NFA, error) {
	c.b = NewBuilder(c.config.MaxStates)
	c.depth = 0
	c.nextLoop = 0
	c.nextAtomic = -re.NumAtomic - 1
	c.subs = nil

	main, err := c.compile(re.Root)
	if err != nil {
		return nil, err
	}
	return c.b.Build(main, c.subs, re.NumGroups, c.nextLoop, -c.nextAtomic-1, re.Groups.Names()), nil
}

// compile recursively compiles a node into a fragment.
func (c *Compiler) compile(n syntax.Node) (Frag, error) {
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return Frag{}, &CompileError{
			Err: ErrTooComplex,
		}
	}
	defer func() { c.depth-- }()

	switch n := n.(type) {
	case *syntax.Empty:
		s, err := c.b.AddState()
		return Frag{s, s}, err
	case *syntax.Char:
		return c.single(Edge{Kind: EdgeChar, Char: n.Rune})
	case *syntax.Shorthand:
		return c.single(Edge{Kind: EdgeShorthand, Char: n.Letter})
	case *syntax.Class:
		return c.single(Edge{Kind: EdgeClass, Class: n.Class})
	case *syntax.Boundary:
		return c.single(Edge{Kind: EdgeBoundary, Char: n.Letter})
	case *syntax.Backref:
		return c.single(Edge{Kind: EdgeBackref, Group: n.Index})
	case *syntax.Concat:
		return c.compileConcat(n.Items)
	case *syntax.Alternation:
		return c.compileAlternation(n.Alts)
	case *syntax.Group:
		return c.compileGroup(n)
	case *syntax.Lookaround:
		return c.compileLook(n)
	case *syntax.Repeat:
		return c.compileRepeat(n)
	}
	syntax.Invariant(false, "compile: unexpected node %T", n)
	return Frag{}, nil
}

// single builds start -e-> finish.
func (c *Compiler) single(e Edge) (Frag, error) {
	start, finish, err := c.pair()
	if err != nil {
		return Frag{}, err
	}
	e.To = finish
	c.b.AddEdge(start, e)
	return Frag{start, finish}, nil
}

func (c *Compiler) pair() (StateID, StateID, error) {
	start, err := c.b.AddState()
	if err != nil {
		return InvalidState, InvalidState, err
	}
	finish, err := c.b.AddState()
	if err != nil {
		return InvalidState, InvalidState, err
	}
	return start, finish, nil
}

// concat splices b after a by merging b's start into a's finish.
func (c *Compiler) concat(a, b Frag) Frag {
	c.b.Merge(a.Finish, b.Start)
	if b.Start == b.Finish {
		return Frag{a.Start, a.Finish}
	}
	return Frag{a.Start, b.Finish}
}

func (c *Compiler) compileConcat(items []syntax.Node) (Frag, error) {
	f, err := c.compile(items[0])
	if err != nil {
		return Frag{}, err
	}
	for _, it := range items[1:] {
		next, err := c.compile(it)
		if err != nil {
			return Frag{}, err
		}
		f = c.concat(f, next)
	}
	return f, nil
}

func (c *Compiler) compileAlternation(alts []syntax.Node) (Frag, error) {
	start, finish, err := c.pair()
	if err != nil {
		return Frag{}, err
	}
	for _, alt := range alts {
		f, err := c.compile(alt)
		if err != nil {
			return Frag{}, err
		}
		c.b.AddEpsilon(start, f.Start)
		c.b.AddEpsilon(f.Finish, finish)
	}
	return Frag{start, finish}, nil
}

// wrap surrounds body with fresh start and finish states joined to it by
// epsilon edges, so that markers placed on them never share a state with
// markers of the body.
func (c *Compiler) wrap(body Frag) (Frag, error) {
	start, finish, err := c.pair()
	if err != nil {
		return Frag{}, err
	}
	c.b.AddEpsilon(start, body.Start)
	c.b.AddEpsilon(body.Finish, finish)
	return Frag{start, finish}, nil
}

func (c *Compiler) compileGroup(g *syntax.Group) (Frag, error) {
	body, err := c.compile(g.Sub)
	if err != nil {
		return Frag{}, err
	}
	switch g.Kind {
	case syntax.GroupNonCapturing:
		return body, nil
	case syntax.GroupAtomic:
		return c.atomic(body, g.Index)
	}
	f, err := c.wrap(body)
	if err != nil {
		return Frag{}, err
	}
	start, finish := c.b.State(f.Start), c.b.State(f.Finish)
	start.EnterGroups = append(start.EnterGroups, g.Index)
	finish.ExitGroups = append(finish.ExitGroups, g.Index)
	return f, nil
}

func (c *Compiler) atomic(body Frag, id int) (Frag, error) {
	f, err := c.wrap(body)
	if err != nil {
		return Frag{}, err
	}
	start, finish := c.b.State(f.Start), c.b.State(f.Finish)
	start.EnterAtomic = append(start.EnterAtomic, id)
	finish.ExitAtomic = append(finish.ExitAtomic, id)
	return f, nil
}

// compileLook compiles the assertion body as an independent fragment and
// returns a single edge that refers to it.
func (c *Compiler) compileLook(l *syntax.Lookaround) (Frag, error) {
	sub, err := c.compile(l.Sub)
	if err != nil {
		return Frag{}, err
	}
	idx := len(c.subs)
	c.subs = append(c.subs, sub)
	return c.single(Edge{Kind: EdgeLook, Look: l.Kind, Sub: idx})
}

// compileRepeat expands x{min,max} into min mandatory copies followed by
// either a star over one more copy (max unbounded) or max-min nested
// optional copies. Copies are clones of the compiled body made before the
// body itself is spliced in, so each has its own states and loop indices.
func (c *Compiler) compileRepeat(r *syntax.Repeat) (Frag, error) {
	q := r.Quant
	if q.Max == 0 {
		s, err := c.b.AddState()
		return Frag{s, s}, err
	}

	body, err := c.compile(r.Sub)
	if err != nil {
		return Frag{}, err
	}
	copies := q.Min + 1
	if q.Max != -1 {
		copies = q.Max
	}
	pieces := make([]Frag, copies)
	for i := 0; i < copies-1; i++ {
		if pieces[i], err = c.clone(body); err != nil {
			return Frag{}, err
		}
	}
	pieces[copies-1] = body

	var tail Frag
	switch {
	case q.Max == -1:
		tail, err = c.star(pieces[q.Min], q.Lazy)
	case q.Max > q.Min:
		tail, err = c.optionals(pieces[q.Min:], q.Lazy)
	}
	if err != nil {
		return Frag{}, err
	}

	var f Frag
	if q.Min > 0 {
		f = pieces[0]
		for _, p := range pieces[1:q.Min] {
			f = c.concat(f, p)
		}
		if q.Max != q.Min {
			f = c.concat(f, tail)
		}
	} else {
		f = tail
	}

	if q.Possessive {
		id := c.nextAtomic
		c.nextAtomic--
		return c.atomic(f, id)
	}
	return f, nil
}

// choice adds an entry state branching to enter or skip; lazy tries skip
// first.
func (c *Compiler) choice(enter, skip StateID, lazy bool) (StateID, error) {
	s, err := c.b.AddState()
	if err != nil {
		return InvalidState, err
	}
	if lazy {
		c.b.AddEpsilon(s, skip)
		c.b.AddEpsilon(s, enter)
	} else {
		c.b.AddEpsilon(s, enter)
		c.b.AddEpsilon(s, skip)
	}
	return s, nil
}

// star loops body zero or more times. The body's finish becomes the
// loop-body-end state: it jumps back to the body start or on to the exit.
func (c *Compiler) star(body Frag, lazy bool) (Frag, error) {
	exit, err := c.b.AddState()
	if err != nil {
		return Frag{}, err
	}
	entry, err := c.choice(body.Start, exit, lazy)
	if err != nil {
		return Frag{}, err
	}

	end := c.b.State(body.Finish)
	syntax.Invariant(!end.LoopEnd, "star body finish %d is already a loop end", body.Finish)
	end.LoopEnd = true
	end.Loop = c.nextLoop
	c.nextLoop++
	if lazy {
		c.b.AddEpsilon(body.Finish, exit)
		c.b.AddEpsilon(body.Finish, body.Start)
	} else {
		c.b.AddEpsilon(body.Finish, body.Start)
		c.b.AddEpsilon(body.Finish, exit)
	}
	return Frag{entry, exit}, nil
}

// optionals nests pieces as p0(p1(p2)?)?)? built innermost first.
func (c *Compiler) optionals(pieces []Frag, lazy bool) (Frag, error) {
	var tail Frag
	for i := len(pieces) - 1; i >= 0; i-- {
		inner := pieces[i]
		if i < len(pieces)-1 {
			inner = c.concat(inner, tail)
		}
		exit, err := c.b.AddState()
		if err != nil {
			return Frag{}, err
		}
		entry, err := c.choice(inner.Start, exit, lazy)
		if err != nil {
			return Frag{}, err
		}
		c.b.AddEpsilon(inner.Finish, exit)
		tail = Frag{entry, exit}
	}
	return tail, nil
}

// clone copies every state reachable from f.Start into fresh states.
// Loop-body-end states get fresh loop indices; lookaround edges keep
// pointing at the shared sub-fragment.
func (c *Compiler) clone(f Frag) (Frag, error) {
	n := c.b.Len()
	seen := sparse.NewSparseSet(conv.IntToUint32(n))
	remap := make([]StateID, n)

	seen.Insert(uint32(f.Start))
	for i := 0; i < seen.Len(); i++ {
		old := seen.Values()[i]
		id, err := c.b.AddState()
		if err != nil {
			return Frag{}, err
		}
		remap[old] = id
		for _, e := range c.b.states[old].Edges {
			seen.Insert(uint32(e.To))
		}
	}
	syntax.Invariant(seen.Contains(uint32(f.Finish)), "finish %d unreachable from start %d", f.Finish, f.Start)

	for _, old := range seen.Values() {
		src := &c.b.states[old]
		dst := &c.b.states[remap[old]]
		dst.Edges = make([]Edge, len(src.Edges))
		for i, e := range src.Edges {
			e.To = remap[e.To]
			dst.Edges[i] = e
		}
		dst.EnterGroups = append([]int(nil), src.EnterGroups...)
		dst.ExitGroups = append([]int(nil), src.ExitGroups...)
		dst.EnterAtomic = append([]int(nil), src.EnterAtomic...)
		dst.ExitAtomic = append([]int(nil), src.ExitAtomic...)
		if src.LoopEnd {
			dst.LoopEnd = true
			dst.Loop = c.nextLoop
			c.nextLoop++
		}
	}
	return Frag{remap[f.Start], remap[f.Finish]}, nil
}
