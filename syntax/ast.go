package syntax

import (
	"sort"
)

// Node is an element of the syntax tree. Every node knows the byte span of
// the pattern text it was parsed from.
type Node interface {
	Span() Span
	node()
}

// Alternation matches any one of Alts, tried in order.
type Alternation struct {
	Loc  Span
	Alts []Node
}

// Concat matches Items in sequence.
type Concat struct {
	Loc   Span
	Items []Node
}

// Repeat matches Sub between Quant.Min and Quant.Max times.
type Repeat struct {
	Loc   Span
	Sub   Node
	Quant Quantifier
}

// Char matches a single literal character.
type Char struct {
	Loc  Span
	Rune rune
}

// Shorthand matches one character of a shorthand class (d D s S w W or '.').
type Shorthand struct {
	Loc    Span
	Letter rune
}

// Boundary is a zero-width assertion: ^ $ b B A G Z z.
type Boundary struct {
	Loc    Span
	Letter rune
}

// Class matches one character of a bracketed class.
type Class struct {
	Loc   Span
	Class *CharClass
}

// Empty matches the empty string.
type Empty struct {
	Loc Span
}

// Backref matches the text last captured by group Index. Name is set when
// the reference was written as \k<name>.
type Backref struct {
	Loc   Span
	Index int
	Name  string
}

// Group wraps Sub. Index is the capture number (>= 1) for GroupNormal and
// GroupNamed, a negative atomic id for GroupAtomic, and 0 otherwise.
type Group struct {
	Loc   Span
	Kind  GroupKind
	Index int
	Name  string
	Sub   Node
}

// Capturing reports whether the group records a capture.
func (g *Group) Capturing() bool {
	return g.Kind == GroupNormal || g.Kind == GroupNamed
}

// Lookaround is a zero-width assertion on Sub.
type Lookaround struct {
	Loc  Span
	Kind LookKind
	Sub  Node
}

func (n *Alternation) Span() Span { return n.Loc }
func (n *Concat) Span() Span      { return n.Loc }
func (n *Repeat) Span() Span      { return n.Loc }
func (n *Char) Span() Span        { return n.Loc }
func (n *Shorthand) Span() Span   { return n.Loc }
func (n *Boundary) Span() Span    { return n.Loc }
func (n *Class) Span() Span       { return n.Loc }
func (n *Empty) Span() Span       { return n.Loc }
func (n *Backref) Span() Span     { return n.Loc }
func (n *Group) Span() Span       { return n.Loc }
func (n *Lookaround) Span() Span  { return n.Loc }

func (*Alternation) node() {}
func (*Concat) node()      {}
func (*Repeat) node()      {}
func (*Char) node()        {}
func (*Shorthand) node()   {}
func (*Boundary) node()    {}
func (*Class) node()       {}
func (*Empty) node()       {}
func (*Backref) node()     {}
func (*Group) node()       {}
func (*Lookaround) node()  {}

// GroupTable indexes the capture groups of a pattern by number and by name.
// It is filled while parsing and read-only afterwards.
type GroupTable struct {
	byIndex map[int]*Group
	byName  map[string]*Group
}

func newGroupTable() *GroupTable {
	return &GroupTable{
		byIndex: make(map[int]*Group),
		byName:  make(map[string]*Group),
	}
}

// Lookup returns the group with capture number index.
func (t *GroupTable) Lookup(index int) (*Group, bool) {
	g, ok := t.byIndex[index]
	return g, ok
}

// LookupName returns the group named name.
func (t *GroupTable) LookupName(name string) (*Group, bool) {
	g, ok := t.byName[name]
	return g, ok
}

// Len returns the number of capture groups.
func (t *GroupTable) Len() int {
	return len(t.byIndex)
}

// Names returns a slice indexed by capture number holding group names.
// Element 0 (the whole match) and unnamed groups are "".
func (t *GroupTable) Names() []string {
	names := make([]string, len(t.byIndex)+1)
	for i, g := range t.byIndex {
		names[i] = g.Name
	}
	return names
}

// NamedIndexes returns the names of all named groups in capture order.
func (t *GroupTable) NamedIndexes() []string {
	out := make([]string, 0, len(t.byName))
	for name := range t.byName {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return t.byName[out[i]].Index < t.byName[out[j]].Index
	})
	return out
}

// Regexp is a parsed pattern.
type Regexp struct {
	// Source is the pattern text the token spans refer to.
	Source string
	Tokens []Token
	Root   Node
	Groups *GroupTable

	// NumGroups is the highest capture number.
	NumGroups int
	// NumAtomic is the number of atomic groups; their ids are -1..-NumAtomic.
	NumAtomic int

	Diagnostics []Diagnostic
}

// Text returns the pattern text covered by s.
func (re *Regexp) Text(s Span) string {
	return re.Source[s.Begin:s.End]
}
