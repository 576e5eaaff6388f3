// Package nfa compiles syntax trees into a Thompson automaton and matches it
// with a backtracking VM.
//
// The automaton is an arena of states addressed by StateID. Each state holds
// an ordered list of outgoing edges; edge order is match priority. States can
// also carry markers: capture group enter/exit, atomic group enter/exit and
// the loop-body-end flag used to reject zero-width loop iterations.
package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/backre/internal/conv"
	"github.com/coregx/backre/internal/sparse"
	"github.com/coregx/backre/syntax"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// EdgeKind identifies what an edge tests before it can be followed.
type EdgeKind uint8

const (
	// EdgeEpsilon is always followed and consumes nothing.
	EdgeEpsilon EdgeKind = iota

	// EdgeChar consumes one character equal to Edge.Char.
	EdgeChar

	// EdgeClass consumes one character contained in Edge.Class.
	EdgeClass

	// EdgeShorthand consumes one character of the shorthand class Edge.Char.
	EdgeShorthand

	// EdgeBackref consumes the text captured by group Edge.Group.
	EdgeBackref

	// EdgeBoundary is a zero-width assertion named by Edge.Char.
	EdgeBoundary

	// EdgeLook runs the sub-automaton Edge.Sub as a lookaround assertion.
	EdgeLook
)

// String returns a human-readable representation of the EdgeKind
func (k EdgeKind) String() string {
	switch k {
	case EdgeEpsilon:
		return "Epsilon"
	case EdgeChar:
		return "Char"
	case EdgeClass:
		return "Class"
	case EdgeShorthand:
		return "Shorthand"
	case EdgeBackref:
		return "Backref"
	case EdgeBoundary:
		return "Boundary"
	case EdgeLook:
		return "Look"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Edge is a transition to state To.
type Edge struct {
	Kind  EdgeKind
	To    StateID
	Char  rune
	Class *syntax.CharClass
	Group int
	Look  syntax.LookKind
	Sub   int
}

// String returns a human-readable representation of the edge
func (e Edge) String() string {
	var label string
	switch e.Kind {
	case EdgeEpsilon:
		label = "eps"
	case EdgeChar:
		label = fmt.Sprintf("%q", e.Char)
	case EdgeClass:
		label = classString(e.Class)
	case EdgeShorthand:
		if e.Char == '.' {
			label = "."
		} else {
			label = `\` + string(e.Char)
		}
	case EdgeBackref:
		label = fmt.Sprintf(`\%d`, e.Group)
	case EdgeBoundary:
		switch e.Char {
		case '^', '$':
			label = string(e.Char)
		default:
			label = `\` + string(e.Char)
		}
	case EdgeLook:
		label = fmt.Sprintf("(%s sub%d)", e.Look, e.Sub)
	default:
		label = e.Kind.String()
	}
	return fmt.Sprintf("%s -> %d", label, e.To)
}

func classString(c *syntax.CharClass) string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Negate {
		b.WriteByte('^')
	}
	for _, it := range c.Items {
		switch it.Kind {
		case syntax.ItemChar:
			b.WriteRune(it.Lo)
		case syntax.ItemRange:
			b.WriteRune(it.Lo)
			b.WriteByte('-')
			b.WriteRune(it.Hi)
		case syntax.ItemShorthand:
			b.WriteByte('\\')
			b.WriteRune(it.Lo)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// State is a single NFA state. Markers are recorded when the matcher enters
// the state, before any edge is tried.
type State struct {
	Edges []Edge

	// EnterGroups and ExitGroups record the entry offset as the begin or
	// end of these capture groups.
	EnterGroups []int
	ExitGroups  []int

	// EnterAtomic and ExitAtomic hold atomic group ids (negative).
	EnterAtomic []int
	ExitAtomic  []int

	// LoopEnd marks the last state of a star body. Loop is its loop index;
	// the matcher records the entry offset in that loop's slot and rejects
	// re-entry at the same offset.
	LoopEnd bool
	Loop    int
}

// recordsSlots reports whether entering the state writes to the slot array.
func (s *State) recordsSlots() bool {
	return s.LoopEnd || len(s.EnterGroups) > 0 || len(s.ExitGroups) > 0
}

func (s *State) markers() string {
	var parts []string
	for _, g := range s.EnterGroups {
		parts = append(parts, fmt.Sprintf("enter(%d)", g))
	}
	for _, g := range s.ExitGroups {
		parts = append(parts, fmt.Sprintf("exit(%d)", g))
	}
	for _, a := range s.EnterAtomic {
		parts = append(parts, fmt.Sprintf("atomic+(%d)", a))
	}
	for _, a := range s.ExitAtomic {
		parts = append(parts, fmt.Sprintf("atomic-(%d)", a))
	}
	if s.LoopEnd {
		parts = append(parts, fmt.Sprintf("loop#%d", s.Loop))
	}
	return strings.Join(parts, " ")
}

// Frag is a compiled sub-automaton: a start state and a finish state.
// The start state has no incoming edges from inside the fragment and the
// finish state has no outgoing edges.
type Frag struct {
	Start  StateID
	Finish StateID
}

// NFA represents a compiled automaton: the main fragment plus one fragment
// per lookaround body. It is immutable and safe for concurrent use.
type NFA struct {
	states []State
	main   Frag
	subs   []Frag

	numGroups int
	numLoops  int
	numAtomic int

	// captureNames is indexed by group number; index 0 is the whole match.
	captureNames []string
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the size of the state arena
func (n *NFA) States() int {
	return len(n.states)
}

// Main returns the fragment for the whole pattern
func (n *NFA) Main() Frag {
	return n.main
}

// Sub returns the fragment of lookaround body i
func (n *NFA) Sub(i int) Frag {
	return n.subs[i]
}

// NumSubs returns the number of lookaround bodies
func (n *NFA) NumSubs() int {
	return len(n.subs)
}

// CaptureCount returns the number of capture groups including group 0.
// For a pattern like "(a)(b)", this returns 3.
func (n *NFA) CaptureCount() int {
	return n.numGroups + 1
}

// NumLoops returns the number of loop-body-end states.
func (n *NFA) NumLoops() int {
	return n.numLoops
}

// NumAtomic returns the number of atomic ids in use, counting the implicit
// atomic groups of possessive quantifiers.
func (n *NFA) NumAtomic() int {
	return n.numAtomic
}

// SubexpNames returns the names of capture groups in the pattern.
// Index 0 is always "" (representing the entire match).
func (n *NFA) SubexpNames() []string {
	names := make([]string, len(n.captureNames))
	copy(names, n.captureNames)
	return names
}

// reachable returns the states reachable from the given roots in
// breadth-first order.
func (n *NFA) reachable(roots ...StateID) []uint32 {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(n.states)))
	for _, r := range roots {
		seen.Insert(uint32(r))
	}
	for i := 0; i < seen.Len(); i++ {
		s := &n.states[seen.Values()[i]]
		for _, e := range s.Edges {
			seen.Insert(uint32(e.To))
		}
	}
	return seen.Values()
}

// String dumps every reachable state, one per line, followed by its edges.
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NFA{states: %d, start: %d, finish: %d, groups: %d, loops: %d, atomic: %d}\n",
		len(n.states), n.main.Start, n.main.Finish, n.numGroups, n.numLoops, n.numAtomic)
	n.dump(&b, n.main)
	for i, f := range n.subs {
		fmt.Fprintf(&b, "sub%d{start: %d, finish: %d}\n", i, f.Start, f.Finish)
		n.dump(&b, f)
	}
	return b.String()
}

func (n *NFA) dump(b *strings.Builder, f Frag) {
	for _, id := range n.reachable(f.Start) {
		s := &n.states[id]
		fmt.Fprintf(b, "  %d", id)
		if id == uint32(f.Finish) {
			b.WriteString(" (finish)")
		}
		if m := s.markers(); m != "" {
			fmt.Fprintf(b, " [%s]", m)
		}
		b.WriteByte('\n')
		for _, e := range s.Edges {
			fmt.Fprintf(b, "      %s\n", e)
		}
	}
}
