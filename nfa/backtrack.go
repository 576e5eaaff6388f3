package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/backre/syntax"
)

// Status is the outcome of one match attempt.
type Status uint8

const (
	// StatusNoMatch means no path from the start state reached the finish.
	StatusNoMatch Status = iota

	// StatusMatch means the finish state was reached.
	StatusMatch

	// StatusTimeout means the step budget ran out before either was known.
	StatusTimeout
)

// String returns a human-readable representation of the Status
func (s Status) String() string {
	switch s {
	case StatusNoMatch:
		return "NoMatch"
	case StatusMatch:
		return "Match"
	case StatusTimeout:
		return "Timeout"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// Backtracker matches an NFA by depth-first search over its edges, trying
// edges in declaration order and backtracking on failure.
//
// The search is driven by an explicit frame stack rather than Go recursion;
// only lookaround assertions recurse, one level per nesting. Every edge
// evaluation counts as a step and a call gives up with StatusTimeout once
// more than maxSteps steps were taken, nested lookarounds included.
//
// A Backtracker holds no per-call state and is safe for concurrent use.
type Backtracker struct {
	nfa      *NFA
	maxSteps int
}

// NewBacktracker creates a backtracker for the given NFA.
// maxSteps <= 0 disables the step limit.
func NewBacktracker(nfa *NFA, maxSteps int) *Backtracker {
	return &Backtracker{
		nfa:      nfa,
		maxSteps: maxSteps,
	}
}

// NFA returns the automaton being matched
func (b *Backtracker) NFA() *NFA {
	return b.nfa
}

// Run attempts a match of the whole pattern starting exactly at in.At.
// On StatusMatch it returns the slot array (see SlotCount); slots 0 and 1
// hold the match span.
func (b *Backtracker) Run(in Input) (Status, []int) {
	m := &machine{
		nfa:      b.nfa,
		in:       in,
		maxSteps: b.maxSteps,
	}
	st, slots, end := m.run(b.nfa.main, b.nfa.newSlots(), in.At)
	if st != StatusMatch {
		return st, nil
	}
	out := make([]int, len(slots))
	copy(out, slots)
	out[0], out[1] = in.At, end
	return st, out
}

// Steps runs a match like Run and reports the number of edge evaluations
// it took instead of the slots.
func (b *Backtracker) Steps(in Input) (Status, int) {
	m := &machine{
		nfa:      b.nfa,
		in:       in,
		maxSteps: b.maxSteps,
	}
	st, _, _ := m.run(b.nfa.main, b.nfa.newSlots(), in.At)
	return st, m.steps
}

// machine is the per-call search state. Slot arrays are immutable once a
// frame holds them; a state that records markers works on a fresh copy.
type machine struct {
	nfa      *NFA
	in       Input
	maxSteps int
	steps    int
	stack    []frame
}

type frame struct {
	state StateID
	pos   int
	slots []int
	next  int // index of the next edge to try
}

type entry uint8

const (
	entryRejected entry = iota
	entryFinished
	entryPushed
)

// enter records the markers of state id reached at pos with the parent's
// slots. It reports entryFinished with the resulting slots when id is the
// fragment's finish and entryRejected when a loop body would be re-entered
// at an offset it already completed an iteration at.
func (m *machine) enter(f Frag, id StateID, parent []int, pos int) (entry, []int) {
	s := &m.nfa.states[id]
	slots := parent
	if s.recordsSlots() {
		if s.LoopEnd && parent[m.nfa.loopSlot(s.Loop)] == pos {
			return entryRejected, nil
		}
		slots = make([]int, len(parent))
		copy(slots, parent)
		if s.LoopEnd {
			slots[m.nfa.loopSlot(s.Loop)] = pos
		}
		for _, g := range s.EnterGroups {
			slots[2*g] = pos
		}
		for _, g := range s.ExitGroups {
			slots[2*g+1] = pos
		}
	}
	if id == f.Finish {
		return entryFinished, slots
	}
	m.stack = append(m.stack, frame{state: id, pos: pos, slots: slots})
	return entryPushed, nil
}

// run searches fragment f from pos. It returns the status, and on a match
// the final slots and end offset.
func (m *machine) run(f Frag, slots []int, pos int) (Status, []int, int) {
	base := len(m.stack)
	defer func() { m.stack = m.stack[:base] }()

	switch e, out := m.enter(f, f.Start, slots, pos); e {
	case entryFinished:
		return StatusMatch, out, pos
	case entryRejected:
		return StatusNoMatch, nil, 0
	}

	// active is the atomic id being unwound, 0 when none. While set, a
	// failing child stops its parent from trying further edges until the
	// state that entered that atomic group is reached.
	active := 0

	failed := func(top int) {
		if active == 0 {
			return
		}
		s := &m.nfa.states[m.stack[top].state]
		if containsInt(s.EnterAtomic, active) {
			active = 0
			return
		}
		m.stack[top].next = len(s.Edges)
	}

	for len(m.stack) > base {
		top := len(m.stack) - 1
		fr := m.stack[top]
		s := &m.nfa.states[fr.state]

		if fr.next >= len(s.Edges) {
			if active == 0 && len(s.ExitAtomic) > 0 {
				active = s.ExitAtomic[len(s.ExitAtomic)-1]
			}
			m.stack = m.stack[:top]
			if top > base {
				failed(top - 1)
			}
			continue
		}

		e := &s.Edges[fr.next]
		m.stack[top].next++

		m.steps++
		if m.maxSteps > 0 && m.steps > m.maxSteps {
			return StatusTimeout, nil, 0
		}

		next, childSlots, st := m.follow(e, fr.pos, fr.slots)
		switch st {
		case StatusTimeout:
			return StatusTimeout, nil, 0
		case StatusNoMatch:
			continue
		}

		switch ent, out := m.enter(f, e.To, childSlots, next); ent {
		case entryFinished:
			return StatusMatch, out, next
		case entryRejected:
			failed(top)
		}
	}
	return StatusNoMatch, nil, 0
}

// follow evaluates edge e at pos. StatusMatch means the edge accepts; the
// new offset and slots are returned.
func (m *machine) follow(e *Edge, pos int, slots []int) (int, []int, Status) {
	in := &m.in
	switch e.Kind {
	case EdgeEpsilon:
		return pos, slots, StatusMatch

	case EdgeChar:
		if r, w := in.runeAt(pos); w > 0 && r == e.Char {
			return pos + w, slots, StatusMatch
		}

	case EdgeClass:
		if r, w := in.runeAt(pos); w > 0 && e.Class.Contains(r) {
			return pos + w, slots, StatusMatch
		}

	case EdgeShorthand:
		if r, w := in.runeAt(pos); w > 0 && syntax.MatchShorthand(e.Char, r) {
			return pos + w, slots, StatusMatch
		}

	case EdgeBackref:
		begin, end := slots[2*e.Group], slots[2*e.Group+1]
		if begin < 0 || end < begin {
			break
		}
		if captured := in.Text[begin:end]; strings.HasPrefix(in.Text[pos:], captured) {
			return pos + len(captured), slots, StatusMatch
		}

	case EdgeBoundary:
		if in.boundary(e.Char, pos) {
			return pos, slots, StatusMatch
		}

	case EdgeLook:
		return m.look(e, pos, slots)

	default:
		syntax.Invariant(false, "unknown edge kind %v", e.Kind)
	}
	return pos, slots, StatusNoMatch
}

// look runs a lookaround body as a nested attempt at pos that shares the
// step budget. A positive lookahead seeds the attempt with the current
// captures and keeps whatever it captured; a negative one keeps nothing.
// Lookbehind is not evaluated and always holds.
func (m *machine) look(e *Edge, pos int, slots []int) (int, []int, Status) {
	switch e.Look {
	case syntax.LookBehind, syntax.LookNegBehind:
		return pos, slots, StatusMatch
	}

	// The nested attempt sees the outer captures but starts with fresh
	// loop sentinels, and hands back only captures.
	groups := m.nfa.GroupSlots()
	inner := make([]int, len(slots))
	copy(inner, slots[:groups])
	for i := groups; i < len(inner); i++ {
		inner[i] = -1
	}

	st, out, _ := m.run(m.nfa.subs[e.Sub], inner, pos)
	switch {
	case st == StatusTimeout:
		return pos, nil, StatusTimeout
	case e.Look == syntax.LookAhead && st == StatusMatch:
		merged := make([]int, len(slots))
		copy(merged, out[:groups])
		copy(merged[groups:], slots[groups:])
		return pos, merged, StatusMatch
	case e.Look == syntax.LookNegAhead && st == StatusNoMatch:
		return pos, slots, StatusMatch
	}
	return pos, slots, StatusNoMatch
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
