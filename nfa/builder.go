package nfa

import (
	"fmt"

	"github.com/coregx/backre/internal/conv"
	"github.com/coregx/backre/syntax"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by the Compiler.
type Builder struct {
	states    []State
	maxStates int
}

// NewBuilder creates a new NFA builder. maxStates bounds the arena size;
// zero means unbounded.
func NewBuilder(maxStates int) *Builder {
	return &Builder{
		states:    make([]State, 0, 16),
		maxStates: maxStates,
	}
}

// AddState adds an empty state and returns its ID.
// Returns ErrTooComplex once the arena limit is reached.
func (b *Builder) AddState() (StateID, error) {
	if b.maxStates > 0 && len(b.states) >= b.maxStates {
		return InvalidState, &CompileError{
			Err: fmt.Errorf("%w: more than %d states", ErrTooComplex, b.maxStates),
		}
	}
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{})
	return id, nil
}

// AddEdge appends e to the outgoing edges of from.
func (b *Builder) AddEdge(from StateID, e Edge) {
	s := &b.states[from]
	s.Edges = append(s.Edges, e)
}

// AddEpsilon appends an epsilon edge from -> to.
func (b *Builder) AddEpsilon(from, to StateID) {
	b.AddEdge(from, Edge{Kind: EdgeEpsilon, To: to})
}

// State returns the state with the given ID.
// The pointer is invalidated by the next AddState.
func (b *Builder) State(id StateID) *State {
	return &b.states[id]
}

// Len returns the number of states added so far
func (b *Builder) Len() int {
	return len(b.states)
}

// Merge folds state from into state into: edges of from are appended after
// the edges of into and all markers are unioned. from must have no incoming
// edges; it is left unreachable.
func (b *Builder) Merge(into, from StateID) {
	dst, src := &b.states[into], &b.states[from]
	dst.Edges = append(dst.Edges, src.Edges...)
	dst.EnterGroups = append(dst.EnterGroups, src.EnterGroups...)
	dst.ExitGroups = append(dst.ExitGroups, src.ExitGroups...)
	dst.EnterAtomic = append(dst.EnterAtomic, src.EnterAtomic...)
	dst.ExitAtomic = append(dst.ExitAtomic, src.ExitAtomic...)
	if src.LoopEnd {
		syntax.Invariant(!dst.LoopEnd, "merging two loop-end states %d and %d", into, from)
		dst.LoopEnd, dst.Loop = true, src.Loop
	}
	*src = State{}
}

// Build finalizes the NFA.
func (b *Builder) Build(main Frag, subs []Frag, numGroups, numLoops, numAtomic int, names []string) *NFA {
	states := make([]State, len(b.states))
	copy(states, b.states)
	return &NFA{
		states:       states,
		main:         main,
		subs:         subs,
		numGroups:    numGroups,
		numLoops:     numLoops,
		numAtomic:    numAtomic,
		captureNames: names,
	}
}
