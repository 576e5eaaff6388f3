package nfa

import (
	"unicode/utf8"

	"github.com/coregx/backre/syntax"
)

// Slot layout: group g records its begin offset at 2g and its end offset at
// 2g+1 for g in [0, numGroups]; loop k records its last entry offset at
// 2(numGroups+1)+k. Unset slots hold -1.

// SlotCount returns the length of a slot array for this NFA.
func (n *NFA) SlotCount() int {
	return 2*(n.numGroups+1) + n.numLoops
}

// GroupSlots returns the number of leading slots that hold capture offsets.
func (n *NFA) GroupSlots() int {
	return 2 * (n.numGroups + 1)
}

func (n *NFA) loopSlot(k int) int {
	return 2*(n.numGroups+1) + k
}

func (n *NFA) newSlots() []int {
	slots := make([]int, n.SlotCount())
	for i := range slots {
		slots[i] = -1
	}
	return slots
}

// Input describes one anchored match attempt.
type Input struct {
	// Text is the haystack. Offsets are byte offsets; each character is one
	// UTF-8 decoded rune.
	Text string

	// At is the offset the attempt starts from.
	At int

	// Multiline makes ^ and $ also match next to '\n'.
	Multiline bool

	// GAnchor is the only offset where \G holds: the end of the previous
	// match when iterating, otherwise the attempt offset.
	GAnchor int
}

// runeAt decodes the character at pos. Returns width 0 at end of text.
func (in *Input) runeAt(pos int) (rune, int) {
	if pos >= len(in.Text) {
		return utf8.RuneError, 0
	}
	if c := in.Text[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(in.Text[pos:])
}

func (in *Input) wordBefore(pos int) bool {
	if pos == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(in.Text[:pos])
	return syntax.IsWordChar(r)
}

func (in *Input) wordAt(pos int) bool {
	r, w := in.runeAt(pos)
	return w > 0 && syntax.IsWordChar(r)
}

// boundary evaluates the zero-width assertion named by letter at pos.
func (in *Input) boundary(letter rune, pos int) bool {
	text := in.Text
	switch letter {
	case '^':
		return pos == 0 || in.Multiline && text[pos-1] == '\n'
	case '$':
		return pos == len(text) || in.Multiline && text[pos] == '\n'
	case 'A':
		return pos == 0
	case 'z':
		return pos == len(text)
	case 'Z':
		return pos == len(text) || pos == len(text)-1 && text[pos] == '\n'
	case 'G':
		return pos == in.GAnchor
	case 'b':
		return in.wordBefore(pos) != in.wordAt(pos)
	case 'B':
		return in.wordBefore(pos) == in.wordAt(pos)
	}
	syntax.Invariant(false, "unknown boundary %q", letter)
	return false
}
