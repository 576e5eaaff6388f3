package meta

// Match is a successful match together with its capture groups.
//
// Group 0 is the whole match. A group that did not take part in the match
// reports ok == false and span (-1, -1).
//
// Example:
//
//	m, _ := engine.Find("key=value", false) // pattern (?<k>\w+)=(\w+)
//	println(m.String())                     // "key=value"
//	k, _ := m.NamedGroup("k")               // "key"
type Match struct {
	input string
	slots []int
	names []string
}

// newMatch wraps the group slots of a backtracker result. names is the
// engine's capture name table and is shared, not copied.
func newMatch(input string, slots []int, groupSlots int, names []string) *Match {
	return &Match{
		input: input,
		slots: slots[:groupSlots:groupSlots],
		names: names,
	}
}

// Start returns the inclusive start offset of the match.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the exclusive end offset of the match.
func (m *Match) End() int {
	return m.slots[1]
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.slots[1] - m.slots[0]
}

// String returns the matched text.
func (m *Match) String() string {
	return m.input[m.slots[0]:m.slots[1]]
}

// IsEmpty returns true if the match has zero length.
//
// Empty matches occur with patterns like "a*" or "\b" that can succeed
// without consuming input.
func (m *Match) IsEmpty() bool {
	return m.slots[0] == m.slots[1]
}

// Contains returns true if start <= pos < end.
func (m *Match) Contains(pos int) bool {
	return pos >= m.slots[0] && pos < m.slots[1]
}

// NumGroups returns the number of capture groups including group 0.
func (m *Match) NumGroups() int {
	return len(m.slots) / 2
}

// GroupIndex returns the span of group i, or (-1, -1) if the group did not
// participate or does not exist.
func (m *Match) GroupIndex(i int) (int, int) {
	if i < 0 || 2*i+1 >= len(m.slots) {
		return -1, -1
	}
	return m.slots[2*i], m.slots[2*i+1]
}

// Group returns the text of group i. ok is false if the group did not
// participate or does not exist.
func (m *Match) Group(i int) (string, bool) {
	begin, end := m.GroupIndex(i)
	if begin < 0 || end < 0 {
		return "", false
	}
	return m.input[begin:end], true
}

// NamedGroup returns the text of the group with the given name.
func (m *Match) NamedGroup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for i, n := range m.names {
		if n == name {
			return m.Group(i)
		}
	}
	return "", false
}

// Groups returns the text of every group indexed by group number.
// Non-participating groups hold "".
func (m *Match) Groups() []string {
	out := make([]string, m.NumGroups())
	for i := range out {
		out[i], _ = m.Group(i)
	}
	return out
}

// Indexes returns the raw group spans: 2i and 2i+1 hold the span of
// group i, -1 marks a group that did not participate.
func (m *Match) Indexes() []int {
	out := make([]int, len(m.slots))
	copy(out, m.slots)
	return out
}
