package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/backre/literal"
)

// ahoCorasickPrefilter finds the leftmost occurrence of any of several
// literals with one pass of an Aho-Corasick automaton.
//
// Example patterns:
//
//	/(get|put|post) \//   → search for "get", "put", "post"
//	/[abc]x/              → search for "ax", "bx", "cx"
type ahoCorasickPrefilter struct {
	auto  *ahocorasick.Automaton
	bytes int
}

func newAhoCorasickPrefilter(seq *literal.Seq) (Prefilter, error) {
	builder := ahocorasick.NewBuilder()
	total := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		total += len(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoCorasickPrefilter{auto: auto, bytes: total}, nil
}

// Find implements Prefilter.Find.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// HeapBytes implements Prefilter.HeapBytes. It reports the size of the
// pattern set; the automaton's own tables are not visible from here.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	return p.bytes
}

func (p *ahoCorasickPrefilter) String() string {
	return "aho-corasick"
}
