package prefilter

import (
	"bytes"
)

// memchrPrefilter finds a single leading byte.
//
// Example patterns:
//
//	/a.*/         → search for 'a'
//	/[x]\d+/      → search for 'x'
type memchrPrefilter struct {
	needle byte
}

func newMemchrPrefilter(needle byte) Prefilter {
	return &memchrPrefilter{needle: needle}
}

// Find implements Prefilter.Find.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

func (p *memchrPrefilter) String() string {
	return "memchr"
}

// memmemPrefilter finds a single leading substring by scanning for its
// first byte and verifying the rest at each hit.
//
// Example patterns:
//
//	/hello/       → search for "hello"
//	/foo|foobar/  → after minimization → search for "foo"
//	/prefix.*/    → search for "prefix"
type memmemPrefilter struct {
	needle []byte
}

// newMemmemPrefilter copies needle, which must be at least two bytes.
func newMemmemPrefilter(needle []byte) Prefilter {
	return &memmemPrefilter{needle: append([]byte(nil), needle...)}
}

// Find implements Prefilter.Find.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 {
		return -1
	}
	first := p.needle[0]
	for start+len(p.needle) <= len(haystack) {
		idx := bytes.IndexByte(haystack[start:len(haystack)-len(p.needle)+1], first)
		if idx == -1 {
			return -1
		}
		pos := start + idx
		if bytes.Equal(haystack[pos+1:pos+len(p.needle)], p.needle[1:]) {
			return pos
		}
		start = pos + 1
	}
	return -1
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}

func (p *memmemPrefilter) String() string {
	return "memmem"
}
