// Package backre provides a backtracking regular expression engine for Go.
//
// Unlike Go's stdlib regexp, backre supports the features that need
// backtracking:
//   - Backreferences: (a)\1, (?<q>['"]).*?\k<q>
//   - Atomic groups and possessive quantifiers: (?>a+), a++
//   - Lookahead assertions: (?=x), (?!x)
//   - The \G anchor for contiguous iteration
//
// Matching follows leftmost-first (Perl) semantics: alternatives and
// quantifier iterations are tried in priority order and the first path that
// reaches the end of the pattern wins.
//
// Backtracking can take exponential time on patterns such as (a+)+b. Every
// match attempt is bounded by a step budget (Config.MaxSteps); an attempt
// that exceeds it reports StatusTimeout instead of running forever.
//
// Basic usage:
//
//	re, err := backre.Compile(`(\w+) \1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(re.FindString("it is the the end")) // "the the"
//
// Explicit status reporting:
//
//	matches, status := re.SearchAll(input, "m")
//	if status == backre.StatusTimeout {
//	    // the pattern backtracked too much on this input
//	}
//
// Offsets are byte offsets into the input; characters are decoded as UTF-8.
package backre

import (
	"strings"

	"github.com/coregx/backre/meta"
	"github.com/coregx/backre/nfa"
	"github.com/coregx/backre/syntax"
)

// Match is a successful match with its capture groups.
type Match = meta.Match

// Status is the outcome of a match attempt or a search.
type Status = nfa.Status

// Search outcomes.
const (
	StatusNoMatch = nfa.StatusNoMatch
	StatusMatch   = nfa.StatusMatch
	StatusTimeout = nfa.StatusTimeout
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := backre.MustCompile(`(?<k>\w+)=(?<v>\w+)`)
//	m, status := re.MatchFrom("key=value", "", 0)
//	if status == backre.StatusMatch {
//	    v, _ := m.NamedGroup("v") // "value"
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Config configures compilation.
type Config struct {
	meta.Config

	// Unescape treats the pattern as an escaped string literal: every
	// backslash pair "\X" is collapsed to "X" before parsing, so "\\d"
	// means \d.
	Unescape bool
}

// DefaultConfig returns the default configuration for compilation.
//
// Example:
//
//	config := backre.DefaultConfig()
//	config.MaxSteps = 10_000
//	re, _ := backre.CompileWithConfig(`(a+)+b`, config)
func DefaultConfig() Config {
	return Config{Config: meta.DefaultConfig()}
}

// Compile compiles a regular expression pattern.
// Returns a *syntax.Error wrapped in a *meta.CompileError if the pattern is
// invalid.
//
// Example:
//
//	re, err := backre.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileEscaped compiles a pattern written as an escaped string literal,
// where every backslash is doubled: `\\d+` is compiled as \d+.
func CompileEscaped(pattern string) (*Regex, error) {
	config := DefaultConfig()
	config.Unescape = true
	return CompileWithConfig(pattern, config)
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// Example:
//
//	var quoted = backre.MustCompile(`(['"]).*?\1`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("backre: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	source := pattern
	if config.Unescape {
		var err error
		source, err = syntax.Unescape(pattern)
		if err != nil {
			return nil, &meta.CompileError{
				Pattern: pattern,
				Err:     err,
			}
		}
	}

	engine, err := meta.CompileWithConfig(source, config.Config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a
// regular expression matching the literal text.
//
// Example:
//
//	escaped := backre.QuoteMeta("hello.world")
//	// escaped = `hello\.world`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// multiline reports whether flags enable multiline mode. Only 'm' is
// recognized; other letters are accepted and ignored.
func multiline(flags string) bool {
	return strings.IndexByte(flags, 'm') >= 0
}

// MatchFrom makes a single anchored attempt at byte offset from: the match,
// if any, starts exactly there. Offsets past the end of input report
// StatusNoMatch without running the matcher.
//
// Example:
//
//	re := backre.MustCompile(`\d+`)
//	m, _ := re.MatchFrom("ab123", "", 2) // m.String() == "123"
func (r *Regex) MatchFrom(input, flags string, from int) (*Match, Status) {
	return r.engine.MatchAt(input, from, multiline(flags))
}

// SearchAll returns every non-overlapping match in input, scanning from
// offset 0. A timeout anywhere in the scan abandons the search and returns
// nil with StatusTimeout.
//
// Example:
//
//	re := backre.MustCompile(`a*`)
//	matches, _ := re.SearchAll("bb", "") // empty matches at 0, 1 and 2
func (r *Regex) SearchAll(input, flags string) ([]*Match, Status) {
	return r.engine.FindAll(input, multiline(flags), -1)
}

// Search returns the leftmost match in input, scanning start offsets from 0.
func (r *Regex) Search(input, flags string) (*Match, Status) {
	return r.engine.Find(input, multiline(flags))
}

// find returns the leftmost match; timeouts count as no match.
func (r *Regex) find(s string) *Match {
	m, st := r.engine.Find(s, false)
	if st != StatusMatch {
		return nil
	}
	return m
}

// findAll returns at most n matches (all if n < 0); timeouts count as no
// match.
func (r *Regex) findAll(s string, n int) []*Match {
	matches, st := r.engine.FindAll(s, false, n)
	if st != StatusMatch {
		return nil
	}
	return matches
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.MatchString(string(b))
}

// MatchString reports whether the string s contains any match of the pattern.
//
// Example:
//
//	re := backre.MustCompile(`(\w)\1`)
//	re.MatchString("hello") // true
func (r *Regex) MatchString(s string) bool {
	return r.find(s) != nil
}

// FindString returns the text of the leftmost match in s.
// If there is no match, the return value is an empty string, but it will
// also be empty if the pattern matches an empty string.
func (r *Regex) FindString(s string) string {
	m := r.find(s)
	if m == nil {
		return ""
	}
	return m.String()
}

// FindStringIndex returns a two-element slice of integers defining the
// location of the leftmost match in s. A return value of nil indicates no
// match.
func (r *Regex) FindStringIndex(s string) []int {
	m := r.find(s)
	if m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindStringSubmatch returns a slice holding the text of the leftmost
// match and of its groups. Groups that did not participate hold "".
// A return value of nil indicates no match.
//
// Example:
//
//	re := backre.MustCompile(`(\w+)@(\w+)`)
//	re.FindStringSubmatch("mail user@host") // ["user@host" "user" "host"]
func (r *Regex) FindStringSubmatch(s string) []string {
	m := r.find(s)
	if m == nil {
		return nil
	}
	return m.Groups()
}

// FindStringSubmatchIndex returns the group spans of the leftmost match:
// 2i and 2i+1 hold the span of group i, -1 marks a group that did not
// participate. A return value of nil indicates no match.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	m := r.find(s)
	if m == nil {
		return nil
	}
	return m.Indexes()
}

// FindAllString returns a slice of all successive matches of the pattern.
// If n >= 0, returns at most n matches; n < 0 returns all matches.
// A return value of nil indicates no match.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.findAll(s, n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.String()
	}
	return out
}

// FindAllStringIndex returns the spans of all successive matches.
// If n >= 0, returns at most n matches; n < 0 returns all matches.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	matches := r.findAll(s, n)
	if matches == nil {
		return nil
	}
	out := make([][]int, len(matches))
	for i, m := range matches {
		out[i] = []int{m.Start(), m.End()}
	}
	return out
}

// FindAllStringSubmatch is the 'All' version of FindStringSubmatch.
func (r *Regex) FindAllStringSubmatch(s string, n int) [][]string {
	matches := r.findAll(s, n)
	if matches == nil {
		return nil
	}
	out := make([][]string, len(matches))
	for i, m := range matches {
		out[i] = m.Groups()
	}
	return out
}

// CountString returns the number of non-overlapping matches in s.
func (r *Regex) CountString(s string) int {
	return len(r.findAll(s, -1))
}

// String returns the pattern as it was passed to Compile.
func (r *Regex) String() string {
	return r.pattern
}

// Source returns the pattern text that was parsed. It differs from String
// only for patterns compiled with Config.Unescape.
func (r *Regex) Source() string {
	return r.engine.Regexp().Source
}

// Tokens returns the token sequence of the parsed pattern. Each token's
// span indexes into Source.
func (r *Regex) Tokens() []syntax.Token {
	return r.engine.Regexp().Tokens
}

// Diagnostics returns advisory warnings and suggestions about the pattern,
// such as redundant class members or anchors that can never match.
// Diagnostics never affect matching.
func (r *Regex) Diagnostics() []syntax.Diagnostic {
	return r.engine.Diagnostics()
}

// NumSubexp returns the number of capture groups in the pattern.
func (r *Regex) NumSubexp() int {
	return r.engine.NumCaptures() - 1
}

// SubexpNames returns the names of the capture groups indexed by group
// number. Index 0 and unnamed groups hold "".
func (r *Regex) SubexpNames() []string {
	return r.engine.SubexpNames()
}

// SubexpIndex returns the index of the first group with the given name,
// or -1 if there is no such group.
func (r *Regex) SubexpIndex(name string) int {
	if name != "" {
		for i, s := range r.engine.SubexpNames() {
			if name == s {
				return i
			}
		}
	}
	return -1
}

// Stats returns the engine's execution statistics.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats resets execution statistics to zero.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}

// DumpNFA returns a textual listing of the compiled automaton.
func (r *Regex) DumpNFA() string {
	return r.engine.NFA().String()
}
