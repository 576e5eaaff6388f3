package meta

import (
	"fmt"

	"github.com/coregx/backre/literal"
	"github.com/coregx/backre/nfa"
	"github.com/coregx/backre/prefilter"
	"github.com/coregx/backre/syntax"
)

// CompileError wraps a syntax or NFA construction failure with the pattern
// that caused it.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("backre: compiling %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compile compiles a pattern string into an executable Engine.
//
// Steps:
//  1. Parse pattern into a syntax tree and group table
//  2. Compile to NFA
//  3. Extract prefix literals
//  4. Build prefilter (if good literals exist)
//
// Returns an error if:
//   - Pattern syntax is invalid
//   - Pattern is too complex (depth or state limit exceeded)
//   - Configuration is invalid
//
// Example:
//
//	engine, err := meta.Compile(`(?<word>\w+)\s\k<word>`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom configuration.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	re, err := syntax.Parse(pattern)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	return CompileRegexp(re, config)
}

// CompileRegexp builds an Engine from an already parsed pattern.
func CompileRegexp(re *syntax.Regexp, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	n, err := nfa.Compile(re, nfa.CompilerConfig{
		MaxRecursionDepth: config.MaxRecursionDepth,
		MaxStates:         config.MaxStates,
	})
	if err != nil {
		return nil, &CompileError{
			Pattern: re.Source,
			Err:     err,
		}
	}

	var pf prefilter.Prefilter
	if config.EnablePrefilter {
		pf = buildPrefilter(re, config)
	}

	return &Engine{
		re:        re,
		nfa:       n,
		bt:        nfa.NewBacktracker(n, config.MaxSteps),
		prefilter: pf,
		config:    config,
	}, nil
}

// buildPrefilter extracts the pattern's prefix literals and selects a
// prefilter for them. Returns nil when no useful prefilter exists, in
// particular when the pattern can match the empty string.
func buildPrefilter(re *syntax.Regexp, config Config) prefilter.Prefilter {
	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	})
	return prefilter.New(extractor.ExtractPrefixes(re))
}
