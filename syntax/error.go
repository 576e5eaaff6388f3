// Package syntax parses regular expressions into syntax trees.
//
// The pipeline is Tokenize -> ParseTokens. Tokenize turns pattern text into a
// flat token sequence where every token records the byte span it was read
// from; ParseTokens is a recursive-descent parser producing a Node tree, the
// capture group table and advisory diagnostics.
//
// Supported syntax:
//
//	x|y          alternation
//	x* x+ x?     repetition, greedy
//	x{n} x{n,} x{n,m}
//	x*? x+? ...  lazy repetition
//	x*+ x++ ...  possessive repetition
//	[abc] [^a-z] character classes with \d \D \s \S \w \W inside
//	.            any character except newline
//	(x)          numbered capture group
//	(?<name>x)   named capture group
//	(?:x)        non-capturing group
//	(?>x)        atomic group
//	(?=x) (?!x)  lookahead, negative lookahead
//	(?<=x) (?<!x) lookbehind (parsed, not evaluated)
//	\1 \k<name>  backreferences
//	^ $ \b \B \A \G \Z \z   anchors and boundaries
//	\t \n \r \f \xHH \uHHHH escapes
package syntax

import (
	"fmt"
)

// ErrorCode describes a failure to parse a regular expression.
type ErrorCode string

const (
	ErrDanglingBackslash   ErrorCode = "trailing backslash at end of expression"
	ErrInvalidEscape       ErrorCode = "invalid escape sequence"
	ErrInvalidHexEscape    ErrorCode = "invalid hexadecimal escape"
	ErrInvalidNamedBackref ErrorCode = "invalid named backreference"
	ErrInvalidGroupName    ErrorCode = "invalid group name"
	ErrDuplicateGroupName  ErrorCode = "duplicate group name"
	ErrInvalidGroup        ErrorCode = "invalid or unsupported group syntax"
	ErrInvalidRepeatSize   ErrorCode = "invalid repeat count"
	ErrMissingRepeatArg    ErrorCode = "missing argument to repetition operator"
	ErrEmptyClass          ErrorCode = "empty character class"
	ErrMissingBracket      ErrorCode = "missing closing ]"
	ErrInvalidClassRange   ErrorCode = "invalid character class range"
	ErrMissingParen        ErrorCode = "missing closing )"
	ErrUnexpectedParen     ErrorCode = "unexpected )"
	ErrUnresolvedBackref   ErrorCode = "backreference to undefined group"
	ErrUnexpectedToken     ErrorCode = "unexpected token"
	ErrNestingDepth        ErrorCode = "expression nests too deeply"
)

// Error is a syntax error. Offset is the byte offset into the pattern text
// where the problem was detected.
type Error struct {
	Code   ErrorCode
	Expr   string
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("error parsing regexp: %s at offset %d: `%s`", e.Code, e.Offset, e.Expr)
}

// InternalError reports a broken invariant inside the engine. It is only
// ever raised through panic.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "backre: internal error: " + e.Msg
}

// Invariant panics with an *InternalError when cond is false.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
	}
}
