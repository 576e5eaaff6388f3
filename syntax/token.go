package syntax

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// maxRepeat caps the counts accepted in {m,n}.
const maxRepeat = 1000

// Span is a half-open byte range [Begin, End) of the pattern text.
type Span struct {
	Begin int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Begin
}

// TokenKind identifies the lexical class of a Token.
type TokenKind uint8

const (
	TokenChar TokenKind = iota
	TokenShorthand
	TokenBoundary
	TokenQuantifier
	TokenBackref
	TokenGroupOpen
	TokenLookOpen
	TokenGroupClose
	TokenAlternation
	TokenClassOpen
	TokenClassNegate
	TokenClassClose
	TokenHyphen
)

var tokenKindNames = [...]string{
	TokenChar:        "Char",
	TokenShorthand:   "Shorthand",
	TokenBoundary:    "Boundary",
	TokenQuantifier:  "Quantifier",
	TokenBackref:     "Backref",
	TokenGroupOpen:   "GroupOpen",
	TokenLookOpen:    "LookOpen",
	TokenGroupClose:  "GroupClose",
	TokenAlternation: "Alternation",
	TokenClassOpen:   "ClassOpen",
	TokenClassNegate: "ClassNegate",
	TokenClassClose:  "ClassClose",
	TokenHyphen:      "Hyphen",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Quantifier is a repetition count. Max is -1 when unbounded.
type Quantifier struct {
	Min        int
	Max        int
	Lazy       bool
	Possessive bool
}

func (q Quantifier) String() string {
	var s string
	switch {
	case q.Min == 0 && q.Max == -1:
		s = "*"
	case q.Min == 1 && q.Max == -1:
		s = "+"
	case q.Min == 0 && q.Max == 1:
		s = "?"
	case q.Max == -1:
		s = fmt.Sprintf("{%d,}", q.Min)
	case q.Min == q.Max:
		s = fmt.Sprintf("{%d}", q.Min)
	default:
		s = fmt.Sprintf("{%d,%d}", q.Min, q.Max)
	}
	switch {
	case q.Lazy:
		s += "?"
	case q.Possessive:
		s += "+"
	}
	return s
}

// GroupKind distinguishes the flavours of parenthesized groups.
type GroupKind uint8

const (
	GroupNormal GroupKind = iota
	GroupNamed
	GroupNonCapturing
	GroupAtomic
)

// LookKind distinguishes lookaround assertions.
type LookKind uint8

const (
	LookAhead LookKind = iota
	LookNegAhead
	LookBehind
	LookNegBehind
)

func (k LookKind) String() string {
	switch k {
	case LookAhead:
		return "?="
	case LookNegAhead:
		return "?!"
	case LookBehind:
		return "?<="
	case LookNegBehind:
		return "?<!"
	}
	return fmt.Sprintf("LookKind(%d)", k)
}

// Token is one lexical element of a pattern.
//
// Char holds the literal for TokenChar and the letter for TokenShorthand and
// TokenBoundary ('.' and '^'/'$' included). Ref and Name hold the target of a
// TokenBackref; Name also holds the name of a named TokenGroupOpen.
type Token struct {
	Kind  TokenKind
	Span  Span
	Char  rune
	Quant Quantifier
	Ref   int
	Name  string
	Group GroupKind
	Look  LookKind
}

func (t Token) String() string {
	switch t.Kind {
	case TokenChar, TokenShorthand, TokenBoundary:
		return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Char, t.Span.Begin)
	case TokenQuantifier:
		return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Quant, t.Span.Begin)
	case TokenBackref:
		if t.Name != "" {
			return fmt.Sprintf("%s(<%s>)@%d", t.Kind, t.Name, t.Span.Begin)
		}
		return fmt.Sprintf("%s(%d)@%d", t.Kind, t.Ref, t.Span.Begin)
	}
	return fmt.Sprintf("%s@%d", t.Kind, t.Span.Begin)
}

type tokenizer struct {
	src     string
	pos     int
	inClass bool
	tokens  []Token
}

// Tokenize splits pattern into tokens. The spans of the returned tokens tile
// the pattern: each begins where the previous one ended.
func Tokenize(pattern string) ([]Token, error) {
	t := &tokenizer{
		src:    pattern,
		tokens: make([]Token, 0, len(pattern)),
	}
	for t.pos < len(t.src) {
		if err := t.next(); err != nil {
			return nil, err
		}
	}
	return t.tokens, nil
}

func (t *tokenizer) peek() (rune, int) {
	if t.pos >= len(t.src) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(t.src[t.pos:])
}

func (t *tokenizer) errorf(code ErrorCode, at int) error {
	return &Error{Code: code, Expr: t.src, Offset: at}
}

func (t *tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) emitKind(kind TokenKind, begin int) {
	t.emit(Token{Kind: kind, Span: Span{begin, t.pos}})
}

func (t *tokenizer) emitChar(kind TokenKind, c rune, begin int) {
	t.emit(Token{Kind: kind, Span: Span{begin, t.pos}, Char: c})
}

// atClassStart reports whether the next token would be the first member of
// the open class.
func (t *tokenizer) atClassStart() bool {
	if len(t.tokens) == 0 {
		return false
	}
	k := t.tokens[len(t.tokens)-1].Kind
	return k == TokenClassOpen || k == TokenClassNegate
}

func (t *tokenizer) next() error {
	begin := t.pos
	c, w := t.peek()
	t.pos += w

	if t.inClass {
		switch c {
		case '\\':
			return t.escape(begin)
		case ']':
			if t.atClassStart() {
				return t.errorf(ErrEmptyClass, begin)
			}
			t.emitKind(TokenClassClose, begin)
			t.inClass = false
		case '^':
			if t.tokens[len(t.tokens)-1].Kind == TokenClassOpen {
				t.emitKind(TokenClassNegate, begin)
			} else {
				t.emitChar(TokenChar, c, begin)
			}
		case '-':
			if next, _ := t.peek(); t.atClassStart() || next == ']' {
				t.emitChar(TokenChar, c, begin)
			} else {
				t.emitKind(TokenHyphen, begin)
			}
		default:
			t.emitChar(TokenChar, c, begin)
		}
		return nil
	}

	switch c {
	case '\\':
		return t.escape(begin)
	case '{':
		return t.brace(begin)
	case '[':
		t.emitKind(TokenClassOpen, begin)
		t.inClass = true
	case '^', '$':
		t.emitChar(TokenBoundary, c, begin)
	case '.':
		t.emitChar(TokenShorthand, c, begin)
	case '*':
		t.quantifier(begin, 0, -1)
	case '+':
		t.quantifier(begin, 1, -1)
	case '?':
		t.quantifier(begin, 0, 1)
	case '(':
		return t.group(begin)
	case ')':
		t.emitKind(TokenGroupClose, begin)
	case '|':
		t.emitKind(TokenAlternation, begin)
	default:
		t.emitChar(TokenChar, c, begin)
	}
	return nil
}

// quantifier emits a quantifier token, consuming one lazy or possessive
// suffix character if present.
func (t *tokenizer) quantifier(begin, lo, hi int) {
	q := Quantifier{Min: lo, Max: hi}
	switch c, w := t.peek(); c {
	case '?':
		q.Lazy = true
		t.pos += w
	case '+':
		q.Possessive = true
		t.pos += w
	}
	t.emit(Token{Kind: TokenQuantifier, Span: Span{begin, t.pos}, Quant: q})
}

// brace handles '{'. A well-formed {m}, {m,} or {m,n} becomes a quantifier;
// anything else leaves '{' as a literal and rescans what follows.
func (t *tokenizer) brace(begin int) error {
	p := t.pos
	lo, p, ok := t.number(p)
	if !ok {
		t.emitChar(TokenChar, '{', begin)
		return nil
	}
	hi := lo
	if p < len(t.src) && t.src[p] == ',' {
		p++
		var bounded bool
		hi, p, bounded = t.number(p)
		if !bounded {
			hi = -1
		}
	}
	if p >= len(t.src) || t.src[p] != '}' {
		t.emitChar(TokenChar, '{', begin)
		return nil
	}
	p++
	if lo > maxRepeat || hi > maxRepeat || hi != -1 && hi < lo {
		return t.errorf(ErrInvalidRepeatSize, begin)
	}
	t.pos = p
	t.quantifier(begin, lo, hi)
	return nil
}

// number reads a run of ASCII digits at p. Values saturate just above
// maxRepeat so that overlong counts are rejected rather than overflowing.
func (t *tokenizer) number(p int) (int, int, bool) {
	start := p
	n := 0
	for p < len(t.src) && IsDigit(rune(t.src[p])) {
		if n <= maxRepeat {
			n = n*10 + int(t.src[p]-'0')
		}
		p++
	}
	return n, p, p > start
}

func (t *tokenizer) escape(begin int) error {
	c, w := t.peek()
	if w == 0 {
		return t.errorf(ErrDanglingBackslash, begin)
	}
	t.pos += w

	switch c {
	case 't':
		t.emitChar(TokenChar, '\t', begin)
	case 'n':
		t.emitChar(TokenChar, '\n', begin)
	case 'r':
		t.emitChar(TokenChar, '\r', begin)
	case 'f':
		t.emitChar(TokenChar, '\f', begin)
	case 'x':
		return t.hex(begin, 2)
	case 'u':
		return t.hex(begin, 4)
	case 'd', 'D', 's', 'S', 'w', 'W':
		t.emitChar(TokenShorthand, c, begin)
	case 'b', 'B', 'A', 'G', 'Z', 'z':
		if t.inClass {
			return t.errorf(ErrInvalidEscape, begin)
		}
		t.emitChar(TokenBoundary, c, begin)
	case 'k':
		if t.inClass {
			return t.errorf(ErrInvalidEscape, begin)
		}
		name, ok := t.name('<', '>')
		if !ok {
			return t.errorf(ErrInvalidNamedBackref, begin)
		}
		t.emit(Token{Kind: TokenBackref, Span: Span{begin, t.pos}, Name: name})
	default:
		if !IsDigit(c) {
			t.emitChar(TokenChar, c, begin)
			return nil
		}
		if t.inClass {
			return t.errorf(ErrInvalidEscape, begin)
		}
		n, p, _ := t.number(t.pos - w)
		t.pos = p
		t.emit(Token{Kind: TokenBackref, Span: Span{begin, t.pos}, Ref: n})
	}
	return nil
}

// hex reads exactly n hex digits following \x or \u.
func (t *tokenizer) hex(begin, n int) error {
	if t.pos+n > len(t.src) {
		return t.errorf(ErrInvalidHexEscape, begin)
	}
	digits := t.src[t.pos : t.pos+n]
	for i := 0; i < n; i++ {
		if !isHex(rune(digits[i])) {
			return t.errorf(ErrInvalidHexEscape, begin)
		}
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	Invariant(err == nil, "hex digits %q did not parse: %v", digits, err)
	t.pos += n
	t.emitChar(TokenChar, rune(v), begin)
	return nil
}

// name reads open, a non-empty alphanumeric name, then close.
func (t *tokenizer) name(open, close byte) (string, bool) {
	if t.pos >= len(t.src) || t.src[t.pos] != open {
		return "", false
	}
	start := t.pos + 1
	p := start
	for p < len(t.src) && t.src[p] != close {
		if !isAlnum(rune(t.src[p])) {
			return "", false
		}
		p++
	}
	if p >= len(t.src) || p == start {
		return "", false
	}
	t.pos = p + 1
	return t.src[start:p], true
}

func (t *tokenizer) group(begin int) error {
	if t.pos >= len(t.src) || t.src[t.pos] != '?' {
		t.emit(Token{Kind: TokenGroupOpen, Span: Span{begin, t.pos}, Group: GroupNormal})
		return nil
	}
	t.pos++
	if t.pos >= len(t.src) {
		return t.errorf(ErrInvalidGroup, begin)
	}
	c := t.src[t.pos]
	t.pos++
	switch c {
	case ':':
		t.emit(Token{Kind: TokenGroupOpen, Span: Span{begin, t.pos}, Group: GroupNonCapturing})
	case '>':
		t.emit(Token{Kind: TokenGroupOpen, Span: Span{begin, t.pos}, Group: GroupAtomic})
	case '=':
		t.emit(Token{Kind: TokenLookOpen, Span: Span{begin, t.pos}, Look: LookAhead})
	case '!':
		t.emit(Token{Kind: TokenLookOpen, Span: Span{begin, t.pos}, Look: LookNegAhead})
	case '<':
		if t.pos < len(t.src) {
			switch t.src[t.pos] {
			case '=':
				t.pos++
				t.emit(Token{Kind: TokenLookOpen, Span: Span{begin, t.pos}, Look: LookBehind})
				return nil
			case '!':
				t.pos++
				t.emit(Token{Kind: TokenLookOpen, Span: Span{begin, t.pos}, Look: LookNegBehind})
				return nil
			}
		}
		t.pos--
		name, ok := t.name('<', '>')
		if !ok {
			return t.errorf(ErrInvalidGroupName, begin)
		}
		t.emit(Token{Kind: TokenGroupOpen, Span: Span{begin, t.pos}, Group: GroupNamed, Name: name})
	default:
		return t.errorf(ErrInvalidGroup, begin)
	}
	return nil
}
