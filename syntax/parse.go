package syntax

// maxNesting bounds group and lookaround nesting so that parsing and
// compilation recursion stay shallow.
const maxNesting = 1000

type parser struct {
	src        string
	tokens     []Token
	pos        int
	depth      int
	groups     *GroupTable
	nextGroup  int
	nextAtomic int
	diags      []Diagnostic
}

// Parse tokenizes and parses pattern.
func Parse(pattern string) (*Regexp, error) {
	tokens, err := Tokenize(pattern)
	if err != nil {
		return nil, err
	}
	return ParseTokens(pattern, tokens)
}

// ParseTokens parses a token sequence produced by Tokenize(source).
//
// Capture groups are numbered 1, 2, ... in the order their opening tokens
// appear; atomic groups are numbered -1, -2, ... the same way. A group is
// registered before its body is parsed, so a backreference may refer to an
// enclosing group. A backreference to a group that has not been opened yet
// is an error.
func ParseTokens(source string, tokens []Token) (*Regexp, error) {
	p := &parser{
		src:        source,
		tokens:     tokens,
		groups:     newGroupTable(),
		nextGroup:  1,
		nextAtomic: -1,
	}
	root, err := p.alternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Kind == TokenGroupClose {
			return nil, p.errorf(ErrUnexpectedParen, tok.Span.Begin)
		}
		return nil, p.errorf(ErrUnexpectedToken, tok.Span.Begin)
	}

	re := &Regexp{
		Source:    source,
		Tokens:    tokens,
		Root:      root,
		Groups:    p.groups,
		NumGroups: p.nextGroup - 1,
		NumAtomic: -p.nextAtomic - 1,
	}
	re.Diagnostics = append(p.diags, anchorDiagnostics(re)...)
	return re, nil
}

func (p *parser) errorf(code ErrorCode, at int) error {
	return &Error{Code: code, Expr: p.src, Offset: at}
}

func (p *parser) at(kind TokenKind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].Kind == kind
}

// offset is the byte offset where the next unconsumed token begins.
func (p *parser) offset() int {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Span.Begin
	}
	return len(p.src)
}

func (p *parser) alternation() (Node, error) {
	begin := p.offset()
	first, err := p.concat()
	if err != nil {
		return nil, err
	}
	if !p.at(TokenAlternation) {
		return first, nil
	}
	alts := []Node{first}
	for p.at(TokenAlternation) {
		p.pos++
		n, err := p.concat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, n)
	}
	return &Alternation{Loc: Span{begin, p.offset()}, Alts: alts}, nil
}

func (p *parser) concat() (Node, error) {
	begin := p.offset()
	var items []Node
	for p.pos < len(p.tokens) {
		if k := p.tokens[p.pos].Kind; k == TokenAlternation || k == TokenGroupClose {
			break
		}
		n, err := p.repeat()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	switch len(items) {
	case 0:
		return &Empty{Loc: Span{begin, begin}}, nil
	case 1:
		return items[0], nil
	}
	return &Concat{Loc: Span{begin, p.offset()}, Items: items}, nil
}

func (p *parser) repeat() (Node, error) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	if !p.at(TokenQuantifier) {
		return atom, nil
	}
	q := p.tokens[p.pos]
	p.pos++
	return &Repeat{
		Loc:   Span{atom.Span().Begin, q.Span.End},
		Sub:   atom,
		Quant: q.Quant,
	}, nil
}

func (p *parser) atom() (Node, error) {
	tok := p.tokens[p.pos]
	switch tok.Kind {
	case TokenChar:
		p.pos++
		return &Char{Loc: tok.Span, Rune: tok.Char}, nil
	case TokenShorthand:
		p.pos++
		return &Shorthand{Loc: tok.Span, Letter: tok.Char}, nil
	case TokenBoundary:
		p.pos++
		return &Boundary{Loc: tok.Span, Letter: tok.Char}, nil
	case TokenBackref:
		p.pos++
		return p.backref(tok)
	case TokenClassOpen:
		return p.class()
	case TokenGroupOpen:
		return p.group()
	case TokenLookOpen:
		return p.lookaround()
	case TokenQuantifier:
		return nil, p.errorf(ErrMissingRepeatArg, tok.Span.Begin)
	}
	return nil, p.errorf(ErrUnexpectedToken, tok.Span.Begin)
}

func (p *parser) backref(tok Token) (Node, error) {
	if tok.Name != "" {
		g, ok := p.groups.LookupName(tok.Name)
		if !ok {
			return nil, p.errorf(ErrUnresolvedBackref, tok.Span.Begin)
		}
		return &Backref{Loc: tok.Span, Index: g.Index, Name: tok.Name}, nil
	}
	if _, ok := p.groups.Lookup(tok.Ref); !ok {
		return nil, p.errorf(ErrUnresolvedBackref, tok.Span.Begin)
	}
	return &Backref{Loc: tok.Span, Index: tok.Ref}, nil
}

func (p *parser) enter(at int) error {
	p.depth++
	if p.depth > maxNesting {
		return p.errorf(ErrNestingDepth, at)
	}
	return nil
}

// body parses the alternation inside a group opened at open and consumes
// the closing parenthesis.
func (p *parser) body(open Token) (Node, Span, error) {
	if err := p.enter(open.Span.Begin); err != nil {
		return nil, Span{}, err
	}
	sub, err := p.alternation()
	if err != nil {
		return nil, Span{}, err
	}
	if !p.at(TokenGroupClose) {
		return nil, Span{}, p.errorf(ErrMissingParen, open.Span.Begin)
	}
	end := p.tokens[p.pos].Span.End
	p.pos++
	p.depth--
	return sub, Span{open.Span.Begin, end}, nil
}

func (p *parser) group() (Node, error) {
	open := p.tokens[p.pos]
	p.pos++

	g := &Group{Kind: open.Group, Name: open.Name}
	switch open.Group {
	case GroupNormal, GroupNamed:
		g.Index = p.nextGroup
		p.nextGroup++
		p.groups.byIndex[g.Index] = g
		if open.Group == GroupNamed {
			if _, dup := p.groups.byName[g.Name]; dup {
				return nil, p.errorf(ErrDuplicateGroupName, open.Span.Begin)
			}
			p.groups.byName[g.Name] = g
		}
	case GroupAtomic:
		g.Index = p.nextAtomic
		p.nextAtomic--
	}

	sub, loc, err := p.body(open)
	if err != nil {
		return nil, err
	}
	g.Sub = sub
	g.Loc = loc
	return g, nil
}

func (p *parser) lookaround() (Node, error) {
	open := p.tokens[p.pos]
	p.pos++
	sub, loc, err := p.body(open)
	if err != nil {
		return nil, err
	}
	if open.Look == LookBehind || open.Look == LookNegBehind {
		p.diags = append(p.diags, Diagnostic{
			Severity: SeverityWarning,
			Msg:      "lookbehind is not supported and always succeeds",
			Span:     loc,
		})
	}
	return &Lookaround{Loc: loc, Kind: open.Look, Sub: sub}, nil
}

// class parses a bracketed class. A literal is held back as pending until
// the next token shows whether it is the left end of a range.
func (p *parser) class() (Node, error) {
	open := p.tokens[p.pos]
	p.pos++

	cc := &CharClass{}
	if p.at(TokenClassNegate) {
		cc.Negate = true
		p.pos++
	}

	var (
		pending    Token
		hasPending bool
		inRange    bool
	)
	flush := func() {
		if hasPending {
			cc.Items = append(cc.Items, ClassItem{
				Kind: ItemChar,
				Lo:   pending.Char,
				Hi:   pending.Char,
				Span: pending.Span,
			})
			hasPending = false
		}
	}
	closeRange := func(hi Token) error {
		if pending.Char > hi.Char {
			return p.errorf(ErrInvalidClassRange, pending.Span.Begin)
		}
		cc.Items = append(cc.Items, ClassItem{
			Kind: ItemRange,
			Lo:   pending.Char,
			Hi:   hi.Char,
			Span: Span{pending.Span.Begin, hi.Span.End},
		})
		hasPending = false
		inRange = false
		return nil
	}

	for {
		if p.pos >= len(p.tokens) {
			return nil, p.errorf(ErrMissingBracket, open.Span.Begin)
		}
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.Kind {
		case TokenChar:
			if inRange {
				if err := closeRange(tok); err != nil {
					return nil, err
				}
				continue
			}
			flush()
			pending, hasPending = tok, true

		case TokenShorthand:
			if inRange {
				return nil, p.errorf(ErrInvalidClassRange, pending.Span.Begin)
			}
			flush()
			cc.Items = append(cc.Items, ClassItem{Kind: ItemShorthand, Lo: tok.Char, Hi: tok.Char, Span: tok.Span})

		case TokenHyphen:
			switch {
			case inRange:
				hi := tok
				hi.Char = '-'
				if err := closeRange(hi); err != nil {
					return nil, err
				}
			case hasPending:
				inRange = true
			default:
				pending, hasPending = tok, true
				pending.Char = '-'
			}

		case TokenClassClose:
			Invariant(!inRange, "class range open at closing bracket %d", tok.Span.Begin)
			flush()
			cls := &Class{Loc: Span{open.Span.Begin, tok.Span.End}, Class: cc}
			p.diags = append(p.diags, classDiagnostics(cc)...)
			return cls, nil

		default:
			return nil, p.errorf(ErrUnexpectedToken, tok.Span.Begin)
		}
	}
}
