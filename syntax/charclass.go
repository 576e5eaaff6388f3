package syntax

// ItemKind identifies one entry of a character class.
type ItemKind uint8

const (
	// ItemChar matches exactly Lo.
	ItemChar ItemKind = iota
	// ItemRange matches Lo through Hi inclusive.
	ItemRange
	// ItemShorthand matches the shorthand class named by Lo (d, D, s, S, w, W).
	ItemShorthand
)

// ClassItem is a single member of a CharClass.
type ClassItem struct {
	Kind ItemKind
	Lo   rune
	Hi   rune
	Span Span
}

// CharClass is a bracketed character class such as [^a-z\d_].
// Items keep their source order.
type CharClass struct {
	Negate bool
	Items  []ClassItem
}

// Contains reports whether r is a member of the class.
func (c *CharClass) Contains(r rune) bool {
	return c.containsPositive(r) != c.Negate
}

func (c *CharClass) containsPositive(r rune) bool {
	for _, it := range c.Items {
		switch it.Kind {
		case ItemChar:
			if r == it.Lo {
				return true
			}
		case ItemRange:
			if it.Lo <= r && r <= it.Hi {
				return true
			}
		case ItemShorthand:
			if MatchShorthand(it.Lo, r) {
				return true
			}
		}
	}
	return false
}

// MatchShorthand reports whether r belongs to the shorthand class letter.
// The letter '.' is any character except newline. Unknown letters match
// nothing.
func MatchShorthand(letter, r rune) bool {
	switch letter {
	case 'd':
		return IsDigit(r)
	case 'D':
		return !IsDigit(r)
	case 's':
		return IsSpace(r)
	case 'S':
		return !IsSpace(r)
	case 'w':
		return IsWordChar(r)
	case 'W':
		return !IsWordChar(r)
	case '.':
		return r != '\n'
	default:
		return false
	}
}

// IsDigit reports whether r is an ASCII digit.
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// IsSpace reports whether r is one of space, \t, \n, \f or \r.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// IsWordChar reports whether r is an ASCII letter, digit or underscore.
func IsWordChar(r rune) bool {
	return IsDigit(r) ||
		'a' <= r && r <= 'z' ||
		'A' <= r && r <= 'Z' ||
		r == '_'
}

func isAlnum(r rune) bool {
	return IsDigit(r) || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isHex(r rune) bool {
	return IsDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}
