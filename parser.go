package resyntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultNestLimit bounds group and class nesting so that parse output can
// be walked recursively without stack concerns.
const DefaultNestLimit = 250

// SyntaxError describes a malformed pattern.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid pattern at %d: %s", e.Pos, e.Msg)
}

// Parser parses a regex string into an AST.
type Parser struct {
	input string
	pos   int
	// State for capturing groups
	captures int
	names    map[string]int
	// Nesting depth of groups and classes
	depth     int
	NestLimit int
}

func NewParser(input string) *Parser {
	return &Parser{
		input:     input,
		names:     make(map[string]int),
		NestLimit: DefaultNestLimit,
	}
}

func (p *Parser) Parse() (Node, error) {
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.input) {
		return nil, p.errorf("unexpected character: %q", p.peek())
	}
	return node, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// NumCaptures returns the number of capturing groups seen by Parse.
func (p *Parser) NumCaptures() int {
	return p.captures
}

// CaptureNames returns the names of the capturing groups seen by Parse,
// indexed by capture number. Index 0 and unnamed groups are empty.
func (p *Parser) CaptureNames() []string {
	names := make([]string, p.captures+1)
	for name, idx := range p.names {
		if idx < len(names) {
			names[idx] = name
		}
	}
	return names
}

// parseExpr handles alternation: term | term
func (p *Parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.input) && p.peek() == '|' {
		p.consume() // eat |
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		// Flatten nested alternations into one node.
		if alt, ok := right.(*Alternation); ok {
			return &Alternation{Nodes: append([]Node{left}, alt.Nodes...)}, nil
		}
		return &Alternation{Nodes: []Node{left, right}}, nil
	}
	return left, nil
}

// parseTerm handles concatenation: factor factor
func (p *Parser) parseTerm() (Node, error) {
	var nodes []Node
	for p.pos < len(p.input) && p.peek() != '|' && p.peek() != ')' {
		node, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	switch len(nodes) {
	case 0:
		return &Empty{}, nil
	case 1:
		return nodes[0], nil
	}
	return &Concat{Nodes: nodes}, nil
}

// parseFactor handles quantifiers: atom*, atom+, atom?, atom{n,m}
func (p *Parser) parseFactor() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	if p.pos >= len(p.input) {
		return atom, nil
	}

	ch := p.peek()
	switch ch {
	case '*', '+', '?':
		p.consume()
		rep := &Repetition{Body: atom, Greedy: true}
		if ch == '*' {
			rep.Min, rep.Max = 0, -1
		} else if ch == '+' {
			rep.Min, rep.Max = 1, -1
		} else {
			rep.Min, rep.Max = 0, 1
		}
		if p.pos < len(p.input) && p.peek() == '?' {
			p.consume()
			rep.Greedy = false
		}
		return rep, nil
	case '{':
		// A { that does not open a counted repetition is a literal,
		// so only commit once the digits are in hand.
		if !p.startsCountedRepetition() {
			return atom, nil
		}
		p.consume() // eat {

		minStr := ""
		for p.pos < len(p.input) && p.peek() >= '0' && p.peek() <= '9' {
			minStr += string(p.consume())
		}
		min, err := strconv.Atoi(minStr)
		if err != nil {
			return nil, p.errorf("invalid repetition count: %v", err)
		}

		max := min // Default: exactly n

		if p.pos < len(p.input) && p.peek() == ',' {
			p.consume() // eat ,

			if p.pos < len(p.input) && p.peek() == '}' {
				// {n,} means n or more
				max = -1
			} else {
				maxStr := ""
				for p.pos < len(p.input) && p.peek() >= '0' && p.peek() <= '9' {
					maxStr += string(p.consume())
				}
				max, err = strconv.Atoi(maxStr)
				if err != nil {
					return nil, p.errorf("invalid repetition count: %v", err)
				}
			}
		}

		if p.pos >= len(p.input) || p.consume() != '}' {
			return nil, p.errorf("unclosed repetition")
		}

		rep := &Repetition{Body: atom, Min: min, Max: max, Greedy: true}

		if p.pos < len(p.input) && p.peek() == '?' {
			p.consume()
			rep.Greedy = false
		}

		return rep, nil
	}
	return atom, nil
}

// startsCountedRepetition reports whether the input at the current { can be
// read as {n}, {n,} or {n,m}.
func (p *Parser) startsCountedRepetition() bool {
	i := p.pos + 1
	digits := 0
	for i < len(p.input) && p.input[i] >= '0' && p.input[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return false
	}
	if i < len(p.input) && p.input[i] == ',' {
		i++
		for i < len(p.input) && p.input[i] >= '0' && p.input[i] <= '9' {
			i++
		}
	}
	return i < len(p.input) && p.input[i] == '}'
}

// parseAtom handles literals, groups, classes and assertions.
func (p *Parser) parseAtom() (Node, error) {
	ch := p.peek()
	switch ch {
	case '(':
		p.consume()
		return p.parseGroup()
	case '[':
		p.consume()
		return p.parseClass()
	case '.':
		p.consume()
		return &Dot{}, nil
	case '\\':
		p.consume() // eat \
		return p.parseEscape()
	case '^':
		p.consume()
		return &Assertion{Kind: AssertStartText}, nil
	case '$':
		p.consume()
		return &Assertion{Kind: AssertEndText}, nil
	case '|', ')':
		return nil, p.errorf("unexpected meta char: %c", ch)
	default:
		p.consume()
		return &Literal{Char: ch}, nil
	}
}

// parseEscape handles a top-level escape. The backslash is already
// consumed.
func (p *Parser) parseEscape() (Node, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("trailing backslash")
	}
	esc := p.consume()
	switch esc {
	// Assertions
	case 'b':
		return &Assertion{Kind: AssertWordBoundary}, nil
	case 'B':
		return &Assertion{Kind: AssertNotWordBoundary}, nil
	case 'A':
		return &Assertion{Kind: AssertStringStart}, nil
	case 'Z':
		return &Assertion{Kind: AssertStringEnd}, nil
	case 'z':
		return &Assertion{Kind: AssertAbsoluteEnd}, nil

	// Perl classes
	case 'd', 'D', 'w', 'W', 's', 'S':
		return perlClassFor(esc), nil

	// Unicode property classes
	case 'p', 'P':
		return p.parseUnicodeClass(esc == 'P')

	// Code point escapes
	case 'x', 'u', 'U':
		return p.parseCodeEscape(esc)

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return nil, p.errorf("backreferences are not supported")
	}

	if lit, ok := specialLiteral(esc); ok {
		return lit, nil
	}
	// Escaped metacharacters and anything else: treat as literal
	return &Literal{Char: esc, Kind: LiteralPunct}, nil
}

func perlClassFor(esc rune) *PerlClass {
	switch esc {
	case 'd', 'D':
		return &PerlClass{Kind: PerlDigit, Negated: esc == 'D'}
	case 'w', 'W':
		return &PerlClass{Kind: PerlWord, Negated: esc == 'W'}
	default:
		return &PerlClass{Kind: PerlSpace, Negated: esc == 'S'}
	}
}

func specialLiteral(esc rune) (*Literal, bool) {
	var c rune
	switch esc {
	case 'n':
		c = '\n'
	case 't':
		c = '\t'
	case 'r':
		c = '\r'
	case 'f':
		c = '\f'
	case 'v':
		c = '\v'
	case 'a':
		c = '\a'
	default:
		return nil, false
	}
	return &Literal{Char: c, Kind: LiteralSpecial}, true
}

// parseUnicodeClass handles \pL, \p{Greek}, \PL and \P{Greek}. The p or P
// is already consumed.
func (p *Parser) parseUnicodeClass(negated bool) (*UnicodeClass, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("incomplete Unicode class escape")
	}
	if p.peek() == '{' {
		p.consume() // eat {
		end := strings.IndexRune(p.input[p.pos:], '}')
		if end == -1 {
			return nil, p.errorf("unclosed Unicode class name")
		}
		name := p.input[p.pos : p.pos+end]
		p.pos += end + 1 // skip name and }
		if name == "" {
			return nil, p.errorf("empty Unicode class name")
		}
		return &UnicodeClass{Name: name, Negated: negated}, nil
	}
	return &UnicodeClass{Name: string(p.consume()), Negated: negated}, nil
}

// parseCodeEscape handles \xHH, \x{...}, \uHHHH and \UHHHHHHHH. The x, u
// or U is already consumed.
func (p *Parser) parseCodeEscape(esc rune) (*Literal, error) {
	var digits string
	if p.pos < len(p.input) && p.peek() == '{' {
		p.consume() // eat {
		end := strings.IndexRune(p.input[p.pos:], '}')
		if end == -1 {
			return nil, p.errorf("unclosed code point escape")
		}
		digits = p.input[p.pos : p.pos+end]
		p.pos += end + 1
	} else {
		var n int
		switch esc {
		case 'x':
			n = 2
		case 'u':
			n = 4
		default:
			n = 8
		}
		if p.pos+n > len(p.input) {
			return nil, p.errorf("incomplete \\%c escape", esc)
		}
		digits = p.input[p.pos : p.pos+n]
		p.pos += n
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || v > unicode.MaxRune {
		return nil, p.errorf("invalid code point escape \\%c%s", esc, digits)
	}
	return &Literal{Char: rune(v), Kind: LiteralCode}, nil
}

// parseClass handles a bracketed class. The [ is already consumed.
func (p *Parser) parseClass() (*BracketedClass, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.NestLimit {
		return nil, p.errorf("nesting exceeds limit of %d", p.NestLimit)
	}

	negated := false
	if p.pos < len(p.input) && p.peek() == '^' {
		p.consume()
		negated = true
	}

	set, err := p.parseClassSet(true)
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) || p.consume() != ']' {
		return nil, p.errorf("unclosed character class")
	}
	return &BracketedClass{Set: set, Negated: negated}, nil
}

// parseClassSet handles the set expression inside a class: unions of items
// joined by the binary operators &&, -- and ~~ (left-associative).
func (p *Parser) parseClassSet(first bool) (ClassSet, error) {
	left, err := p.parseClassUnion(first)
	if err != nil {
		return nil, err
	}
	for {
		kind, ok := p.peekSetOp()
		if !ok {
			return left, nil
		}
		p.pos += 2 // eat the operator
		right, err := p.parseClassUnion(false)
		if err != nil {
			return nil, err
		}
		left = &SetOp{Kind: kind, Left: left, Right: right}
	}
}

func (p *Parser) peekSetOp() (SetOpKind, bool) {
	if p.pos+2 > len(p.input) {
		return 0, false
	}
	switch p.input[p.pos : p.pos+2] {
	case "&&":
		return SetIntersection, true
	case "--":
		return SetDifference, true
	case "~~":
		return SetSymmetricDifference, true
	}
	return 0, false
}

func (p *Parser) parseClassUnion(first bool) (ClassSet, error) {
	var items []SetItem

	// If ] is the first char (after optional ^), it's a literal ].
	if first && p.pos < len(p.input) && p.peek() == ']' {
		p.consume()
		items = append(items, &Literal{Char: ']'})
	}

	for p.pos < len(p.input) && p.peek() != ']' {
		if _, ok := p.peekSetOp(); ok {
			break
		}
		item, err := p.parseSetItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	switch len(items) {
	case 0:
		return &Empty{}, nil
	case 1:
		return items[0], nil
	}
	return &SetUnion{Items: items}, nil
}

// parseSetItem handles one class element, including a-z style ranges.
func (p *Parser) parseSetItem() (SetItem, error) {
	item, err := p.parseSetAtom()
	if err != nil {
		return nil, err
	}

	// Check for range a-z. Only literal endpoints form a range; a - that
	// would start the -- operator or close the class is itself a literal.
	start, ok := item.(*Literal)
	if !ok || p.pos >= len(p.input) || p.peek() != '-' {
		return item, nil
	}
	if p.pos+1 >= len(p.input) || p.input[p.pos+1] == ']' || p.input[p.pos+1] == '-' {
		return item, nil
	}
	p.consume() // eat -
	endItem, err := p.parseSetAtom()
	if err != nil {
		return nil, err
	}
	end, ok := endItem.(*Literal)
	if !ok {
		return nil, p.errorf("invalid character class range end")
	}
	return &SetRange{Start: *start, End: *end}, nil
}

func (p *Parser) parseSetAtom() (SetItem, error) {
	switch p.peek() {
	case '[':
		// [:name:] ASCII class or nested class
		if strings.HasPrefix(p.input[p.pos:], "[:") {
			return p.parseASCIIClass()
		}
		p.consume()
		return p.parseClass()
	case '\\':
		p.consume() // eat \
		return p.parseSetEscape()
	default:
		return &Literal{Char: p.consume()}, nil
	}
}

// parseSetEscape handles an escape inside a class. The backslash is
// already consumed. Assertions are not valid here.
func (p *Parser) parseSetEscape() (SetItem, error) {
	if p.pos >= len(p.input) {
		return nil, p.errorf("trailing backslash")
	}
	esc := p.consume()
	switch esc {
	case 'd', 'D', 'w', 'W', 's', 'S':
		return perlClassFor(esc), nil
	case 'p', 'P':
		return p.parseUnicodeClass(esc == 'P')
	case 'x', 'u', 'U':
		return p.parseCodeEscape(esc)
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return nil, p.errorf("backreferences are not supported")
	}
	if lit, ok := specialLiteral(esc); ok {
		return lit, nil
	}
	return &Literal{Char: esc, Kind: LiteralPunct}, nil
}

var asciiClassNames = map[string]bool{
	"alnum": true, "alpha": true, "ascii": true, "blank": true,
	"cntrl": true, "digit": true, "graph": true, "lower": true,
	"print": true, "punct": true, "space": true, "upper": true,
	"word": true, "xdigit": true,
}

// parseASCIIClass handles [:alpha:] and [:^alpha:] items.
func (p *Parser) parseASCIIClass() (*SetASCII, error) {
	p.pos += 2 // eat [:
	negated := false
	if p.pos < len(p.input) && p.peek() == '^' {
		p.consume()
		negated = true
	}
	end := strings.Index(p.input[p.pos:], ":]")
	if end == -1 {
		return nil, p.errorf("unclosed ASCII class")
	}
	name := p.input[p.pos : p.pos+end]
	p.pos += end + 2 // skip name and :]
	if !asciiClassNames[name] {
		return nil, p.errorf("unknown ASCII class name %q", name)
	}
	return &SetASCII{Name: name, Negated: negated}, nil
}

// parseGroup handles a group or inline flags. The ( is already consumed.
func (p *Parser) parseGroup() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.NestLimit {
		return nil, p.errorf("nesting exceeds limit of %d", p.NestLimit)
	}

	// Check for (? extensions
	if p.pos < len(p.input) && p.peek() == '?' {
		p.consume() // eat ?

		if p.pos >= len(p.input) {
			return nil, p.errorf("invalid group syntax")
		}

		switch p.peek() {
		case ':': // (?: non-capturing
			p.consume()
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.input) || p.consume() != ')' {
				return nil, p.errorf("unclosed non-capturing group")
			}
			return &Group{Body: body}, nil

		case 'P': // (?P<name> named group
			p.consume()
			if p.pos >= len(p.input) || p.consume() != '<' {
				return nil, p.errorf("expected < in named group")
			}
			return p.parseNamedGroup()

		case '<': // (?<name> named group
			p.consume()
			if p.pos < len(p.input) && (p.peek() == '=' || p.peek() == '!') {
				return nil, p.errorf("lookaround is not supported")
			}
			return p.parseNamedGroup()

		case '=', '!':
			return nil, p.errorf("lookaround is not supported")

		default:
			return p.parseFlagGroup()
		}
	}

	// Normal capturing group
	p.captures++
	idx := p.captures
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) || p.consume() != ')' {
		return nil, p.errorf("unclosed capturing group")
	}
	return &Group{Body: body, Index: idx}, nil
}

// parseNamedGroup handles the rest of (?P<name>...) or (?<name>...). The <
// is already consumed.
func (p *Parser) parseNamedGroup() (Node, error) {
	nameEnd := strings.IndexRune(p.input[p.pos:], '>')
	if nameEnd == -1 {
		return nil, p.errorf("unclosed group name")
	}
	name := p.input[p.pos : p.pos+nameEnd]
	p.pos += nameEnd + 1 // skip name and >
	if name == "" {
		return nil, p.errorf("empty group name")
	}

	p.captures++
	idx := p.captures
	p.names[name] = idx

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.input) || p.consume() != ')' {
		return nil, p.errorf("unclosed named group")
	}
	return &Group{Body: body, Index: idx, Name: name}, nil
}

// parseFlagGroup handles (?i), (?i-s) and (?i:...) style groups. The (? is
// already consumed.
func (p *Parser) parseFlagGroup() (Node, error) {
	flags := &Flags{}

	set := true
	for p.pos < len(p.input) {
		var f Flag
		switch p.peek() {
		case 'i':
			f = FlagCaseInsensitive
		case 'm':
			f = FlagMultiline
		case 's':
			f = FlagDotMatchesNewline
		case 'U':
			f = FlagSwapGreed
		case '-':
			if !set {
				return nil, p.errorf("invalid flag syntax")
			}
			set = false
			p.consume()
			continue
		case ')':
			if flags.Set == 0 && flags.Clear == 0 {
				return nil, p.errorf("missing flags")
			}
			p.consume()
			return flags, nil
		case ':':
			if flags.Set == 0 && flags.Clear == 0 {
				return nil, p.errorf("missing flags")
			}
			p.consume() // eat :
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.input) || p.consume() != ')' {
				return nil, p.errorf("unclosed group")
			}
			return &Group{Body: body, Flags: flags}, nil
		default:
			return nil, p.errorf("invalid group extension: ?%c", p.peek())
		}
		p.consume()
		if set {
			flags.Set |= f
		} else {
			flags.Clear |= f
		}
	}
	return nil, p.errorf("unclosed group")
}

// Helpers

func (p *Parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

func (p *Parser) consume() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += w
	return r
}
