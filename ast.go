package resyntax

// NodeType identifies the type of AST node.
type NodeType int

const (
	NodeEmpty NodeType = iota
	NodeFlags
	NodeDot
	NodeAssertion
	NodeUnicodeClass
	NodePerlClass
	NodeLiteral
	NodeBracketedClass
	NodeRepetition
	NodeGroup
	NodeAlternation
	NodeConcat
)

// Node is the base interface for AST nodes.
type Node interface {
	Type() NodeType
}

// Empty matches the empty string.
type Empty struct{}

func (n *Empty) Type() NodeType { return NodeEmpty }

// Flag is a single inline flag.
type Flag uint8

const (
	FlagCaseInsensitive   Flag = 1 << iota // i
	FlagMultiline                          // m
	FlagDotMatchesNewline                  // s
	FlagSwapGreed                          // U
)

// Flags is a standalone inline flag setting such as (?i) or (?-s).
type Flags struct {
	Set   Flag
	Clear Flag
}

func (n *Flags) Type() NodeType { return NodeFlags }

// Dot matches any character.
type Dot struct{}

func (n *Dot) Type() NodeType { return NodeDot }

// AssertionType identifies a zero-width assertion.
type AssertionType int

const (
	AssertStartText       AssertionType = iota // ^
	AssertEndText                              // $
	AssertWordBoundary                         // \b
	AssertNotWordBoundary                      // \B
	AssertStringStart                          // \A
	AssertStringEnd                            // \Z
	AssertAbsoluteEnd                          // \z
)

// Assertion matches a position without consuming characters.
type Assertion struct {
	Kind AssertionType
}

func (n *Assertion) Type() NodeType { return NodeAssertion }

// UnicodeClass is a named Unicode property class such as \pL or \p{Greek}.
// Its membership comes from Unicode tables rather than characters spelled
// out in the pattern.
type UnicodeClass struct {
	Name    string
	Negated bool
}

func (n *UnicodeClass) Type() NodeType { return NodeUnicodeClass }

// PerlClassKind identifies a Perl class shorthand.
type PerlClassKind int

const (
	PerlDigit PerlClassKind = iota // \d
	PerlWord                       // \w
	PerlSpace                      // \s
)

// PerlClass is a Perl class shorthand such as \w or \S.
type PerlClass struct {
	Kind    PerlClassKind
	Negated bool
}

func (n *PerlClass) Type() NodeType { return NodePerlClass }

// LiteralKind records how a literal was written in the pattern.
type LiteralKind int

const (
	LiteralVerbatim LiteralKind = iota // a
	LiteralPunct                       // \. or \\
	LiteralSpecial                     // \n, \t, ...
	LiteralCode                        // \x41, \x{1F600}, a
)

// Literal is one explicitly written character.
type Literal struct {
	Char rune
	Kind LiteralKind
}

func (n *Literal) Type() NodeType { return NodeLiteral }

// BracketedClass represents a user-written class like [a-z0-9] or [^a--b].
type BracketedClass struct {
	Set     ClassSet
	Negated bool
}

func (n *BracketedClass) Type() NodeType { return NodeBracketedClass }

// Repetition matches a node repeated min..max times.
type Repetition struct {
	Body   Node
	Min    int
	Max    int // -1 for infinity
	Greedy bool
}

func (n *Repetition) Type() NodeType { return NodeRepetition }

// Group wraps a sub-pattern: (a), (?P<name>a) or (?:a).
type Group struct {
	Body  Node
	Index int    // 1-based capture index; 0 for non-capturing
	Name  string // optional capture name
	Flags *Flags // inline flags scoped to the group, e.g. (?i:a)
}

func (n *Group) Type() NodeType { return NodeGroup }

// Alternation matches one of several branches.
type Alternation struct {
	Nodes []Node
}

func (n *Alternation) Type() NodeType { return NodeAlternation }

// Concat matches a sequence of nodes.
type Concat struct {
	Nodes []Node
}

func (n *Concat) Type() NodeType { return NodeConcat }

// ClassSet is the set expression inside a bracketed class: either a single
// item or a binary operation over two sub-expressions.
type ClassSet interface {
	classSet()
}

// SetOpKind identifies a binary class-set operator.
type SetOpKind int

const (
	SetIntersection        SetOpKind = iota // &&
	SetDifference                           // --
	SetSymmetricDifference                  // ~~
)

// SetOp applies a binary set operator to two class-set expressions,
// e.g. [\w--a] or [a-z&&[^c]].
type SetOp struct {
	Kind  SetOpKind
	Left  ClassSet
	Right ClassSet
}

func (n *SetOp) classSet() {}

// SetItem is a single element of a bracketed class. Every item is also a
// valid class-set expression on its own.
type SetItem interface {
	ClassSet
	setItem()
}

// SetASCII is a named ASCII class such as [:alpha:] or [:^upper:].
type SetASCII struct {
	Name    string
	Negated bool
}

func (n *SetASCII) classSet() {}
func (n *SetASCII) setItem()  {}

// SetRange is a character range defined by its two literal endpoints.
type SetRange struct {
	Start Literal
	End   Literal
}

func (n *SetRange) classSet() {}
func (n *SetRange) setItem()  {}

// SetUnion is an ordered union of class-set items.
type SetUnion struct {
	Items []SetItem
}

func (n *SetUnion) classSet() {}
func (n *SetUnion) setItem()  {}

// Empty, literals, Perl classes, Unicode classes and whole bracketed
// classes can all appear as items of an enclosing class.
func (n *Empty) classSet() {}
func (n *Empty) setItem()  {}

func (n *Literal) classSet() {}
func (n *Literal) setItem()  {}

func (n *PerlClass) classSet() {}
func (n *PerlClass) setItem()  {}

func (n *UnicodeClass) classSet() {}
func (n *UnicodeClass) setItem()  {}

func (n *BracketedClass) classSet() {}
func (n *BracketedClass) setItem()  {}
