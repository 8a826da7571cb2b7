package resyntax

import "unicode"

// Analysis is the result of inspecting the AST of a regular expression,
// e.g. for supporting smart case.
type Analysis struct {
	anyUppercase bool
	anyLiteral   bool
}

// AnalyzePattern parses pattern and analyzes the resulting AST. The only
// error it can return is the parser's.
func AnalyzePattern(pattern string) (Analysis, error) {
	node, err := Parse(pattern)
	if err != nil {
		return Analysis{}, err
	}
	return Analyze(node), nil
}

// Analyze inspects an already-parsed AST. It never modifies the AST and
// holds no reference to it after returning.
func Analyze(ast Node) Analysis {
	var a Analysis
	a.fromNode(ast)
	return a
}

// AnyUppercase reports whether a literal uppercase character occurs in the
// pattern.
//
// A pattern like \pL contains no uppercase literals, even though L is
// uppercase and the \pL class matches uppercase characters.
func (a Analysis) AnyUppercase() bool { return a.anyUppercase }

// AnyLiteral reports whether the pattern contains any literal at all. A
// pattern like \pL reports false, but \pLfoo reports true.
func (a Analysis) AnyLiteral() bool { return a.anyLiteral }

func (a *Analysis) fromNode(node Node) {
	if a.done() {
		return
	}
	switch n := node.(type) {
	case *Empty, *Flags, *Dot, *Assertion, *UnicodeClass, *PerlClass:
		// No literal characters here: named classes match indirectly.
	case *Literal:
		a.fromLiteral(n)
	case *BracketedClass:
		a.fromClassSet(n.Set)
	case *Repetition:
		a.fromNode(n.Body)
	case *Group:
		a.fromNode(n.Body)
	case *Alternation:
		for _, sub := range n.Nodes {
			a.fromNode(sub)
		}
	case *Concat:
		for _, sub := range n.Nodes {
			a.fromNode(sub)
		}
	}
}

func (a *Analysis) fromClassSet(set ClassSet) {
	if a.done() {
		return
	}
	switch s := set.(type) {
	case *SetOp:
		// The operator is irrelevant: only literal presence matters.
		a.fromClassSet(s.Left)
		a.fromClassSet(s.Right)
	case SetItem:
		a.fromSetItem(s)
	}
}

func (a *Analysis) fromSetItem(item SetItem) {
	if a.done() {
		return
	}
	switch it := item.(type) {
	case *Empty, *SetASCII, *UnicodeClass, *PerlClass:
	case *Literal:
		a.fromLiteral(it)
	case *SetRange:
		// Only the two endpoints count; characters strictly between
		// them are never inspected.
		a.fromLiteral(&it.Start)
		a.fromLiteral(&it.End)
	case *BracketedClass:
		a.fromClassSet(it.Set)
	case *SetUnion:
		for _, sub := range it.Items {
			a.fromSetItem(sub)
		}
	}
}

func (a *Analysis) fromLiteral(lit *Literal) {
	a.anyLiteral = true
	a.anyUppercase = a.anyUppercase || unicode.IsUpper(lit.Char)
}

// done reports whether the flags can never change no matter what other AST
// the walk might see.
func (a *Analysis) done() bool {
	return a.anyUppercase && a.anyLiteral
}
