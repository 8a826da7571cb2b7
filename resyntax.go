// Package resyntax parses regular expressions into a structure-preserving
// AST and provides a static analysis over it for smart-case matching.
//
// Unlike regexp/syntax, the AST keeps the distinction between characters
// the pattern author spelled out (literals, range endpoints) and classes
// whose membership is computed indirectly (\w, \pL, [:alpha:]). That
// distinction is what the smart-case analysis observes.
package resyntax

import "fmt"

// Parse parses a regex pattern into its AST.
func Parse(pattern string) (Node, error) {
	return NewParser(pattern).Parse()
}

// MustParse is like Parse but panics on invalid patterns.
func MustParse(pattern string) Node {
	node, err := Parse(pattern)
	if err != nil {
		panic(fmt.Sprintf("resyntax: Parse(%q): %v", pattern, err))
	}
	return node
}
