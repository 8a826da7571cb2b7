package resyntax

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasics(t *testing.T) {
	t.Parallel()

	node := MustParse(``)
	require.IsType(t, &Empty{}, node)

	node = MustParse(`a`)
	lit := node.(*Literal)
	assert.Equal(t, 'a', lit.Char)
	assert.Equal(t, LiteralVerbatim, lit.Kind)

	node = MustParse(`ab`)
	concat := node.(*Concat)
	require.Len(t, concat.Nodes, 2)

	node = MustParse(`a|b|c`)
	alt := node.(*Alternation)
	assert.Len(t, alt.Nodes, 3, "nested alternations flatten")

	node = MustParse(`.`)
	require.IsType(t, &Dot{}, node)
}

func TestParseRepetition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern  string
		min, max int
		greedy   bool
	}{
		{`a*`, 0, -1, true},
		{`a+`, 1, -1, true},
		{`a?`, 0, 1, true},
		{`a*?`, 0, -1, false},
		{`a{3}`, 3, 3, true},
		{`a{2,}`, 2, -1, true},
		{`a{2,5}`, 2, 5, true},
		{`a{2,5}?`, 2, 5, false},
	}
	for _, tc := range tests {
		rep := MustParse(tc.pattern).(*Repetition)
		assert.Equal(t, tc.min, rep.Min, "min of %q", tc.pattern)
		assert.Equal(t, tc.max, rep.Max, "max of %q", tc.pattern)
		assert.Equal(t, tc.greedy, rep.Greedy, "greedy of %q", tc.pattern)
		require.IsType(t, &Literal{}, rep.Body)
	}

	// A { that opens no counted repetition is an ordinary literal.
	node := MustParse(`a{`)
	concat := node.(*Concat)
	require.Len(t, concat.Nodes, 2)
	assert.Equal(t, '{', concat.Nodes[1].(*Literal).Char)
}

func TestParseGroups(t *testing.T) {
	t.Parallel()

	g := MustParse(`(a)`).(*Group)
	assert.Equal(t, 1, g.Index)
	assert.Empty(t, g.Name)

	g = MustParse(`(?:a)`).(*Group)
	assert.Equal(t, 0, g.Index)

	g = MustParse(`(?P<year>a)`).(*Group)
	assert.Equal(t, 1, g.Index)
	assert.Equal(t, "year", g.Name)

	g = MustParse(`(?<month>a)`).(*Group)
	assert.Equal(t, "month", g.Name)

	// Capture indexes are assigned left to right.
	concat := MustParse(`(a)(b)`).(*Concat)
	assert.Equal(t, 1, concat.Nodes[0].(*Group).Index)
	assert.Equal(t, 2, concat.Nodes[1].(*Group).Index)
}

func TestParseCaptureNames(t *testing.T) {
	t.Parallel()

	p := NewParser(`(a)(?P<year>b)(?:c)(?<month>d)`)
	_, err := p.Parse()
	require.NoError(t, err)

	assert.Equal(t, 3, p.NumCaptures())
	assert.Equal(t, []string{"", "", "year", "month"}, p.CaptureNames())
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	f := MustParse(`(?i)`).(*Flags)
	assert.Equal(t, FlagCaseInsensitive, f.Set)
	assert.Zero(t, f.Clear)

	f = MustParse(`(?ms-iU)`).(*Flags)
	assert.Equal(t, FlagMultiline|FlagDotMatchesNewline, f.Set)
	assert.Equal(t, FlagCaseInsensitive|FlagSwapGreed, f.Clear)

	g := MustParse(`(?i-s:a)`).(*Group)
	require.NotNil(t, g.Flags)
	assert.Equal(t, FlagCaseInsensitive, g.Flags.Set)
	assert.Equal(t, FlagDotMatchesNewline, g.Flags.Clear)
	assert.Equal(t, 0, g.Index)
}

func TestParseAssertions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		kind    AssertionType
	}{
		{`^`, AssertStartText},
		{`$`, AssertEndText},
		{`\b`, AssertWordBoundary},
		{`\B`, AssertNotWordBoundary},
		{`\A`, AssertStringStart},
		{`\Z`, AssertStringEnd},
		{`\z`, AssertAbsoluteEnd},
	}
	for _, tc := range tests {
		a := MustParse(tc.pattern).(*Assertion)
		assert.Equal(t, tc.kind, a.Kind, "kind of %q", tc.pattern)
	}
}

func TestParseEscapes(t *testing.T) {
	t.Parallel()

	pc := MustParse(`\d`).(*PerlClass)
	assert.Equal(t, PerlDigit, pc.Kind)
	assert.False(t, pc.Negated)

	pc = MustParse(`\W`).(*PerlClass)
	assert.Equal(t, PerlWord, pc.Kind)
	assert.True(t, pc.Negated)

	uc := MustParse(`\pL`).(*UnicodeClass)
	assert.Equal(t, "L", uc.Name)
	assert.False(t, uc.Negated)

	uc = MustParse(`\P{Greek}`).(*UnicodeClass)
	assert.Equal(t, "Greek", uc.Name)
	assert.True(t, uc.Negated)

	lit := MustParse(`\n`).(*Literal)
	assert.Equal(t, '\n', lit.Char)
	assert.Equal(t, LiteralSpecial, lit.Kind)

	lit = MustParse(`\\`).(*Literal)
	assert.Equal(t, '\\', lit.Char)
	assert.Equal(t, LiteralPunct, lit.Kind)

	lit = MustParse(`\x41`).(*Literal)
	assert.Equal(t, 'A', lit.Char)
	assert.Equal(t, LiteralCode, lit.Kind)

	lit = MustParse(`\x{1F600}`).(*Literal)
	assert.Equal(t, '\U0001F600', lit.Char)

	lit = MustParse(`\u0061`).(*Literal)
	assert.Equal(t, 'a', lit.Char)
}

func TestParseClass(t *testing.T) {
	t.Parallel()

	bc := MustParse(`[a-z]`).(*BracketedClass)
	assert.False(t, bc.Negated)
	rng := bc.Set.(*SetRange)
	assert.Equal(t, 'a', rng.Start.Char)
	assert.Equal(t, 'z', rng.End.Char)

	bc = MustParse(`[^a]`).(*BracketedClass)
	assert.True(t, bc.Negated)
	assert.Equal(t, 'a', bc.Set.(*Literal).Char)

	// Leading ] is a literal.
	bc = MustParse(`[]a]`).(*BracketedClass)
	union := bc.Set.(*SetUnion)
	require.Len(t, union.Items, 2)
	assert.Equal(t, ']', union.Items[0].(*Literal).Char)

	// Trailing - is a literal.
	bc = MustParse(`[a-]`).(*BracketedClass)
	union = bc.Set.(*SetUnion)
	require.Len(t, union.Items, 2)
	assert.Equal(t, '-', union.Items[1].(*Literal).Char)

	// Escaped endpoints form ranges too.
	bc = MustParse(`[\x41-\x5A]`).(*BracketedClass)
	rng = bc.Set.(*SetRange)
	assert.Equal(t, 'A', rng.Start.Char)
	assert.Equal(t, 'Z', rng.End.Char)

	ascii := MustParse(`[[:alpha:]]`).(*BracketedClass).Set.(*SetASCII)
	assert.Equal(t, "alpha", ascii.Name)
	assert.False(t, ascii.Negated)

	ascii = MustParse(`[[:^upper:]]`).(*BracketedClass).Set.(*SetASCII)
	assert.True(t, ascii.Negated)

	pc := MustParse(`[\d]`).(*BracketedClass).Set.(*PerlClass)
	assert.Equal(t, PerlDigit, pc.Kind)

	nested := MustParse(`[a[b]]`).(*BracketedClass).Set.(*SetUnion)
	require.Len(t, nested.Items, 2)
	require.IsType(t, &BracketedClass{}, nested.Items[1])
}

func TestParseClassSetOps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		kind    SetOpKind
	}{
		{`[a&&b]`, SetIntersection},
		{`[a--b]`, SetDifference},
		{`[a~~b]`, SetSymmetricDifference},
	}
	for _, tc := range tests {
		op := MustParse(tc.pattern).(*BracketedClass).Set.(*SetOp)
		assert.Equal(t, tc.kind, op.Kind, "operator of %q", tc.pattern)
		assert.Equal(t, 'a', op.Left.(*Literal).Char)
		assert.Equal(t, 'b', op.Right.(*Literal).Char)
	}

	// Operators are left-associative and bind looser than union.
	op := MustParse(`[ab--cd&&e]`).(*BracketedClass).Set.(*SetOp)
	assert.Equal(t, SetIntersection, op.Kind)
	inner := op.Left.(*SetOp)
	assert.Equal(t, SetDifference, inner.Kind)
	require.IsType(t, &SetUnion{}, inner.Left)
	require.IsType(t, &SetUnion{}, inner.Right)

	// Nested classes as operands.
	op = MustParse(`[a-z&&[^c]]`).(*BracketedClass).Set.(*SetOp)
	require.IsType(t, &SetRange{}, op.Left)
	right := op.Right.(*BracketedClass)
	assert.True(t, right.Negated)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	patterns := []string{
		`(`,
		`(a`,
		`a)`,
		`[a`,
		`[a-z`,
		`\`,
		`(?=a)`,
		`(?!a)`,
		`(?<=a)`,
		`(?<!a)`,
		`\1`,
		`(?)`,
		`(?P<>a)`,
		`[[:foo:]]`,
		`[[:alpha]`,
		`\p{`,
		`\p{}`,
		`\x{}`,
		`\x1`,
		`\u00`,
	}
	for _, pattern := range patterns {
		_, err := Parse(pattern)
		require.Error(t, err, "pattern %q", pattern)

		var serr *SyntaxError
		assert.ErrorAs(t, err, &serr, "pattern %q", pattern)
	}
}

func TestParseNestLimit(t *testing.T) {
	t.Parallel()

	deep := func(n int) string {
		return strings.Repeat("(", n) + "a" + strings.Repeat(")", n)
	}

	_, err := Parse(deep(DefaultNestLimit - 1))
	require.NoError(t, err)

	_, err = Parse(deep(DefaultNestLimit + 1))
	require.Error(t, err)

	p := NewParser(deep(10))
	p.NestLimit = 5
	_, err = p.Parse()
	require.Error(t, err)

	// Classes count against the same limit.
	_, err = Parse(strings.Repeat("[", DefaultNestLimit+1) + "a" + strings.Repeat("]", DefaultNestLimit+1))
	require.Error(t, err)
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { MustParse(`(`) })
}

func TestSyntaxErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := Parse(`ab(?=c)`)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Positive(t, serr.Pos)
	assert.Contains(t, serr.Error(), "lookaround")
}

func TestParseErrorIsSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Parse(`[a`)
	require.True(t, errors.As(err, new(*SyntaxError)))
}
