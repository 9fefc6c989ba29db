package scan_test

import (
	"testing"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/scan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spanOf(text string) ast.SourceSpan {
	return ast.NewBuffer("test.l", text).Whole()
}

func texts(spans []ast.SourceSpan) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text()
	}
	return out
}

func TestIsWhole(t *testing.T) {
	assert.True(t, scan.IsWhole(spanOf("Parent(a, b)")))
	assert.True(t, scan.IsWhole(spanOf(`"a string with (parens)"`)))
	assert.False(t, scan.IsWhole(spanOf("Parent(a, b")))
	assert.False(t, scan.IsWhole(spanOf("a)")))
}

func TestSplitTopLevelOnly(t *testing.T) {
	got := texts(scan.Split(spanOf("Parent(a, x), Parent(x, b)"), ","))
	assert.Equal(t, []string{"Parent(a, x)", "Parent(x, b)"}, got)
}

func TestSplitIgnoresSeparatorsInStringsAndComments(t *testing.T) {
	got := texts(scan.Split(spanOf(`A("a,b"), B(c) # trailing, comment`), ","))
	assert.Equal(t, []string{`A("a,b")`, "B(c) # trailing, comment"}, got)
}

func TestSplitPipeVsDoublePipe(t *testing.T) {
	got := texts(scan.Split(spanOf("A(x) | B(x)"), "|"))
	assert.Equal(t, []string{"A(x)", "B(x)"}, got)

	got = texts(scan.Split(spanOf("A(x) || B(x)"), "|"))
	require.Len(t, got, 1)
	assert.Equal(t, "A(x) || B(x)", got[0])
}

func TestSplitAlphanumericSeparatorRequiresWordBoundary(t *testing.T) {
	got := texts(scan.Split(spanOf("x in L"), "in"))
	assert.Equal(t, []string{"x", "L"}, got)

	got = texts(scan.Split(spanOf("origin in L"), "in"))
	require.Len(t, got, 2)
	assert.Equal(t, []string{"origin", "L"}, got)
}

func TestSplitUnwrapsRedundantOuterParens(t *testing.T) {
	got := texts(scan.Split(spanOf("((a + b))"), ";"))
	require.Len(t, got, 1)
	assert.Equal(t, "a + b", got[0])
}

func TestSplitDoesNotUnwrapNonMatchingParens(t *testing.T) {
	got := texts(scan.Split(spanOf("(a) + (b)"), ";"))
	require.Len(t, got, 1)
	assert.Equal(t, "(a) + (b)", got[0])
}
