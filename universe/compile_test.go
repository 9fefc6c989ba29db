package universe_test

import (
	"database/sql"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/dialect"
	_ "github.com/logica-lang/logica/dialect/sqlite"
	"github.com/logica-lang/logica/universe"
)

// noImports is an imports.Loader for single-file programs: every one
// of the §8 scenarios is self-contained.
type noImports struct{}

func (noImports) Load(path string) (*ast.Buffer, error) {
	return nil, fmt.Errorf("no import root configured for %q", path)
}

// compile assembles program and compiles predicate against the sqlite
// strategy, failing the test on any error (§8's scenarios are all
// expected to compile cleanly).
func compile(t *testing.T, program, predicate string) string {
	t.Helper()
	buf := ast.NewBuffer("test.l", program)
	u, err := universe.Assemble("test.l", buf, noImports{}, nil)
	require.NoError(t, err)
	sqlText, err := u.Compile(predicate)
	require.NoError(t, err)
	return sqlText
}

// rows executes query against a fresh in-memory sqlite database and
// returns every row's column values as strings, sorted for
// order-independent comparison.
func rows(t *testing.T, query string) [][]string {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	result, err := db.Query(query)
	require.NoError(t, err)
	defer result.Close()

	cols, err := result.Columns()
	require.NoError(t, err)

	var out [][]string
	for result.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		require.NoError(t, result.Scan(ptrs...))
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = fmt.Sprint(v)
		}
		out = append(out, row)
	}
	require.NoError(t, result.Err())
	sort.Slice(out, func(i, j int) bool { return fmt.Sprint(out[i]) < fmt.Sprint(out[j]) })
	return out
}

func TestFactsAndProjection(t *testing.T) {
	program := `
		@Engine("sqlite");
		Parent("A","B"); Parent("B","C"); Parent("A","F");
		Grandparent(a,b) :- Parent(a,x), Parent(x,b);
	`
	sqlText := compile(t, program, "Grandparent")
	got := rows(t, sqlText)
	assert.Equal(t, [][]string{{"A", "C"}}, got)
}

func TestAggregationOnASet(t *testing.T) {
	program := `
		@Engine("sqlite");
		FruitPurchase(fruit: "apple"); FruitPurchase(fruit: "apple");
		FruitPurchase(fruit: "orange"); FruitPurchase(fruit: "orange"); FruitPurchase(fruit: "orange");
		FruitPurchase(fruit: "pineapple"); FruitPurchase(fruit: "pineapple");
		Fruit(fruit:) distinct :- FruitPurchase(fruit:);
	`
	sqlText := compile(t, program, "Fruit")
	got := rows(t, sqlText)
	assert.Equal(t, [][]string{{"apple"}, {"orange"}, {"pineapple"}}, got)
}

func TestMultiBodyAggregation(t *testing.T) {
	program := `
		@Engine("sqlite");
		A() += 1; A() += 2;
	`
	sqlText := compile(t, program, "A")
	got := rows(t, sqlText)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0][0])
}

func TestRecursiveDefaultDepth(t *testing.T) {
	program := `
		@Engine("sqlite");
		N(0); N(n+1) :- N(n);
	`
	sqlText := compile(t, program, "N")
	got := rows(t, sqlText)
	assert.Len(t, got, 9)
}

func TestRecursiveOverriddenDepth(t *testing.T) {
	program := `
		@Engine("sqlite");
		@Recursive(N, 20);
		N(0); N(n+1) :- N(n);
	`
	sqlText := compile(t, program, "N")
	got := rows(t, sqlText)
	assert.Len(t, got, 21)
}

func TestFunctorInstantiation(t *testing.T) {
	program := `
		@Engine("sqlite");
		F(x) :- A(x) | B(x);
		G := F(A: C, B: D);
		C("c1"); D("d1");
	`
	sqlText := compile(t, program, "G")
	got := rows(t, sqlText)
	assert.ElementsMatch(t, [][]string{{"c1"}, {"d1"}}, got)
}

func TestNegationAsAggregate(t *testing.T) {
	program := `
		@Engine("sqlite");
		Bird("sparrow"); Bird("eagle"); Bird("canary"); Bird("cassowary");
		CanSing("sparrow"); CanSing("canary"); CanSing("cassowary");
		CanFly("sparrow"); CanFly("eagle"); CanFly("canary");
		InterestingBird(x) :- Bird(x), CanSing(x), ~CanFly(x);
	`
	sqlText := compile(t, program, "InterestingBird")
	got := rows(t, sqlText)
	assert.Equal(t, [][]string{{"cassowary"}}, got)
}

func TestCompileDeterminism(t *testing.T) {
	program := `
		@Engine("sqlite");
		Parent("A","B"); Parent("B","C");
		Grandparent(a,b) :- Parent(a,x), Parent(x,b);
	`
	first := compile(t, program, "Grandparent")
	second := compile(t, program, "Grandparent")
	assert.Equal(t, first, second)
}

func TestDialectLookup(t *testing.T) {
	strategy, ok := dialect.Lookup(dialect.SQLite)
	require.True(t, ok)
	assert.Equal(t, "sqlite", strategy.Name())
}
