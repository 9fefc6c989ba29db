// Package duckdb registers the dialect.Strategy for @Engine("duckdb")
// (§4.5, §6), built on github.com/marcboeker/go-duckdb's driver
// conventions for DuckDB's SQL dialect (the "WITH RECURSIVE" keyword,
// LIST/STRUCT literal syntax, and argmax/argmin aggregates). Universe
// .Compile unrolls recursive predicates to a fixed point for every
// dialect (§4.4 step 5); this package does not exercise DuckDB's
// native recursive evaluation, only its keyword and argmax/argmin.
package duckdb

import (
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/logica-lang/logica/dialect"
)

func init() {
	dialect.Register(dialect.DuckDB, strategy{})
}

type strategy struct{}

func (strategy) Name() string { return dialect.DuckDB }

func (strategy) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (strategy) BoolLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// SupportsRecursiveCTE: DuckDB has supported the "WITH RECURSIVE"
// keyword since 0.7. Universe.Compile never emits a self-referencing
// CTE regardless of this value — it always unrolls recursion to a
// fixed point (§4.4 step 5) — so this only selects which keyword
// dialect/sql.Write wraps the (already non-recursive) CTE list in.
func (strategy) SupportsRecursiveCTE() bool { return true }

func (strategy) LimitOffset(limit, offset int) string {
	if limit < 0 {
		return ""
	}
	if offset < 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
}

// IntDiv uses DuckDB's dedicated integer-division operator, which
// truncates toward zero, matching Logica's expected semantics without
// a CAST.
func (strategy) IntDiv(left, right string) string {
	return "(" + left + " // " + right + ")"
}

// ArgAggregate uses DuckDB's native arg_max/arg_min aggregate
// functions instead of the §4.5 fallback idiom: unlike the other three
// dialects, DuckDB implements ARG_MAX/ARG_MIN directly.
func (strategy) ArgAggregate(desc bool, valueExpr, keyExpr string) string {
	if desc {
		return fmt.Sprintf("ARG_MAX(%s, %s)", valueExpr, keyExpr)
	}
	return fmt.Sprintf("ARG_MIN(%s, %s)", valueExpr, keyExpr)
}

// duckdbBuiltins maps §9(b)'s dialect-dependent built-ins to DuckDB's
// native function names. Element is left unmapped: DuckDB array access
// is the subscript form "arr[i]", not a callable (same reasoning as
// dialect/bigquery; DESIGN.md).
var duckdbBuiltins = map[string]string{
	"Size":          "LEN",
	"ArrayToString": "ARRAY_TO_STRING",
	"RecordAsJson":  "TO_JSON",
}

func (strategy) Builtin(name string) (string, bool) {
	s, ok := duckdbBuiltins[name]
	return s, ok
}
