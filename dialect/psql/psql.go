// Package psql registers the dialect.Strategy for @Engine("psql")
// (§4.5, §6), built on github.com/lib/pq conventions for identifier
// quoting and literal syntax.
package psql

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/logica-lang/logica/dialect"
)

func init() {
	dialect.Register(dialect.Postgres, strategy{})
}

type strategy struct{}

func (strategy) Name() string { return dialect.Postgres }

func (strategy) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (strategy) BoolLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// SupportsRecursiveCTE: Postgres has supported WITH RECURSIVE since
// 8.4 and accepts the keyword dialect/sql.Write emits over plain
// "WITH". Universe.Compile still unrolls every recursive predicate to
// a fixed point (§4.4 step 5) regardless; this never changes the CTE
// body, only the keyword.
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

// IntDiv: Postgres truncates "/" toward zero when both operands are
// integer-typed, matching Logica's integer-division expectation
// without a cast.
func (strategy) IntDiv(left, right string) string {
	return "(" + left + " / " + right + ")"
}

// ArgAggregate takes element [1] of an ARRAY_AGG ordered by the key
// (Postgres arrays are 1-indexed; no LIMIT is used): Postgres has no
// native ARG_MAX/ARG_MIN aggregate.
func (strategy) ArgAggregate(desc bool, valueExpr, keyExpr string) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ARRAY_AGG(%s ORDER BY %s %s)[1]", valueExpr, keyExpr, dir)
}

// psqlBuiltins maps §9(b)'s dialect-dependent built-ins to Postgres
// spellings. RecordAsJson uses Postgres's native row-to-json cast.
var psqlBuiltins = map[string]string{
	"Size":          "CARDINALITY",
	"ArrayToString": "ARRAY_TO_STRING",
	"RecordAsJson":  "ROW_TO_JSON",
}

func (strategy) Builtin(name string) (string, bool) {
	s, ok := psqlBuiltins[name]
	return s, ok
}
