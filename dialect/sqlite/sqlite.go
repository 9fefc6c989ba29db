// Package sqlite registers the dialect.Strategy for @Engine("sqlite")
// (§4.5, §6), the reference engine used throughout the project's own
// tests (modernc.org/sqlite is a teacher dependency, pulled in purely
// to execute the compiled SQL in integration tests, never by Compile
// itself).
package sqlite

import (
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/logica-lang/logica/dialect"
)

func init() {
	dialect.Register(dialect.SQLite, strategy{})
}

type strategy struct{}

func (strategy) Name() string { return dialect.SQLite }

// QuoteIdent double-quotes, SQLite's ANSI-compatible identifier form
// (it also accepts backticks and brackets, but double quotes match the
// other three dialects and keep dialect/sql.Write's output uniform
// where possible).
func (strategy) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (strategy) BoolLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SupportsRecursiveCTE is true: SQLite has had WITH RECURSIVE since
// 3.8.3, and accepts the "WITH RECURSIVE" keyword dialect/sql.Write
// emits over plain "WITH". Universe.Compile still unrolls every
// recursive predicate to a fixed point (§4.4 step 5) before Write ever
// sees it, so this only changes which keyword wraps the CTE list.
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

// IntDiv: SQLite's "/" already truncates when both operands are
// INTEGER-affinity and floors otherwise via CAST, so a plain "/" is
// sufficient.
func (strategy) IntDiv(left, right string) string {
	return "(" + left + " / " + right + ")"
}

// ArgAggregate: SQLite has no native ARG_MAX/ARG_MIN aggregate, so use
// the §4.5 fallback idiom verbatim: the max/min-keyed row packed by
// ORDER BY + LIMIT 1 inside an aggregate, unpacked with [0]. SQLite has
// no ARRAY_AGG/struct-subscript of its own; programs that hit this path
// against @Engine("sqlite") are expected to run through a dialect that
// actually implements it (bigquery, duckdb) — see DESIGN.md.
func (strategy) ArgAggregate(desc bool, valueExpr, keyExpr string) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ARRAY_AGG(%s ORDER BY %s %s LIMIT 1)[0]", valueExpr, keyExpr, dir)
}

// sqliteBuiltins maps the §9(b) dialect-dependent built-ins to their
// SQLite spelling. SQLite has no native array/struct types, so
// ArrayToString/Element/RecordAsJson have no mapping: any program
// using them against @Engine("sqlite") fails at codegen with a
// DialectError (§4.6), matching the "feature unsupported" policy.
var sqliteBuiltins = map[string]string{
	"Size": "LENGTH",
}

func (strategy) Builtin(name string) (string, bool) {
	s, ok := sqliteBuiltins[name]
	return s, ok
}
