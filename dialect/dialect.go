package dialect

import "context"

// Engine name constants, selected by @Engine(name) or --engine.
const (
	SQLite   = "sqlite"
	Postgres = "psql"
	BigQuery = "bigquery"
	DuckDB   = "duckdb"
)

// ExecQuerier is implemented by both Driver and Tx.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface a dialect connection exposes to the
// out-of-core `run` collaborator (§7 DOMAIN): Universe.Compile never
// calls it — it exists for cmd/logica's `run` subcommand and for
// integration tests that execute compiled SQL against a real engine.
type Driver interface {
	ExecQuerier
	Tx(ctx context.Context) (Tx, error)
	Close() error
	Dialect() string
}

// Tx extends Driver with transaction control.
type Tx interface {
	Driver
	Commit() error
	Rollback() error
}

// Strategy parameterizes SQL generation for one backend engine
// (§4.5, §7): identifier quoting, literal syntax, LIMIT/OFFSET
// grammar, recursive-CTE support, and built-in function mapping.
// dialect/sql.Write consults a Strategy; it never branches on engine
// name itself.
type Strategy interface {
	// Name is the engine name, e.g. "sqlite".
	Name() string
	// QuoteIdent quotes a column/table/CTE identifier.
	QuoteIdent(name string) string
	// BoolLiteral renders a boolean literal.
	BoolLiteral(b bool) string
	// SupportsRecursiveCTE reports whether the engine accepts the
	// "WITH RECURSIVE" keyword over "WITH". Universe.Compile always
	// lowers a recursive predicate to a fixed-point unroll of
	// non-self-referencing CTEs (§4.4 step 5) regardless of this value;
	// it only selects which keyword dialect/sql.Write emits, since a
	// dialect that rejects "WITH RECURSIVE" outright (e.g. standard SQL)
	// would otherwise fail on a query that never actually recurses.
	SupportsRecursiveCTE() bool
	// LimitOffset renders a trailing "LIMIT ... [OFFSET ...]" clause,
	// or "" when limit < 0 (no limit).
	LimitOffset(limit, offset int) string
	// IntDiv renders integer division of two already-rendered operands.
	IntDiv(left, right string) string
	// ArgAggregate renders ArgMax=/ArgMin= over (value expr, key expr)
	// for dialects without a native ARG_MAX/ARG_MIN aggregate.
	ArgAggregate(desc bool, valueExpr, keyExpr string) string
	// Builtin maps a Logica built-in function name to this dialect's
	// native SQL function name, and whether a native mapping exists.
	Builtin(name string) (string, bool)
}
