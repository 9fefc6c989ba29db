package dialect

import (
	"database/sql"
	"fmt"
)

// driverNames maps an @Engine name to the database/sql driver name a
// concrete dialect package registers itself under. The driver must
// already be registered (blank-import modernc.org/sqlite,
// github.com/lib/pq, or github.com/marcboeker/go-duckdb, plus the
// matching dialect/<engine> package for its Strategy) before Open is
// called; Open itself never imports a driver package, to keep this
// package free of the cgo/pure-Go driver dependency graph.
var driverNames = map[string]string{
	SQLite:   "sqlite",
	Postgres: "postgres",
	DuckDB:   "duckdb",
}

// Open resolves name's registered Strategy and opens a *sql.DB against
// it via database/sql, for the out-of-core `run` collaborator and for
// integration tests (§7 DOMAIN). It is never called by
// Universe.Compile. BigQuery has no database/sql driver of its own
// (cloud.google.com/go/bigquery is a dedicated client); Open returns an
// error for it, and callers needing BigQuery execution use
// cloud.google.com/go/bigquery directly, keyed off the same
// dialect.Strategy for SQL text.
func Open(name, source string) (Strategy, *sql.DB, error) {
	strategy, ok := Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("dialect: no Strategy registered for engine %q; blank-import dialect/%s", name, name)
	}
	driverName, ok := driverNames[name]
	if !ok {
		return nil, nil, fmt.Errorf("dialect: engine %q has no database/sql driver; see dialect.Open's doc comment", name)
	}
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, nil, fmt.Errorf("dialect: opening %q: %w", name, err)
	}
	return strategy, db, nil
}
