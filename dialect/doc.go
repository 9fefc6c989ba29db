// Package dialect provides database dialect abstraction for the
// Logica compiler: the Driver/Tx/ExecQuerier interfaces used by the
// `run` collaborator to execute compiled SQL, and the Strategy
// interface dialect/sql.Write consults to parameterize SQL generation.
//
// # Supported Engines
//
// The following engines are supported:
//
//   - SQLite: via modernc.org/sqlite
//   - Postgres: via github.com/lib/pq
//   - BigQuery: via cloud.google.com/go/bigquery
//   - DuckDB: via github.com/marcboeker/go-duckdb
//
// # Engine Constants
//
// Each engine is identified by a constant string, the same name
// accepted by @Engine(name) and --engine:
//
//	dialect.SQLite   = "sqlite"
//	dialect.Postgres = "psql"
//	dialect.BigQuery = "bigquery"
//	dialect.DuckDB   = "duckdb"
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
// Opening a database connection for the `run` collaborator:
//
//	strategy, db, err := dialect.Open(dialect.SQLite, "file:test.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// # Sub-packages
//
//   - dialect/sql: connection plumbing and the SQL text linearizer
//   - dialect/sqlite, dialect/psql, dialect/bigquery, dialect/duckdb: Strategy implementations
package dialect
