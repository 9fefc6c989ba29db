// Package sql provides the dialect.Driver connection plumbing used by
// the `run` collaborator, and Write, the linearizer that turns a
// translated rule set into a single SQL program (§4.5, §7).
//
// # Connections
//
//	drv, err := sql.Open(dialect.SQLite, "file:test.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// StatsDriver and DebugDriver wrap a Driver with query statistics and
// slog-based query logging, respectively (stats.go).
//
// # Write
//
// Write takes the []*translate.Translated produced for every
// predicate in a program slice, in dependency order, plus a
// dialect.Strategy, and emits one "WITH ... SELECT" program: one CTE
// per head predicate in that order, except the last head, whose rules
// form the final SELECT. Recursive groups arrive already unrolled by
// package universe (§4.4 step 5).
package sql
