package dialect

import "sync"

// registry maps an engine name to the Strategy that implements it.
// Concrete dialect packages (dialect/sqlite, dialect/psql,
// dialect/bigquery, dialect/duckdb) call Register from an init()
// func, mirroring database/sql's driver registry — a caller that
// blank-imports one picks up @Engine resolution for it automatically.
var (
	registryMu sync.RWMutex
	registry   = map[string]Strategy{}
)

// Register associates name (an @Engine name, e.g. "sqlite") with
// strategy. Panics on a duplicate registration, matching
// database/sql.Register's contract.
func Register(name string, strategy Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic("dialect: Register called twice for engine " + name)
	}
	registry[name] = strategy
}

// Lookup returns the Strategy registered for name, if any.
func Lookup(name string) (Strategy, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[name]
	return s, ok
}
