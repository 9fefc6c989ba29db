package cabi

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/google/uuid"
)

// Snapshot is the cacheable unit for one compilation (§5: "there is no
// caching between compilations (the caller may cache the output)").
// It is deliberately just the compiled SQL text plus the inputs that
// determined it, never the AST: embedding hosts that compile the same
// (EntryPath, Engine, Predicate) repeatedly can round-trip a Snapshot
// through EncodeSnapshot/DecodeSnapshot instead of recompiling.
type Snapshot struct {
	ID        string `msgpack:"id"`
	EntryPath string `msgpack:"entry_path"`
	Engine    string `msgpack:"engine"`
	Predicate string `msgpack:"predicate"`
	SQL       string `msgpack:"sql"`
}

// NewSnapshot stamps a fresh correlation ID (google/uuid, ambient only
// — it never appears in SQL text, preserving §8's compile-determinism
// property) onto a compiled result.
func NewSnapshot(entryPath, engine, predicate, sql string) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		EntryPath: entryPath,
		Engine:    engine,
		Predicate: predicate,
		SQL:       sql,
	}
}

// EncodeSnapshot msgpack-encodes s for an embedding host's own cache
// (in-process map, disk, or an external store).
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeSnapshot is EncodeSnapshot's inverse.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
