// Package catalog resolves "@Ground(P, \"schema.table\")" external
// table references to their column shape, wrapping ariga.io/atlas's
// schema inspection so the universe can treat a grounded predicate's
// record signature the same way it treats one inferred from rule
// bodies (§4.4 DOMAIN integration).
package catalog

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/sqlclient"
)

// Table is the resolved shape of an external table reference: its
// column names, in declaration order, become the grounded predicate's
// record signature.
type Table struct {
	Name    string
	Columns []string
}

// Resolver looks up an external table reference's column shape.
type Resolver interface {
	Lookup(ctx context.Context, ref string) (*Table, error)
}

// AtlasResolver resolves table shapes by inspecting a live connection
// through an *sqlclient.Client, the same entry point atlas's own
// migration tooling uses.
type AtlasResolver struct {
	Client *sqlclient.Client
}

// Lookup inspects ref ("schema.table" or a bare "table" name in the
// connection's default schema) and returns its column names in
// declaration order.
func (r *AtlasResolver) Lookup(ctx context.Context, ref string) (*Table, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("catalog: no database connection configured for @Ground lookup of %q", ref)
	}
	schemaName, tableName := splitRef(ref)
	sc, err := r.Client.InspectSchema(ctx, schemaName, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: inspecting schema %q: %w", schemaName, err)
	}
	t, ok := sc.Table(tableName)
	if !ok {
		return nil, fmt.Errorf("catalog: table %q not found in schema %q", tableName, schemaName)
	}
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Name
	}
	return &Table{Name: ref, Columns: cols}, nil
}

func splitRef(ref string) (schemaName, tableName string) {
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		return ref[:idx], ref[idx+1:]
	}
	return "", ref
}

// StaticResolver is a fixed ref->columns map: useful for tests, and for
// compiling against a schema snapshot (e.g. checked into the project's
// logica.yaml) without a live connection.
type StaticResolver map[string][]string

func (r StaticResolver) Lookup(_ context.Context, ref string) (*Table, error) {
	cols, ok := r[ref]
	if !ok {
		return nil, fmt.Errorf("catalog: no static schema entry for %q", ref)
	}
	return &Table{Name: ref, Columns: cols}, nil
}

// DefaultResolver backs the package-level Lookup convenience function,
// and universe.New uses it when given a nil Resolver. Nothing in this
// module assigns it; it starts out empty.
var DefaultResolver Resolver = StaticResolver{}

// Lookup resolves ref via DefaultResolver.
func Lookup(ref string) (*Table, error) {
	return DefaultResolver.Lookup(context.Background(), ref)
}
