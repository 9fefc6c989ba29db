package universe

import (
	"fmt"

	"github.com/logica-lang/logica/dialect"
	sqlwrite "github.com/logica-lang/logica/dialect/sql"
	"github.com/logica-lang/logica/translate"
)

// Compile lowers name (and everything it transitively depends on) to
// one SQL query, using the Strategy registered for this Universe's
// @Engine declaration (via dialect.Register). Use CompileWith to
// supply a Strategy explicitly instead — e.g. when no engine name was
// declared, or the caller's binary never blank-imports a concrete
// dialect package.
func (u *Universe) Compile(name string) (string, error) {
	strategy, ok := dialect.Lookup(u.engine)
	if !ok {
		return "", fmt.Errorf("universe: no dialect.Strategy registered for engine %q; blank-import a dialect/<engine> package or call CompileWith", u.engine)
	}
	return u.CompileWith(name, strategy)
}

// CompileWith is Compile with an explicit Strategy, bypassing the
// @Engine/dialect.Register lookup (§4.4 steps 1-6).
func (u *Universe) CompileWith(name string, strategy dialect.Strategy) (string, error) {
	p, ok := u.predicates[name]
	if !ok {
		return "", fmt.Errorf("universe: unknown predicate %q", name)
	}
	if p.class == ClassGrounded {
		return "", fmt.Errorf("universe: %q is an @Ground external table, nothing to compile", name)
	}
	if p.class == ClassBuiltin {
		return "", fmt.Errorf("universe: %q is a built-in, nothing to compile", name)
	}

	slice := u.slice(name)
	groups := u.sccGroups(slice)

	var all []*translate.Translated
	for _, group := range groups {
		if len(group) == 1 && !u.predicates[group[0]].recursive {
			ts, err := u.compileNonRecursive(group[0])
			if err != nil {
				return "", err
			}
			all = append(all, ts...)
			continue
		}
		ts, err := u.compileRecursiveGroup(group)
		if err != nil {
			return "", err
		}
		all = append(all, ts...)
	}

	query, err := sqlwrite.Write(all, strategy)
	if err != nil {
		return "", err
	}
	orderBy, limit, hasLimit := u.OrderAndLimit(name)
	return sqlwrite.ApplyOrderLimit(query, orderBy, limit, hasLimit, strategy), nil
}

// compileNonRecursive lowers every disjunct of a non-recursive
// predicate (dialect/sql.Write unions them back together under one
// CTE keyed by its head name).
func (u *Universe) compileNonRecursive(name string) ([]*translate.Translated, error) {
	p := u.predicates[name]
	out := make([]*translate.Translated, 0, len(p.rules))
	for _, r := range p.rules {
		t, err := translate.Rule(r, u)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", name, err)
		}
		out = append(out, t)
	}
	return out, nil
}
