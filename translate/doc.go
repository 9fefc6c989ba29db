// Package translate lowers one rewritten, non-aggregating-body rule
// into the (tables, unifications, constraints, sub-queries, head
// columns) tuple described by §4.5: a single flat conjunction of
// predicate calls, unifications, inclusions, and opaque negations,
// resolved against a universe.Universe for callee signatures and
// injectability.
package translate
