// Package rewrite applies the syntactic rewrites of §4.3 to a flat
// rule set produced by imports.Resolve: DNF expansion, multi-body
// aggregation merging, aggregation-as-expression extraction, and
// functor (second-order) instantiation to fixpoint. DNF, multi-body
// merging and aggregation-as-expression are idempotent: applying one
// twice yields the same rule set as applying it once. ExpandFunctors
// is not: each call clones the templates of its applications again.
package rewrite
