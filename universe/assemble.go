package universe

import (
	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/catalog"
	"github.com/logica-lang/logica/imports"
	"github.com/logica-lang/logica/rewrite"
)

// Assemble runs the full program-assembly pipeline (§2, §4.3) over
// entryPath/entryBuf: import resolution (with predicate renaming),
// functor instantiation to a fixpoint, aggregation-as-expression
// extraction, DNF expansion, and multi-body aggregation merging — then
// indexes the resulting rule set into a Universe ready for Compile.
//
// Rewrite order matters: aggregation-as-expression runs before DNF so a
// Combine's synthesized predicate gets its own DNF/multi-body
// treatment like any other rule; DNF runs before multi-body
// aggregation because DNF can itself produce multiple same-head rules
// for an aggregating predicate that multi-body aggregation must then
// merge.
func Assemble(entryPath string, entryBuf *ast.Buffer, loader imports.Loader, resolver catalog.Resolver) (*Universe, error) {
	resolved, err := imports.Resolve(entryPath, entryBuf, loader)
	if err != nil {
		return nil, err
	}

	rules, err := rewrite.ExpandFunctors(resolved.Rules, resolved.Functors)
	if err != nil {
		return nil, err
	}

	rules = rewrite.AggregationAsExpression(rules)
	rules = rewrite.DNF(rules)
	rules, err = rewrite.MultiBodyAggregation(rules)
	if err != nil {
		return nil, err
	}

	return New(rules, resolver)
}
