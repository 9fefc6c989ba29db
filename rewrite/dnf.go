package rewrite

import "github.com/logica-lang/logica/ast"

// DNF brings every rule's body into disjunctive normal form,
// distributing conjunctions over disjunctions and splitting each
// resulting disjunct into its own rule sharing the original head,
// value assignment, and denotations (§4.3). Negation-as-aggregate is
// opaque: its inner proposition is never distributed into.
func DNF(rules []*ast.Rule) []*ast.Rule {
	out := make([]*ast.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Body == nil {
			out = append(out, r)
			continue
		}
		for _, atoms := range disjuncts(r.Body) {
			out = append(out, &ast.Rule{
				Head:        r.Head,
				ValueAssign: r.ValueAssign,
				Distinct:    r.Distinct,
				Denotations: r.Denotations,
				Body:        conjunctionOf(atoms, r.FullText),
				FullText:    r.FullText,
			})
		}
	}
	return out
}

// disjuncts returns p's disjunctive-normal-form expansion as a list of
// conjunctive disjuncts, each a flat slice of atoms (never itself a
// Conjunction or Disjunction).
func disjuncts(p ast.Proposition) [][]ast.Proposition {
	switch v := p.(type) {
	case nil:
		return [][]ast.Proposition{{}}
	case *ast.Disjunction:
		var out [][]ast.Proposition
		for _, el := range v.Elements {
			out = append(out, disjuncts(el)...)
		}
		return out
	case *ast.Conjunction:
		acc := [][]ast.Proposition{{}}
		for _, el := range v.Elements {
			elDisjuncts := disjuncts(el)
			next := make([][]ast.Proposition, 0, len(acc)*len(elDisjuncts))
			for _, a := range acc {
				for _, d := range elDisjuncts {
					combined := make([]ast.Proposition, 0, len(a)+len(d))
					combined = append(combined, a...)
					combined = append(combined, d...)
					next = append(next, combined)
				}
			}
			acc = next
		}
		return acc
	default:
		return [][]ast.Proposition{{v}}
	}
}

func conjunctionOf(atoms []ast.Proposition, heritage ast.SourceSpan) ast.Proposition {
	switch len(atoms) {
	case 0:
		return nil
	case 1:
		return atoms[0]
	default:
		return ast.NewConjunction(atoms, heritage)
	}
}
