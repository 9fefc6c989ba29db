package universe

import (
	"fmt"
	"strconv"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/translate"
)

// compileRecursiveGroup lowers one SCC of mutually (or self-) recursive
// predicates by fixed-point unrolling (§4.4 step 5): P_0 seeds from
// every member's non-recursive disjuncts; each subsequent P_k re-lowers
// every disjunct (recursive ones included, monotonically accumulating
// rather than replacing — Datalog's least fixed point) with every
// group member's name rewritten to refer to P_{k-1}; the final
// iteration is emitted under the real predicate names.
func (u *Universe) compileRecursiveGroup(group []string) ([]*translate.Translated, error) {
	set := make(map[string]bool, len(group))
	maxDepth := 0
	for _, n := range group {
		set[n] = true
		if d := u.predicates[n].unrollDepth; d > maxDepth {
			maxDepth = d
		}
	}
	if maxDepth < 1 {
		maxDepth = 1 // depth 0 is meaningless: the seed itself is "P".
	}

	var all []*translate.Translated
	for _, n := range group {
		p := u.predicates[n]
		for _, r := range p.rules {
			if ruleReferencesGroup(r, set) {
				continue // not a seed disjunct: references a group member
			}
			seedHead := ast.NewPredicateCall(iterName(n, 0), r.Head.Record, r.Head.Heritage())
			t, err := translate.Rule(withHead(r, seedHead), u)
			if err != nil {
				return nil, fmt.Errorf("compiling seed of %q: %s", n, err.Error())
			}
			all = append(all, t)
		}
	}

	for k := 1; k <= maxDepth; k++ {
		mapping := make(map[string]string, len(group))
		for _, n := range group {
			mapping[n] = iterName(n, k-1)
		}
		iu := &iterUniverse{Universe: u, synthetic: namesOf(mapping)}

		for _, n := range group {
			p := u.predicates[n]
			newName := iterName(n, k)
			if k == maxDepth {
				newName = n
			}
			for _, r := range p.rules {
				renamedBody := renamePredicateCalls(r.Body, mapping)
				head := ast.NewPredicateCall(newName, r.Head.Record, r.Head.Heritage())
				t, err := translate.Rule(withBody(withHead(r, head), renamedBody), iu)
				if err != nil {
					return nil, fmt.Errorf("compiling %q at unroll depth %d: %s", n, k, err.Error())
				}
				all = append(all, t)
			}
		}
	}
	return all, nil
}

func iterName(name string, k int) string {
	return name + "$" + strconv.Itoa(k)
}

func namesOf(mapping map[string]string) map[string]bool {
	out := make(map[string]bool, len(mapping))
	for _, v := range mapping {
		out[v] = true
	}
	return out
}

func withHead(r *ast.Rule, head *ast.PredicateCall) *ast.Rule {
	cp := *r
	cp.Head = head
	return &cp
}

func withBody(r *ast.Rule, body ast.Proposition) *ast.Rule {
	cp := *r
	cp.Body = body
	return &cp
}

// ruleReferencesGroup reports whether r's body or value assignment
// calls any predicate in group.
func ruleReferencesGroup(r *ast.Rule, group map[string]bool) bool {
	deps := map[string]bool{}
	collectRuleDeps(r, deps)
	for d := range deps {
		if group[d] {
			return true
		}
	}
	return false
}

// iterUniverse overrides *Universe's translate.Universe methods so a
// synthetic "P$k" name (a previous unroll iteration's CTE, not a real
// universe predicate) resolves as an ordinary, non-grounded,
// non-injectable defined predicate.
type iterUniverse struct {
	*Universe
	synthetic map[string]bool
}

func (v *iterUniverse) Known(name string) bool {
	return v.synthetic[name] || v.Universe.Known(name)
}

func (v *iterUniverse) IsGrounded(name string) bool {
	if v.synthetic[name] {
		return false
	}
	return v.Universe.IsGrounded(name)
}

func (v *iterUniverse) GroundSource(name string) (string, bool) {
	if v.synthetic[name] {
		return "", false
	}
	return v.Universe.GroundSource(name)
}

func (v *iterUniverse) Injectable(name string) bool {
	if v.synthetic[name] {
		return false
	}
	return v.Universe.Injectable(name)
}

func (v *iterUniverse) InlineBody(name string) (*ast.Record, ast.Proposition, bool) {
	if v.synthetic[name] {
		return nil, nil, false
	}
	return v.Universe.InlineBody(name)
}

// renamePredicateCalls rewrites every predicate-call name found in p
// (in proposition or expression position) through mapping, leaving
// names absent from mapping untouched.
func renamePredicateCalls(p ast.Proposition, mapping map[string]string) ast.Proposition {
	switch v := p.(type) {
	case nil:
		return nil
	case *ast.Conjunction:
		els := make([]ast.Proposition, len(v.Elements))
		for i, e := range v.Elements {
			els[i] = renamePredicateCalls(e, mapping)
		}
		return ast.NewConjunction(els, v.Heritage())
	case *ast.Disjunction:
		els := make([]ast.Proposition, len(v.Elements))
		for i, e := range v.Elements {
			els[i] = renamePredicateCalls(e, mapping)
		}
		return ast.NewDisjunction(els, v.Heritage())
	case *ast.PredicateCall:
		name := v.Name
		if mapped, ok := mapping[name]; ok {
			name = mapped
		}
		return ast.NewPredicateCall(name, renameCallsRecord(v.Record, mapping), v.Heritage())
	case *ast.Unification:
		return ast.NewUnification(renameCallsExpr(v.Left, mapping), renameCallsExpr(v.Right, mapping), v.Negated, v.Heritage())
	case *ast.Inclusion:
		return ast.NewInclusion(renameCallsExpr(v.Element, mapping), renameCallsExpr(v.List, mapping), v.Heritage())
	case *ast.Negation:
		return ast.NewNegation(renamePredicateCalls(v.Inner, mapping), v.Heritage())
	default:
		return p
	}
}

func renameCallsRecord(r *ast.Record, mapping map[string]string) *ast.Record {
	if r == nil {
		return nil
	}
	fields := make([]ast.Field, len(r.Fields))
	for i, f := range r.Fields {
		nf := f
		nf.Value = renameCallsExpr(f.Value, mapping)
		fields[i] = nf
	}
	return ast.NewRecord(fields, r.Heritage())
}

func renameCallsExpr(e ast.Expression, mapping map[string]string) ast.Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.Literal:
		return v
	case *ast.Variable:
		return v
	case *ast.RecordSubscript:
		return ast.NewRecordSubscript(renameCallsExpr(v.Target, mapping), v.Field, v.Heritage())
	case *ast.Record:
		return renameCallsRecord(v, mapping)
	case *ast.ListExpr:
		els := make([]ast.Expression, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = renameCallsExpr(el, mapping)
		}
		return ast.NewListExpr(els, v.Heritage())
	case *ast.Call:
		name := v.PredicateName
		if mapped, ok := mapping[name]; ok {
			name = mapped
		}
		return ast.NewCall(name, renameCallsRecord(v.Record, mapping), v.Heritage())
	case *ast.Implication:
		branches := make([]ast.IfBranch, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = ast.IfBranch{Condition: renamePredicateCalls(b.Condition, mapping), Then: renameCallsExpr(b.Then, mapping)}
		}
		return ast.NewImplication(branches, renameCallsExpr(v.Else, mapping), v.Heritage())
	case *ast.Combine:
		return ast.NewCombine(v.Operator, v.Distinct, renameCallsExpr(v.Value, mapping), renamePredicateCalls(v.Body, mapping), v.Heritage())
	default:
		return e
	}
}
