package ast

// RenameFunc maps a predicate or field name to its replacement. Callers
// that don't want a name touched return it unchanged.
type RenameFunc func(name string) string

// RewriteExpression rewrites predicate names appearing in Call nodes
// throughout expr (functor slot substitution, import prefixing), via a
// uniform child-rewriting combinator. Field names are never touched
// here: record field names are renamed at the Record/Field level by the
// caller, not by this predicate-name walk. Matches exactly on string
// equality, case-sensitive, per the rename contract in the design notes.
func RewriteExpression(expr Expression, rename RenameFunc) Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *Literal:
		return e
	case *Variable:
		return e
	case *Record:
		return &Record{Fields: rewriteFields(e.Fields, rename), heritage: e.heritage}
	case *ListExpr:
		elems := make([]Expression, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = RewriteExpression(el, rename)
		}
		return &ListExpr{Elements: elems, heritage: e.heritage}
	case *Call:
		return &Call{
			PredicateName: rename(e.PredicateName),
			Record:        rewriteRecord(e.Record, rename),
			heritage:      e.heritage,
		}
	case *RecordSubscript:
		return &RecordSubscript{Target: RewriteExpression(e.Target, rename), Field: e.Field, heritage: e.heritage}
	case *Combine:
		return &Combine{
			Operator: e.Operator,
			Distinct: e.Distinct,
			Value:    RewriteExpression(e.Value, rename),
			Body:     RewriteProposition(e.Body, rename),
			heritage: e.heritage,
		}
	case *Implication:
		branches := make([]IfBranch, len(e.Branches))
		for i, b := range e.Branches {
			branches[i] = IfBranch{Condition: RewriteProposition(b.Condition, rename), Then: RewriteExpression(b.Then, rename)}
		}
		return &Implication{Branches: branches, Else: RewriteExpression(e.Else, rename), heritage: e.heritage}
	default:
		return e
	}
}

func rewriteRecord(r *Record, rename RenameFunc) *Record {
	if r == nil {
		return nil
	}
	return &Record{Fields: rewriteFields(r.Fields, rename), heritage: r.heritage}
}

func rewriteFields(fields []Field, rename RenameFunc) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Value = RewriteExpression(f.Value, rename)
		out[i] = f
	}
	return out
}

// RewriteProposition is RewriteExpression's counterpart over
// Proposition nodes: it renames predicate names in every PredicateCall
// reachable from prop, recursing through conjunctions, disjunctions,
// and negation.
func RewriteProposition(prop Proposition, rename RenameFunc) Proposition {
	switch p := prop.(type) {
	case nil:
		return nil
	case *Conjunction:
		elems := make([]Proposition, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = RewriteProposition(el, rename)
		}
		return &Conjunction{Elements: elems, heritage: p.heritage}
	case *Disjunction:
		elems := make([]Proposition, len(p.Elements))
		for i, el := range p.Elements {
			elems[i] = RewriteProposition(el, rename)
		}
		return &Disjunction{Elements: elems, heritage: p.heritage}
	case *PredicateCall:
		return &PredicateCall{Name: rename(p.Name), Record: rewriteRecord(p.Record, rename), heritage: p.heritage}
	case *Unification:
		return &Unification{Left: RewriteExpression(p.Left, rename), Right: RewriteExpression(p.Right, rename), Negated: p.Negated, heritage: p.heritage}
	case *Inclusion:
		return &Inclusion{Element: RewriteExpression(p.Element, rename), List: RewriteExpression(p.List, rename), heritage: p.heritage}
	case *Negation:
		return &Negation{Inner: RewriteProposition(p.Inner, rename), heritage: p.heritage}
	default:
		return p
	}
}

// CloneRule deep-clones r with every predicate name passed through
// rename. Used by functor instantiation (§4.3), which must produce
// fresh rule objects per expansion so the original template is left
// untouched for the next @Make.
func CloneRule(r *Rule, rename RenameFunc) *Rule {
	clone := &Rule{
		Head:        &PredicateCall{Name: rename(r.Head.Name), Record: rewriteRecord(r.Head.Record, rename), heritage: r.Head.heritage},
		Distinct:    r.Distinct,
		Denotations: r.Denotations,
		FullText:    r.FullText,
	}
	if r.ValueAssign != nil {
		clone.ValueAssign = &ValueAssign{Op: r.ValueAssign.Op, Value: RewriteExpression(r.ValueAssign.Value, rename)}
	}
	if r.Body != nil {
		clone.Body = RewriteProposition(r.Body, rename)
	}
	return clone
}
