package translate

import "github.com/logica-lang/logica/ast"

// renameBody returns a copy of p with every non-anonymous variable
// name prefixed by tag, so an injectable callee's body can be spliced
// into a caller's conjunction (inlineCall, in translate.go) without
// its variables colliding with the caller's own.
func renameBody(p ast.Proposition, tag string) ast.Proposition {
	switch v := p.(type) {
	case nil:
		return nil
	case *ast.Conjunction:
		els := make([]ast.Proposition, len(v.Elements))
		for i, e := range v.Elements {
			els[i] = renameBody(e, tag)
		}
		return ast.NewConjunction(els, v.Heritage())
	case *ast.Disjunction:
		els := make([]ast.Proposition, len(v.Elements))
		for i, e := range v.Elements {
			els[i] = renameBody(e, tag)
		}
		return ast.NewDisjunction(els, v.Heritage())
	case *ast.PredicateCall:
		return ast.NewPredicateCall(v.Name, renameRecord(v.Record, tag), v.Heritage())
	case *ast.Unification:
		return ast.NewUnification(renameExpr(v.Left, tag), renameExpr(v.Right, tag), v.Negated, v.Heritage())
	case *ast.Inclusion:
		return ast.NewInclusion(renameExpr(v.Element, tag), renameExpr(v.List, tag), v.Heritage())
	case *ast.Negation:
		return ast.NewNegation(renameBody(v.Inner, tag), v.Heritage())
	default:
		return p
	}
}

func renameRecord(r *ast.Record, tag string) *ast.Record {
	if r == nil {
		return nil
	}
	fields := make([]ast.Field, len(r.Fields))
	for i, f := range r.Fields {
		nf := f
		nf.Value = renameExpr(f.Value, tag)
		fields[i] = nf
	}
	return ast.NewRecord(fields, r.Heritage())
}

func renameExpr(e ast.Expression, tag string) ast.Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.Literal:
		return v
	case *ast.Variable:
		if v.IsAnonymous() {
			return v
		}
		return ast.NewVariable(tag+v.Name, v.Heritage())
	case *ast.RecordSubscript:
		return ast.NewRecordSubscript(renameExpr(v.Target, tag), v.Field, v.Heritage())
	case *ast.Record:
		return renameRecord(v, tag)
	case *ast.ListExpr:
		els := make([]ast.Expression, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = renameExpr(el, tag)
		}
		return ast.NewListExpr(els, v.Heritage())
	case *ast.Call:
		return ast.NewCall(v.PredicateName, renameRecord(v.Record, tag), v.Heritage())
	case *ast.Implication:
		branches := make([]ast.IfBranch, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = ast.IfBranch{Condition: renameBody(b.Condition, tag), Then: renameExpr(b.Then, tag)}
		}
		return ast.NewImplication(branches, renameExpr(v.Else, tag), v.Heritage())
	case *ast.Combine:
		return ast.NewCombine(v.Operator, v.Distinct, renameExpr(v.Value, tag), renameBody(v.Body, tag), v.Heritage())
	default:
		return e
	}
}
