package translate

import (
	"fmt"
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
)

// conditionSQL compiles p to a scalar boolean SQL expression: used for
// a rule body's non-call conjuncts (unifications, inclusions,
// negations), and for an Implication branch's condition, where (unlike
// a top-level conjunct) a PredicateCall cannot register its own
// FROM-clause entry and instead compiles to a correlated EXISTS
// sub-query (§4.5's sub-queries step).
func conditionSQL(p ast.Proposition, c *ctx) (string, *logicaerr.SemanticError) {
	switch v := p.(type) {
	case nil:
		return "TRUE", nil
	case *ast.Conjunction:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			frag, err := conditionSQL(el, c)
			if err != nil {
				return "", err
			}
			parts[i] = frag
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil
	case *ast.Disjunction:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			frag, err := conditionSQL(el, c)
			if err != nil {
				return "", err
			}
			parts[i] = frag
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case *ast.PredicateCall:
		return existsSubquery(v, c, false)
	case *ast.Unification:
		left, err := exprSQL(v.Left, c)
		if err != nil {
			return "", err
		}
		right, err := exprSQL(v.Right, c)
		if err != nil {
			return "", err
		}
		op := "="
		if v.Negated {
			op = "<>"
		}
		return fmt.Sprintf("%s %s %s", left, op, right), nil
	case *ast.Inclusion:
		elem, err := exprSQL(v.Element, c)
		if err != nil {
			return "", err
		}
		if list, ok := v.List.(*ast.ListExpr); ok {
			parts := make([]string, len(list.Elements))
			for i, el := range list.Elements {
				ee, err := exprSQL(el, c)
				if err != nil {
					return "", err
				}
				parts[i] = ee
			}
			return elem + " IN (" + strings.Join(parts, ", ") + ")", nil
		}
		listExpr, err := exprSQL(v.List, c)
		if err != nil {
			return "", err
		}
		return elem + " IN " + listExpr, nil
	case *ast.Negation:
		// ~P lowers to NOT EXISTS directly rather than the
		// IsNull(Combine(Min=1 :- P)) expansion: both are equivalent
		// once P has no free output column, and this form avoids a
		// redundant synthetic "_Combine" predicate for the common case.
		// A bare predicate call gets the correlated-EXISTS treatment
		// (so a variable first introduced inside the negation stays
		// existentially local to it); anything else is an ordinary
		// boolean condition wrapped in NOT.
		if pc, ok := v.Inner.(*ast.PredicateCall); ok {
			return existsSubquery(pc, c, true)
		}
		inner, err := conditionSQL(v.Inner, c)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	default:
		return "", logicaerr.NewSemanticError(fmt.Sprintf("translate: unhandled proposition type %T", p), p.Heritage())
	}
}

// existsSubquery compiles call into a correlated "EXISTS (SELECT 1
// FROM ... WHERE ...)" (or "NOT EXISTS" when negated). Variables
// already bound in the outer scope correlate the subquery; a variable
// seen here for the first time is existentially local to it.
func existsSubquery(call *ast.PredicateCall, c *ctx, negated bool) (string, *logicaerr.SemanticError) {
	if call == nil {
		if negated {
			return "FALSE", nil
		}
		return "TRUE", nil
	}
	if !c.u.Known(call.Name) {
		return "", logicaerr.NewSemanticError("call to unknown predicate \""+call.Name+"\"", call.Heritage())
	}
	alias := c.newAlias()
	source := call.Name
	if c.u.IsGrounded(call.Name) {
		if src, ok := c.u.GroundSource(call.Name); ok {
			source = src
		}
	}
	var where []string
	if call.Record != nil {
		for _, f := range call.Record.Fields {
			colExpr := fmt.Sprintf("%s.%s", alias, f.Name)
			if v, ok := f.Value.(*ast.Variable); ok && !v.IsAnonymous() {
				if outer, bound := c.lookupVariable(v.Name); bound {
					where = append(where, colExpr+" = "+outer)
				}
				continue
			}
			argExpr, err := exprSQL(f.Value, c)
			if err != nil {
				return "", err
			}
			where = append(where, colExpr+" = "+argExpr)
		}
	}
	q := fmt.Sprintf("SELECT 1 FROM %s %s", source, alias)
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	prefix := "EXISTS"
	if negated {
		prefix = "NOT EXISTS"
	}
	return prefix + " (" + q + ")", nil
}
