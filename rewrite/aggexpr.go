package rewrite

import (
	"fmt"
	"sort"

	"github.com/logica-lang/logica/ast"
)

// AggregationAsExpression turns every Combine expression ("Op= expr :-
// body" / its sugar "Op{expr :- body}") reachable from rules into a
// call to a freshly synthesized predicate carrying a single aggregating
// "logica_value" field (§4.3), returning both the rewritten rules and
// the synthesized predicates appended to the set.
//
// The synthesized predicate is parameterized by the combine's free
// variables that are also bound in the enclosing rule, so it compiles
// to a correlated sub-query rather than a global aggregate: a variable
// mentioned both inside the combine and elsewhere in the same rule
// becomes a named field on both the synthetic head and the call site.
func AggregationAsExpression(rules []*ast.Rule) []*ast.Rule {
	var out []*ast.Rule
	counter := 0
	for _, r := range rules {
		outerVars := map[string]bool{}
		if r.ValueAssign != nil {
			collectExprVars(r.ValueAssign.Value, outerVars)
		}
		collectPropVars(r.Body, outerVars)

		rewriteCombines := func(expr ast.Expression) ast.Expression {
			return replaceCombines(expr, outerVars, &counter, &out)
		}
		newRule := &ast.Rule{
			Head:        r.Head,
			Distinct:    r.Distinct,
			Denotations: r.Denotations,
			Body:        rewritePropCombines(r.Body, outerVars, &counter, &out),
			FullText:    r.FullText,
		}
		if r.ValueAssign != nil {
			newRule.ValueAssign = &ast.ValueAssign{Op: r.ValueAssign.Op, Value: rewriteCombines(r.ValueAssign.Value)}
		}
		out = append(out, newRule)
	}
	return out
}

// replaceCombines rewrites every Combine reachable from expr (without
// recursing into an already-extracted synthetic predicate's own body,
// since that body is processed once, at extraction time).
func replaceCombines(expr ast.Expression, outerVars map[string]bool, counter *int, synth *[]*ast.Rule) ast.Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.Combine:
		innerBody := rewritePropCombines(e.Body, outerVars, counter, synth)
		innerValue := replaceCombines(e.Value, outerVars, counter, synth)
		return extractCombine(e.Operator, e.Distinct, innerValue, innerBody, e.Heritage(), outerVars, counter, synth)
	case *ast.Record:
		fields := make([]ast.Field, len(e.Fields))
		for i, f := range e.Fields {
			f.Value = replaceCombines(f.Value, outerVars, counter, synth)
			fields[i] = f
		}
		return ast.NewRecord(fields, e.Heritage())
	case *ast.ListExpr:
		elems := make([]ast.Expression, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = replaceCombines(el, outerVars, counter, synth)
		}
		return ast.NewListExpr(elems, e.Heritage())
	case *ast.Call:
		return ast.NewCall(e.PredicateName, replaceCombines(e.Record, outerVars, counter, synth).(*ast.Record), e.Heritage())
	case *ast.RecordSubscript:
		return ast.NewRecordSubscript(replaceCombines(e.Target, outerVars, counter, synth), e.Field, e.Heritage())
	case *ast.Implication:
		branches := make([]ast.IfBranch, len(e.Branches))
		for i, b := range e.Branches {
			branches[i] = ast.IfBranch{
				Condition: rewritePropCombines(b.Condition, outerVars, counter, synth),
				Then:      replaceCombines(b.Then, outerVars, counter, synth),
			}
		}
		return ast.NewImplication(branches, replaceCombines(e.Else, outerVars, counter, synth), e.Heritage())
	default:
		return expr
	}
}

func rewritePropCombines(p ast.Proposition, outerVars map[string]bool, counter *int, synth *[]*ast.Rule) ast.Proposition {
	switch v := p.(type) {
	case nil:
		return nil
	case *ast.Conjunction:
		elems := make([]ast.Proposition, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = rewritePropCombines(el, outerVars, counter, synth)
		}
		return ast.NewConjunction(elems, v.Heritage())
	case *ast.Disjunction:
		elems := make([]ast.Proposition, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = rewritePropCombines(el, outerVars, counter, synth)
		}
		return ast.NewDisjunction(elems, v.Heritage())
	case *ast.PredicateCall:
		return ast.NewPredicateCall(v.Name, replaceCombines(v.Record, outerVars, counter, synth).(*ast.Record), v.Heritage())
	case *ast.Unification:
		return ast.NewUnification(replaceCombines(v.Left, outerVars, counter, synth), replaceCombines(v.Right, outerVars, counter, synth), v.Negated, v.Heritage())
	case *ast.Inclusion:
		return ast.NewInclusion(replaceCombines(v.Element, outerVars, counter, synth), replaceCombines(v.List, outerVars, counter, synth), v.Heritage())
	case *ast.Negation:
		return ast.NewNegation(rewritePropCombines(v.Inner, outerVars, counter, synth), v.Heritage())
	default:
		return p
	}
}

func extractCombine(op string, distinct bool, value ast.Expression, body ast.Proposition, heritage ast.SourceSpan, outerVars map[string]bool, counter *int, synth *[]*ast.Rule) ast.Expression {
	inner := map[string]bool{}
	collectExprVars(value, inner)
	collectPropVars(body, inner)

	var params []string
	for name := range inner {
		if outerVars[name] {
			params = append(params, name)
		}
	}
	sort.Strings(params)

	*counter++
	name := fmt.Sprintf("_Combine%d", *counter)

	callFields := make([]ast.Field, len(params))
	headFields := make([]ast.Field, len(params)+1)
	for i, p := range params {
		v := ast.NewVariable(p, heritage)
		callFields[i] = ast.Field{Name: p, Value: v, Positional: false}
		headFields[i] = ast.Field{Name: p, Value: v, Positional: false}
	}
	headFields[len(params)] = ast.Field{
		Name: "logica_value", Value: value, Aggregating: true, AggOp: op,
	}

	// The aggregated value is carried solely by the "logica_value" head
	// field above (translate.projectHead's Head.Record loop); a
	// ValueAssign here would make projectHead emit a second, identically
	// named "logica_value" column for the same value.
	synthRule := &ast.Rule{
		Head:     ast.NewPredicateCall(name, ast.NewRecord(headFields, heritage), heritage),
		Distinct: true,
		Body:     body,
		FullText: heritage,
	}
	*synth = append(*synth, synthRule)

	return ast.NewCall(name, ast.NewRecord(callFields, heritage), heritage)
}

func collectExprVars(e ast.Expression, into map[string]bool) {
	switch v := e.(type) {
	case nil:
	case *ast.Variable:
		if !v.IsAnonymous() {
			into[v.Name] = true
		}
	case *ast.Record:
		for _, f := range v.Fields {
			collectExprVars(f.Value, into)
		}
	case *ast.ListExpr:
		for _, el := range v.Elements {
			collectExprVars(el, into)
		}
	case *ast.Call:
		collectExprVars(v.Record, into)
	case *ast.RecordSubscript:
		collectExprVars(v.Target, into)
	case *ast.Combine:
		// A combine's own variables belong to its synthesized
		// predicate, not to the expression that contains it.
	case *ast.Implication:
		for _, b := range v.Branches {
			collectPropVars(b.Condition, into)
			collectExprVars(b.Then, into)
		}
		collectExprVars(v.Else, into)
	}
}

func collectPropVars(p ast.Proposition, into map[string]bool) {
	switch v := p.(type) {
	case nil:
	case *ast.Conjunction:
		for _, el := range v.Elements {
			collectPropVars(el, into)
		}
	case *ast.Disjunction:
		for _, el := range v.Elements {
			collectPropVars(el, into)
		}
	case *ast.PredicateCall:
		collectExprVars(v.Record, into)
	case *ast.Unification:
		collectExprVars(v.Left, into)
		collectExprVars(v.Right, into)
	case *ast.Inclusion:
		collectExprVars(v.Element, into)
		collectExprVars(v.List, into)
	case *ast.Negation:
		collectPropVars(v.Inner, into)
	}
}
