package parse

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// Proposition parses span as a rule body: a "|"-separated disjunction
// of ","-separated conjunctions of atoms (§4.2). A conjunction of a
// single element is normalized away, per the Proposition invariant.
func Proposition(span ast.SourceSpan) (ast.Proposition, error) {
	span = scan.Strip(span)

	if disjuncts := scan.Split(span, "|"); len(disjuncts) > 1 {
		elems := make([]ast.Proposition, 0, len(disjuncts))
		for _, d := range disjuncts {
			p, err := Proposition(d)
			if err != nil {
				return nil, err
			}
			elems = append(elems, p)
		}
		return ast.NewDisjunction(elems, span), nil
	}

	if conjuncts := scan.Split(span, ","); len(conjuncts) > 1 {
		elems := make([]ast.Proposition, 0, len(conjuncts))
		for _, c := range conjuncts {
			p, err := parseAtom(c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, p)
		}
		return ast.NewConjunction(elems, span), nil
	}

	return parseAtom(span)
}

// parseAtom parses one proposition that contains no top-level "|" or
// ",": negation-as-aggregate, a parenthesized sub-proposition,
// unification, inclusion, or a predicate call.
func parseAtom(span ast.SourceSpan) (ast.Proposition, error) {
	span = scan.Strip(span)
	text := span.Text()
	if text == "" {
		return nil, logicaerr.NewParsingError("EmptyProposition", span, "expected a proposition")
	}

	if strings.HasPrefix(text, "~") {
		inner, err := Proposition(span.Sub(1, len(text)))
		if err != nil {
			return nil, err
		}
		return ast.NewNegation(inner, span), nil
	}

	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") && scan.IsWhole(span) {
		return Proposition(span.Sub(1, len(text)-1))
	}

	if idx := scan.FindFirstTop(span, "!="); idx >= 0 {
		left, right, err := parseUnificationOperands(span, idx, 2)
		if err != nil {
			return nil, err
		}
		return ast.NewUnification(left, right, true, span), nil
	}

	if idx := scan.FindFirstTop(span, "=="); idx >= 0 {
		left, right, err := parseUnificationOperands(span, idx, 2)
		if err != nil {
			return nil, err
		}
		return ast.NewUnification(left, right, false, span), nil
	}

	if idx := scan.FindFirstTop(span, "="); idx >= 0 {
		left, right, err := parseUnificationOperands(span, idx, 1)
		if err != nil {
			return nil, err
		}
		return ast.NewUnification(left, right, false, span), nil
	}

	if parts := scan.Split(span, "in"); len(parts) == 2 {
		elem, err := Expression(parts[0])
		if err != nil {
			return nil, err
		}
		list, err := Expression(parts[1])
		if err != nil {
			return nil, err
		}
		return ast.NewInclusion(elem, list, span), nil
	}

	if call, ok, err := tryParseCall(span); ok {
		if err != nil {
			return nil, err
		}
		c := call.(*ast.Call)
		return ast.NewPredicateCall(c.PredicateName, c.Record, span), nil
	}

	return nil, logicaerr.NewParsingError("MalformedProposition", span, "could not parse proposition: "+text)
}

func parseUnificationOperands(span ast.SourceSpan, offset, sepLen int) (ast.Expression, ast.Expression, error) {
	text := span.Text()
	left, err := Expression(span.Sub(0, offset))
	if err != nil {
		return nil, nil, err
	}
	right, err := Expression(span.Sub(offset+sepLen, len(text)))
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
