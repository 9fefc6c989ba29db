package parse

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// operatorLevel is one tier of the fixed precedence list (§4.2), lowest
// precedence first. Multi-character operators are listed before any
// operator they could be mistaken for a prefix of (e.g. "<=" before "<").
type operatorLevel struct {
	ops []string
}

var expressionLevels = []operatorLevel{
	{[]string{"||"}},
	{[]string{"&&"}},
	{[]string{"==", "!=", "<=", ">=", "<", ">"}},
	{[]string{"="}},
	{[]string{"in", "is not", "is"}},
	{[]string{"++?", "++"}},
	{[]string{"+", "-"}},
	{[]string{"*", "/", "%"}},
	{[]string{"^"}},
}

// Expression parses span as an expression, following the fixed
// precedence list of §4.2 via precedence climbing over scan.Split.
func Expression(span ast.SourceSpan) (ast.Expression, error) {
	return parseLevel(scan.Strip(span), 0)
}

func parseLevel(span ast.SourceSpan, level int) (ast.Expression, error) {
	if level >= len(expressionLevels) {
		return parseUnary(span)
	}
	for _, op := range expressionLevels[level].ops {
		parts := scan.Split(span, op)
		if len(parts) < 2 {
			continue
		}
		if op == "in" || op == "is" || op == "is not" {
			// These bind an expression to a set/type check rather than
			// chaining left-associatively; only the first split matters.
			left, err := parseLevel(parts[0], level+1)
			if err != nil {
				return nil, err
			}
			right, err := parseLevel(joinRest(span, parts[0], op), level+1)
			if err != nil {
				return nil, err
			}
			return newInfixCall(op, left, right, span), nil
		}
		expr, err := parseLevel(parts[0], level+1)
		if err != nil {
			return nil, err
		}
		for _, part := range parts[1:] {
			right, err := parseLevel(part, level+1)
			if err != nil {
				return nil, err
			}
			expr = newInfixCall(op, expr, right, span)
		}
		return expr, nil
	}
	return parseLevel(span, level+1)
}

// joinRest re-derives the remainder of span after the first occurrence
// of op has been consumed by Split(span, op)'s first element; Split
// already gives us that remainder as everything after parts[0], so for
// the "in"/"is"/"is not" levels we re-split and keep the tail joined on
// op in case the right-hand side itself legally contains the same
// keyword nested deeper (rare, but covered rather than silently
// truncated).
func joinRest(span, firstPart ast.SourceSpan, op string) ast.SourceSpan {
	start := firstPart.End - span.Start + len(op)
	return span.Sub(start, span.End-span.Start)
}

// newInfixCall represents every binary operator uniformly as a Call to
// a builtin named after the operator (e.g. "+" -> Call{"+", [left,
// right]}), matching how the translator and SQL writer look up builtin
// operator mappings (§4.5) by predicate name.
func newInfixCall(op string, left, right ast.Expression, heritage ast.SourceSpan) ast.Expression {
	rec := ast.NewRecord([]ast.Field{
		{Name: "col0", Value: left, Positional: true},
		{Name: "col1", Value: right, Positional: true},
	}, heritage)
	return ast.NewCall(op, rec, heritage)
}

func parseUnary(span ast.SourceSpan) (ast.Expression, error) {
	span = scan.Strip(span)
	text := span.Text()
	if strings.HasPrefix(text, "-") {
		inner, err := parseUnary(span.Sub(1, len(text)))
		if err != nil {
			return nil, err
		}
		return ast.NewCall("Negative", ast.NewRecord([]ast.Field{{Name: "col0", Value: inner, Positional: true}}, span), span), nil
	}
	if strings.HasPrefix(text, "!") {
		inner, err := parseUnary(span.Sub(1, len(text)))
		if err != nil {
			return nil, err
		}
		return ast.NewCall("Not", ast.NewRecord([]ast.Field{{Name: "col0", Value: inner, Positional: true}}, span), span), nil
	}
	return parsePrimary(span)
}

func parsePrimary(span ast.SourceSpan) (ast.Expression, error) {
	span = scan.Strip(span)
	text := span.Text()
	if text == "" {
		return nil, logicaerr.NewParsingError("EmptyExpression", span, "expected an expression")
	}

	if lit, ok := parseLiteral(span); ok {
		return lit, nil
	}

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") && scan.IsWhole(span) {
		return parseListLiteral(span)
	}

	if strings.HasPrefix(text, "if ") || strings.HasPrefix(text, "if(") {
		if impl, ok, err := tryParseImplication(span); ok {
			return impl, err
		}
	}

	if combine, ok, err := tryParseCombineBase(span); ok {
		return combine, err
	}

	if combine, ok, err := tryParseCombineSugar(span); ok {
		return combine, err
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") && scan.IsWhole(span) {
		return parseRecordLiteral(span.Sub(1, len(text)-1), span)
	}

	if call, ok, err := tryParseCall(span); ok {
		return call, err
	}

	if isIdentifier(text) {
		if IsVariableName(text) {
			return ast.NewVariable(text, span), nil
		}
		return ast.NewCall(text, ast.NewRecord(nil, span), span), nil
	}

	if parts := scan.Split(span, "."); len(parts) >= 2 {
		target, err := parsePrimary(parts[0])
		if err != nil {
			return nil, err
		}
		for _, field := range parts[1:] {
			target = ast.NewRecordSubscript(target, field.Text(), span)
		}
		return target, nil
	}

	if sub, ok, err := tryParseArraySubscript(span); ok {
		return sub, err
	}

	return nil, logicaerr.NewParsingError("MalformedExpression", span, "could not parse expression: "+text)
}
