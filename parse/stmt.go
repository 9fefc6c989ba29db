package parse

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// Statements splits buf on top-level ";" and classifies each resulting
// span as one of the three statement kinds (§4.2, §3.3): import,
// functor application, or rule. A function rule ("-->") and a functor
// rule (":=") each desugar to more than one ast.Statement, so the
// returned slice need not have one entry per ";"-separated span.
func Statements(buf *ast.Buffer) ([]ast.Statement, *logicaerr.ParsingError) {
	parts := scan.Split(buf.Whole(), ";")
	var stmts []ast.Statement
	for _, part := range parts {
		part = scan.Strip(part)
		if part.Text() == "" {
			continue
		}
		produced, err := parseStatement(part)
		if err != nil {
			if pe, ok := err.(*logicaerr.ParsingError); ok {
				return nil, pe
			}
			return nil, logicaerr.NewParsingError("ParseError", part, err.Error())
		}
		stmts = append(stmts, produced...)
	}
	return stmts, nil
}

func parseStatement(span ast.SourceSpan) ([]ast.Statement, error) {
	text := span.Text()

	if strings.HasPrefix(text, "import ") || strings.HasPrefix(text, "import\t") {
		stmt, err := parseImport(span)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{stmt}, nil
	}

	if idx := scan.FindFirstTop(span, "-->"); idx >= 0 {
		return parseFunctionRule(span, idx)
	}

	if idx := scan.FindFirstTop(span, ":="); idx >= 0 {
		return parseFunctorRule(span, idx)
	}

	rule, err := parsePlainRule(span)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{ast.NewRuleStatement(rule)}, nil
}

// parseImport parses "import a.b.Name [as Alias]".
func parseImport(span ast.SourceSpan) (ast.Statement, error) {
	text := strings.TrimSpace(span.Text())
	body := strings.TrimSpace(strings.TrimPrefix(text, "import"))
	path := body
	alias := ""
	if idx := strings.LastIndex(body, " as "); idx >= 0 {
		path = strings.TrimSpace(body[:idx])
		alias = strings.TrimSpace(body[idx+len(" as "):])
	}
	if path == "" || !isDottedPath(path) {
		return nil, logicaerr.NewParsingError("MalformedImport", span, "malformed import path: "+body)
	}
	return ast.NewImport(path, alias, span), nil
}

func isDottedPath(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

// parseFunctionRule handles "LHS --> RHS" (§4.3 item 2): it synthesizes
// a @CompileAsUdf(P) annotation rule plus the regular rule LHS = RHS.
func parseFunctionRule(span ast.SourceSpan, arrowIdx int) ([]ast.Statement, error) {
	text := span.Text()
	lhsSpan := span.Sub(0, arrowIdx)
	rhsSpan := span.Sub(arrowIdx+3, len(text))

	head, assign, distinct, err := parseHeadAndAssign(lhsSpan)
	if err != nil {
		return nil, err
	}
	if assign != nil {
		return nil, logicaerr.NewParsingError("MalformedFunctionRule", span, "function rule head must not carry its own assignment")
	}
	value, err := Expression(rhsSpan)
	if err != nil {
		return nil, err
	}
	rule := &ast.Rule{
		Head:        head,
		ValueAssign: &ast.ValueAssign{Op: "=", Value: value},
		Distinct:    distinct,
		FullText:    span,
	}

	udfRecord := ast.NewRecord([]ast.Field{
		{Name: "col0", Value: ast.NewLiteral(ast.LiteralString, head.Name, span), Positional: true},
	}, span)
	udfRule := &ast.Rule{
		Head:     ast.NewPredicateCall("@CompileAsUdf", udfRecord, span),
		FullText: span,
	}

	return []ast.Statement{ast.NewRuleStatement(udfRule), ast.NewRuleStatement(rule)}, nil
}

// parseFunctorRule handles "NewName := Template(Slot: Value, ...)"
// (§4.3 item 3), synthesized as the normal-form @Make(NewName,
// Template, {Slot: Value, ...}) fact.
func parseFunctorRule(span ast.SourceSpan, opIdx int) ([]ast.Statement, error) {
	text := span.Text()
	newName := strings.TrimSpace(text[:opIdx])
	if !isIdentifier(newName) {
		return nil, logicaerr.NewParsingError("MalformedFunctor", span, "invalid functor instantiation name: "+newName)
	}
	rhsSpan := scan.Strip(span.Sub(opIdx+2, len(text)))
	rhsText := rhsSpan.Text()

	callIdx := strings.IndexByte(rhsText, '(')
	if callIdx <= 0 || rhsText[len(rhsText)-1] != ')' {
		return nil, logicaerr.NewParsingError("MalformedFunctor", span, "functor application must be Template(Slot: Value, ...)")
	}
	template := rhsText[:callIdx]
	if !isIdentifier(template) {
		return nil, logicaerr.NewParsingError("MalformedFunctor", span, "invalid functor template name: "+template)
	}
	slotSpan := rhsSpan.Sub(callIdx+1, len(rhsText)-1)
	slots, err := parseFieldList(slotSpan, span)
	if err != nil {
		return nil, err
	}

	app := ast.NewFunctorApplication(newName, template, slots.Fields, span)

	makeRecord := ast.NewRecord([]ast.Field{
		{Name: "col0", Value: ast.NewLiteral(ast.LiteralString, newName, span), Positional: true},
		{Name: "col1", Value: ast.NewLiteral(ast.LiteralString, template, span), Positional: true},
		{Name: "col2", Value: ast.NewRecord(slots.Fields, span), Positional: true},
	}, span)
	makeRule := &ast.Rule{
		Head:     ast.NewPredicateCall("@Make", makeRecord, span),
		FullText: span,
	}

	return []ast.Statement{app, ast.NewRuleStatement(makeRule)}, nil
}

// denotationKeywords maps a rule-suffix keyword to its DenotationKind.
var denotationKeywords = map[string]ast.DenotationKind{
	"order_by": ast.DenotationOrderBy,
	"limit":    ast.DenotationLimit,
	"couldbe":  ast.DenotationCouldBe,
	"cantbe":   ast.DenotationCantBe,
	"shouldbe": ast.DenotationShouldBe,
}

// parsePlainRule handles "head [:- body]" (§4.3 item 4): a fact if
// there is no top-level ":-", otherwise a rule whose body's
// denotation-keyword conjuncts (order_by(...), limit(...), ...) are
// extracted and promoted to sibling Denotations.
func parsePlainRule(span ast.SourceSpan) (*ast.Rule, error) {
	if idx := scan.FindFirstTop(span, ":-"); idx >= 0 {
		text := span.Text()
		headSpan := span.Sub(0, idx)
		bodySpan := span.Sub(idx+2, len(text))

		head, assign, distinct, err := parseHeadAndAssign(headSpan)
		if err != nil {
			return nil, err
		}
		body, err := Proposition(bodySpan)
		if err != nil {
			return nil, err
		}
		body, denotations := extractDenotations(body)
		return &ast.Rule{
			Head:        head,
			ValueAssign: assign,
			Distinct:    distinct,
			Denotations: denotations,
			Body:        body,
			FullText:    span,
		}, nil
	}

	head, assign, distinct, err := parseHeadAndAssign(span)
	if err != nil {
		return nil, err
	}
	return &ast.Rule{Head: head, ValueAssign: assign, Distinct: distinct, FullText: span}, nil
}

// extractDenotations pulls denotation-keyword conjuncts (order_by(...),
// limit(...), couldbe(...), cantbe(...), shouldbe(...)) out of body,
// returning the remaining body (nil if nothing remains) and the
// extracted Denotations in source order.
func extractDenotations(body ast.Proposition) (ast.Proposition, []ast.Denotation) {
	conj, ok := body.(*ast.Conjunction)
	if !ok {
		if pc, ok := body.(*ast.PredicateCall); ok {
			if kind, isDenotation := denotationKeywords[pc.Name]; isDenotation {
				return nil, []ast.Denotation{denotationFrom(kind, pc)}
			}
		}
		return body, nil
	}

	var remaining []ast.Proposition
	var denotations []ast.Denotation
	for _, el := range conj.Elements {
		if pc, ok := el.(*ast.PredicateCall); ok {
			if kind, isDenotation := denotationKeywords[pc.Name]; isDenotation {
				denotations = append(denotations, denotationFrom(kind, pc))
				continue
			}
		}
		remaining = append(remaining, el)
	}
	switch len(remaining) {
	case 0:
		return nil, denotations
	case 1:
		return remaining[0], denotations
	default:
		return ast.NewConjunction(remaining, conj.Heritage()), denotations
	}
}

func denotationFrom(kind ast.DenotationKind, pc *ast.PredicateCall) ast.Denotation {
	args := make([]ast.Expression, len(pc.Record.Fields))
	for i, f := range pc.Record.Fields {
		args[i] = f.Value
	}
	return ast.NewDenotation(kind, args, pc.Heritage())
}
