package parse

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// tryParseCombineSugar recognizes the ultra-concise combine form
// "Op{expr :- body}" (§4.2), sugar for "combine Op= expr :- body".
// Op is required, so this never fires on a bare record literal
// "{a: 1}"; that case falls through to parseRecordLiteral.
func tryParseCombineSugar(span ast.SourceSpan) (ast.Expression, bool, error) {
	text := span.Text()
	idx := strings.IndexByte(text, '{')
	if idx <= 0 || text[len(text)-1] != '}' {
		return nil, false, nil
	}
	op := text[:idx]
	if !isIdentifier(op) {
		return nil, false, nil
	}
	if !matchedOuterBracket(text[idx:]) {
		return nil, false, nil
	}

	inner := scan.Strip(span.Sub(idx+1, len(text)-1))
	innerText := inner.Text()
	distinct := false
	if innerText == "distinct" || strings.HasPrefix(innerText, "distinct ") || strings.HasPrefix(innerText, "distinct\t") {
		distinct = true
		inner = scan.Strip(inner.Sub(len("distinct"), len(innerText)))
		innerText = inner.Text()
	}

	sepIdx := scan.FindFirstTop(inner, ":-")
	if sepIdx < 0 {
		return nil, true, logicaerr.NewParsingError("MalformedCombine", span, "combine expression requires \":-\"")
	}
	valueSpan := inner.Sub(0, sepIdx)
	bodySpan := inner.Sub(sepIdx+2, len(innerText))

	value, err := Expression(valueSpan)
	if err != nil {
		return nil, true, err
	}
	body, err := Proposition(bodySpan)
	if err != nil {
		return nil, true, err
	}
	return ast.NewCombine(op, distinct, value, body, span), true, nil
}

// tryParseCombineBase recognizes the base keyword form "combine Op=
// expr :- body" (§4.2); "Op{expr :- body}" (tryParseCombineSugar) is
// sugar for this form, not the other way around.
func tryParseCombineBase(span ast.SourceSpan) (ast.Expression, bool, error) {
	text := span.Text()
	if !strings.HasPrefix(text, "combine") {
		return nil, false, nil
	}
	rest := text[len("combine"):]
	if rest == "" || !isSpace(rest[0]) {
		return nil, false, nil
	}

	afterKeyword := scan.Strip(span.Sub(len("combine"), len(text)))
	op, body, ok := splitAssignOp(afterKeyword)
	if !ok {
		return nil, true, logicaerr.NewParsingError("MalformedCombine", span, "expected an aggregation operator after \"combine\"")
	}
	if op == "=" {
		return nil, true, logicaerr.NewParsingError("MalformedCombine", span, "combine requires an aggregating operator (+=, Max=, ...), not a plain \"=\"")
	}

	innerText := body.Text()
	distinct := false
	if innerText == "distinct" || strings.HasPrefix(innerText, "distinct ") || strings.HasPrefix(innerText, "distinct\t") {
		distinct = true
		body = scan.Strip(body.Sub(len("distinct"), len(innerText)))
		innerText = body.Text()
	}

	sepIdx := scan.FindFirstTop(body, ":-")
	if sepIdx < 0 {
		return nil, true, logicaerr.NewParsingError("MalformedCombine", span, "combine expression requires \":-\"")
	}
	valueSpan := body.Sub(0, sepIdx)
	bodySpan := body.Sub(sepIdx+2, len(innerText))

	value, err := Expression(valueSpan)
	if err != nil {
		return nil, true, err
	}
	prop, err := Proposition(bodySpan)
	if err != nil {
		return nil, true, err
	}
	return ast.NewCombine(op, distinct, value, prop, span), true, nil
}
