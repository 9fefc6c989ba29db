package parse

import (
	"strconv"
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// tryParseCall recognizes "Name(...)" / "a.b.Name(...)" — a predicate
// call used in expression position (a value-producing predicate or a
// built-in function application).
func tryParseCall(span ast.SourceSpan) (ast.Expression, bool, error) {
	text := span.Text()
	idx := strings.IndexByte(text, '(')
	if idx <= 0 || text[len(text)-1] != ')' {
		return nil, false, nil
	}
	name := text[:idx]
	if !isIdentifier(strings.ReplaceAll(name, ".", "_")) {
		return nil, false, nil
	}
	if !matchedOuterBracket(text[idx:]) {
		return nil, false, nil
	}
	recSpan := span.Sub(idx+1, len(text)-1)
	record, err := parseFieldList(recSpan, span)
	if err != nil {
		return nil, true, err
	}
	return ast.NewCall(name, record, span), true, nil
}

// tryParseArraySubscript recognizes "expr[i, j, k]", unfolding to
// nested Element(Element(expr, i), j), k) calls (§4.2). Only positional
// arguments are allowed inside the brackets.
func tryParseArraySubscript(span ast.SourceSpan) (ast.Expression, bool, error) {
	text := span.Text()
	idx := strings.IndexByte(text, '[')
	if idx <= 0 || text[len(text)-1] != ']' {
		return nil, false, nil
	}
	if !matchedOuterBracket(text[idx:]) {
		return nil, false, nil
	}
	target, err := parsePrimary(span.Sub(0, idx))
	if err != nil {
		return nil, true, err
	}
	indexSpan := span.Sub(idx+1, len(text)-1)
	indexSpans := scan.Split(indexSpan, ",")
	result := target
	for _, is := range indexSpans {
		indexExpr, err := Expression(is)
		if err != nil {
			return nil, true, err
		}
		result = ast.NewCall("Element", ast.NewRecord([]ast.Field{
			{Name: "col0", Value: result, Positional: true},
			{Name: "col1", Value: indexExpr, Positional: true},
		}, span), span)
	}
	return result, true, nil
}

// matchedOuterBracket reports whether text (starting with an opening
// bracket and ending with its closing counterpart) is actually one
// matched pair, not e.g. "(a)(b)" where the bracket at index 0 closes
// before the final character.
func matchedOuterBracket(text string) bool {
	if len(text) < 2 {
		return false
	}
	buf := ast.NewBuffer("", text)
	span := buf.Whole()
	if !scan.IsWhole(span) {
		return false
	}
	return depthFirstZeroAt(span) == len(text)
}

func depthFirstZeroAt(span ast.SourceSpan) int {
	text := span.Text()
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// matchClose returns the offset just past the bracket that closes the
// open bracket at span's local offset openIdx, honoring strings and
// comments via scan.Traverse, or -1 if it is never closed within span.
func matchClose(span ast.SourceSpan, openIdx int) int {
	for pos := range scan.Traverse(span) {
		if pos.Offset > openIdx && pos.State.Depth() == 0 {
			return pos.Offset
		}
	}
	return -1
}

func parseListLiteral(span ast.SourceSpan) (ast.Expression, error) {
	text := span.Text()
	inner := span.Sub(1, len(text)-1)
	if strings.TrimSpace(inner.Text()) == "" {
		return ast.NewListExpr(nil, span), nil
	}
	parts := scan.Split(inner, ",")
	elems := make([]ast.Expression, 0, len(parts))
	for _, p := range parts {
		e, err := Expression(p)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return ast.NewListExpr(elems, span), nil
}

func parseRecordLiteral(inner, heritage ast.SourceSpan) (ast.Expression, error) {
	rec, err := parseFieldList(inner, heritage)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func parseFieldList(span, heritage ast.SourceSpan) (*ast.Record, error) {
	text := strings.TrimSpace(span.Text())
	if text == "" {
		return ast.NewRecord(nil, heritage), nil
	}
	parts := scan.Split(span, ",")
	fields := make([]ast.Field, 0, len(parts))
	positionalIdx := 0
	seenNamed := false
	for i, part := range parts {
		f, err := parseField(part, positionalIdx)
		if err != nil {
			return nil, err
		}
		if f.IsRest {
			if i != len(parts)-1 {
				return nil, logicaerr.NewParsingError("MisplacedRestOf", part, "rest-of splat (\"..var\") must be the last field")
			}
		} else if f.Positional {
			if seenNamed {
				return nil, logicaerr.NewParsingError("PositionalAfterNamed", part, "positional field after a named field")
			}
			positionalIdx++
		} else {
			seenNamed = true
		}
		fields = append(fields, f)
	}
	seen := map[string]bool{}
	for _, f := range fields {
		if f.IsRest {
			continue
		}
		if seen[f.Name] {
			return nil, logicaerr.NewParsingError("DuplicateField", span, "duplicate field name: "+f.Name)
		}
		seen[f.Name] = true
	}
	return ast.NewRecord(fields, heritage), nil
}

// parseField parses one record field: positional "expr", named
// "name: expr", shorthand "name:" (== "name: name"), aggregating head
// field "name? Op= expr", or the rest-of splat "..var".
func parseField(span ast.SourceSpan, positionalIdx int) (ast.Field, error) {
	span = scan.Strip(span)
	text := span.Text()

	if strings.HasPrefix(text, "..") {
		valSpan := span.Sub(2, len(text))
		val, err := Expression(valSpan)
		if err != nil {
			return ast.Field{}, err
		}
		return ast.Field{Name: "", Value: val, IsRest: true}.WithHeritage(span), nil
	}

	if aggName, op, exprSpan, ok := splitAggregatingField(span); ok {
		val, err := Expression(exprSpan)
		if err != nil {
			return ast.Field{}, err
		}
		return ast.Field{Name: aggName, Value: val, Aggregating: true, AggOp: op}.WithHeritage(span), nil
	}

	if name, rest, ok := splitNamedField(span); ok {
		if strings.TrimSpace(rest) == "" {
			return ast.Field{Name: name, Value: ast.NewVariable(name, span)}.WithHeritage(span), nil
		}
		restSpan := span.Sub(len(text)-len(rest), len(text))
		val, err := Expression(restSpan)
		if err != nil {
			return ast.Field{}, err
		}
		return ast.Field{Name: name, Value: val}.WithHeritage(span), nil
	}

	val, err := Expression(span)
	if err != nil {
		return ast.Field{}, err
	}
	return ast.Field{Name: positionalName(positionalIdx), Value: val, Positional: true}.WithHeritage(span), nil
}

func positionalName(i int) string {
	return "col" + strconv.Itoa(i)
}

// splitNamedField splits "name: rest" into (name, rest, true), or
// reports false if span is not of that form.
func splitNamedField(span ast.SourceSpan) (name, rest string, ok bool) {
	offset := scan.FindFirstTop(span, ":")
	if offset < 0 {
		return "", "", false
	}
	text := span.Text()
	first := strings.TrimSpace(text[:offset])
	if !isIdentifier(first) {
		return "", "", false
	}
	return first, text[offset+1:], true
}

// splitAggregatingField recognizes a head-only "name? Op= expr" field.
func splitAggregatingField(span ast.SourceSpan) (name, op string, exprSpan ast.SourceSpan, ok bool) {
	text := span.Text()
	qIdx := strings.IndexByte(text, '?')
	if qIdx <= 0 {
		return "", "", ast.SourceSpan{}, false
	}
	name = strings.TrimSpace(text[:qIdx])
	if !isIdentifier(name) {
		return "", "", ast.SourceSpan{}, false
	}
	rest := text[qIdx+1:]
	eqIdx := strings.Index(rest, "=")
	if eqIdx < 0 {
		return "", "", ast.SourceSpan{}, false
	}
	op = strings.TrimSpace(rest[:eqIdx]) + "="
	exprSpan = span.Sub(qIdx+1+eqIdx+1, len(text))
	return name, op, exprSpan, true
}
