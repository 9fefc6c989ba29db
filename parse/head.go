package parse

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// assignOps lists the recognized head value-assignment operators,
// longest first so a prefix match never stops short (e.g. "ArgMax="
// must be tried before "Max=", and "+=" before "=").
var assignOps = []string{"ArgMax=", "ArgMin=", "++=", "Max=", "Min=", "+=", "="}

// parseHeadAndAssign parses a rule's head span: the predicate call,
// an optional trailing "distinct", and an optional assignment
// ("= expr" or an aggregating "Op= expr") (§4.2).
func parseHeadAndAssign(span ast.SourceSpan) (*ast.PredicateCall, *ast.ValueAssign, bool, error) {
	span = scan.Strip(span)
	text := span.Text()

	distinct := false
	trimmed := strings.TrimRight(text, " \t")
	if strings.HasSuffix(trimmed, "distinct") {
		before := trimmed[:len(trimmed)-len("distinct")]
		if before == "" || isSpace(before[len(before)-1]) {
			distinct = true
			span = scan.Strip(span.Sub(0, len(before)))
			text = span.Text()
		}
	}

	idx := strings.IndexByte(text, '(')
	if idx <= 0 {
		return nil, nil, false, logicaerr.NewParsingError("MalformedHead", span, "expected a predicate call head, got: "+text)
	}
	name := text[:idx]
	if !isIdentifier(name) {
		return nil, nil, false, logicaerr.NewParsingError("MalformedHead", span, "invalid predicate name: "+name)
	}
	closeIdx := matchClose(span, idx)
	if closeIdx < 0 {
		return nil, nil, false, logicaerr.NewParsingError("MalformedHead", span, "unmatched \"(\" in head")
	}
	record, err := parseFieldList(span.Sub(idx+1, closeIdx-1), span)
	if err != nil {
		return nil, nil, false, err
	}
	for _, f := range record.Fields {
		if f.Aggregating {
			distinct = true
		}
	}
	head := ast.NewPredicateCall(name, record, span)

	rest := scan.Strip(span.Sub(closeIdx, len(text)))
	if rest.Text() == "" {
		return head, nil, distinct, nil
	}

	op, exprSpan, ok := splitAssignOp(rest)
	if !ok {
		return nil, nil, false, logicaerr.NewParsingError("MalformedHead", span, "unexpected trailing text after head: "+rest.Text())
	}
	value, err := Expression(exprSpan)
	if err != nil {
		return nil, nil, false, err
	}
	return head, &ast.ValueAssign{Op: op, Value: value}, distinct, nil
}

func splitAssignOp(rest ast.SourceSpan) (string, ast.SourceSpan, bool) {
	text := rest.Text()
	for _, op := range assignOps {
		if strings.HasPrefix(text, op) {
			return op, scan.Strip(rest.Sub(len(op), len(text))), true
		}
	}
	return "", ast.SourceSpan{}, false
}

// isSpace is a package-level redeclaration for use outside scan; see
// scan.isSpace for the canonical definition this mirrors.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
