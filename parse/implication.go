package parse

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/scan"
)

// tryParseImplication recognizes "if c1 then e1 else if c2 then e2 ...
// else eN" (§4.2), flattening the "else if" chain into a single
// Implication's Branches rather than nesting one Implication inside
// another's Else.
func tryParseImplication(span ast.SourceSpan) (ast.Expression, bool, error) {
	stripped := scan.Strip(span)
	text := stripped.Text()
	if !strings.HasPrefix(text, "if") {
		return nil, false, nil
	}
	if len(text) > 2 && isIdentByte(text[2]) {
		return nil, false, nil
	}
	branches, elseExpr, err := parseIfChain(stripped)
	if err != nil {
		return nil, true, err
	}
	return ast.NewImplication(branches, elseExpr, span), true, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func parseIfChain(span ast.SourceSpan) ([]ast.IfBranch, ast.Expression, error) {
	stripped := scan.Strip(span)
	text := stripped.Text()
	if !strings.HasPrefix(text, "if") || (len(text) > 2 && isIdentByte(text[2])) {
		expr, err := Expression(stripped)
		return nil, expr, err
	}

	afterIf := stripped.Sub(2, len(text))
	thenIdx := scan.FindFirstTop(afterIf, "then")
	if thenIdx < 0 {
		return nil, nil, logicaerr.NewParsingError("MalformedIf", span, "\"if\" without a matching \"then\"")
	}
	condSpan := afterIf.Sub(0, thenIdx)
	afterThen := afterIf.Sub(thenIdx+4, len(afterIf.Text()))

	elseIdx := scan.FindFirstTop(afterThen, "else")
	if elseIdx < 0 {
		return nil, nil, logicaerr.NewParsingError("MalformedIf", span, "\"if\"/\"then\" without a matching \"else\"")
	}
	thenSpan := afterThen.Sub(0, elseIdx)
	restSpan := afterThen.Sub(elseIdx+4, len(afterThen.Text()))

	cond, err := Proposition(condSpan)
	if err != nil {
		return nil, nil, err
	}
	thenExpr, err := Expression(thenSpan)
	if err != nil {
		return nil, nil, err
	}

	moreBranches, elseExpr, err := parseIfChain(restSpan)
	if err != nil {
		return nil, nil, err
	}
	branch := ast.IfBranch{Condition: cond, Then: thenExpr}
	return append([]ast.IfBranch{branch}, moreBranches...), elseExpr, nil
}
