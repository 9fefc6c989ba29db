package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/logica-lang/logica/ast"
)

var (
	// identifierRe also accepts a leading "@", the sigil for annotation
	// predicates (@Engine, @Ground, @Make, ...).
	identifierRe = regexp.MustCompile(`^@?[A-Za-z_][A-Za-z0-9_]*$`)
	numberRe     = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

// IsVariableName reports whether name obeys the variable naming
// invariant (§3): lowercase-initial or "_"-prefixed, and never using
// the reserved "x_" prefix used internally by rewrite passes.
func IsVariableName(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, "x_") {
		return false
	}
	if name[0] == '_' {
		return true
	}
	r := name[0]
	return r >= 'a' && r <= 'z'
}

// IsPredicateName reports whether name obeys the predicate naming
// invariant (§3): capitalized initial.
func IsPredicateName(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func isIdentifier(s string) bool { return identifierRe.MatchString(s) }

// parseLiteral recognizes a literal token: number, quoted string,
// true/false, nil. Returns ok=false if span is not a literal.
func parseLiteral(span ast.SourceSpan) (*ast.Literal, bool) {
	text := span.Text()
	switch text {
	case "true":
		return ast.NewLiteral(ast.LiteralBool, true, span), true
	case "false":
		return ast.NewLiteral(ast.LiteralBool, false, span), true
	case "nil", "null":
		return ast.NewLiteral(ast.LiteralNull, nil, span), true
	}
	if len(text) >= 6 && (strings.HasPrefix(text, `"""`) && strings.HasSuffix(text, `"""`) ||
		strings.HasPrefix(text, "'''") && strings.HasSuffix(text, "'''")) {
		unquoted := unescapeString(text[3 : len(text)-3])
		return ast.NewLiteral(ast.LiteralString, unquoted, span), true
	}
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		unquoted := unescapeString(text[1 : len(text)-1])
		return ast.NewLiteral(ast.LiteralString, unquoted, span), true
	}
	if numberRe.MatchString(text) {
		if strings.Contains(text, ".") {
			f, err := strconv.ParseFloat(text, 64)
			if err == nil {
				return ast.NewLiteral(ast.LiteralFloat, f, span), true
			}
		} else {
			n, err := strconv.ParseInt(text, 10, 64)
			if err == nil {
				return ast.NewLiteral(ast.LiteralInt, n, span), true
			}
		}
	}
	return nil, false
}

func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
