package sql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/logica-lang/logica/dialect"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/translate"
)

// namedBuiltins lists the dialect-dependent built-in functions §9(b)
// calls out by name. callSQL (translate package) renders a call to any
// of these under its Logica spelling; applyBuiltins resolves the
// spelling to strategy's native name, or fails with a DialectError if
// the dialect has no mapping for it.
var namedBuiltins = []string{"ArrayToString", "Size", "Element", "RecordAsJson"}

var builtinPattern = func() *regexp.Regexp {
	return regexp.MustCompile(`\b(` + strings.Join(namedBuiltins, "|") + `)\(`)
}()

// applyBuiltins rewrites every namedBuiltins call in query to
// strategy's native spelling, then resolves every "__logica_div__(a,
// b)" marker (emitted by translate/expr.go for "/") to strategy's
// IntDiv rendering of the already-compiled operands.
func applyBuiltins(query string, strategy dialect.Strategy) (string, error) {
	var outerErr error
	result := builtinPattern.ReplaceAllStringFunc(query, func(match string) string {
		if outerErr != nil {
			return match
		}
		name := match[:len(match)-1]
		native, ok := strategy.Builtin(name)
		if !ok {
			outerErr = logicaerr.NewDialectError(strategy.Name(), name, "no native mapping for built-in "+name)
			return match
		}
		return native + "("
	})
	if outerErr != nil {
		return "", outerErr
	}
	return resolveIntDiv(result, strategy)
}

const divMarker = "__logica_div__("

// resolveIntDiv finds every divMarker call in query, splits its two
// balanced-paren arguments on the top-level comma, and replaces the
// whole call with strategy.IntDiv(left, right).
func resolveIntDiv(query string, strategy dialect.Strategy) (string, error) {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(query[i:], divMarker)
		if idx < 0 {
			b.WriteString(query[i:])
			break
		}
		start := i + idx
		b.WriteString(query[i:start])
		argsStart := start + len(divMarker)
		left, right, end, ok := splitDivArgs(query, argsStart)
		if !ok {
			return "", fmt.Errorf("dialect/sql: malformed %s marker", divMarker)
		}
		b.WriteString(strategy.IntDiv(left, right))
		i = end
	}
	return b.String(), nil
}

// splitDivArgs scans query starting at the first argument of a
// divMarker call, returning the two comma-separated operands (split at
// paren depth 0) and the index just past the call's closing paren.
func splitDivArgs(query string, start int) (left, right string, end int, ok bool) {
	depth := 0
	commaAt := -1
	for i := start; i < len(query); i++ {
		switch query[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				if commaAt < 0 {
					return "", "", 0, false
				}
				return strings.TrimSpace(query[start:commaAt]),
					strings.TrimSpace(query[commaAt+1 : i]),
					i + 1, true
			}
			depth--
		case ',':
			if depth == 0 && commaAt < 0 {
				commaAt = i
			}
		}
	}
	return "", "", 0, false
}

// Write linearizes ts — one or more lowered rule-disjuncts per head
// predicate, already in dependency order (universe.Universe.Compile's
// slice/SCC ordering) — into a single "WITH ... SELECT" query: every
// head other than the last becomes a CTE, its disjuncts combined by
// UNION (Datalog's set semantics: duplicate derivations collapse);
// strategy.Name's conventions drive identifier quoting, booleans,
// ArgMax=/ArgMin=, and built-in spellings throughout.
func Write(ts []*translate.Translated, strategy dialect.Strategy) (string, error) {
	if len(ts) == 0 {
		return "", fmt.Errorf("dialect/sql: nothing to compile")
	}
	order, byHead := groupByHead(ts)

	var ctes []string
	for _, head := range order[:len(order)-1] {
		body, err := renderCTEBody(byHead[head], strategy)
		if err != nil {
			return "", fmt.Errorf("dialect/sql: rendering %q: %w", head, err)
		}
		ctes = append(ctes, fmt.Sprintf("%s AS (\n%s\n)", strategy.QuoteIdent(head), indent(body)))
	}

	final := order[len(order)-1]
	finalBody, err := renderCTEBody(byHead[final], strategy)
	if err != nil {
		return "", fmt.Errorf("dialect/sql: rendering %q: %w", final, err)
	}

	var b strings.Builder
	if len(ctes) > 0 {
		if strategy.SupportsRecursiveCTE() {
			b.WriteString("WITH RECURSIVE ")
		} else {
			b.WriteString("WITH ")
		}
		b.WriteString(strings.Join(ctes, ",\n"))
		b.WriteString("\n")
	}
	b.WriteString(finalBody)
	return applyBuiltins(b.String(), strategy)
}

// ApplyOrderLimit appends a final predicate's @OrderBy/@Limit clauses
// (§4.4 step 6) to query, the string returned by Write.
func ApplyOrderLimit(query string, orderBy []string, limit int, hasLimit bool, strategy dialect.Strategy) string {
	var b strings.Builder
	b.WriteString(query)
	if len(orderBy) > 0 {
		quoted := make([]string, len(orderBy))
		for i, c := range orderBy {
			quoted[i] = strategy.QuoteIdent(c)
		}
		b.WriteString("\nORDER BY ")
		b.WriteString(strings.Join(quoted, ", "))
	}
	if hasLimit {
		if lo := strategy.LimitOffset(limit, -1); lo != "" {
			b.WriteString("\n")
			b.WriteString(lo)
		}
	}
	return b.String()
}

func groupByHead(ts []*translate.Translated) ([]string, map[string][]*translate.Translated) {
	var order []string
	seen := map[string]bool{}
	byHead := map[string][]*translate.Translated{}
	for _, t := range ts {
		if !seen[t.Head] {
			seen[t.Head] = true
			order = append(order, t.Head)
		}
		byHead[t.Head] = append(byHead[t.Head], t)
	}
	return order, byHead
}

func renderCTEBody(disjuncts []*translate.Translated, strategy dialect.Strategy) (string, error) {
	parts := make([]string, len(disjuncts))
	for i, t := range disjuncts {
		s, err := renderSelect(t, strategy)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, "\nUNION\n"), nil
}

func renderSelect(t *translate.Translated, strategy dialect.Strategy) (string, error) {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		expr := c.Expr
		if c.Aggregating {
			expr = renderAggregate(c, strategy)
		}
		cols = append(cols, fmt.Sprintf("%s AS %s", expr, strategy.QuoteIdent(c.Name)))
	}
	if len(cols) == 0 {
		cols = []string{"1 AS " + strategy.QuoteIdent("logica_value")}
	}

	from := make([]string, 0, len(t.Tables))
	for _, tbl := range t.Tables {
		from = append(from, fmt.Sprintf("%s %s", quoteSource(tbl.Source, strategy), tbl.Alias))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if t.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(cols, ", "))
	if len(from) > 0 {
		b.WriteString("\nFROM ")
		b.WriteString(strings.Join(from, ", "))
	}
	if len(t.Where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(t.Where, " AND "))
	}
	if len(t.GroupBy) > 0 {
		b.WriteString("\nGROUP BY ")
		b.WriteString(strings.Join(t.GroupBy, ", "))
	}
	return b.String(), nil
}

func renderAggregate(c translate.Column, strategy dialect.Strategy) string {
	switch c.AggOp {
	case "+=":
		return "SUM(" + c.Expr + ")"
	case "++=":
		return "ARRAY_AGG(" + c.Expr + ")"
	case "Max=":
		return "MAX(" + c.Expr + ")"
	case "Min=":
		return "MIN(" + c.Expr + ")"
	case "ArgMax=":
		return strategy.ArgAggregate(true, c.Expr, c.ArgKeyExpr)
	case "ArgMin=":
		return strategy.ArgAggregate(false, c.Expr, c.ArgKeyExpr)
	default:
		return c.Expr
	}
}

// quoteSource quotes source as a dotted identifier path: a CTE name is
// unqualified ("P" -> one part); a grounded table's "schema.table"
// reference quotes each part separately.
func quoteSource(source string, strategy dialect.Strategy) string {
	parts := strings.Split(source, ".")
	for i, p := range parts {
		parts[i] = strategy.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
