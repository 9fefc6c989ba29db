package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
)

// infixBuiltins maps an operator predicate name (how the parser
// represents every binary operator, §4.2) to its SQL infix spelling.
// Dialect-specific overrides (integer division, ArgMax/ArgMin) are
// resolved later by dialect.Strategy, not here: this table only covers
// spellings that are universal across sqlite/psql/bigquery/duckdb.
var infixBuiltins = map[string]string{
	"||": "OR", "&&": "AND",
	"==": "=", "=": "=", "!=": "<>", "<=": "<=", ">=": ">=", "<": "<", ">": ">",
	"+": "+", "-": "-", "*": "*", "%": "%", "^": "^",
}

// prefixBuiltins maps a unary operator predicate name to its SQL
// prefix spelling.
var prefixBuiltins = map[string]string{
	"Negative": "-",
	"Not":      "NOT ",
}

// exprSQL compiles e to a scalar SQL expression, resolving variables
// through c's union-find bindings and predicate calls (value-producing
// predicates, or synthetic "_CombineN" aggregates) to correlated
// scalar sub-queries.
func exprSQL(e ast.Expression, c *ctx) (string, *logicaerr.SemanticError) {
	switch v := e.(type) {
	case nil:
		return "NULL", nil
	case *ast.Literal:
		return literalSQL(v), nil
	case *ast.Variable:
		if v.IsAnonymous() {
			return "NULL", nil
		}
		expr, ok := c.lookupVariable(v.Name)
		if !ok {
			return "", logicaerr.NewSemanticError("unbound variable \""+v.Name+"\"", v.Heritage())
		}
		return expr, nil
	case *ast.RecordSubscript:
		target, err := exprSQL(v.Target, c)
		if err != nil {
			return "", err
		}
		return target + "." + v.Field, nil
	case *ast.Record:
		var parts []string
		for _, f := range v.Fields {
			fe, err := exprSQL(f.Value, c)
			if err != nil {
				return "", err
			}
			parts = append(parts, fe+" AS "+f.Name)
		}
		return "STRUCT(" + strings.Join(parts, ", ") + ")", nil
	case *ast.ListExpr:
		var parts []string
		for _, el := range v.Elements {
			ee, err := exprSQL(el, c)
			if err != nil {
				return "", err
			}
			parts = append(parts, ee)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *ast.Implication:
		return implicationSQL(v, c)
	case *ast.Call:
		return callSQL(v, c)
	default:
		return "", logicaerr.NewSemanticError(fmt.Sprintf("translate: unhandled expression type %T", e), e.Heritage())
	}
}

func literalSQL(l *ast.Literal) string {
	switch l.Kind {
	case ast.LiteralNull:
		return "NULL"
	case ast.LiteralBool:
		if b, _ := l.Value.(bool); b {
			return "TRUE"
		}
		return "FALSE"
	case ast.LiteralInt:
		n, _ := l.Value.(int64)
		return strconv.FormatInt(n, 10)
	case ast.LiteralFloat:
		f, _ := l.Value.(float64)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case ast.LiteralString:
		s, _ := l.Value.(string)
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	default:
		return "NULL"
	}
}

func implicationSQL(impl *ast.Implication, c *ctx) (string, *logicaerr.SemanticError) {
	var b strings.Builder
	b.WriteString("CASE")
	for _, branch := range impl.Branches {
		cond, err := conditionSQL(branch.Condition, c)
		if err != nil {
			return "", err
		}
		then, err := exprSQL(branch.Then, c)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHEN ")
		b.WriteString(cond)
		b.WriteString(" THEN ")
		b.WriteString(then)
	}
	elseExpr, err := exprSQL(impl.Else, c)
	if err != nil {
		return "", err
	}
	b.WriteString(" ELSE ")
	b.WriteString(elseExpr)
	b.WriteString(" END")
	return b.String(), nil
}

func callSQL(call *ast.Call, c *ctx) (string, *logicaerr.SemanticError) {
	args, err := callArgsSQL(call, c)
	if err != nil {
		return "", err
	}
	if op, ok := infixBuiltins[call.PredicateName]; ok && len(args) == 2 {
		return "(" + args[0] + " " + op + " " + args[1] + ")", nil
	}
	if op, ok := prefixBuiltins[call.PredicateName]; ok && len(args) == 1 {
		return "(" + op + args[0] + ")", nil
	}
	if call.PredicateName == "/" && len(args) == 2 {
		// Division's SQL spelling is dialect-dependent (integer
		// truncation vs. float division, §4.5); emit a marker that
		// dialect/sql.Write resolves via Strategy.IntDiv.
		return "__logica_div__(" + args[0] + ", " + args[1] + ")", nil
	}

	if c.u.Known(call.PredicateName) {
		return correlatedScalarSubquery(call, c)
	}
	// Unknown name: assume a dialect-native function (e.g. "ToString",
	// "Array"). At Write time dialect.Strategy.Builtin rewrites the names
	// in dialect/sql's namedBuiltins list; any other name stays as written.
	return call.PredicateName + "(" + strings.Join(args, ", ") + ")", nil
}

func callArgsSQL(call *ast.Call, c *ctx) ([]string, *logicaerr.SemanticError) {
	if call.Record == nil {
		return nil, nil
	}
	args := make([]string, len(call.Record.Fields))
	for i, f := range call.Record.Fields {
		e, err := exprSQL(f.Value, c)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return args, nil
}

// correlatedScalarSubquery compiles a value-producing predicate call
// (or a synthetic "_CombineN" aggregate call, produced by
// rewrite.AggregationAsExpression) into "(SELECT logica_value FROM
// callee WHERE callee.param = <correlated arg>, ...)".
func correlatedScalarSubquery(call *ast.Call, c *ctx) (string, *logicaerr.SemanticError) {
	alias := c.newAlias()
	source := call.PredicateName
	if c.u.IsGrounded(call.PredicateName) {
		if src, ok := c.u.GroundSource(call.PredicateName); ok {
			source = src
		}
	}
	var where []string
	if call.Record != nil {
		for _, f := range call.Record.Fields {
			argExpr, err := exprSQL(f.Value, c)
			if err != nil {
				return "", err
			}
			where = append(where, fmt.Sprintf("%s.%s = %s", alias, f.Name, argExpr))
		}
	}
	q := fmt.Sprintf("(SELECT %s.logica_value FROM %s %s", alias, source, alias)
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += ")"
	return q, nil
}
