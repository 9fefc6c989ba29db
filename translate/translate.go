package translate

import (
	"fmt"
	"strconv"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
)

// Column is one projected output column of a translated rule.
type Column struct {
	Name        string
	Expr        string
	Aggregating bool
	AggOp       string // "" for a plain projection; else "+=", "++=", "Max=", "Min=", "ArgMax=", "ArgMin="
	ArgKeyExpr  string // for ArgMax=/ArgMin=: the expression to order by
}

// TableRef is one FROM-clause entry: a reference to another
// predicate's CTE, or to an @Ground external table.
type TableRef struct {
	Alias  string
	Source string // CTE name, or "schema.table" for a grounded predicate
}

// Translated is the lowered form of one conjunctive rule (an
// aggregating head adds GroupBy): everything dialect/sql.Write needs to
// emit it as one SELECT.
type Translated struct {
	Head     string
	Distinct bool
	Columns  []Column
	Tables   []TableRef
	Where    []string
	GroupBy  []string
}

// ctx threads the variable->SQL-expression bindings (the union-find
// canonical representative's table.column reference) and the
// enclosing universe through the recursive expression/condition
// compilers in expr.go and cond.go.
type ctx struct {
	u          Universe
	uf         *unionFind
	varExpr    map[string]string // canonical variable name -> SQL expression
	equalities []string          // "a = b" fragments from repeated-variable unification
	alias      int
}

func (c *ctx) newAlias() string {
	c.alias++
	return "t" + strconv.Itoa(c.alias)
}

// Rule lowers r into its Translated form (§4.5). r's Body must already
// be a flat conjunction of predicate calls, unifications, inclusions,
// and negations: DNF has already split any disjunction into sibling
// rules, and aggregation-as-expression has already extracted every
// Combine into its own predicate.
func Rule(r *ast.Rule, u Universe) (*Translated, *logicaerr.SemanticError) {
	c := &ctx{u: u, uf: newUnionFind(), varExpr: map[string]string{}}
	t := &Translated{Head: r.Head.Name, Distinct: r.Distinct}

	var conditions []ast.Proposition
	for _, atom := range flattenConjunction(r.Body) {
		if call, ok := atom.(*ast.PredicateCall); ok {
			if err := c.bindCall(t, call); err != nil {
				return nil, err
			}
			continue
		}
		conditions = append(conditions, atom)
	}
	t.Where = append(t.Where, c.equalities...)

	for _, cond := range conditions {
		frag, err := conditionSQL(cond, c)
		if err != nil {
			return nil, err
		}
		t.Where = append(t.Where, frag)
	}

	if err := c.projectHead(t, r); err != nil {
		return nil, err
	}
	return t, nil
}

// flattenConjunction returns body's top-level conjuncts (a bare atom
// becomes a single-element slice); DNF guarantees body is never itself
// a Disjunction by the time translate sees it.
func flattenConjunction(body ast.Proposition) []ast.Proposition {
	switch b := body.(type) {
	case nil:
		return nil
	case *ast.Conjunction:
		return b.Elements
	default:
		return []ast.Proposition{b}
	}
}

// bindCall assigns a fresh table alias to a predicate-call atom, and
// records every named argument's SQL column reference against its
// variable (unifying it with any prior occurrence of the same name).
// An injectable callee (§4.4) never gets a table alias of its own: its
// single rule is structurally spliced into the caller instead.
func (c *ctx) bindCall(t *Translated, call *ast.PredicateCall) *logicaerr.SemanticError {
	if !c.u.Known(call.Name) {
		return logicaerr.NewSemanticError("call to unknown predicate \""+call.Name+"\"", call.Heritage())
	}
	if c.u.Injectable(call.Name) {
		return c.inlineCall(t, call)
	}

	alias := c.newAlias()
	ref := TableRef{Alias: alias}
	if c.u.IsGrounded(call.Name) {
		src, _ := c.u.GroundSource(call.Name)
		ref.Source = src
	} else {
		ref.Source = call.Name
	}
	t.Tables = append(t.Tables, ref)

	if call.Record == nil {
		return nil
	}
	for _, f := range call.Record.Fields {
		colExpr := fmt.Sprintf("%s.%s", alias, f.Name)
		if v, ok := f.Value.(*ast.Variable); ok && !v.IsAnonymous() {
			c.bindVariable(v.Name, colExpr)
			continue
		}
		expr, err := exprSQL(f.Value, c)
		if err != nil {
			return err
		}
		t.Where = append(t.Where, fmt.Sprintf("%s = %s", colExpr, expr))
	}
	return nil
}

// inlineCall splices an injectable callee's single rule directly into
// t: its variables are alpha-renamed with a fresh per-call-site tag so
// they cannot collide with the caller's own names, its body conjuncts
// are bound exactly as if they had appeared in the caller's body, and
// its (renamed) head fields are unified against the caller's argument
// expressions.
func (c *ctx) inlineCall(t *Translated, call *ast.PredicateCall) *logicaerr.SemanticError {
	head, body, ok := c.u.InlineBody(call.Name)
	if !ok {
		return logicaerr.NewSemanticError("predicate \""+call.Name+"\" is not injectable", call.Heritage())
	}
	tag := c.newAlias() + "$"
	renamed := renameBody(body, tag)

	for _, atom := range flattenConjunction(renamed) {
		if inner, ok := atom.(*ast.PredicateCall); ok {
			if err := c.bindCall(t, inner); err != nil {
				return err
			}
			continue
		}
		frag, err := conditionSQL(atom, c)
		if err != nil {
			return err
		}
		t.Where = append(t.Where, frag)
	}

	if call.Record == nil || head == nil {
		return nil
	}
	for _, f := range call.Record.Fields {
		headField, ok := head.FieldByName(f.Name)
		if !ok {
			continue
		}
		if hv, isVar := headField.Value.(*ast.Variable); isVar && hv.IsAnonymous() {
			continue
		}
		calleeExpr, err := exprSQL(renameExpr(headField.Value, tag), c)
		if err != nil {
			return err
		}
		if v, ok := f.Value.(*ast.Variable); ok && !v.IsAnonymous() {
			c.bindVariable(v.Name, calleeExpr)
			continue
		}
		argExpr, err := exprSQL(f.Value, c)
		if err != nil {
			return err
		}
		t.Where = append(t.Where, calleeExpr+" = "+argExpr)
	}
	return nil
}

// bindVariable records name's first occurrence as its canonical SQL
// expression; a later occurrence instead records an equality
// constraint against the first occurrence, realizing the union-find's
// equivalence class as a WHERE fragment.
func (c *ctx) bindVariable(name, expr string) {
	canon := c.uf.find(name)
	if existing, ok := c.varExpr[canon]; ok {
		c.equalities = append(c.equalities, existing+" = "+expr)
		return
	}
	c.varExpr[canon] = expr
}

// lookupVariable returns the SQL expression bound to a variable by an
// earlier bindCall, used when the variable is referenced again in an
// expression position (a field value, a condition).
func (c *ctx) lookupVariable(name string) (string, bool) {
	canon := c.uf.find(name)
	expr, ok := c.varExpr[canon]
	return expr, ok
}

// projectHead builds t.Columns (and t.GroupBy, for a non-aggregating
// field of an aggregating head) from r.Head's record and r.ValueAssign.
func (c *ctx) projectHead(t *Translated, r *ast.Rule) *logicaerr.SemanticError {
	if r.Head.Record != nil {
		headAggregates := r.ValueAssign != nil && r.ValueAssign.IsAggregating()
		if !headAggregates {
			for _, f := range r.Head.Record.Fields {
				if f.Aggregating {
					headAggregates = true
					break
				}
			}
		}
		for _, f := range r.Head.Record.Fields {
			expr, err := exprSQL(f.Value, c)
			if err != nil {
				return err
			}
			col := Column{Name: f.Name, Expr: expr}
			if f.Aggregating {
				col.Aggregating = true
				col.AggOp = f.AggOp
				if f.AggOp == "ArgMax=" || f.AggOp == "ArgMin=" {
					col.ArgKeyExpr = expr
				}
			} else if headAggregates {
				t.GroupBy = append(t.GroupBy, expr)
			}
			t.Columns = append(t.Columns, col)
		}
	}
	if r.ValueAssign != nil {
		expr, err := exprSQL(r.ValueAssign.Value, c)
		if err != nil {
			return err
		}
		col := Column{Name: "logica_value", Expr: expr}
		if r.ValueAssign.IsAggregating() {
			col.Aggregating = true
			col.AggOp = r.ValueAssign.Op
			if col.AggOp == "ArgMax=" || col.AggOp == "ArgMin=" {
				col.ArgKeyExpr = expr
			}
		}
		t.Columns = append(t.Columns, col)
	}
	return nil
}
