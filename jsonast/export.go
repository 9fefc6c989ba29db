// Package jsonast implements the stable AST JSON export contract of
// §6: a JSON document with top-level keys "rule",
// "imported_predicates", "predicates_prefix", "file_name", used by
// external tooling (editors, language-server surfaces) and by the C
// ABI shim in cabi/. Every object is built as a plain map and
// marshaled with encoding/json, which sorts map keys lexicographically
// by construction — the determinism §6 requires falls out of that
// property rather than any explicit sort call here.
package jsonast

import (
	"encoding/json"

	"github.com/logica-lang/logica/ast"
)

// Document is one file's exported AST: every rule it defines, the
// predicates it imports (dotted path -> local name), its own
// predicate-name prefix, and its file name (§6).
type Document struct {
	FileName           string
	PredicatesPrefix   string
	ImportedPredicates map[string]string
	Rules              []*ast.Rule
}

// Marshal renders d as the §6 JSON contract.
func Marshal(d *Document) ([]byte, error) {
	top := map[string]any{
		"file_name":           d.FileName,
		"predicates_prefix":   d.PredicatesPrefix,
		"imported_predicates": d.ImportedPredicates,
		"rule":                rulesJSON(d.Rules),
	}
	return json.MarshalIndent(top, "", "  ")
}

func rulesJSON(rules []*ast.Rule) []map[string]any {
	out := make([]map[string]any, len(rules))
	for i, r := range rules {
		out[i] = ruleJSON(r)
	}
	return out
}

func ruleJSON(r *ast.Rule) map[string]any {
	m := map[string]any{
		"head":      callJSON(r.Head),
		"full_text": heritageJSON(r.FullText),
	}
	if r.Body != nil {
		m["body"] = propositionJSON(r.Body)
	}
	if r.ValueAssign != nil {
		m["value_assign"] = map[string]any{
			"op":    r.ValueAssign.Op,
			"value": exprJSON(r.ValueAssign.Value),
		}
	}
	if r.Distinct {
		m["distinct_denoted"] = true
	}
	if len(r.Denotations) > 0 {
		dens := make([]map[string]any, len(r.Denotations))
		for i, d := range r.Denotations {
			args := make([]map[string]any, len(d.Args))
			for j, a := range d.Args {
				args[j] = exprJSON(a)
			}
			dens[i] = map[string]any{"kind": string(d.Kind), "args": args}
		}
		m["denotation"] = dens
	}
	return m
}

func callJSON(pc *ast.PredicateCall) map[string]any {
	return map[string]any{
		"predicate_name":     pc.Name,
		"record":             recordJSON(pc.Record),
		"expression_heritage": pc.Heritage().Text(),
	}
}

func recordJSON(rec *ast.Record) map[string]any {
	if rec == nil {
		return map[string]any{"field_value": []any{}}
	}
	fv := make([]map[string]any, len(rec.Fields))
	for i, f := range rec.Fields {
		entry := map[string]any{"field": f.Name}
		if f.IsRest {
			entry["rest_of"] = true
		} else if f.Aggregating {
			entry["aggregating"] = true
			entry["agg_op"] = f.AggOp
			entry["value"] = exprJSON(f.Value)
		} else {
			entry["value"] = exprJSON(f.Value)
		}
		fv[i] = entry
	}
	return map[string]any{"field_value": fv}
}

// exprJSON renders any Expression as a tagged {"kind": ..., ...} object
// carrying its expression_heritage (§6); the tagged-variant AST (§9) is
// the single source of truth, so this is the only place that flattens
// it back to string-keyed JSON.
func exprJSON(e ast.Expression) map[string]any {
	if e == nil {
		return nil
	}
	base := map[string]any{"expression_heritage": e.Heritage().Text()}
	switch v := e.(type) {
	case *ast.Literal:
		base["kind"] = "literal"
		base["value"] = v.Value
	case *ast.Variable:
		base["kind"] = "variable"
		base["name"] = v.Name
	case *ast.Record:
		base["kind"] = "record"
		base["record"] = recordJSON(v)
	case *ast.ListExpr:
		base["kind"] = "list"
		els := make([]map[string]any, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = exprJSON(el)
		}
		base["elements"] = els
	case *ast.Call:
		base["kind"] = "call"
		base["predicate_name"] = v.PredicateName
		base["record"] = recordJSON(v.Record)
	case *ast.RecordSubscript:
		base["kind"] = "record_subscript"
		base["target"] = exprJSON(v.Target)
		base["field"] = v.Field
	case *ast.Combine:
		base["kind"] = "combine"
		base["operator"] = v.Operator
		base["distinct"] = v.Distinct
		base["value"] = exprJSON(v.Value)
		base["body"] = propositionJSON(v.Body)
	case *ast.Implication:
		base["kind"] = "implication"
		branches := make([]map[string]any, len(v.Branches))
		for i, br := range v.Branches {
			branches[i] = map[string]any{
				"condition": propositionJSON(br.Condition),
				"then":      exprJSON(br.Then),
			}
		}
		base["branches"] = branches
		base["else"] = exprJSON(v.Else)
	default:
		base["kind"] = "unknown"
	}
	return base
}

func propositionJSON(p ast.Proposition) map[string]any {
	if p == nil {
		return nil
	}
	base := map[string]any{"expression_heritage": p.Heritage().Text()}
	switch v := p.(type) {
	case *ast.Conjunction:
		base["kind"] = "conjunction"
		base["elements"] = propositionsJSON(v.Elements)
	case *ast.Disjunction:
		base["kind"] = "disjunction"
		base["elements"] = propositionsJSON(v.Elements)
	case *ast.PredicateCall:
		base["kind"] = "predicate_call"
		base["predicate_name"] = v.Name
		base["record"] = recordJSON(v.Record)
	case *ast.Unification:
		base["kind"] = "unification"
		base["negated"] = v.Negated
		base["left"] = exprJSON(v.Left)
		base["right"] = exprJSON(v.Right)
	case *ast.Inclusion:
		base["kind"] = "inclusion"
		base["element"] = exprJSON(v.Element)
		base["list"] = exprJSON(v.List)
	case *ast.Negation:
		base["kind"] = "negation"
		base["inner"] = propositionJSON(v.Inner)
	default:
		base["kind"] = "unknown"
	}
	return base
}

func propositionsJSON(ps []ast.Proposition) []map[string]any {
	out := make([]map[string]any, len(ps))
	for i, p := range ps {
		out[i] = propositionJSON(p)
	}
	return out
}

func heritageJSON(span ast.SourceSpan) string {
	return span.Text()
}
