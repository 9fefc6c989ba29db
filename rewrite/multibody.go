package rewrite

import (
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
)

// MultiBodyAggregation merges every group of aggregating rules sharing
// a head predicate name into an auxiliary per-row predicate plus a
// single synthesized aggregating rule over it (§4.3). A signature
// mismatch (different aggregating field names/operators) across a
// group's rules is a hard error.
func MultiBodyAggregation(rules []*ast.Rule) ([]*ast.Rule, error) {
	var order []string
	groups := map[string][]*ast.Rule{}
	var out []*ast.Rule

	for _, r := range rules {
		if r.ValueAssign == nil || !r.ValueAssign.IsAggregating() {
			out = append(out, r)
			continue
		}
		if _, seen := groups[r.Head.Name]; !seen {
			order = append(order, r.Head.Name)
		}
		groups[r.Head.Name] = append(groups[r.Head.Name], r)
	}

	for _, name := range order {
		group := groups[name]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		sig := aggSignature(group[0])
		for _, r := range group[1:] {
			if aggSignature(r) != sig {
				return nil, logicaerr.NewSemanticError(
					"multi-body aggregation of \""+name+"\": rules disagree on aggregating field signature", r.FullText)
			}
		}
		merged, err := mergeAggregationGroup(name, group)
		if err != nil {
			return nil, err
		}
		out = append(out, merged...)
	}
	return out, nil
}

func aggSignature(r *ast.Rule) string {
	var b strings.Builder
	for _, f := range r.Head.Record.Fields {
		if f.Aggregating {
			b.WriteString(f.Name)
			b.WriteByte(':')
			b.WriteString(f.AggOp)
			b.WriteByte(';')
		}
	}
	b.WriteByte('|')
	b.WriteString(r.ValueAssign.Op)
	return b.String()
}

// auxValueField is the aux predicate's extra column carrying each
// group member's own ValueAssign.Value, so the synthesized rule
// re-aggregates over what each rule actually contributed instead of
// reusing one arbitrary rule's literal expression.
const auxValueField = "logica_value"

func mergeAggregationGroup(name string, group []*ast.Rule) ([]*ast.Rule, error) {
	auxName := name + "_MultBodyAggAux"
	template := group[0]

	out := make([]*ast.Rule, 0, len(group)+1)
	for _, r := range group {
		fields := make([]ast.Field, len(r.Head.Record.Fields), len(r.Head.Record.Fields)+1)
		for i, f := range r.Head.Record.Fields {
			f.Aggregating = false
			f.AggOp = ""
			fields[i] = f
		}
		fields = append(fields, ast.Field{Name: auxValueField, Value: r.ValueAssign.Value})
		auxHead := ast.NewPredicateCall(auxName, ast.NewRecord(fields, r.FullText), r.FullText)
		out = append(out, &ast.Rule{Head: auxHead, Body: r.Body, FullText: r.FullText})
	}

	callFields := make([]ast.Field, len(template.Head.Record.Fields), len(template.Head.Record.Fields)+1)
	headFields := make([]ast.Field, len(template.Head.Record.Fields))
	for i, f := range template.Head.Record.Fields {
		v := ast.NewVariable(f.Name, template.FullText)
		callFields[i] = ast.Field{Name: f.Name, Value: v, Positional: f.Positional}
		headFields[i] = ast.Field{Name: f.Name, Value: v, Positional: f.Positional, Aggregating: f.Aggregating, AggOp: f.AggOp}
	}
	valueVar := ast.NewVariable(auxValueField, template.FullText)
	callFields = append(callFields, ast.Field{Name: auxValueField, Value: valueVar})
	auxCall := ast.NewPredicateCall(auxName, ast.NewRecord(callFields, template.FullText), template.FullText)
	aggHead := ast.NewPredicateCall(name, ast.NewRecord(headFields, template.FullText), template.FullText)

	out = append(out, &ast.Rule{
		Head:        aggHead,
		ValueAssign: &ast.ValueAssign{Op: template.ValueAssign.Op, Value: valueVar},
		Distinct:    true,
		Body:        auxCall,
		FullText:    template.FullText,
	})
	return out, nil
}
