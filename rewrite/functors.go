package rewrite

import (
	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
)

// ExpandFunctors instantiates every functor application (synthesized
// as @Make(NewName, Template, {Slot: Value, ...}) by the statement
// parser) by cloning Template's rules with slot predicate names
// substituted throughout head and body (§4.3). Expansion is applied in
// rounds to a fixpoint, so a functor body that itself calls another
// not-yet-expanded functor is still resolved; a round that expands
// nothing while applications remain pending means a cyclic or
// never-defined template, which is an error.
func ExpandFunctors(rules []*ast.Rule, applications []*ast.FunctorApplication) ([]*ast.Rule, error) {
	byHead := map[string][]*ast.Rule{}
	var order []string
	for _, r := range rules {
		if r.Head.Name == "@Make" {
			// Each @Make fact mirrors one entry of applications, which
			// is what gets expanded; the fact itself is dropped here.
			continue
		}
		if _, ok := byHead[r.Head.Name]; !ok {
			order = append(order, r.Head.Name)
		}
		byHead[r.Head.Name] = append(byHead[r.Head.Name], r)
	}

	pending := append([]*ast.FunctorApplication{}, applications...)
	const maxRounds = 1000
	for round := 0; len(pending) > 0; round++ {
		if round >= maxRounds {
			return nil, logicaerr.NewSemanticError("functor expansion did not reach a fixpoint (cyclic @Make?)", pending[0].Heritage())
		}
		var next []*ast.FunctorApplication
		progressed := false
		for _, app := range pending {
			templateRules, ok := byHead[app.Template]
			if !ok {
				next = append(next, app)
				continue
			}
			progressed = true
			rename := slotRename(app)
			for _, tr := range templateRules {
				cloned := ast.CloneRule(tr, rename)
				if _, ok := byHead[cloned.Head.Name]; !ok {
					order = append(order, cloned.Head.Name)
				}
				byHead[cloned.Head.Name] = append(byHead[cloned.Head.Name], cloned)
			}
		}
		if !progressed {
			return nil, logicaerr.NewSemanticError("functor template never defined for @Make", pending[0].Heritage())
		}
		pending = next
	}

	out := make([]*ast.Rule, 0, len(rules))
	for _, name := range order {
		out = append(out, byHead[name]...)
	}
	return out, nil
}

// slotRename maps app.Template to app.NewName, and every slot name to
// the predicate name it was bound to in the @Make application.
func slotRename(app *ast.FunctorApplication) ast.RenameFunc {
	slots := map[string]string{}
	for _, f := range app.Slots {
		switch v := f.Value.(type) {
		case *ast.Call:
			slots[f.Name] = v.PredicateName
		case *ast.Variable:
			slots[f.Name] = v.Name
		}
	}
	return func(name string) string {
		if name == app.Template {
			return app.NewName
		}
		if repl, ok := slots[name]; ok {
			return repl
		}
		return name
	}
}
