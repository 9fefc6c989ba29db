package universe

import "github.com/logica-lang/logica/ast"

// classifyRecursion computes, for every ClassDefined predicate, whether
// it participates in a cycle of its transitive body-dependency graph
// (§4.4's recursive? rule), via a straightforward reachability test:
// predicate P is recursive iff P is reachable from itself through one
// or more dependency edges.
func (u *Universe) classifyRecursion() {
	deps := map[string]map[string]bool{}
	for name, p := range u.predicates {
		if p.class != ClassDefined {
			continue
		}
		set := map[string]bool{}
		for _, r := range p.rules {
			collectRuleDeps(r, set)
		}
		deps[name] = set
	}
	for name, p := range u.predicates {
		if p.class != ClassDefined {
			continue
		}
		if reaches(deps, name, name, map[string]bool{}) {
			p.recursive = true
		}
	}
}

func reaches(deps map[string]map[string]bool, from, target string, visited map[string]bool) bool {
	if visited[from] {
		return false
	}
	visited[from] = true
	for callee := range deps[from] {
		if callee == target {
			return true
		}
		if reaches(deps, callee, target, visited) {
			return true
		}
	}
	return false
}

// collectRuleDeps gathers every predicate name r's body and value
// assignment reference, via either a proposition-position PredicateCall
// (row membership test) or an expression-position Call (a value-
// producing predicate or a synthesized _CombineN).
func collectRuleDeps(r *ast.Rule, into map[string]bool) {
	collectPropDeps(r.Body, into)
	if r.ValueAssign != nil {
		collectExprDeps(r.ValueAssign.Value, into)
	}
}

func collectPropDeps(p ast.Proposition, into map[string]bool) {
	switch v := p.(type) {
	case nil:
	case *ast.Conjunction:
		for _, el := range v.Elements {
			collectPropDeps(el, into)
		}
	case *ast.Disjunction:
		for _, el := range v.Elements {
			collectPropDeps(el, into)
		}
	case *ast.PredicateCall:
		into[v.Name] = true
		collectExprDeps(v.Record, into)
	case *ast.Unification:
		collectExprDeps(v.Left, into)
		collectExprDeps(v.Right, into)
	case *ast.Inclusion:
		collectExprDeps(v.Element, into)
		collectExprDeps(v.List, into)
	case *ast.Negation:
		collectPropDeps(v.Inner, into)
	}
}

func collectExprDeps(e ast.Expression, into map[string]bool) {
	switch v := e.(type) {
	case nil:
	case *ast.Call:
		into[v.PredicateName] = true
		collectExprDeps(v.Record, into)
	case *ast.Record:
		for _, f := range v.Fields {
			collectExprDeps(f.Value, into)
		}
	case *ast.ListExpr:
		for _, el := range v.Elements {
			collectExprDeps(el, into)
		}
	case *ast.RecordSubscript:
		collectExprDeps(v.Target, into)
	case *ast.Combine:
		collectExprDeps(v.Value, into)
		collectPropDeps(v.Body, into)
	case *ast.Implication:
		for _, b := range v.Branches {
			collectPropDeps(b.Condition, into)
			collectExprDeps(b.Then, into)
		}
		collectExprDeps(v.Else, into)
	}
}

// slice returns every ClassDefined predicate transitively required to
// materialize name (the program slice of §4.4 step 2), in the order
// first discovered by a depth-first walk from name, plus name itself
// last (so callers can rely on dependencies preceding dependents).
func (u *Universe) slice(name string) []string {
	visited := map[string]bool{}
	var order []string
	var visit func(string)
	visit = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		p, ok := u.predicates[n]
		if !ok || p.class != ClassDefined {
			return
		}
		for _, r := range p.rules {
			deps := map[string]bool{}
			collectRuleDeps(r, deps)
			for dep := range deps {
				visit(dep)
			}
		}
		order = append(order, n)
	}
	visit(name)
	return order
}

// sccGroups groups names into strongly connected components (Tarjan),
// returned in reverse-topological order (dependencies before
// dependents), restricted to the recursion edges among ClassDefined
// predicates in the program slice.
func (u *Universe) sccGroups(names []string) [][]string {
	deps := map[string]map[string]bool{}
	in := map[string]bool{}
	for _, n := range names {
		in[n] = true
	}
	for _, n := range names {
		p := u.predicates[n]
		set := map[string]bool{}
		for _, r := range p.rules {
			collectRuleDeps(r, set)
		}
		filtered := map[string]bool{}
		for dep := range set {
			if in[dep] {
				filtered[dep] = true
			}
		}
		deps[n] = filtered
	}

	t := &tarjan{deps: deps, index: map[string]int{}, lowlink: map[string]int{}, onStack: map[string]bool{}}
	for _, n := range names {
		if _, seen := t.index[n]; !seen {
			t.strongConnect(n)
		}
	}
	return t.components
}

type tarjan struct {
	deps       map[string]map[string]bool
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	counter    int
	components [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for w := range t.deps[v] {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var component []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, component)
	}
}
