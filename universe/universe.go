package universe

import (
	"context"
	"strconv"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/catalog"
	"github.com/logica-lang/logica/logicaerr"
)

// PredicateClass is how a predicate name resolves (§4.4).
type PredicateClass int

const (
	// ClassDefined is a predicate with one or more ordinary rules.
	ClassDefined PredicateClass = iota
	// ClassGrounded is an @Ground(P, "schema.table") external table.
	ClassGrounded
	// ClassBuiltin is a built-in operator or function name (never
	// indexed; resolved directly by the translator).
	ClassBuiltin
)

// defaultRecursionDepth is N_default, the unroll depth used for a
// recursive predicate with no @Recursive(P, N) override.
const defaultRecursionDepth = 8

// predicate is everything the universe knows about one head predicate
// name after rewriting: its rules, its record signature, and the
// annotation-derived facts that drive classification and codegen.
type predicate struct {
	name       string
	class      PredicateClass
	rules      []*ast.Rule
	fieldOrder []string // union of head field names, first-seen order

	groundRef   string
	groundTable *catalog.Table

	noInject    bool // @NoInject(P) or @With(P): never inline this predicate
	recursive   bool
	unrollDepth int
	orderBy     []string
	limit       int
	hasLimit    bool
	isUDF       bool // @CompileAsUdf(P)
}

// injectable reports whether p may be structurally inlined at its call
// sites instead of emitted as its own CTE (§4.4's injectable? rule).
func (p *predicate) injectable() bool {
	if p.class != ClassDefined {
		return false
	}
	if p.noInject || p.recursive || len(p.rules) != 1 {
		return false
	}
	r := p.rules[0]
	if r.ValueAssign != nil && r.ValueAssign.IsAggregating() {
		return false
	}
	if _, ok := r.Body.(*ast.Conjunction); !ok && r.Body != nil {
		if _, isCall := r.Body.(*ast.PredicateCall); !isCall {
			return false
		}
	}
	return true
}

// Universe indexes a fully rewritten rule set by head predicate name,
// resolves its annotation rules, and is the entry point for compiling
// a predicate to SQL (§4.4).
type Universe struct {
	order      []string
	predicates map[string]*predicate
	engine     string
	typeCheck  bool
	flags      map[string]ast.Expression
	resolver   catalog.Resolver
}

// New builds a Universe from a fully rewritten rule set (post-DNF,
// post-multi-body-aggregation, post-aggregation-as-expression,
// post-functor-expansion). Annotation rules (head names starting with
// "@") are consumed here rather than indexed as ordinary predicates.
func New(rules []*ast.Rule, resolver catalog.Resolver) (*Universe, error) {
	if resolver == nil {
		resolver = catalog.DefaultResolver
	}
	u := &Universe{
		predicates: map[string]*predicate{},
		flags:      map[string]ast.Expression{},
		resolver:   resolver,
	}

	var annotations []*ast.Rule
	for _, r := range rules {
		if isAnnotationName(r.Head.Name) {
			annotations = append(annotations, r)
			continue
		}
		u.addRule(r)
	}
	for _, r := range annotations {
		if err := u.applyAnnotation(r); err != nil {
			return nil, err
		}
	}
	for _, p := range u.predicates {
		if p.class == ClassGrounded && p.groundTable == nil {
			t, err := u.resolver.Lookup(context.Background(), p.groundRef)
			if err != nil {
				return nil, logicaerr.NewSemanticError("resolving @Ground(\""+p.name+"\", \""+p.groundRef+"\"): "+err.Error(), p.rules[0].FullText)
			}
			p.groundTable = t
			p.fieldOrder = t.Columns
		}
	}
	u.classifyRecursion()
	return u, nil
}

func (u *Universe) addRule(r *ast.Rule) {
	name := r.Head.Name
	p, ok := u.predicates[name]
	if !ok {
		p = &predicate{name: name, class: ClassDefined, unrollDepth: defaultRecursionDepth}
		u.predicates[name] = p
		u.order = append(u.order, name)
	}
	p.rules = append(p.rules, r)
	if r.Head.Record != nil {
		seen := map[string]bool{}
		for _, f := range p.fieldOrder {
			seen[f] = true
		}
		for _, f := range r.Head.Record.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				p.fieldOrder = append(p.fieldOrder, f.Name)
			}
		}
	}
}

func isAnnotationName(name string) bool {
	return len(name) > 0 && name[0] == '@'
}

// predicateOf returns the named predicate's record, creating a
// placeholder ClassDefined entry if this is the first annotation to
// mention it (an annotation may precede the rules it modifies).
func (u *Universe) predicateOf(name string) *predicate {
	p, ok := u.predicates[name]
	if !ok {
		p = &predicate{name: name, class: ClassDefined, unrollDepth: defaultRecursionDepth}
		u.predicates[name] = p
		u.order = append(u.order, name)
	}
	return p
}

func (u *Universe) applyAnnotation(r *ast.Rule) error {
	rec := r.Head.Record
	switch r.Head.Name {
	case "@Engine":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@Engine requires a string engine name", r.FullText)
		}
		u.engine = name
		if tc, ok := boolField(rec, "type_checking"); ok {
			u.typeCheck = tc
		}
	case "@Ground":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@Ground requires a predicate name", r.FullText)
		}
		ref, ok := stringArg(rec, 1)
		if !ok {
			return logicaerr.NewSemanticError("@Ground(\""+name+"\", ...) requires a \"schema.table\" string", r.FullText)
		}
		p := u.predicateOf(name)
		p.class = ClassGrounded
		p.groundRef = ref
	case "@With":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@With requires a predicate name", r.FullText)
		}
		u.predicateOf(name).noInject = true
	case "@NoInject":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@NoInject requires a predicate name", r.FullText)
		}
		u.predicateOf(name).noInject = true
	case "@Recursive":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@Recursive requires a predicate name", r.FullText)
		}
		n, ok := intArg(rec, 1)
		if !ok {
			return logicaerr.NewSemanticError("@Recursive(\""+name+"\", N) requires an integer depth", r.FullText)
		}
		u.predicateOf(name).unrollDepth = n
	case "@OrderBy":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@OrderBy requires a predicate name", r.FullText)
		}
		p := u.predicateOf(name)
		for i := 1; ; i++ {
			col, ok := stringArg(rec, i)
			if !ok {
				break
			}
			p.orderBy = append(p.orderBy, col)
		}
	case "@Limit":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@Limit requires a predicate name", r.FullText)
		}
		n, ok := intArg(rec, 1)
		if !ok {
			return logicaerr.NewSemanticError("@Limit(\""+name+"\", N) requires an integer", r.FullText)
		}
		p := u.predicateOf(name)
		p.limit = n
		p.hasLimit = true
	case "@CompileAsUdf":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@CompileAsUdf requires a predicate name", r.FullText)
		}
		u.predicateOf(name).isUDF = true
	case "@DefineFlag":
		name, ok := stringArg(rec, 0)
		if !ok {
			return logicaerr.NewSemanticError("@DefineFlag requires a flag name", r.FullText)
		}
		if f, ok := rec.FieldByName("col1"); ok {
			u.flags[name] = f.Value
		} else if f, ok := rec.FieldByName("default"); ok {
			u.flags[name] = f.Value
		}
	case "@Make":
		// Consumed by rewrite.ExpandFunctors before the universe is
		// built; any survivor here means expansion never resolved it.
		return logicaerr.NewSemanticError("unexpanded @Make reached the universe (functor never instantiated)", r.FullText)
	}
	return nil
}

// Engine returns the @Engine-declared dialect name ("" if none was
// declared; cmd/logica's --engine flag then takes precedence instead).
func (u *Universe) Engine() string { return u.engine }

// TypeChecking reports @Engine's optional type_checking flag.
func (u *Universe) TypeChecking() bool { return u.typeCheck }

// Flag returns the default expression registered by
// @DefineFlag(name, default), if any.
func (u *Universe) Flag(name string) (ast.Expression, bool) {
	e, ok := u.flags[name]
	return e, ok
}

// Class reports the named predicate's classification, and whether it
// is known to the universe at all.
func (u *Universe) Class(name string) (PredicateClass, bool) {
	p, ok := u.predicates[name]
	if !ok {
		return 0, false
	}
	return p.class, true
}

// Rules returns the rules defining the named predicate, in source
// order, or nil if it is not a ClassDefined predicate.
func (u *Universe) Rules(name string) []*ast.Rule {
	p, ok := u.predicates[name]
	if !ok {
		return nil
	}
	return p.rules
}

// Signature returns the named predicate's record field names, in
// first-seen order (§4.4 "signature").
func (u *Universe) Signature(name string) []string {
	p, ok := u.predicates[name]
	if !ok {
		return nil
	}
	return p.fieldOrder
}

// Injectable reports whether the named predicate may be structurally
// inlined at its call sites rather than emitted as a CTE.
func (u *Universe) Injectable(name string) bool {
	p, ok := u.predicates[name]
	return ok && p.injectable()
}

// Recursive reports whether the named predicate is recursive, and its
// unroll depth (N_default or the @Recursive override).
func (u *Universe) Recursive(name string) (recursive bool, depth int) {
	p, ok := u.predicates[name]
	if !ok {
		return false, 0
	}
	return p.recursive, p.unrollDepth
}

// GroundTable returns the resolved external-table shape for an
// @Ground predicate.
func (u *Universe) GroundTable(name string) (*catalog.Table, bool) {
	p, ok := u.predicates[name]
	if !ok || p.class != ClassGrounded {
		return nil, false
	}
	return p.groundTable, true
}

// Known reports whether name is any recognized predicate. Satisfies
// translate.Universe.
func (u *Universe) Known(name string) bool {
	_, ok := u.predicates[name]
	return ok
}

// IsGrounded reports whether name is an @Ground external table.
// Satisfies translate.Universe.
func (u *Universe) IsGrounded(name string) bool {
	p, ok := u.predicates[name]
	return ok && p.class == ClassGrounded
}

// GroundSource returns the resolved table name backing a grounded
// predicate. Satisfies translate.Universe.
func (u *Universe) GroundSource(name string) (string, bool) {
	p, ok := u.predicates[name]
	if !ok || p.class != ClassGrounded || p.groundTable == nil {
		return "", false
	}
	return p.groundTable.Name, true
}

// InlineBody returns the head record and body of an injectable
// predicate's single rule. Satisfies translate.Universe.
func (u *Universe) InlineBody(name string) (*ast.Record, ast.Proposition, bool) {
	p, ok := u.predicates[name]
	if !ok || !p.injectable() {
		return nil, nil, false
	}
	r := p.rules[0]
	return r.Head.Record, r.Body, true
}

// OrderAndLimit returns a predicate's @OrderBy columns and @Limit
// value, for application to the final SELECT (§4.4 step 6).
func (u *Universe) OrderAndLimit(name string) (orderBy []string, limit int, hasLimit bool) {
	p, ok := u.predicates[name]
	if !ok {
		return nil, 0, false
	}
	return p.orderBy, p.limit, p.hasLimit
}

func stringArg(rec *ast.Record, i int) (string, bool) {
	if rec == nil {
		return "", false
	}
	f, ok := rec.FieldByName("col" + strconv.Itoa(i))
	if !ok {
		return "", false
	}
	if call, ok := f.Value.(*ast.Call); ok && (call.Record == nil || len(call.Record.Fields) == 0) {
		// A bare predicate name, as in @Recursive(N, 20).
		return call.PredicateName, true
	}
	lit, ok := f.Value.(*ast.Literal)
	if !ok || lit.Kind != ast.LiteralString {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}

func intArg(rec *ast.Record, i int) (int, bool) {
	if rec == nil {
		return 0, false
	}
	f, ok := rec.FieldByName("col" + strconv.Itoa(i))
	if !ok {
		return 0, false
	}
	lit, ok := f.Value.(*ast.Literal)
	if !ok || lit.Kind != ast.LiteralInt {
		return 0, false
	}
	n, ok := lit.Value.(int64)
	return int(n), ok
}

func boolField(rec *ast.Record, name string) (bool, bool) {
	if rec == nil {
		return false, false
	}
	f, ok := rec.FieldByName(name)
	if !ok {
		return false, false
	}
	lit, ok := f.Value.(*ast.Literal)
	if !ok || lit.Kind != ast.LiteralBool {
		return false, false
	}
	b, ok := lit.Value.(bool)
	return b, ok
}
