package ast

// Proposition is the closed set of body/proposition-syntax AST nodes.
type Proposition interface {
	propNode()
	Heritage() SourceSpan
}

// Conjunction is a comma/"&&"-separated list of propositions that must
// all hold. A conjunction of a single element is normalized away by
// parse (it is replaced by that element directly), so consumers never
// see a length-1 Conjunction.
type Conjunction struct {
	Elements []Proposition
	heritage SourceSpan
}

func NewConjunction(elements []Proposition, heritage SourceSpan) *Conjunction {
	return &Conjunction{Elements: elements, heritage: heritage}
}

func (*Conjunction) propNode()              {}
func (c *Conjunction) Heritage() SourceSpan { return c.heritage }

// Disjunction is a "|"-separated list of alternative propositions.
type Disjunction struct {
	Elements []Proposition
	heritage SourceSpan
}

func NewDisjunction(elements []Proposition, heritage SourceSpan) *Disjunction {
	return &Disjunction{Elements: elements, heritage: heritage}
}

func (*Disjunction) propNode()              {}
func (d *Disjunction) Heritage() SourceSpan { return d.heritage }

// PredicateCall is both a top-level proposition (a row-membership test
// in a rule body) and the head of a Rule; Call reuses it for PredicateCall
// values appearing in expression position is represented separately by
// ast.Call, keeping the two syntactic roles distinct even when the
// written syntax is identical.
type PredicateCall struct {
	Name     string
	Record   *Record
	heritage SourceSpan
}

func NewPredicateCall(name string, record *Record, heritage SourceSpan) *PredicateCall {
	return &PredicateCall{Name: name, Record: record, heritage: heritage}
}

func (*PredicateCall) propNode()              {}
func (p *PredicateCall) Heritage() SourceSpan { return p.heritage }

// Unification is "x == y" (or its negated form "x != y") in body
// position: a constraint that two expressions denote the same value.
type Unification struct {
	Left, Right Expression
	Negated     bool
	heritage    SourceSpan
}

func NewUnification(left, right Expression, negated bool, heritage SourceSpan) *Unification {
	return &Unification{Left: left, Right: right, Negated: negated, heritage: heritage}
}

func (*Unification) propNode()              {}
func (u *Unification) Heritage() SourceSpan { return u.heritage }

// Inclusion is "element in list".
type Inclusion struct {
	Element, List Expression
	heritage      SourceSpan
}

func NewInclusion(element, list Expression, heritage SourceSpan) *Inclusion {
	return &Inclusion{Element: element, List: list, heritage: heritage}
}

func (*Inclusion) propNode()              {}
func (i *Inclusion) Heritage() SourceSpan { return i.heritage }

// Negation is "~P", negation-as-aggregate: P must have no solutions.
// Downstream (translate) it is lowered to a correlated NOT EXISTS
// subquery, and it stays a first-class, opaque node through DNF
// rewriting (§4.3).
type Negation struct {
	Inner    Proposition
	heritage SourceSpan
}

func NewNegation(inner Proposition, heritage SourceSpan) *Negation {
	return &Negation{Inner: inner, heritage: heritage}
}

func (*Negation) propNode()              {}
func (n *Negation) Heritage() SourceSpan { return n.heritage }
