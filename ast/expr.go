package ast

// Expression is the closed set of expression-syntax AST nodes. Every
// concrete type below implements it; a type switch over Expression is
// expected to be exhaustive everywhere an Expression is consumed
// (rewrite, translate, jsonast).
type Expression interface {
	exprNode()
	// Heritage returns the exact source substring that produced this
	// node, so buffer.Text[heritage.Start:heritage.End] reproduces it.
	Heritage() SourceSpan
}

// LiteralKind classifies a Literal's Go value.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralInt
	LiteralFloat
	LiteralString
)

// Literal is a constant value: a number, string, boolean, or null.
type Literal struct {
	Kind     LiteralKind
	Value    any // bool, int64, float64, string, or nil
	heritage SourceSpan
}

func NewLiteral(kind LiteralKind, value any, heritage SourceSpan) *Literal {
	return &Literal{Kind: kind, Value: value, heritage: heritage}
}

func (*Literal) exprNode()              {}
func (l *Literal) Heritage() SourceSpan { return l.heritage }

// Variable is a reference to a lowercase- or "_"-prefixed identifier
// bound somewhere in the enclosing rule's body.
type Variable struct {
	Name     string
	heritage SourceSpan
}

func NewVariable(name string, heritage SourceSpan) *Variable {
	return &Variable{Name: name, heritage: heritage}
}

func (*Variable) exprNode()              {}
func (v *Variable) Heritage() SourceSpan { return v.heritage }

// IsAnonymous reports whether the variable is "_" or "_"-prefixed,
// i.e. it never needs to be bound to a caller-visible column.
func (v *Variable) IsAnonymous() bool {
	return v.Name == "_" || (len(v.Name) > 0 && v.Name[0] == '_')
}

// Field is one entry of a Record or a PredicateCall's argument list.
// Positional fields are auto-named col0, col1, ... in parse order;
// named fields use the explicit name; the rest-of splat uses IsRest.
type Field struct {
	Name       string
	Value      Expression
	Positional bool
	// Aggregating marks a head-only "name? Op= expr" field.
	Aggregating bool
	AggOp       string
	IsRest      bool
	heritage    SourceSpan
}

func (f Field) Heritage() SourceSpan { return f.heritage }

// WithHeritage returns a copy of f whose Heritage is heritage.
func (f Field) WithHeritage(heritage SourceSpan) Field { f.heritage = heritage; return f }

// Record is the field list inside "(...)" or "{...}": a predicate's
// argument record or a record-literal expression.
type Record struct {
	Fields   []Field
	heritage SourceSpan
}

func NewRecord(fields []Field, heritage SourceSpan) *Record {
	return &Record{Fields: fields, heritage: heritage}
}

func (*Record) exprNode()              {}
func (r *Record) Heritage() SourceSpan { return r.heritage }

// FieldByName returns the record's field named name, and whether it
// was found. Field names are unique within a record (ast invariant
// enforced by parse).
func (r *Record) FieldByName(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ListExpr is a bracketed "[e1, e2, ...]" list literal.
type ListExpr struct {
	Elements []Expression
	heritage SourceSpan
}

func NewListExpr(elements []Expression, heritage SourceSpan) *ListExpr {
	return &ListExpr{Elements: elements, heritage: heritage}
}

func (*ListExpr) exprNode()              {}
func (l *ListExpr) Heritage() SourceSpan { return l.heritage }

// Call is a predicate invocation used in expression position (a value-
// producing predicate, a built-in function, or a desugared array
// subscript "arr[i]" -> Element(arr, i)).
type Call struct {
	PredicateName string
	Record        *Record
	heritage      SourceSpan
}

func NewCall(name string, record *Record, heritage SourceSpan) *Call {
	return &Call{PredicateName: name, Record: record, heritage: heritage}
}

func (*Call) exprNode()              {}
func (c *Call) Heritage() SourceSpan { return c.heritage }

// RecordSubscript is "expr.field", a field projection off a record
// value (distinct from array subscripting, which desugars to Call).
type RecordSubscript struct {
	Target   Expression
	Field    string
	heritage SourceSpan
}

func NewRecordSubscript(target Expression, field string, heritage SourceSpan) *RecordSubscript {
	return &RecordSubscript{Target: target, Field: field, heritage: heritage}
}

func (*RecordSubscript) exprNode()              {}
func (r *RecordSubscript) Heritage() SourceSpan { return r.heritage }

// Combine packages a mini-rule with an aggregator into a single value:
// "Op= expr :- body" or its sugar "Op{expr :- body}".
type Combine struct {
	Operator string
	Distinct bool
	Value    Expression
	Body     Proposition
	heritage SourceSpan
}

func NewCombine(op string, distinct bool, value Expression, body Proposition, heritage SourceSpan) *Combine {
	return &Combine{Operator: op, Distinct: distinct, Value: value, Body: body, heritage: heritage}
}

func (*Combine) exprNode()              {}
func (c *Combine) Heritage() SourceSpan { return c.heritage }

// IfBranch is one "if cond then expr" arm of an Implication.
type IfBranch struct {
	Condition Proposition
	Then      Expression
}

// Implication is "if c1 then e1 else if c2 then e2 ... else eN".
type Implication struct {
	Branches []IfBranch
	Else     Expression
	heritage SourceSpan
}

func NewImplication(branches []IfBranch, elseExpr Expression, heritage SourceSpan) *Implication {
	return &Implication{Branches: branches, Else: elseExpr, heritage: heritage}
}

func (*Implication) exprNode()              {}
func (i *Implication) Heritage() SourceSpan { return i.heritage }
