package translate

import "github.com/logica-lang/logica/ast"

// Universe is the subset of universe.Universe's public surface that
// Rule needs to resolve a predicate call. It is declared here, rather
// than importing package universe directly, so that universe.Compile
// can import translate without a cyclic import; *universe.Universe
// satisfies this interface structurally.
type Universe interface {
	// Known reports whether name is any recognized predicate
	// (defined or grounded). Built-in operator and function names are
	// not indexed and report false.
	Known(name string) bool
	// IsGrounded reports whether name is an @Ground external table.
	IsGrounded(name string) bool
	// GroundSource returns the resolved "schema.table" reference for
	// a grounded predicate.
	GroundSource(name string) (string, bool)
	// Injectable reports whether name's single rule body should be
	// structurally inlined at its call sites rather than referenced
	// as its own CTE (§4.4's injectable? rule).
	Injectable(name string) bool
	// InlineBody returns the head record and body of an injectable
	// predicate's one rule, for inlineCall to splice at a call site.
	InlineBody(name string) (head *ast.Record, body ast.Proposition, ok bool)
}
