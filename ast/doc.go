// Package ast keeps the node set closed and exhaustively matchable: it
// never uses an open map[string]any representation. The single place
// that serializes the tree back into string-keyed JSON objects is
// package jsonast (§6's stable AST JSON contract); everything else
// pattern-matches the concrete Go types directly.
package ast
