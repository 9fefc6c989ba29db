// Package parse turns a source buffer into ast.Statements: a
// recursive-descent statement and expression parser built on scan's
// top-level splitting primitives rather than a generated lexer/parser
// pair, matching §4.2's fixed-precedence, split-driven grammar.
package parse
