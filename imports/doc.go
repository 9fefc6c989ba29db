// Package imports resolves a program's "import" statements into a
// single flattened rule set: it loads each referenced file at most
// once, assigns a unique per-file predicate prefix, and rewrites
// predicate references at call sites to that prefix (§4.3).
package imports
