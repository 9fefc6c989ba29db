// Package universe indexes a fully rewritten rule set by head
// predicate name, classifies every predicate (concrete, injectable,
// functor-template already expanded away, or external table), resolves
// annotations, and exposes the single Compile(predicate) entry point
// that drives translation and SQL codegen (§4.4).
package universe
