// Package cabi implements the embedding surface of §6: a
// msgpack-encoded Snapshot an embedding host can cache across
// compilations (§5 — "the caller may cache the output"), and the C ABI
// shim (parse_rules_json / free) for non-Go hosts.
//
// The C ABI itself (shim.go) is built only with -tags logica_cabi,
// since it requires cgo and -buildmode=c-archive; this module's own
// "go build ./..." never needs it and stays pure Go. A host embedding
// Logica via the C ABI builds with:
//
//	go build -tags logica_cabi -buildmode=c-archive -o liblogica.a ./cabi
package cabi
