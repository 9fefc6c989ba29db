// Package scan implements the lexical traverser and splitter that every
// higher-level parser in Logica relies on exclusively (§4.1): a single
// pass that understands block and line comments, quoted strings of all
// three widths, backticked identifiers, and balanced brackets, exposed
// through IsWhole and Split.
package scan
