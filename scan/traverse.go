package scan

import (
	"errors"
	"iter"

	"github.com/logica-lang/logica/ast"
)

// Sentinel lexical errors recorded when the walk over a span fails.
// They stay inside this package: callers see only a span that is not
// whole, and nothing wraps them into *logicaerr.ParsingError.
var (
	ErrEolInString = errors.New("scan: newline inside single-line string")
	ErrUnmatched   = errors.New("scan: unmatched closing bracket")
)

// Position is one content index yielded by Traverse: the byte offset
// (relative to span.Start) just past the character processed, together
// with the traverser's state at that point.
type Position struct {
	Offset int
	State  State
}

// walkResult is the full per-offset trace of one traversal, used by
// both IsWhole and Split so they agree on exactly the same state
// machine.
type walkResult struct {
	states []State // states[i] is the state after processing text[0:i]
	err    error
	errAt  int
}

func walk(span ast.SourceSpan) walkResult {
	text := span.Text()
	states := make([]State, len(text)+1)
	var st State
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case st.inLineComment:
			if c == '\n' {
				st.inLineComment = false
			}
			i++
		case st.inBlockComment:
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				st.inBlockComment = false
				states[i+1] = st
				i += 2
				states[i] = st
				continue
			}
			i++
		case st.inTripleQuote:
			if c == st.tripleQuoteChar && i+2 < len(text) && text[i+1] == st.tripleQuoteChar && text[i+2] == st.tripleQuoteChar {
				st.inTripleQuote = false
				st.tripleQuoteChar = 0
				i += 3
				states[i] = st
				continue
			}
			if c == '\\' && i+1 < len(text) {
				i += 2
				states[i] = st
				continue
			}
			i++
		case st.inSingleQuote || st.inDoubleQuote:
			if c == '\n' {
				return walkResult{states: states, err: ErrEolInString, errAt: i}
			}
			if c == '\\' && i+1 < len(text) {
				i += 2
				states[i] = st
				continue
			}
			quote := byte('\'')
			if st.inDoubleQuote {
				quote = '"'
			}
			if c == quote {
				st.inSingleQuote = false
				st.inDoubleQuote = false
			}
			i++
		case c == '`':
			// Backticked identifiers are opaque like a string: scan to
			// the matching backtick without bracket tracking.
			j := i + 1
			for j < len(text) && text[j] != '`' {
				j++
			}
			if j < len(text) {
				j++
			}
			i = j
			states[min(i, len(states)-1)] = st
		case c == '#':
			st.inLineComment = true
			i++
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			st.inBlockComment = true
			i += 2
			states[i] = st
			continue
		case c == '\'' || c == '"':
			if i+2 < len(text) && text[i+1] == c && text[i+2] == c {
				st.inTripleQuote = true
				st.tripleQuoteChar = c
				i += 3
				states[i] = st
				continue
			}
			if c == '\'' {
				st.inSingleQuote = true
			} else {
				st.inDoubleQuote = true
			}
			i++
		case isOpenBracket(c):
			st.brackets = append(append([]byte{}, st.brackets...), c)
			i++
		case isCloseBracket(c):
			if len(st.brackets) == 0 {
				return walkResult{states: states, err: ErrUnmatched, errAt: i}
			}
			top := st.brackets[len(st.brackets)-1]
			if closingFor(top) != c {
				return walkResult{states: states, err: ErrUnmatched, errAt: i}
			}
			st.brackets = st.brackets[:len(st.brackets)-1]
			i++
		default:
			i++
		}
		states[i] = st
	}
	return walkResult{states: states}
}

// Traverse yields one Position per content offset of span, honoring
// block/line comments, single/double/triple-quoted strings, backticked
// identifiers, and balanced brackets (§4.1). It stops early (without
// yielding a final error) if the consumer breaks iteration; use IsWhole
// or Split for the error-checked entry points most parsing code wants.
func Traverse(span ast.SourceSpan) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		w := walk(span)
		limit := len(w.states)
		if w.err != nil {
			limit = w.errAt + 1
		}
		for i := 1; i < limit; i++ {
			if !yield((Position{Offset: i, State: w.states[i]})) {
				return
			}
		}
	}
}

// IsWhole reports whether traversing span ends in the zero state: no
// open brackets, not inside a string, not inside a comment. This is the
// fundamental predicate used throughout parsing (§4.1).
func IsWhole(span ast.SourceSpan) bool {
	w := walk(span)
	if w.err != nil {
		return false
	}
	return len(w.states) > 0 && w.states[len(w.states)-1].IsTop()
}
