package scan

import (
	"unicode"

	"github.com/logica-lang/logica/ast"
)

// Split splits span by sep, only at top nesting level and outside
// strings/comments, with three disambiguation rules (§4.1):
//
//   - "|" is never split when adjacent to another "|" (so "||" binds as
//     a single token rather than as two empty alternatives of "|");
//   - a single alphanumeric separator (e.g. "in", "is", "as") only
//     splits when both neighboring characters are non-alphanumeric, so
//     it never fires inside a longer identifier;
//   - each returned span is whitespace-stripped, and while the whole
//     span is surrounded by a matched outer parenthesis pair, that pair
//     is unwrapped ("[...]" and "{...}" are left as they are).
func Split(span ast.SourceSpan, sep string) []ast.SourceSpan {
	text := span.Text()
	offsets := topLevelOccurrences(span, sep)
	var parts []ast.SourceSpan
	last := 0
	for _, i := range offsets {
		parts = append(parts, stripAndUnwrap(span.Sub(last, i)))
		last = i + len(sep)
	}
	parts = append(parts, stripAndUnwrap(span.Sub(last, len(text))))
	return parts
}

// FindFirstTop returns the raw (unstripped) offset of the first
// top-level occurrence of sep within span, honoring the same
// disambiguation rules as Split, or -1 if sep does not occur at top
// level.
func FindFirstTop(span ast.SourceSpan, sep string) int {
	offsets := topLevelOccurrences(span, sep)
	if len(offsets) == 0 {
		return -1
	}
	return offsets[0]
}

func topLevelOccurrences(span ast.SourceSpan, sep string) []int {
	text := span.Text()
	w := walk(span)
	alnumSep := isAlnumWord(sep)
	var offsets []int
	i := 0
	for i+len(sep) <= len(text) {
		if text[i:i+len(sep)] != sep {
			i++
			continue
		}
		if !w.states[i].IsTop() {
			i++
			continue
		}
		if sep == "|" && pipeAdjacent(text, i) {
			i++
			continue
		}
		if alnumSep && !wordBoundary(text, i, len(sep)) {
			i++
			continue
		}
		offsets = append(offsets, i)
		i += len(sep)
	}
	return offsets
}

func pipeAdjacent(text string, i int) bool {
	if i > 0 && text[i-1] == '|' {
		return true
	}
	if i+1 < len(text) && text[i+1] == '|' {
		return true
	}
	return false
}

func isAlnumWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isAlnumByte(b byte) bool {
	return unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)) || b == '_'
}

func wordBoundary(text string, start, length int) bool {
	if start > 0 && isAlnumByte(text[start-1]) {
		return false
	}
	if end := start + length; end < len(text) && isAlnumByte(text[end]) {
		return false
	}
	return true
}

// Strip returns span with outer whitespace trimmed.
func Strip(span ast.SourceSpan) ast.SourceSpan {
	text := span.Text()
	start := 0
	for start < len(text) && isSpace(text[start]) {
		start++
	}
	end := len(text)
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return span.Sub(start, end)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func stripAndUnwrap(span ast.SourceSpan) ast.SourceSpan {
	span = Strip(span)
	for {
		text := span.Text()
		if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
			return span
		}
		if !isOuterPair(text) {
			return span
		}
		span = Strip(span.Sub(1, len(text)-1))
	}
}

// isOuterPair reports whether text's first '(' is the bracket that
// closes exactly at its last ')', i.e. the pair is a single redundant
// wrapping rather than e.g. "(a)+(b)" where the first and last
// characters happen to be parens without matching each other.
func isOuterPair(text string) bool {
	buf := ast.NewBuffer("", text)
	w := walk(buf.Whole())
	if w.err != nil {
		return false
	}
	for i := 1; i < len(text); i++ {
		if w.states[i].Depth() == 0 {
			return i == len(text)
		}
	}
	return w.states[len(text)].Depth() == 0
}
