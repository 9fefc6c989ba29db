// Package ast defines the Logica abstract syntax tree: a closed set of
// tagged-variant node types produced by parse and consumed by rewrite,
// universe, and translate. Every node carries a SourceSpan so diagnostics
// and the jsonast export can trace back to the exact source substring
// that produced it.
package ast

import "fmt"

// Buffer is the immutable backing store for one source file's text.
// Every SourceSpan derived while parsing a file shares the same Buffer,
// so spans stay cheap (two ints) and never copy the underlying text.
type Buffer struct {
	// FileName is the logical name used in diagnostics and in the
	// jsonast "file_name" key. It is not necessarily a filesystem path:
	// the default program and embedded snippets use synthetic names.
	FileName string
	// Text is the full source text of the file, normalized to LF line
	// endings by the loader before parsing (CRLF is accepted on input).
	Text string
}

// NewBuffer wraps text as a Buffer for fileName.
func NewBuffer(fileName, text string) *Buffer {
	return &Buffer{FileName: fileName, Text: text}
}

// Span returns the span covering [start, end) of the buffer.
func (b *Buffer) Span(start, end int) SourceSpan {
	return SourceSpan{Buffer: b, Start: start, End: end}
}

// Whole returns the span covering the entire buffer.
func (b *Buffer) Whole() SourceSpan {
	return SourceSpan{Buffer: b, Start: 0, End: len(b.Text)}
}

// SourceSpan is an immutable view into a shared Buffer: (buffer, start,
// end), with the invariant 0 <= start <= end <= len(buffer.Text). It is
// the "heritage" attached to every AST node.
type SourceSpan struct {
	Buffer *Buffer
	Start  int
	End    int
}

// Text returns the substring of the backing buffer this span covers.
func (s SourceSpan) Text() string {
	if s.Buffer == nil {
		return ""
	}
	return s.Buffer.Text[s.Start:s.End]
}

// FileName returns the owning buffer's file name, or "" if the span has
// no buffer (synthesized nodes from rewrites that invent fresh text).
func (s SourceSpan) FileName() string {
	if s.Buffer == nil {
		return ""
	}
	return s.Buffer.FileName
}

// IsZero reports whether the span has no backing buffer.
func (s SourceSpan) IsZero() bool {
	return s.Buffer == nil
}

// Sub returns the span covering [s.Start+from, s.Start+to), relative to
// s itself. Used when a parser carves a sub-span out of a larger one it
// already holds.
func (s SourceSpan) Sub(from, to int) SourceSpan {
	return SourceSpan{Buffer: s.Buffer, Start: s.Start + from, End: s.Start + to}
}

func (s SourceSpan) String() string {
	return fmt.Sprintf("%s:%d-%d", s.FileName(), s.Start, s.End)
}
