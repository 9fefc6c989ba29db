// Package logicaerr implements the error taxonomy of the Logica
// compiler (lexical, syntactic, import, semantic, dialect, engine-side),
// following the teacher's pattern of sentinel errors plus structured
// *XError types with Error/Is methods (errors.go, compiler/gen/errors.go);
// only *EngineError also has Unwrap, for the driver error it wraps.
package logicaerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/logica-lang/logica/ast"
)

// snippetRadius bounds the context window rendered around an offending
// span: up to 300 characters of context before and after it (§4.1, §7).
const snippetRadius = 300

// Sentinel errors for errors.Is comparisons across the taxonomy.
var (
	// ErrLexical marks lexical traverser failures: unmatched brackets,
	// a newline inside a single-line string.
	ErrLexical = errors.New("logica: lexical error")
	// ErrSyntax marks statement/expression parser failures.
	ErrSyntax = errors.New("logica: syntax error")
	// ErrImport marks import resolution failures: missing file, cycle,
	// unused or undefined import.
	ErrImport = errors.New("logica: import error")
	// ErrSemantic marks rule-translator/universe failures: unbound
	// variable, unknown predicate, illegal aggregation, recursion
	// without a base case.
	ErrSemantic = errors.New("logica: semantic error")
	// ErrDialect marks a feature unsupported by the selected engine.
	ErrDialect = errors.New("logica: dialect error")
	// ErrEngine marks an error surfaced verbatim from the downstream
	// SQL engine; it is never parsed or retried (§4.6, §7).
	ErrEngine = errors.New("logica: engine error")
)

// snippet renders up to snippetRadius characters of context on each
// side of span, with the offending substring between '»' and '«'.
func snippet(span ast.SourceSpan) string {
	if span.IsZero() {
		return ""
	}
	text := span.Buffer.Text
	start := span.Start - snippetRadius
	if start < 0 {
		start = 0
	}
	end := span.End + snippetRadius
	if end > len(text) {
		end = len(text)
	}
	var b strings.Builder
	b.WriteString(text[start:span.Start])
	b.WriteString("»")
	b.WriteString(text[span.Start:span.End])
	b.WriteString("«")
	b.WriteString(text[span.End:end])
	return b.String()
}

// ParsingError is a lexical or syntactic failure (§4.1, §4.2, §7).
type ParsingError struct {
	Kind    string // "EolInString", "Unmatched", "MalformedRule", ...
	Span    ast.SourceSpan
	Message string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("logica: parse error (%s) at %s: %s\n%s", e.Kind, e.Span, e.Message, snippet(e.Span))
}

func (e *ParsingError) Is(target error) bool { return target == ErrLexical || target == ErrSyntax }

// NewParsingError builds a ParsingError for kind at span.
func NewParsingError(kind string, span ast.SourceSpan, message string) *ParsingError {
	return &ParsingError{Kind: kind, Span: span, Message: message}
}

// ImportError reports a missing file, an import cycle, or an unused or
// undefined predicate import (§4.3, §7). Chain holds the dotted import
// path at each hop, in resolution order, so the offending cycle or
// missing link is visible in the rendered message.
type ImportError struct {
	Message string
	Chain   []string
	Span    ast.SourceSpan
}

func (e *ImportError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("logica: import error: %s", e.Message)
	}
	return fmt.Sprintf("logica: import error: %s (chain: %s)", e.Message, strings.Join(e.Chain, " -> "))
}

func (e *ImportError) Is(target error) bool { return target == ErrImport }

// NewImportError builds an ImportError.
func NewImportError(message string, chain []string, span ast.SourceSpan) *ImportError {
	return &ImportError{Message: message, Chain: chain, Span: span}
}

// SemanticError reports an unbound variable, arity mismatch, illegal
// aggregation, or recursion without a base case (§4.4, §4.6, §7). It
// carries the offending rule's FullText span.
type SemanticError struct {
	Message  string
	FullText ast.SourceSpan
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("logica: semantic error: %s\n%s", e.Message, snippet(e.FullText))
}

func (e *SemanticError) Is(target error) bool { return target == ErrSemantic }

// NewSemanticError builds a SemanticError anchored to a rule's full text.
func NewSemanticError(message string, fullText ast.SourceSpan) *SemanticError {
	return &SemanticError{Message: message, FullText: fullText}
}

// DialectError reports a feature unsupported by the selected engine
// (e.g. ARRAY_AGG on a dialect without array aggregation), raised at
// codegen time (§4.5, §7).
type DialectError struct {
	Dialect string
	Feature string
	Message string
}

func (e *DialectError) Error() string {
	return fmt.Sprintf("logica: dialect %q does not support %s: %s", e.Dialect, e.Feature, e.Message)
}

func (e *DialectError) Is(target error) bool { return target == ErrDialect }

// NewDialectError builds a DialectError.
func NewDialectError(dialect, feature, message string) *DialectError {
	return &DialectError{Dialect: dialect, Feature: feature, Message: message}
}

// EngineError wraps a downstream SQL engine's own error text, prefixed
// by the compiled SQL region it originated from. It is surfaced
// verbatim: the core never attempts to parse or retry it (§4.6, §7).
type EngineError struct {
	SQLRegion string
	Err       error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("logica: engine error near:\n%s\n%v", e.SQLRegion, e.Err)
}

func (e *EngineError) Unwrap() error    { return e.Err }
func (e *EngineError) Is(t error) bool  { return t == ErrEngine }
func NewEngineError(region string, err error) *EngineError {
	return &EngineError{SQLRegion: region, Err: err}
}
