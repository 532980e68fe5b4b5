package errors

import (
	"fmt"

	"github.com/sunholo/sysf/internal/ast"
)

// Report is the canonical structured error carried through the pipeline.
// The checker, the evaluator and the prelude's primitive handlers return
// it directly; the lexer, parser and elaborator have their own Error types
// that carry the same kind of code and position (spec §7: "All errors
// carry a source span ... and a human-readable message").
type Report struct {
	Code    string
	Phase   string
	Message string
	Span    *ast.Span // nil when no source position applies (e.g. some runtime errors)
	Data    map[string]any
}

func (r *Report) Error() string {
	if r.Span != nil {
		return fmt.Sprintf("%s [%s]: %s (at %s)", r.Code, r.Phase, r.Message, r.Span.Start)
	}
	return fmt.Sprintf("%s [%s]: %s", r.Code, r.Phase, r.Message)
}

// New builds a Report from a known code, message and optional span.
func New(code, message string, span *ast.Span) *Report {
	phase := ""
	if info, ok := Lookup(code); ok {
		phase = info.Phase
	}
	return &Report{Code: code, Phase: phase, Message: message, Span: span}
}

// Newf is New with Printf-style formatting of the message.
func Newf(code string, span *ast.Span, format string, args ...any) *Report {
	return New(code, fmt.Sprintf(format, args...), span)
}

// WithData attaches structured key/value context to a report and returns it
// for chaining.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}
