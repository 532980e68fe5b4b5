// Package errors provides the centralized, phase-tagged error taxonomy
// shared across the pipeline (spec §7): lexical/syntactic, semantic
// (compile-time) and runtime error families, each carrying a stable code.
package errors

// Lexical / syntactic errors (LEX###, PAR###) — raised by the lexer and parser.
const (
	LEX001 = "LEX001" // UnexpectedCharacter
	LEX002 = "LEX002" // UnterminatedString
	LEX003 = "LEX003" // UnterminatedPragma

	PAR001 = "PAR001" // UnexpectedToken
)

// Semantic (compile-time) errors (ELB###, TC###) — raised by the elaborator
// and type checker.
const (
	ELB001 = "ELB001" // UnknownName
	ELB002 = "ELB002" // UnknownConstructor

	TC001 = "TC001" // TypeMismatch
	TC002 = "TC002" // UnknownGlobal
	TC003 = "TC003" // UnknownPrimitive
	TC004 = "TC004" // OccursCheck
	TC005 = "TC005" // ArityMismatch
	TC006 = "TC006" // NotAFunction
	TC007 = "TC007" // NonExhaustive
	TC008 = "TC008" // MissingTypeAnnotation
	TC009 = "TC009" // UnknownType
	TC010 = "TC010" // UnboundIndex
)

// Runtime errors (EVA###) — raised by the evaluator or primitive handlers.
const (
	EVA001 = "EVA001" // PatternMatchFailure
	EVA002 = "EVA002" // UnboundGlobal
	EVA003 = "EVA003" // MissingPrimitive
	EVA004 = "EVA004" // PrimitiveHandlerError
	EVA005 = "EVA005" // DivisionByZero
	EVA006 = "EVA006" // NotAFunction (runtime shape violation)
)

// Info describes one error code.
type Info struct {
	Code        string
	Phase       string // "lex", "parse", "elaborate", "typecheck", "eval"
	Category    string
	Description string
}

// Registry maps every defined code to its Info.
var Registry = map[string]Info{
	LEX001: {LEX001, "lex", "syntax", "Unexpected character"},
	LEX002: {LEX002, "lex", "syntax", "Unterminated string literal"},
	LEX003: {LEX003, "lex", "syntax", "Unterminated pragma"},

	PAR001: {PAR001, "parse", "syntax", "Unexpected token"},

	ELB001: {ELB001, "elaborate", "scope", "Unknown name"},
	ELB002: {ELB002, "elaborate", "scope", "Unknown constructor"},

	TC001: {TC001, "typecheck", "type", "Type mismatch"},
	TC002: {TC002, "typecheck", "scope", "Unknown global"},
	TC003: {TC003, "typecheck", "scope", "Unknown primitive"},
	TC004: {TC004, "typecheck", "unification", "Occurs check failed"},
	TC005: {TC005, "typecheck", "arity", "Arity mismatch"},
	TC006: {TC006, "typecheck", "application", "Not a function"},
	TC007: {TC007, "typecheck", "exhaustiveness", "Non-exhaustive case"},
	TC008: {TC008, "typecheck", "annotation", "Missing type annotation"},
	TC009: {TC009, "typecheck", "scope", "Unknown type"},
	TC010: {TC010, "typecheck", "scope", "Unbound de Bruijn index"},

	EVA001: {EVA001, "eval", "pattern", "Pattern match failure"},
	EVA002: {EVA002, "eval", "scope", "Unbound global"},
	EVA003: {EVA003, "eval", "primitive", "Missing primitive handler"},
	EVA004: {EVA004, "eval", "primitive", "Primitive handler error"},
	EVA005: {EVA005, "eval", "arithmetic", "Division by zero"},
	EVA006: {EVA006, "eval", "application", "Not a function"},
}

// Lookup returns the Info for a code, if known.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsRuntime reports whether code belongs to the runtime (EVA###) family.
func IsRuntime(code string) bool {
	info, ok := Lookup(code)
	return ok && info.Phase == "eval"
}

// IsSemantic reports whether code belongs to the elaborate/typecheck families.
func IsSemantic(code string) bool {
	info, ok := Lookup(code)
	return ok && (info.Phase == "elaborate" || info.Phase == "typecheck")
}
