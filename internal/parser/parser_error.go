package parser

import (
	"fmt"

	"github.com/sunholo/sysf/internal/ast"
	"github.com/sunholo/sysf/internal/lexer"
)

// Error is a structured parse failure: the expected-token category and the
// actual token's span (spec §4.2 Error reporting). The parser does not
// attempt recovery beyond aborting the current declaration.
type Error struct {
	Code     string
	Message  string
	Pos      ast.Pos
	Got      lexer.Token
	Expected []lexer.TokenType
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s (got %s)", e.Code, e.Pos, e.Message, e.Got.Type)
}

func newError(pos ast.Pos, got lexer.Token, expected []lexer.TokenType, format string, args ...any) *Error {
	return &Error{
		Code:     "PAR001",
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Got:      got,
		Expected: expected,
	}
}
