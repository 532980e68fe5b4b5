package elaborate

import (
	"fmt"

	"github.com/sunholo/sysf/internal/ast"
)

// Error is a structured elaboration failure (spec §7: ELB### family).
type Error struct {
	Code    string
	Message string
	Pos     ast.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
}

func newErrorf(code string, pos ast.Pos, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}
