package frontend

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// UnsupportedError reports a declaration shape that has no conversion.
// It is always fatal: approximating the shape would produce an incorrect
// definition.
type UnsupportedError struct {
	Pos       lexer.Position
	Construct string
}

func (e *UnsupportedError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: unsupported %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Construct)
	}
	return "unsupported " + e.Construct
}
