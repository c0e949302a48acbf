package syntax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// declLexer tokenizes declaration documents.
// Order matters: doc comments must be tried before plain block comments.
var declLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DocComment", Pattern: `(?s)/\*\*.*?\*/`},
	{Name: "BlockComment", Pattern: `(?s)/\*.*?\*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$]*`},
	{Name: "Punct", Pattern: `[{}\[\]()<>|&:;,?=.]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// declParser is the participle parser for declaration documents.
var declParser = participle.MustBuild[File](
	participle.Lexer(declLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// ParseError is a syntax error with its source position.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Message  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Message)
}

// ParseString parses a declaration document.
func ParseString(filename, src string) (*File, error) {
	file, err := declParser.ParseString(filename, src)
	if err != nil {
		return nil, toParseError(filename, err)
	}
	return file, nil
}

// ParseBytes parses a declaration document.
func ParseBytes(filename string, src []byte) (*File, error) {
	file, err := declParser.ParseBytes(filename, src)
	if err != nil {
		return nil, toParseError(filename, err)
	}
	return file, nil
}

func toParseError(filename string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return &ParseError{
			Filename: filename,
			Line:     pos.Line,
			Column:   pos.Column,
			Message:  perr.Message(),
		}
	}
	return &ParseError{Filename: filename, Message: err.Error()}
}

// DocText converts the last doc comment of a declaration or member into a
// single line of text. It returns "" when there is no doc comment.
func DocText(comments []string) string {
	if len(comments) == 0 {
		return ""
	}
	c := comments[len(comments)-1]
	c = strings.TrimPrefix(c, "/*")
	c = strings.TrimSuffix(c, "*/")
	c = strings.TrimLeft(c, "*")
	c = strings.TrimSpace(c)

	lines := strings.Split(c, "\n")
	for i, line := range lines {
		line = strings.TrimLeft(line, " \t")
		line = strings.TrimPrefix(line, "* ")
		if line == "*" {
			line = ""
		}
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, " ")
}
