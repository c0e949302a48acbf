package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed declaration document.
//
//nolint:govet // participle grammar tags are not standard struct tags
type File struct {
	Decls []*Decl `@@*`
}

// Decl is a module-level declaration.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Decl struct {
	Pos lexer.Position

	Doc       []string   `@DocComment*`
	Export    bool       `@"export"?`
	Declare   bool       `@"declare"?`
	Interface *Interface `( @@`
	Alias     *TypeAlias `| @@ )`
}

// Name returns the declared name.
func (d *Decl) Name() string {
	switch {
	case d.Interface != nil:
		return d.Interface.Name
	case d.Alias != nil:
		return d.Alias.Name
	}
	return ""
}

// Interface is an object-shaped declaration.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Interface struct {
	Name    string     `"interface" @Ident`
	Params  []string   `( "<" @Ident ( "," @Ident )* ">" )?`
	Extends []*TypeRef `( "extends" @@ ( "," @@ )* )?`
	Members []*Member  `"{" ( @@ ( ";" | "," )? )* "}"`
}

// TypeAlias is a `type Name = T` declaration.
//
//nolint:govet // participle grammar tags are not standard struct tags
type TypeAlias struct {
	Name   string   `"type" @Ident`
	Params []string `( "<" @Ident ( "," @Ident )* ">" )?`
	Type   *Type    `"=" @@ ";"?`
}

// Member is one entry of an interface body or object literal.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Member struct {
	Pos lexer.Position

	Doc   []string        `@DocComment*`
	Index *IndexSignature `( @@`
	Prop  *Property       `| @@ )`
}

// IndexSignature is `[key: K]: V`.
//
//nolint:govet // participle grammar tags are not standard struct tags
type IndexSignature struct {
	Key     string `"[" @Ident`
	KeyType *Type  `":" @@ "]"`
	Value   *Type  `":" @@`
}

// Property is `name?: T`. Name holds the unquoted key for string-literal keys.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Property struct {
	Name     string `( @Ident | @String | @Number )`
	Optional bool   `@"?"?`
	Type     *Type  `":" @@`
}

// Type is a union of one or more alternatives. A single alternative is a
// plain type.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Type struct {
	Alts []*Intersection `"|"? @@ ( "|" @@ )*`
}

// Intersection is one or more parts joined with `&`.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Intersection struct {
	Parts []*Postfix `"&"? @@ ( "&" @@ )*`
}

// Postfix is a primary type followed by zero or more `[]`.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Postfix struct {
	Primary *Primary `@@`
	Arrays  []string `( @"[" "]" )*`
}

// Primary is an atomic type expression.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Primary struct {
	Paren  *Type    `  "(" @@ ")"`
	Object *Object  `| @@`
	Tuple  *Tuple   `| @@`
	String *string  `| @String`
	Number *string  `| @Number`
	Keyof  *Postfix `| "keyof" @@`
	Ref    *TypeRef `| @@`
}

// Object is an inline object literal type.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Object struct {
	Members []*Member `"{" ( @@ ( ";" | "," )? )* "}"`
}

// Tuple is `[A, B, ...]`. The empty tuple is `[]`.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Tuple struct {
	Elems []*Type `"[" ( @@ ( "," @@ )* )? "]"`
}

// TypeRef is a (possibly qualified, possibly generic) reference. Keyword
// types such as string and null are references too; the frontend decides
// what they mean.
//
//nolint:govet // participle grammar tags are not standard struct tags
type TypeRef struct {
	Name []string `@Ident ( "." @Ident )*`
	Args []*Type  `( "<" @@ ( "," @@ )* ">" )?`
}

// Single returns the only alternative of a non-union, non-intersection type,
// or nil.
func (t *Type) Single() *Postfix {
	if len(t.Alts) != 1 || len(t.Alts[0].Parts) != 1 {
		return nil
	}
	return t.Alts[0].Parts[0]
}

// Unparen peels parentheses that only exist for precedence.
func (t *Type) Unparen() *Type {
	for {
		p := t.Single()
		if p == nil || len(p.Arrays) != 0 || p.Primary.Paren == nil {
			return t
		}
		t = p.Primary.Paren
	}
}

// StringLiteral reports the value of a type that is exactly one string
// literal.
func (t *Type) StringLiteral() (string, bool) {
	p := t.Single()
	if p == nil || len(p.Arrays) != 0 || p.Primary.String == nil {
		return "", false
	}
	return *p.Primary.String, true
}

// Keyword reports the keyword name of a bare single-identifier reference
// without type arguments (string, null, Foo, ...).
func (r *TypeRef) Keyword() (string, bool) {
	if len(r.Name) != 1 || len(r.Args) != 0 {
		return "", false
	}
	return r.Name[0], true
}
