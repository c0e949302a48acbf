// Package emit renders finalized IR segments as Rust source annotated for
// serde.
//
// Output follows segment order. Rust resolves forward references between
// top-level items, so no dependency ordering is needed.
package emit

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/tsbind/internal/ir"
)

// Header is the first line of every generated file.
const Header = "// Code generated by tsbind. DO NOT EDIT."

const (
	cowType  = "::std::borrow::Cow<'a, str>"
	mapType  = "::std::collections::HashMap"
	lifetime = "<'a>"
)

// Options controls rendering.
type Options struct {
	// NumberType is the Rust type for number. Defaults to usize.
	NumberType string

	// Prelude emits lint allowances, the serde import and the placeholder
	// type aliases.
	Prelude bool
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{NumberType: "usize", Prelude: true}
}

type emitter struct {
	buf    bytes.Buffer
	opts   Options
	derive string
}

// Render returns the Rust source for segs.
func Render(segs []ir.Segment, opts Options) []byte {
	if opts.NumberType == "" {
		opts.NumberType = "usize"
	}
	e := &emitter{opts: opts, derive: "#[derive(Debug, Deserialize)]"}
	if !opts.Prelude {
		e.derive = "#[derive(Debug, ::serde::Deserialize)]"
	}

	e.line(Header)
	if opts.Prelude {
		e.prelude()
	}
	for _, seg := range segs {
		e.line("")
		switch s := seg.(type) {
		case *ir.Record:
			e.record(s)
		case *ir.SumType:
			e.sumType(s)
		case *ir.Alias:
			e.alias(s)
		}
	}
	return e.buf.Bytes()
}

// Emit writes the Rust source for segs to w.
func Emit(w io.Writer, segs []ir.Segment, opts Options) error {
	if _, err := w.Write(Render(segs, opts)); err != nil {
		return fmt.Errorf("write generated source: %w", err)
	}
	return nil
}

func (e *emitter) line(s string) {
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e *emitter) linef(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) prelude() {
	e.line("")
	e.line("#![allow(clippy::large_enum_variant)]")
	e.line("#![allow(non_camel_case_types)]")
	e.line("#![allow(non_snake_case)]")
	e.line("")
	e.line("use serde::Deserialize;")
	e.line("")
	for _, k := range ir.PlaceholderKinds {
		e.linef("pub type %s = ::serde::de::IgnoredAny;", k)
	}
}

func (e *emitter) doc(indent, doc string) {
	if doc != "" {
		e.linef("%s/// %s", indent, doc)
	}
}

func (e *emitter) containerAttrs(a ir.ContainerAttrs) {
	if a.Untagged {
		e.line("#[serde(untagged)]")
	}
	if a.Tag != "" {
		e.linef("#[serde(tag = %s)]", quote(a.Tag))
	}
	if a.RenameAll != ir.RenameNone {
		e.linef("#[serde(rename_all = %s)]", quote(string(a.RenameAll)))
	}
}

func (e *emitter) memberAttrs(a ir.Attrs) {
	if a.Rename != "" {
		e.linef("    #[serde(rename = %s)]", quote(a.Rename))
	}
	if a.Flatten {
		e.line("    #[serde(flatten)]")
	}
	if a.Borrow {
		e.line("    #[serde(borrow)]")
	}
}

func generics(borrowed bool) string {
	if borrowed {
		return lifetime
	}
	return ""
}

func (e *emitter) record(r *ir.Record) {
	e.doc("", r.Doc)
	e.line(e.derive)
	e.containerAttrs(r.Attrs)
	if len(r.Fields) == 0 {
		e.linef("pub struct %s%s {}", r.Name, generics(r.Borrowed))
		return
	}
	e.linef("pub struct %s%s {", r.Name, generics(r.Borrowed))
	for _, f := range r.Fields {
		if f.Type.IsPlaceholder() {
			e.linef("    // %s: %s", f.Name, placeholderName(f.Type))
			continue
		}
		e.doc("    ", f.Doc)
		e.memberAttrs(f.Attrs)
		ty := e.typeString(f.Type)
		if f.Optional {
			ty = "Option<" + ty + ">"
		}
		e.linef("    pub %s: %s,", f.Name, ty)
	}
	e.line("}")
}

func (e *emitter) sumType(s *ir.SumType) {
	e.doc("", s.Doc)
	e.line(e.derive)
	e.containerAttrs(s.Attrs)
	e.linef("pub enum %s%s {", s.Name, generics(s.Borrowed))
	for i := range s.Variants {
		v := &s.Variants[i]
		e.doc("    ", v.Doc)
		e.memberAttrs(v.Attrs)
		if v.Kind == ir.Nullary {
			e.linef("    %s,", v.Ident())
			continue
		}
		e.linef("    %s(%s),", v.Ident(), e.typeString(*v.Type))
	}
	e.line("}")
}

func (e *emitter) alias(a *ir.Alias) {
	e.doc("", a.Doc)
	e.linef("pub type %s%s = %s;", a.Name, generics(a.Borrowed), e.typeString(a.Type))
}

func (e *emitter) typeString(t ir.Type) string {
	switch t.Kind {
	case ir.KindString:
		if t.Borrowed {
			return cowType
		}
		return "String"
	case ir.KindNumber:
		return e.opts.NumberType
	case ir.KindBoolean:
		return "bool"
	case ir.KindUnit:
		return "()"
	case ir.KindNamed:
		return t.Name + generics(t.Borrowed)
	case ir.KindArray:
		return "Vec<" + e.typeString(*t.Elem) + ">"
	case ir.KindMap:
		return mapType + "<" + e.typeString(*t.Key) + ", " + e.typeString(*t.Elem) + ">"
	}
	return t.Kind.String()
}

func placeholderName(t ir.Type) string {
	if t.Kind == ir.KindArray {
		return placeholderName(*t.Elem) + "[]"
	}
	return t.Kind.String()
}

// quote renders s as a Rust string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\u{%x}`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
