package syntax

import (
	"strconv"
	"strings"
)

// The printer renders nodes back to canonical declaration syntax. Doc
// comments and source positions are not printed, so two nodes print the same
// exactly when they are structurally equal ignoring position.

func (m *Member) String() string {
	var sb strings.Builder
	m.write(&sb)
	return sb.String()
}

func (t *Type) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

// Equal reports structural equality ignoring source positions and comments.
func (m *Member) Equal(other *Member) bool {
	return m.String() == other.String()
}

func (m *Member) write(sb *strings.Builder) {
	switch {
	case m.Index != nil:
		sb.WriteString("[")
		sb.WriteString(m.Index.Key)
		sb.WriteString(": ")
		m.Index.KeyType.write(sb)
		sb.WriteString("]: ")
		m.Index.Value.write(sb)
	case m.Prop != nil:
		sb.WriteString(strconv.Quote(m.Prop.Name))
		if m.Prop.Optional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		m.Prop.Type.write(sb)
	}
}

func (t *Type) write(sb *strings.Builder) {
	for i, alt := range t.Alts {
		if i > 0 {
			sb.WriteString(" | ")
		}
		for j, part := range alt.Parts {
			if j > 0 {
				sb.WriteString(" & ")
			}
			part.write(sb)
		}
	}
}

func (p *Postfix) write(sb *strings.Builder) {
	p.Primary.write(sb)
	for range p.Arrays {
		sb.WriteString("[]")
	}
}

func (p *Primary) write(sb *strings.Builder) {
	switch {
	case p.Paren != nil:
		sb.WriteString("(")
		p.Paren.write(sb)
		sb.WriteString(")")
	case p.Object != nil:
		sb.WriteString("{ ")
		for _, m := range p.Object.Members {
			m.write(sb)
			sb.WriteString("; ")
		}
		sb.WriteString("}")
	case p.Tuple != nil:
		sb.WriteString("[")
		for i, e := range p.Tuple.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		sb.WriteString("]")
	case p.String != nil:
		sb.WriteString(strconv.Quote(*p.String))
	case p.Number != nil:
		sb.WriteString(*p.Number)
	case p.Keyof != nil:
		sb.WriteString("keyof ")
		p.Keyof.write(sb)
	case p.Ref != nil:
		sb.WriteString(strings.Join(p.Ref.Name, "."))
		if len(p.Ref.Args) > 0 {
			sb.WriteString("<")
			for i, a := range p.Ref.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.write(sb)
			}
			sb.WriteString(">")
		}
	}
}
