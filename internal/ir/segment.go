package ir

// Segment is a top-level named output definition.
type Segment interface {
	SegmentName() string
	IsBorrowed() bool
	segment()
}

// Attrs are per-field and per-variant serialization attributes.
type Attrs struct {
	// Rename overrides the wire name.
	Rename string `json:"rename,omitempty"`

	// Flatten inlines the member's fields into the owner.
	Flatten bool `json:"flatten,omitempty"`

	// Borrow is the hint that the member may borrow from the input buffer
	// even though the owner has no directly borrowed text field.
	Borrow bool `json:"borrow,omitempty"`
}

// IsZero reports whether no attribute is set.
func (a Attrs) IsZero() bool {
	return a == Attrs{}
}

// ContainerAttrs are per-segment serialization attributes.
type ContainerAttrs struct {
	// RenameAll converts every variant identifier to the given convention.
	RenameAll RenameRule `json:"rename_all,omitempty"`

	// Tag names the discriminant field of an internally tagged sum type.
	Tag string `json:"tag,omitempty"`

	// Untagged selects the variant by trying each payload in order.
	Untagged bool `json:"untagged,omitempty"`
}

// Field is a named member of a Record.
type Field struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Attrs    Attrs  `json:"attrs,omitzero"`
	Doc      string `json:"doc,omitempty"`
}

// Record is a product type with named fields.
type Record struct {
	Name     string         `json:"name"`
	Attrs    ContainerAttrs `json:"attrs,omitzero"`
	Doc      string         `json:"doc,omitempty"`
	Borrowed bool           `json:"borrowed,omitempty"`
	Fields   []Field        `json:"fields"`
}

func (r *Record) SegmentName() string { return r.Name }
func (r *Record) IsBorrowed() bool    { return r.Borrowed }
func (*Record) segment()              {}

// VariantKind is the payload shape of a Variant.
type VariantKind int

const (
	// Nullary carries no payload.
	Nullary VariantKind = iota
	// Unary carries one payload and derives its identifier from it.
	Unary
	// NamedUnary carries one payload under an explicit identifier.
	NamedUnary
)

func (k VariantKind) String() string {
	switch k {
	case Nullary:
		return "nullary"
	case Unary:
		return "unary"
	case NamedUnary:
		return "named-unary"
	}
	return "invalid"
}

// Variant is one alternative of a SumType.
type Variant struct {
	Kind  VariantKind `json:"kind"`
	Name  string      `json:"name,omitempty"`
	Type  *Type       `json:"type,omitempty"`
	Attrs Attrs       `json:"attrs,omitzero"`
	Doc   string      `json:"doc,omitempty"`
}

// NullaryVariant returns a payload-less variant.
func NullaryVariant(name string) Variant {
	return Variant{Kind: Nullary, Name: name}
}

// UnaryVariant returns a variant whose identifier derives from t.
func UnaryVariant(t Type) Variant {
	return Variant{Kind: Unary, Type: &t}
}

// Ident returns the variant identifier.
func (v Variant) Ident() string {
	if v.Kind == Unary {
		return v.Type.VariantIdent()
	}
	return v.Name
}

// WireName returns the name the variant has on the wire.
func (v Variant) WireName() string {
	if v.Attrs.Rename != "" {
		return v.Attrs.Rename
	}
	return v.Ident()
}

// NameAs gives the variant an explicit identifier. A Unary variant becomes
// NamedUnary.
func (v *Variant) NameAs(name string) {
	if v.Kind == Unary {
		v.Kind = NamedUnary
	}
	v.Name = name
}

// SumType is a tagged union of variants.
type SumType struct {
	Name     string         `json:"name"`
	Attrs    ContainerAttrs `json:"attrs,omitzero"`
	Doc      string         `json:"doc,omitempty"`
	Borrowed bool           `json:"borrowed,omitempty"`
	Variants []Variant      `json:"variants"`
}

func (s *SumType) SegmentName() string { return s.Name }
func (s *SumType) IsBorrowed() bool    { return s.Borrowed }
func (*SumType) segment()              {}

// Alias is a named alias of a type expression.
type Alias struct {
	Name     string `json:"name"`
	Doc      string `json:"doc,omitempty"`
	Borrowed bool   `json:"borrowed,omitempty"`
	Type     Type   `json:"type"`
}

func (a *Alias) SegmentName() string { return a.Name }
func (a *Alias) IsBorrowed() bool    { return a.Borrowed }
func (*Alias) segment()              {}

// Schema is an ordered list of segments plus the literal key map collected
// while lowering.
type Schema struct {
	Segments []Segment
	Literals LiteralKeyMap
}

// Index returns the segments by name. Later duplicates win.
func (s *Schema) Index() map[string]Segment {
	idx := make(map[string]Segment, len(s.Segments))
	for _, seg := range s.Segments {
		idx[seg.SegmentName()] = seg
	}
	return idx
}

// Lookup returns the first segment called name.
func (s *Schema) Lookup(name string) (Segment, bool) {
	for _, seg := range s.Segments {
		if seg.SegmentName() == name {
			return seg, true
		}
	}
	return nil, false
}

// TypeRefs returns pointers to every top-level member type expression of a
// segment, in declaration order. Nullary variants contribute nothing.
func TypeRefs(seg Segment) []*Type {
	var refs []*Type
	switch s := seg.(type) {
	case *Record:
		for i := range s.Fields {
			refs = append(refs, &s.Fields[i].Type)
		}
	case *SumType:
		for i := range s.Variants {
			if s.Variants[i].Type != nil {
				refs = append(refs, s.Variants[i].Type)
			}
		}
	case *Alias:
		refs = append(refs, &s.Type)
	}
	return refs
}

// References returns the segment names referenced by seg, in declaration
// order, with duplicates.
func References(seg Segment) []string {
	var names []string
	for _, t := range TypeRefs(seg) {
		names = append(names, t.NamedRefs()...)
	}
	return names
}
