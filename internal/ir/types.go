package ir

// TypeKind classifies a type expression.
type TypeKind int

const (
	KindString TypeKind = iota
	KindNumber
	KindBoolean
	KindUnit
	KindNamed
	KindArray
	KindMap
	KindUnknown
	// KindUnknownLiteral is a non-string literal type.
	KindUnknownLiteral
	// KindUnknownIntersection is an intersection other than a named type
	// with an object literal.
	KindUnknownIntersection
	// KindUnknownUnion is a union none of whose alternatives can be
	// represented, such as `1 | 2`.
	KindUnknownUnion
)

var kindNames = map[TypeKind]string{
	KindString:              "string",
	KindNumber:              "number",
	KindBoolean:             "boolean",
	KindUnit:                "unit",
	KindNamed:               "named",
	KindArray:               "array",
	KindMap:                 "map",
	KindUnknown:             "Unknown",
	KindUnknownLiteral:      "UnknownLiteral",
	KindUnknownIntersection: "UnknownIntersection",
	KindUnknownUnion:        "UnknownUnion",
}

func (k TypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// IsPlaceholder reports whether the kind is one of the opaque markers.
func (k TypeKind) IsPlaceholder() bool {
	switch k {
	case KindUnknown, KindUnknownLiteral, KindUnknownIntersection, KindUnknownUnion:
		return true
	}
	return false
}

// PlaceholderKinds lists the opaque marker kinds in declaration order.
var PlaceholderKinds = []TypeKind{
	KindUnknown,
	KindUnknownLiteral,
	KindUnknownIntersection,
	KindUnknownUnion,
}

// Type is a type expression.
type Type struct {
	Kind TypeKind `json:"kind"`

	// Name is the referenced segment for KindNamed.
	Name string `json:"name,omitempty"`

	// Borrowed marks a KindString or KindNamed expression that may hold
	// references into the input buffer.
	Borrowed bool `json:"borrowed,omitempty"`

	// Elem is the element of KindArray or the value of KindMap.
	Elem *Type `json:"elem,omitempty"`

	// Key is the key of KindMap.
	Key *Type `json:"key,omitempty"`
}

// Prim returns a type of a kind without children (primitives and
// placeholders).
func Prim(kind TypeKind) Type { return Type{Kind: kind} }

// Named returns a reference to the segment called name.
func Named(name string) Type { return Type{Kind: KindNamed, Name: name} }

// ArrayOf returns an array of elem.
func ArrayOf(elem Type) Type { return Type{Kind: KindArray, Elem: &elem} }

// MapOf returns a key to value map.
func MapOf(key, value Type) Type { return Type{Kind: KindMap, Key: &key, Elem: &value} }

// IsPlaceholder reports whether the expression cannot be represented. An
// array of a placeholder is itself a placeholder.
func (t Type) IsPlaceholder() bool {
	if t.Kind == KindArray && t.Elem != nil {
		return t.Elem.IsPlaceholder()
	}
	return t.Kind.IsPlaceholder()
}

// IsBorrowed reports whether the expression reaches a borrowed string or a
// borrowed named type.
func (t Type) IsBorrowed() bool {
	switch t.Kind {
	case KindString, KindNamed:
		return t.Borrowed
	case KindArray:
		return t.Elem.IsBorrowed()
	case KindMap:
		return t.Key.IsBorrowed() || t.Elem.IsBorrowed()
	}
	return false
}

// Clone returns a deep copy.
func (t Type) Clone() Type {
	c := t
	if t.Elem != nil {
		e := t.Elem.Clone()
		c.Elem = &e
	}
	if t.Key != nil {
		k := t.Key.Clone()
		c.Key = &k
	}
	return c
}

// Walk calls fn for t and every nested expression, parents first. It does
// not descend into placeholders (they have no children).
func (t *Type) Walk(fn func(*Type)) {
	fn(t)
	switch t.Kind {
	case KindArray:
		t.Elem.Walk(fn)
	case KindMap:
		t.Key.Walk(fn)
		t.Elem.Walk(fn)
	}
}

// NamedRefs returns the segment names referenced by the expression, in
// walk order, recursing through arrays and maps.
func (t *Type) NamedRefs() []string {
	var refs []string
	t.Walk(func(n *Type) {
		if n.Kind == KindNamed {
			refs = append(refs, n.Name)
		}
	})
	return refs
}

// VariantIdent derives a variant identifier for a payload type. A named
// payload uses its type name.
func (t Type) VariantIdent() string {
	switch t.Kind {
	case KindNamed:
		return t.Name
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	case KindUnit:
		return "Null"
	case KindArray:
		return t.Elem.VariantIdent() + "Array"
	case KindMap:
		return "Map"
	}
	return t.Kind.String()
}
