package frontend

import (
	"slices"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/roach88/tsbind/internal/ir"
	"github.com/roach88/tsbind/internal/syntax"
)

// Options configures lowering.
type Options struct {
	// Reserved extends the built-in property key rename table.
	Reserved map[string]string

	// Skip lists declarations that are replaced by empty stub records.
	Skip []string
}

type converter struct {
	segments []ir.Segment
	lkm      ir.LiteralKeyMap

	// literalSets maps a literal-set key to the sum type generated for it.
	literalSets map[string]string

	counters map[string]int
	taken    map[string]bool
	reserved map[string]string

	// params are the type parameters of the declaration being lowered.
	params map[string]bool

	// pos is the position of the innermost declaration or member.
	pos lexer.Position
}

// Convert lowers every declaration of file, in order, into a Schema.
func Convert(file *syntax.File, opts Options) (*ir.Schema, error) {
	c := &converter{
		lkm:         ir.LiteralKeyMap{},
		literalSets: make(map[string]string),
		counters:    make(map[string]int),
		taken:       make(map[string]bool),
		reserved:    ReservedTable(opts.Reserved),
	}
	for _, d := range file.Decls {
		c.taken[d.Name()] = true
	}

	for _, d := range file.Decls {
		c.pos = d.Pos
		if slices.Contains(opts.Skip, d.Name()) {
			c.push(&ir.Record{Name: d.Name()})
			continue
		}
		var err error
		switch {
		case d.Interface != nil:
			err = c.interfaceDecl(d.Interface, syntax.DocText(d.Doc))
		case d.Alias != nil:
			err = c.aliasDecl(d.Alias, syntax.DocText(d.Doc))
		}
		if err != nil {
			return nil, err
		}
	}
	return &ir.Schema{Segments: c.segments, Literals: c.lkm}, nil
}

func (c *converter) push(seg ir.Segment) ir.Type {
	c.segments = append(c.segments, seg)
	return ir.Named(seg.SegmentName())
}

func (c *converter) setParams(params []string) {
	c.params = make(map[string]bool, len(params))
	for _, p := range params {
		c.params[p] = true
	}
}

func (c *converter) interfaceDecl(decl *syntax.Interface, doc string) error {
	c.setParams(decl.Params)
	rec, err := c.typeLiteral(decl.Members, declCtx(decl.Name))
	if err != nil {
		return err
	}
	rec.Doc = doc
	for _, base := range decl.Extends {
		ty := ir.Prim(ir.KindUnknown)
		if name, ok := base.Keyword(); ok {
			ty = ir.Named(name)
		}
		rec.Fields = append(rec.Fields, c.flattenField(base.Name[len(base.Name)-1], ty, rec.Fields))
	}
	c.push(rec)
	return nil
}

func (c *converter) aliasDecl(decl *syntax.TypeAlias, doc string) error {
	c.setParams(decl.Params)
	rhs := decl.Type.Unparen()

	// Unions, intersections and object literals take the alias name itself.
	granted := len(rhs.Alts) > 1 || len(rhs.Alts[0].Parts) > 1
	if p := rhs.Single(); p != nil && len(p.Arrays) == 0 && p.Primary.Object != nil {
		granted = true
	}
	before := len(c.segments)
	_, ty, err := c.convertType(rhs, aliasCtx(decl.Name, granted))
	if err != nil {
		return err
	}
	if ty.Kind != ir.KindNamed || ty.Name != decl.Name {
		c.push(&ir.Alias{Name: decl.Name, Doc: doc, Type: ty})
		return nil
	}
	for _, seg := range c.segments[before:] {
		if seg.SegmentName() == decl.Name {
			setDoc(seg, doc)
		}
	}
	return nil
}

func setDoc(seg ir.Segment, doc string) {
	switch s := seg.(type) {
	case *ir.Record:
		s.Doc = doc
	case *ir.SumType:
		s.Doc = doc
	case *ir.Alias:
		s.Doc = doc
	}
}

// typeLiteral builds a record from object members. The record is named by
// ctx but not pushed; nested anonymous types are pushed as they are met.
func (c *converter) typeLiteral(members []*syntax.Member, ctx *nameCtx) (*ir.Record, error) {
	rec := &ir.Record{Name: c.ident(ctx)}
	for _, m := range members {
		c.pos = m.Pos
		var (
			f   ir.Field
			err error
		)
		switch {
		case m.Prop != nil:
			f, err = c.property(m.Prop, ctx, rec.Name)
		case m.Index != nil:
			f, err = c.indexSignature(m.Index, ctx)
		}
		if err != nil {
			return nil, err
		}
		f.Doc = syntax.DocText(m.Doc)
		rec.Fields = append(rec.Fields, f)
	}
	return rec, nil
}

func (c *converter) property(prop *syntax.Property, ctx *nameCtx, owner string) (ir.Field, error) {
	name, rename := c.fieldName(prop.Name)
	nullable, ty, err := c.convertType(prop.Type, ctx.project(name))
	if err != nil {
		return ir.Field{}, err
	}
	if lit, ok := prop.Type.StringLiteral(); ok {
		c.lkm.Set(owner, prop.Name, lit)
	}
	return ir.Field{
		Name:     name,
		Type:     ty,
		Optional: prop.Optional || nullable,
		Attrs:    ir.Attrs{Rename: rename},
	}, nil
}

func (c *converter) indexSignature(idx *syntax.IndexSignature, ctx *nameCtx) (ir.Field, error) {
	inner := ctx.clone()
	_, key, err := c.convertType(idx.KeyType, inner)
	if err != nil {
		return ir.Field{}, err
	}
	_, value, err := c.convertType(idx.Value, inner)
	if err != nil {
		return ir.Field{}, err
	}
	name, _ := c.fieldName(idx.Key)
	return ir.Field{
		Name:  name,
		Type:  ir.MapOf(key, value),
		Attrs: ir.Attrs{Flatten: true},
	}, nil
}

// flattenField returns a flatten field for ty named after typeName. The name
// gets a numeric suffix when a field of fields already has it.
func (c *converter) flattenField(typeName string, ty ir.Type, fields []ir.Field) ir.Field {
	base := ir.ToSnake(typeName)
	if r, ok := c.reserved[base]; ok {
		base = r
	}
	name := base
	for i := 2; slices.ContainsFunc(fields, func(f ir.Field) bool { return f.Name == name }); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	return ir.Field{Name: name, Type: ty, Attrs: ir.Attrs{Flatten: true}}
}

// convertType lowers a type expression. nullable reports a stripped null
// alternative.
func (c *converter) convertType(t *syntax.Type, ctx *nameCtx) (nullable bool, ty ir.Type, err error) {
	t = t.Unparen()
	switch {
	case len(t.Alts) > 1:
		return c.union(t.Alts, ctx.clone())
	case len(t.Alts[0].Parts) > 1:
		ty, err = c.intersection(t.Alts[0].Parts, ctx.clone())
		return false, ty, err
	}
	return c.postfix(t.Alts[0].Parts[0], ctx)
}

func (c *converter) postfix(p *syntax.Postfix, ctx *nameCtx) (bool, ir.Type, error) {
	nullable, ty, err := c.primary(p.Primary, ctx)
	if err != nil {
		return false, ir.Type{}, err
	}
	if len(p.Arrays) == 0 {
		return nullable, ty, nil
	}
	for range p.Arrays {
		ty = ir.ArrayOf(ty)
	}
	return false, ty, nil
}

func (c *converter) primary(p *syntax.Primary, ctx *nameCtx) (bool, ir.Type, error) {
	switch {
	case p.Paren != nil:
		return c.convertType(p.Paren, ctx)
	case p.Object != nil:
		rec, err := c.typeLiteral(p.Object.Members, ctx)
		if err != nil {
			return false, ir.Type{}, err
		}
		return false, c.push(rec), nil
	case p.Tuple != nil:
		if len(p.Tuple.Elems) == 0 {
			return false, ir.Prim(ir.KindUnit), nil
		}
		return false, ir.Prim(ir.KindUnknown), nil
	case p.String != nil, p.Number != nil:
		return false, ir.Prim(ir.KindUnknownLiteral), nil
	case p.Keyof != nil:
		return false, ir.Prim(ir.KindUnknown), nil
	case p.Ref != nil:
		ty, err := c.typeRef(p.Ref)
		return false, ty, err
	}
	return false, ir.Type{}, &UnsupportedError{Pos: c.pos, Construct: "empty type expression"}
}

func (c *converter) typeRef(ref *syntax.TypeRef) (ir.Type, error) {
	name, ok := ref.Keyword()
	if !ok {
		// Generic instantiations and qualified names.
		return ir.Prim(ir.KindUnknown), nil
	}
	switch name {
	case "string":
		return ir.Prim(ir.KindString), nil
	case "number":
		return ir.Prim(ir.KindNumber), nil
	case "boolean":
		return ir.Prim(ir.KindBoolean), nil
	case "null":
		return ir.Prim(ir.KindUnit), nil
	case "unknown", "any", "object":
		return ir.Prim(ir.KindUnknown), nil
	case "true", "false":
		return ir.Prim(ir.KindUnknownLiteral), nil
	case "undefined", "never", "void", "bigint", "symbol":
		return ir.Type{}, &UnsupportedError{Pos: c.pos, Construct: "keyword type " + strconv.Quote(name)}
	}
	if c.params[name] {
		return ir.Prim(ir.KindUnknown), nil
	}
	return ir.Named(name), nil
}

func isNull(alt *syntax.Intersection) bool {
	if len(alt.Parts) != 1 || len(alt.Parts[0].Arrays) != 0 || alt.Parts[0].Primary.Ref == nil {
		return false
	}
	name, ok := alt.Parts[0].Primary.Ref.Keyword()
	return ok && name == "null"
}

func (c *converter) union(alts []*syntax.Intersection, ctx *nameCtx) (bool, ir.Type, error) {
	nullable := false
	var types []*syntax.Type
	for _, alt := range alts {
		if isNull(alt) {
			nullable = true
			continue
		}
		types = append(types, (&syntax.Type{Alts: []*syntax.Intersection{alt}}).Unparen())
	}
	switch len(types) {
	case 0:
		return true, ir.Prim(ir.KindUnit), nil
	case 1:
		n, ty, err := c.convertType(types[0], ctx)
		return nullable || n, ty, err
	}

	if lits, ok := stringLiterals(types); ok {
		return nullable, c.literalUnion(lits, ctx), nil
	}
	if objs, ok := objectLiterals(types); ok {
		ty, err := c.objectUnion(objs, ctx)
		return nullable, ty, err
	}

	name := c.ident(ctx)
	if !ctx.fromAlias {
		name = c.claim(name + "Union")
	}
	sum := &ir.SumType{Name: name, Attrs: ir.ContainerAttrs{Untagged: true}}
	seen := make(map[string]int)
	opaque := true
	for _, t := range types {
		_, ty, err := c.convertType(t, ctx)
		if err != nil {
			return false, ir.Type{}, err
		}
		opaque = opaque && ty.IsPlaceholder()
		v := ir.UnaryVariant(ty)
		id := v.Ident()
		if n := seen[id]; n > 0 {
			v.NameAs(id + strconv.Itoa(n+1))
		}
		seen[id]++
		sum.Variants = append(sum.Variants, v)
	}
	// No alternative is representable. Placeholder conversions push nothing,
	// so only the name is left unused.
	if opaque {
		return nullable, ir.Prim(ir.KindUnknownUnion), nil
	}
	return nullable, c.push(sum), nil
}

func stringLiterals(types []*syntax.Type) ([]string, bool) {
	lits := make([]string, 0, len(types))
	for _, t := range types {
		lit, ok := t.StringLiteral()
		if !ok {
			return nil, false
		}
		lits = append(lits, lit)
	}
	return lits, true
}

func objectLiterals(types []*syntax.Type) ([][]*syntax.Member, bool) {
	objs := make([][]*syntax.Member, 0, len(types))
	for _, t := range types {
		p := t.Single()
		if p == nil || len(p.Arrays) != 0 || p.Primary.Object == nil {
			return nil, false
		}
		objs = append(objs, p.Primary.Object.Members)
	}
	return objs, true
}

// literalUnion lowers a union of string literals to a sum type of nullary
// variants, or to an alias when the same set was lowered before.
func (c *converter) literalUnion(lits []string, ctx *nameCtx) ir.Type {
	values := slices.Clone(lits)
	slices.Sort(values)
	values = slices.Compact(values)

	name := c.ident(ctx)
	key := ir.LiteralSetKey(values)
	if existing, ok := c.literalSets[key]; ok {
		return c.push(&ir.Alias{Name: name, Type: ir.Named(existing)})
	}
	c.literalSets[key] = name

	sum := &ir.SumType{Name: name}
	seen := make(map[string]int)
	for _, v := range values {
		id := ir.LiteralIdent(v)
		if n := seen[id]; n > 0 {
			seen[id]++
			id += strconv.Itoa(n + 1)
		} else {
			seen[id] = 1
		}
		variant := ir.NullaryVariant(id)
		if id != v {
			variant.Attrs.Rename = v
		}
		sum.Variants = append(sum.Variants, variant)
	}
	return c.push(sum)
}

// objectUnion lowers a union of object literals to a base record holding the
// common members, plus an untagged sum type over one record per distinct
// member set, merged into the base.
func (c *converter) objectUnion(objs [][]*syntax.Member, ctx *nameCtx) (ir.Type, error) {
	common, diffs := mergeMembers(objs)
	base, err := c.typeLiteral(common, ctx)
	if err != nil {
		return ir.Type{}, err
	}
	var variants []ir.Variant
	for _, d := range diffs {
		rec, err := c.typeLiteral(d, ctx)
		if err != nil {
			return ir.Type{}, err
		}
		variants = append(variants, ir.UnaryVariant(c.push(rec)))
	}
	sum := &ir.SumType{
		Name:     c.identWith(ctx, "DistinctUnion"),
		Attrs:    ir.ContainerAttrs{Untagged: true},
		Variants: variants,
	}
	base.Fields = append(base.Fields, ir.Field{
		Name:  "distinct",
		Type:  c.push(sum),
		Attrs: ir.Attrs{Flatten: true},
	})
	return c.push(base), nil
}

// intersection supports a named reference combined with an object literal.
// Every other shape is a placeholder.
func (c *converter) intersection(parts []*syntax.Postfix, ctx *nameCtx) (ir.Type, error) {
	if len(parts) != 2 {
		return ir.Prim(ir.KindUnknownIntersection), nil
	}
	ref, obj := parts[0], parts[1]
	if obj.Primary.Ref != nil {
		ref, obj = obj, ref
	}
	if len(ref.Arrays) != 0 || len(obj.Arrays) != 0 || ref.Primary.Ref == nil || obj.Primary.Object == nil {
		return ir.Prim(ir.KindUnknownIntersection), nil
	}
	refType, err := c.typeRef(ref.Primary.Ref)
	if err != nil {
		return ir.Type{}, err
	}
	if refType.Kind != ir.KindNamed {
		return ir.Prim(ir.KindUnknownIntersection), nil
	}

	rec, err := c.typeLiteral(obj.Primary.Object.Members, ctx)
	if err != nil {
		return ir.Type{}, err
	}
	if allPlaceholders(rec.Fields) {
		return c.push(&ir.Alias{Name: rec.Name, Type: refType}), nil
	}
	rec.Fields = append(rec.Fields, c.flattenField(refType.Name, refType, rec.Fields))
	return c.push(rec), nil
}

func allPlaceholders(fields []ir.Field) bool {
	for _, f := range fields {
		if !f.Type.IsPlaceholder() {
			return false
		}
	}
	return true
}
