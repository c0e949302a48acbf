package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsbind/internal/ir"
	"github.com/roach88/tsbind/internal/syntax"
)

func convert(t *testing.T, src string, opts Options) *ir.Schema {
	t.Helper()
	file, err := syntax.ParseString("test.d.ts", src)
	require.NoError(t, err)
	schema, err := Convert(file, opts)
	require.NoError(t, err)
	return schema
}

func segmentNames(s *ir.Schema) []string {
	names := make([]string, 0, len(s.Segments))
	for _, seg := range s.Segments {
		names = append(names, seg.SegmentName())
	}
	return names
}

func record(t *testing.T, s *ir.Schema, name string) *ir.Record {
	t.Helper()
	seg, ok := s.Lookup(name)
	require.True(t, ok, "segment %s not found", name)
	rec, ok := seg.(*ir.Record)
	require.True(t, ok, "segment %s is %T", name, seg)
	return rec
}

func sumType(t *testing.T, s *ir.Schema, name string) *ir.SumType {
	t.Helper()
	seg, ok := s.Lookup(name)
	require.True(t, ok, "segment %s not found", name)
	sum, ok := seg.(*ir.SumType)
	require.True(t, ok, "segment %s is %T", name, seg)
	return sum
}

// TestConvert_PropertiesAndLiteralUnions tests path naming, reserved keys and
// reuse of identical literal sets.
func TestConvert_PropertiesAndLiteralUnions(t *testing.T) {
	s := convert(t, `
export interface Repo {
  visibility: "public" | "private";
  /** Account kind. */
  type: "User" | "Bot";
  owner: { login: string; kind?: "public" | "private" | null };
}
`, Options{})

	assert.Equal(t, []string{"RepoVisibility", "RepoType", "RepoOwnerKind", "RepoOwner", "Repo"}, segmentNames(s))

	vis := sumType(t, s, "RepoVisibility")
	require.Len(t, vis.Variants, 2)
	assert.Equal(t, "Private", vis.Variants[0].Name)
	assert.Equal(t, "private", vis.Variants[0].Attrs.Rename)
	assert.Equal(t, "Public", vis.Variants[1].Name)
	assert.False(t, vis.Attrs.Untagged)

	kinds := sumType(t, s, "RepoType")
	assert.Equal(t, "Bot", kinds.Variants[0].Name)
	assert.Empty(t, kinds.Variants[0].Attrs.Rename)

	alias, ok := s.Segments[2].(*ir.Alias)
	require.True(t, ok)
	assert.Equal(t, ir.Named("RepoVisibility"), alias.Type)

	repo := record(t, s, "Repo")
	require.Len(t, repo.Fields, 3)
	assert.Equal(t, "type_", repo.Fields[1].Name)
	assert.Equal(t, "type", repo.Fields[1].Attrs.Rename)
	assert.Equal(t, "Account kind.", repo.Fields[1].Doc)
	assert.Equal(t, ir.Named("RepoOwner"), repo.Fields[2].Type)

	owner := record(t, s, "RepoOwner")
	require.Len(t, owner.Fields, 2)
	assert.True(t, owner.Fields[1].Optional)
	assert.Equal(t, ir.Named("RepoOwnerKind"), owner.Fields[1].Type)
}

// TestConvert_ObjectUnion tests merging a union of object literals into a base
// record with a distinct-members sum type.
func TestConvert_ObjectUnion(t *testing.T) {
	s := convert(t, `
export type Ev =
  | { action: "created"; issue: Issue; }
  | { action: "deleted"; issue: Issue; reason: string };
export interface Issue { id: number }
`, Options{})

	assert.Equal(t, []string{"Ev1", "Ev2", "EvDistinctUnion", "Ev", "Issue"}, segmentNames(s))

	base := record(t, s, "Ev")
	require.Len(t, base.Fields, 2)
	assert.Equal(t, "issue", base.Fields[0].Name)
	assert.Equal(t, "distinct", base.Fields[1].Name)
	assert.True(t, base.Fields[1].Attrs.Flatten)
	assert.Equal(t, ir.Named("EvDistinctUnion"), base.Fields[1].Type)

	sum := sumType(t, s, "EvDistinctUnion")
	assert.True(t, sum.Attrs.Untagged)
	require.Len(t, sum.Variants, 2)
	assert.Equal(t, "Ev1", sum.Variants[0].Ident())
	assert.Equal(t, "Ev2", sum.Variants[1].Ident())

	assert.Len(t, record(t, s, "Ev2").Fields, 2)
	assert.Equal(t, map[string]string{"action": "created"}, s.Literals["Ev1"])
	assert.Equal(t, map[string]string{"action": "deleted"}, s.Literals["Ev2"])
}

// TestConvert_Intersection tests the named-and-object intersection shapes.
func TestConvert_Intersection(t *testing.T) {
	s := convert(t, `
export type Named = Repository & { extra: string };
/** Nothing to add. */
export type Plain = Repository & { x: unknown };
export type Triple = A & B & C;
export interface Repository { name: string }
export interface Holder { repo: Repository & { owner: string } }
`, Options{})

	named := record(t, s, "Named")
	require.Len(t, named.Fields, 2)
	assert.Equal(t, "repository", named.Fields[1].Name)
	assert.True(t, named.Fields[1].Attrs.Flatten)
	assert.Equal(t, ir.Named("Repository"), named.Fields[1].Type)

	seg, ok := s.Lookup("Plain")
	require.True(t, ok)
	plain, ok := seg.(*ir.Alias)
	require.True(t, ok)
	assert.Equal(t, ir.Named("Repository"), plain.Type)
	assert.Equal(t, "Nothing to add.", plain.Doc)

	seg, ok = s.Lookup("Triple")
	require.True(t, ok)
	assert.Equal(t, ir.Prim(ir.KindUnknownIntersection), seg.(*ir.Alias).Type)

	holder := record(t, s, "Holder")
	assert.Equal(t, ir.Named("HolderRepo"), holder.Fields[0].Type)
	assert.Len(t, record(t, s, "HolderRepo").Fields, 2)
}

// TestConvert_MixedUnion tests untagged unions of arbitrary alternatives.
func TestConvert_MixedUnion(t *testing.T) {
	s := convert(t, `
export interface A { value: string | number[] | B; }
export interface B { x: number }
export type Events = ("a" | "b")[] | ["*"];
`, Options{})

	assert.Equal(t, []string{"AValueUnion", "A", "B", "Events1", "Events"}, segmentNames(s))

	u := sumType(t, s, "AValueUnion")
	assert.True(t, u.Attrs.Untagged)
	idents := make([]string, 0, len(u.Variants))
	for i := range u.Variants {
		idents = append(idents, u.Variants[i].Ident())
	}
	assert.Equal(t, []string{"String", "NumberArray", "B"}, idents)

	ev := sumType(t, s, "Events")
	require.Len(t, ev.Variants, 2)
	assert.Equal(t, "Events1Array", ev.Variants[0].Ident())
	assert.Equal(t, ir.KindUnknown, ev.Variants[1].Type.Kind)
	assert.Equal(t, "a", sumType(t, s, "Events1").Variants[0].Attrs.Rename)
}

// TestConvert_FieldShapes tests nullability, index signatures and keyword types.
func TestConvert_FieldShapes(t *testing.T) {
	s := convert(t, `
export interface H<T> {
  [k: string]: string;
  maybe: string | null;
  gone?: number;
  nothing: null;
  tuple: [];
  generic: T;
  lit: "fixed";
  "+1": number;
  "content-type": string;
  list: Array<string>;
}
`, Options{})

	h := record(t, s, "H")
	require.Len(t, h.Fields, 10)

	idx := h.Fields[0]
	assert.Equal(t, "k", idx.Name)
	assert.True(t, idx.Attrs.Flatten)
	assert.Equal(t, ir.MapOf(ir.Prim(ir.KindString), ir.Prim(ir.KindString)), idx.Type)

	assert.True(t, h.Fields[1].Optional)
	assert.Equal(t, ir.KindString, h.Fields[1].Type.Kind)
	assert.True(t, h.Fields[2].Optional)
	assert.Equal(t, ir.KindUnit, h.Fields[3].Type.Kind)
	assert.Equal(t, ir.KindUnit, h.Fields[4].Type.Kind)
	assert.Equal(t, ir.KindUnknown, h.Fields[5].Type.Kind)
	assert.Equal(t, ir.KindUnknownLiteral, h.Fields[6].Type.Kind)

	assert.Equal(t, "plus_1", h.Fields[7].Name)
	assert.Equal(t, "+1", h.Fields[7].Attrs.Rename)
	assert.Equal(t, "content_type", h.Fields[8].Name)
	assert.Equal(t, "content-type", h.Fields[8].Attrs.Rename)
	assert.Equal(t, ir.KindUnknown, h.Fields[9].Type.Kind)

	assert.Equal(t, map[string]string{"lit": "fixed"}, s.Literals["H"])
}

// TestConvert_NameCollision tests that synthesized names skip declared names.
func TestConvert_NameCollision(t *testing.T) {
	s := convert(t, `
export interface Issue { user: { login: string }; assignee: { login: string } }
export interface IssueUser { id: number }
`, Options{})

	assert.Equal(t, []string{"IssueUser1", "IssueAssignee", "Issue", "IssueUser"}, segmentNames(s))
}

// TestConvert_UnionNameCollision tests that a synthesized union name skips a
// declared type of the same name.
func TestConvert_UnionNameCollision(t *testing.T) {
	s := convert(t, `
export interface Q { v: string | number }
export interface QVUnion { a: number }
`, Options{})

	assert.Equal(t, []string{"QVUnion2", "Q", "QVUnion"}, segmentNames(s))
	assert.Equal(t, ir.Named("QVUnion2"), record(t, s, "Q").Fields[0].Type)
	assert.Len(t, sumType(t, s, "QVUnion2").Variants, 2)
}

// TestConvert_FlattenFieldCollision tests that a flatten field never shares
// its name with another field of the record.
func TestConvert_FlattenFieldCollision(t *testing.T) {
	s := convert(t, `
export interface Foo { id: number }
export type Bar = Foo & { foo: string };
export interface Base { id: number }
export interface Child extends Base { base: string }
`, Options{})

	bar := record(t, s, "Bar")
	require.Len(t, bar.Fields, 2)
	assert.Equal(t, "foo", bar.Fields[0].Name)
	assert.False(t, bar.Fields[0].Attrs.Flatten)
	assert.Equal(t, "foo_2", bar.Fields[1].Name)
	assert.True(t, bar.Fields[1].Attrs.Flatten)
	assert.Equal(t, ir.Named("Foo"), bar.Fields[1].Type)

	child := record(t, s, "Child")
	require.Len(t, child.Fields, 2)
	assert.Equal(t, "base", child.Fields[0].Name)
	assert.Equal(t, "base_2", child.Fields[1].Name)
	assert.True(t, child.Fields[1].Attrs.Flatten)
}

// TestConvert_OpaqueUnion tests that a union with no representable
// alternative becomes the union placeholder.
func TestConvert_OpaqueUnion(t *testing.T) {
	s := convert(t, `
export interface N { code: 1 | 2; mixed: [number] | 3; kept: string | 4 }
export type Codes = 200 | 404;
`, Options{})

	assert.Equal(t, []string{"NKeptUnion", "N", "Codes"}, segmentNames(s))

	n := record(t, s, "N")
	assert.Equal(t, ir.Prim(ir.KindUnknownUnion), n.Fields[0].Type)
	assert.Equal(t, ir.Prim(ir.KindUnknownUnion), n.Fields[1].Type)
	assert.Equal(t, ir.Named("NKeptUnion"), n.Fields[2].Type)

	seg, ok := s.Lookup("Codes")
	require.True(t, ok)
	alias, ok := seg.(*ir.Alias)
	require.True(t, ok)
	assert.Equal(t, ir.Prim(ir.KindUnknownUnion), alias.Type)
}

// TestConvert_Deterministic tests that lowering the same document twice yields
// the same names.
func TestConvert_Deterministic(t *testing.T) {
	src := `
export type Schema = A | B;
export interface A { kind: "a"; nested: { x: "p" | "q" } }
export interface B { kind: "b"; nested: { x: "q" | "p" } }
`
	first := segmentNames(convert(t, src, Options{}))
	second := segmentNames(convert(t, src, Options{}))
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Schema", "ANestedX", "ANested", "A", "BNestedX", "BNested", "B"}, first)
}

// TestConvert_ExtendsSkipAndReserved tests interface inheritance, skipped
// declarations and configured key renames.
func TestConvert_ExtendsSkipAndReserved(t *testing.T) {
	s := convert(t, `
export interface Base { id: number }
export interface Big { a: string; b: string }
export interface Child extends Base, Big { match: string; mode: string }
`, Options{Skip: []string{"Big"}, Reserved: map[string]string{"mode": "mode_kind"}})

	big := record(t, s, "Big")
	assert.Empty(t, big.Fields)

	child := record(t, s, "Child")
	require.Len(t, child.Fields, 4)
	assert.Equal(t, "match_", child.Fields[0].Name)
	assert.Equal(t, "match", child.Fields[0].Attrs.Rename)
	assert.Equal(t, "mode_kind", child.Fields[1].Name)
	assert.Equal(t, "base", child.Fields[2].Name)
	assert.True(t, child.Fields[2].Attrs.Flatten)
	assert.Equal(t, "big", child.Fields[3].Name)
}

// TestConvert_Unsupported tests that unhandled keyword types are fatal.
func TestConvert_Unsupported(t *testing.T) {
	file, err := syntax.ParseString("bad.d.ts", "export interface X {\n  a: undefined;\n}\n")
	require.NoError(t, err)

	_, err = Convert(file, Options{})
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 2, unsupported.Pos.Line)
	assert.Contains(t, err.Error(), "undefined")
}

// TestMergeMembers tests the streaming intersection and diff computation.
func TestMergeMembers(t *testing.T) {
	file, err := syntax.ParseString("m.d.ts", `
export type U =
  | { a: string; b: string; c: string }
  | { a: string; b: string; d: string }
  | { a: string; e: string };
`)
	require.NoError(t, err)

	var alts [][]*syntax.Member
	for _, alt := range file.Decls[0].Alias.Type.Alts {
		alts = append(alts, alt.Parts[0].Primary.Object.Members)
	}
	names := func(ms []*syntax.Member) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Prop.Name)
		}
		return out
	}

	common, diffs := mergeMembers(alts)
	assert.Equal(t, []string{"a"}, names(common))
	require.Len(t, diffs, 3)
	assert.Equal(t, []string{"c", "b"}, names(diffs[0]))
	assert.Equal(t, []string{"d", "b"}, names(diffs[1]))
	assert.Equal(t, []string{"e"}, names(diffs[2]))
}

// TestReservedTable tests that configured entries extend the built-ins.
func TestReservedTable(t *testing.T) {
	table := ReservedTable(map[string]string{"self": "this", "id": "ident"})
	assert.Equal(t, "type_", table["type"])
	assert.Equal(t, "plus_1", table["+1"])
	assert.Equal(t, "fn_", table["fn"])
	assert.Equal(t, "this", table["self"])
	assert.Equal(t, "ident", table["id"])
}
