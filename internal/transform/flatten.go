package transform

import (
	"maps"
	"slices"

	"github.com/roach88/tsbind/internal/ir"
)

// Flatten removes records whose only field is a required flatten field and
// rewrites every reference to a removed record with that field's type.
// Chains of wrappers resolve to the innermost type. It returns the kept
// segments, in order, and the rewrite applied.
func Flatten(segs []ir.Segment) ([]ir.Segment, map[string]ir.Type) {
	rewrite := make(map[string]ir.Type)
	kept := make([]ir.Segment, 0, len(segs))
	for _, seg := range segs {
		if rec, ok := seg.(*ir.Record); ok && isWrapper(rec) {
			rewrite[rec.Name] = rec.Fields[0].Type.Clone()
			continue
		}
		kept = append(kept, seg)
	}
	if len(rewrite) == 0 {
		return segs, rewrite
	}

	resolveChains(rewrite)
	for _, seg := range kept {
		for _, t := range ir.TypeRefs(seg) {
			Retype(t, rewrite)
		}
	}
	return kept, rewrite
}

// isWrapper reports whether rec only exists to merge one type into its
// parent. An optional flatten field is not a wrapper.
func isWrapper(rec *ir.Record) bool {
	return len(rec.Fields) == 1 && rec.Fields[0].Attrs.Flatten && !rec.Fields[0].Optional
}

// resolveChains rewrites the values of rewrite so that none names another
// removed record. A cycle of wrappers is left pointing at a removed name.
func resolveChains(rewrite map[string]ir.Type) {
	done := make(map[string]bool, len(rewrite))
	visiting := make(map[string]bool)

	var resolve func(name string)
	resolve = func(name string) {
		if done[name] || visiting[name] {
			return
		}
		visiting[name] = true
		ty := rewrite[name]
		for _, ref := range ty.NamedRefs() {
			if _, ok := rewrite[ref]; ok {
				resolve(ref)
			}
		}
		Retype(&ty, rewrite)
		rewrite[name] = ty
		done[name] = true
	}
	for _, name := range slices.Sorted(maps.Keys(rewrite)) {
		resolve(name)
	}
}

// Retype replaces every named reference in t that has an entry in rewrite,
// recursing through arrays and maps.
func Retype(t *ir.Type, rewrite map[string]ir.Type) {
	switch t.Kind {
	case ir.KindNamed:
		if r, ok := rewrite[t.Name]; ok {
			*t = r.Clone()
		}
	case ir.KindArray:
		Retype(t.Elem, rewrite)
	case ir.KindMap:
		Retype(t.Key, rewrite)
		Retype(t.Elem, rewrite)
	}
}
