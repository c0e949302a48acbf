package transform

import (
	"github.com/roach88/tsbind/internal/ir"
)

// InternalTag converts an untagged sum type to one tagged by a discriminant
// field. It applies when every variant wraps a named record whose literal
// properties share exactly one key with pairwise distinct values. Each
// variant is renamed after its discriminant value.
func InternalTag(seg ir.Segment, lkm ir.LiteralKeyMap) bool {
	sum, ok := seg.(*ir.SumType)
	if !ok || len(sum.Variants) == 0 || sum.Attrs.Tag != "" {
		return false
	}

	var candidates map[string]bool
	for i := range sum.Variants {
		v := &sum.Variants[i]
		if v.Kind != ir.Unary || v.Type.Kind != ir.KindNamed {
			return false
		}
		props, ok := lkm.Get(v.Type.Name)
		if !ok || len(props) == 0 {
			return false
		}
		if candidates == nil {
			candidates = make(map[string]bool, len(props))
			for k := range props {
				candidates[k] = true
			}
			continue
		}
		for k := range candidates {
			if _, ok := props[k]; !ok {
				delete(candidates, k)
			}
		}
		if len(candidates) == 0 {
			return false
		}
	}
	if len(candidates) != 1 {
		return false
	}
	var tag string
	for k := range candidates {
		tag = k
	}

	values := make([]string, len(sum.Variants))
	seenValue := make(map[string]bool, len(sum.Variants))
	seenIdent := make(map[string]bool, len(sum.Variants))
	for i := range sum.Variants {
		val, _ := lkm.Get(sum.Variants[i].Type.Name)
		values[i] = val[tag]
		id := ir.LiteralIdent(values[i])
		if seenValue[values[i]] || seenIdent[id] {
			return false
		}
		seenValue[values[i]] = true
		seenIdent[id] = true
	}

	for i := range sum.Variants {
		v := &sum.Variants[i]
		id := ir.LiteralIdent(values[i])
		v.NameAs(id)
		if id != values[i] {
			v.Attrs.Rename = values[i]
		}
	}
	sum.Attrs.Tag = tag
	sum.Attrs.Untagged = false
	return true
}
