package transform

import (
	"github.com/roach88/tsbind/internal/dag"
	"github.com/roach88/tsbind/internal/ir"
)

// Borrow marks the segments that may hold references into the input
// buffer. Segments are visited dependencies first, so a segment is marked
// when it holds text directly or uses a segment marked before it.
//
// When a marked segment has no member whose type is text itself, the first
// member reaching a borrowed type gets the Borrow hint.
//
// A cycle in g is returned as *dag.CycleError.
func Borrow(segs []ir.Segment, g *dag.Graph) error {
	order, err := g.CoTopoSort()
	if err != nil {
		return err
	}
	byName := make(map[string]ir.Segment, len(segs))
	for _, seg := range segs {
		byName[seg.SegmentName()] = seg
	}

	decorated := make(map[string]bool)
	for _, name := range order {
		seg, ok := byName[name]
		if !ok {
			continue
		}
		if borrowSegment(seg, decorated) {
			decorated[name] = true
		}
	}
	return nil
}

func borrowSegment(seg ir.Segment, decorated map[string]bool) bool {
	switch s := seg.(type) {
	case *ir.Record:
		did, visible := false, false
		for i := range s.Fields {
			did = borrowType(&s.Fields[i].Type, decorated) || did
			visible = visible || s.Fields[i].Type.Kind == ir.KindString
		}
		if !did {
			return false
		}
		if !visible {
			for i := range s.Fields {
				if s.Fields[i].Type.IsBorrowed() {
					s.Fields[i].Attrs.Borrow = true
					break
				}
			}
		}
		s.Borrowed = true
		return true

	case *ir.SumType:
		did, visible := false, false
		for i := range s.Variants {
			if t := s.Variants[i].Type; t != nil {
				did = borrowType(t, decorated) || did
				visible = visible || t.Kind == ir.KindString
			}
		}
		if !did {
			return false
		}
		if !visible {
			for i := range s.Variants {
				if t := s.Variants[i].Type; t != nil && t.IsBorrowed() {
					s.Variants[i].Attrs.Borrow = true
					break
				}
			}
		}
		s.Borrowed = true
		return true

	case *ir.Alias:
		if !borrowType(&s.Type, decorated) {
			return false
		}
		s.Borrowed = true
		return true
	}
	return false
}

// borrowType marks text and decorated named types in t and reports whether
// anything was marked.
func borrowType(t *ir.Type, decorated map[string]bool) bool {
	switch t.Kind {
	case ir.KindString:
		t.Borrowed = true
		return true
	case ir.KindNamed:
		if decorated[t.Name] {
			t.Borrowed = true
			return true
		}
	case ir.KindArray:
		return borrowType(t.Elem, decorated)
	case ir.KindMap:
		k := borrowType(t.Key, decorated)
		v := borrowType(t.Elem, decorated)
		return k || v
	}
	return false
}
