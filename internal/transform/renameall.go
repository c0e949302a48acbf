package transform

import (
	"github.com/roach88/tsbind/internal/ir"
)

// RenameAll unifies the lettercase convention of a sum type's variant
// identifiers. When the unified convention is not already PascalCase, every
// identifier is rewritten to PascalCase and the previous form is kept as a
// rename. The container records the rule only if an identifier changed.
func RenameAll(seg ir.Segment) bool {
	sum, ok := seg.(*ir.SumType)
	if !ok || len(sum.Variants) == 0 {
		return false
	}

	conv := ir.DetectCase(sum.Variants[0].Ident())
	for i := 1; i < len(sum.Variants); i++ {
		next, err := conv.Cast(ir.DetectCase(sum.Variants[i].Ident()))
		if err != nil {
			return false
		}
		conv = next
	}
	rule := conv.Rule()
	if rule == ir.RenamePascal {
		return false
	}

	changed := false
	for i := range sum.Variants {
		v := &sum.Variants[i]
		old := v.Ident()
		id := rule.ToPascal(old)
		if !ir.IsIdent(id) {
			id = ir.LiteralIdent(old)
		}
		if id == old {
			continue
		}
		v.NameAs(id)
		if v.Attrs.Rename == "" {
			v.Attrs.Rename = old
		}
		changed = true
	}
	if !changed {
		return false
	}
	sum.Attrs.RenameAll = rule
	return true
}
