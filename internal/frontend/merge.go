package frontend

import (
	"slices"

	"github.com/roach88/tsbind/internal/syntax"
)

// mergeMembers computes the members common to every alternative and, per
// alternative, the members it has beyond the common set.
//
// The common set is seeded with the first alternative. Each later
// alternative removes the common members it lacks; those members move to the
// diff of every alternative seen so far. The alternative's own members that
// are not common form its diff. Member order is preserved throughout.
func mergeMembers(alts [][]*syntax.Member) (common []*syntax.Member, diffs [][]*syntax.Member) {
	common = slices.Clone(alts[0])
	diffs = [][]*syntax.Member{nil}
	for _, alt := range alts[1:] {
		diff := slices.Clone(alt)
		var kept []*syntax.Member
		for _, m := range common {
			if i := slices.IndexFunc(diff, m.Equal); i >= 0 {
				diff = slices.Delete(diff, i, i+1)
				kept = append(kept, m)
				continue
			}
			for j := range diffs {
				diffs[j] = append(diffs[j], m)
			}
		}
		common = kept
		diffs = append(diffs, diff)
	}
	return common, diffs
}
