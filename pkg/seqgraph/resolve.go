package seqgraph

import "slices"

// Resolution describes what [Resolve] did to a sequence.
type Resolution struct {
	// Backtracks counts sentinels that removed a preceding node.
	Backtracks int
	// Underflows counts sentinels with no preceding node to remove.
	// They are dropped; the sequence is still usable.
	Underflows int
}

// Malformed reports whether any sentinel backtracked past the start.
func (r Resolution) Malformed() bool { return r.Underflows > 0 }

// Resolve applies backtracking to seq and returns the corrected sequence.
//
// The scan keeps a pointer i. When seq[i] is the sentinel, the sentinel and
// the node recorded just before it are removed and the pointer moves back
// two positions, clamped at zero. Consecutive sentinels therefore unwind
// consecutive nodes. A sentinel at the very start has nothing to undo and
// is simply dropped. Empty tokens are skipped.
//
// The input is not modified.
func Resolve(seq Sequence, sentinel string) (Sequence, Resolution) {
	var res Resolution
	work := slices.DeleteFunc(slices.Clone(seq), func(s string) bool { return s == "" })

	i := 0
	for i < len(work) {
		if work[i] != sentinel {
			i++
			continue
		}
		if i == 0 {
			work = slices.Delete(work, 0, 1)
			res.Underflows++
			continue
		}
		work = slices.Delete(work, i-1, i+1)
		res.Backtracks++
		i = max(i-2, 0)
	}
	return work, res
}
