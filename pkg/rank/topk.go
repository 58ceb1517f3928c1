package rank

import (
	"cmp"
	"slices"

	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// Entry is one ranked node.
type Entry struct {
	ID    string  `json:"id"`
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// TopK returns the min(k, len(scores)) highest scores in descending order,
// mapped to node identifiers through u.
//
// With TiesFirstIndex every selected score is looked up as the first index
// holding exactly that value, so two equal scores in the top slice yield the
// same node twice. TiesDistinct orders nodes by score, then by index, and
// lists each node once.
func TopK(scores []float64, u *seqgraph.Universe, k int, ties TiePolicy) []Entry {
	k = min(k, len(scores))
	if k <= 0 {
		return nil
	}

	var picked []int
	switch ties {
	case TiesDistinct:
		order := make([]int, len(scores))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(scores[b], scores[a])
		})
		picked = order[:k]
	default:
		sorted := slices.Clone(scores)
		slices.SortFunc(sorted, func(a, b float64) int { return cmp.Compare(b, a) })
		picked = make([]int, k)
		for i, s := range sorted[:k] {
			picked[i] = slices.Index(scores, s)
		}
	}

	out := make([]Entry, k)
	for i, idx := range picked {
		out[i] = Entry{ID: u.ID(idx), Index: idx, Score: scores[idx]}
	}
	return out
}
