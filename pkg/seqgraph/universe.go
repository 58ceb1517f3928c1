// Package seqgraph builds a directed transition graph from observed
// traversal sequences.
//
// A sequence is an ordered list of node identifiers as a visitor walked
// them, e.g. article titles of a navigation path. A reserved sentinel token
// ([DefaultSentinel], "<") marks a backtrack: the visitor returned to the
// previous node instead of advancing. Every adjacent pair of the
// backtrack-corrected sequence contributes one directed edge; repeated
// observations collapse to presence/absence.
//
// # Construction
//
// Building happens in two steps, each producing an immutable value:
//
//	u := seqgraph.NewUniverse(seqs, seqgraph.DefaultSentinel)
//	adj, report, err := seqgraph.Build(u, seqs, seqgraph.DefaultSentinel)
//
// [Universe] fixes the node index for the lifetime of a run: identifiers are
// sorted ascending and numbered 0..n-1. [AdjacencySet] stores successor sets
// sorted by index, so the result does not depend on the order in which
// sequences are presented.
package seqgraph

import (
	"slices"
)

// DefaultSentinel is the backtracking token used by Wikispeedia path data.
const DefaultSentinel = "<"

// Sequence is one observed traversal: node identifiers and sentinel tokens
// in visit order. Builders never modify a Sequence in place.
type Sequence []string

// Universe is the sorted, deduplicated set of node identifiers drawn from
// all sequences, excluding the sentinel and empty tokens.
// A Universe is immutable once created.
type Universe struct {
	ids   []string
	index map[string]int
}

// NewUniverse collects every distinct identifier in seqs except sentinel
// and assigns indices in ascending identifier order.
func NewUniverse(seqs []Sequence, sentinel string) *Universe {
	seen := make(map[string]struct{})
	for _, seq := range seqs {
		for _, tok := range seq {
			if tok == "" || tok == sentinel {
				continue
			}
			seen[tok] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return newUniverse(ids)
}

// UniverseOf builds a Universe from an explicit identifier list.
// Duplicates and empty strings are dropped; order is normalized.
func UniverseOf(ids ...string) *Universe {
	sorted := slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == "" })
	slices.Sort(sorted)
	return newUniverse(slices.Compact(sorted))
}

func newUniverse(ids []string) *Universe {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return &Universe{ids: ids, index: index}
}

// Len returns the number of nodes.
func (u *Universe) Len() int { return len(u.ids) }

// Index returns the index assigned to id, and false if id is not a node.
func (u *Universe) Index(id string) (int, bool) {
	i, ok := u.index[id]
	return i, ok
}

// ID returns the identifier at index i. It panics if i is out of range.
func (u *Universe) ID(i int) string { return u.ids[i] }

// IDs returns a copy of all identifiers in index order.
func (u *Universe) IDs() []string { return slices.Clone(u.ids) }
