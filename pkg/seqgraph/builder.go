package seqgraph

import (
	"slices"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/matrix"
)

// Issue records a recoverable problem found in one input sequence.
type Issue struct {
	Sequence int         // index of the sequence in the input collection
	Code     errors.Code // always MALFORMED_SEQUENCE
	Reason   string      // human-readable description
}

func malformed(idx int, reason string) Issue {
	return Issue{Sequence: idx, Code: errors.ErrCodeMalformedSequence, Reason: reason}
}

// Issue reasons.
const (
	ReasonUnderflow     = "backtrack before start of sequence"
	ReasonOnlySentinels = "sequence contains only sentinels"
)

// Report summarizes a build. Malformed sequences are recovered, never fatal,
// so they are reported here instead of as errors.
type Report struct {
	Sequences  int     // sequences consumed
	Backtracks int     // sentinels that removed a node
	Issues     []Issue // malformed sequences, in input order
}

// Builder accumulates edges from sequences. It is the only mutable stage of
// graph construction; [Builder.Build] freezes it.
//
// The zero value is not usable; call [NewBuilder].
type Builder struct {
	u        *Universe
	sentinel string
	succ     [][]int // sorted successor indices per node
	edges    int
	report   Report
	frozen   bool
}

// NewBuilder returns a builder over the given universe.
func NewBuilder(u *Universe, sentinel string) *Builder {
	return &Builder{
		u:        u,
		sentinel: sentinel,
		succ:     make([][]int, u.Len()),
	}
}

// Add resolves seq and records its edges. The sequence index used in errors
// and issues is the number of sequences added before it.
//
// Add returns an UNKNOWN_NODE error if seq names an identifier outside the
// universe. Once Build has been called, Add returns an INTERNAL_ERROR.
func (b *Builder) Add(seq Sequence) error {
	if b.frozen {
		return errors.New(errors.ErrCodeInternal, "add to frozen graph builder")
	}
	idx := b.report.Sequences
	b.report.Sequences++

	resolved, res := Resolve(seq, b.sentinel)
	b.report.Backtracks += res.Backtracks
	switch {
	case len(seq) > 0 && onlySentinels(seq, b.sentinel):
		b.report.Issues = append(b.report.Issues, malformed(idx, ReasonOnlySentinels))
	case res.Malformed():
		b.report.Issues = append(b.report.Issues, malformed(idx, ReasonUnderflow))
	}

	nodes := make([]int, len(resolved))
	for i, id := range resolved {
		n, ok := b.u.Index(id)
		if !ok {
			return errors.New(errors.ErrCodeUnknownNode, "sequence %d: node %q is not in the universe", idx, id)
		}
		nodes[i] = n
	}
	for i := 0; i+1 < len(nodes); i++ {
		b.addEdge(nodes[i], nodes[i+1])
	}
	return nil
}

func (b *Builder) addEdge(from, to int) {
	pos, found := slices.BinarySearch(b.succ[from], to)
	if found {
		return
	}
	b.succ[from] = slices.Insert(b.succ[from], pos, to)
	b.edges++
}

// Build freezes the builder and returns the adjacency set and build report.
func (b *Builder) Build() (*AdjacencySet, Report) {
	b.frozen = true
	return &AdjacencySet{u: b.u, succ: b.succ, edges: b.edges}, b.report
}

// Build constructs the adjacency set for seqs over u in one call.
//
// It returns EMPTY_UNIVERSE if u has no nodes and UNKNOWN_NODE (with the
// offending sequence index) if a sequence references a node outside u.
func Build(u *Universe, seqs []Sequence, sentinel string) (*AdjacencySet, Report, error) {
	if u.Len() == 0 {
		return nil, Report{}, errors.New(errors.ErrCodeEmptyUniverse,
			"no nodes in %d sequences after removing sentinel %q", len(seqs), sentinel)
	}
	b := NewBuilder(u, sentinel)
	for _, seq := range seqs {
		if err := b.Add(seq); err != nil {
			return nil, Report{}, err
		}
	}
	adj, report := b.Build()
	return adj, report, nil
}

func onlySentinels(seq Sequence, sentinel string) bool {
	for _, tok := range seq {
		if tok != sentinel {
			return false
		}
	}
	return true
}

// AdjacencySet is the frozen successor structure of the transition graph.
type AdjacencySet struct {
	u     *Universe
	succ  [][]int
	edges int
}

// Universe returns the node universe the set is indexed by.
func (a *AdjacencySet) Universe() *Universe { return a.u }

// Len returns the number of nodes.
func (a *AdjacencySet) Len() int { return a.u.Len() }

// EdgeCount returns the number of distinct directed edges.
func (a *AdjacencySet) EdgeCount() int { return a.edges }

// Successors returns the successor indices of node i in ascending order.
func (a *AdjacencySet) Successors(i int) []int { return slices.Clone(a.succ[i]) }

// OutDegree returns the number of distinct successors of node i.
func (a *AdjacencySet) OutDegree(i int) int { return len(a.succ[i]) }

// HasEdge reports whether to is a recorded successor of from.
func (a *AdjacencySet) HasEdge(from, to int) bool {
	_, found := slices.BinarySearch(a.succ[from], to)
	return found
}

// Dangling returns the indices of nodes without successors, ascending.
func (a *AdjacencySet) Dangling() []int {
	var out []int
	for i, s := range a.succ {
		if len(s) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Edges calls fn for every edge in (from, to) index order.
func (a *AdjacencySet) Edges(fn func(from, to int)) {
	for from, s := range a.succ {
		for _, to := range s {
			fn(from, to)
		}
	}
}

// Matrix returns the n×n 0/1 adjacency matrix: entry (i, j) is 1 iff j is a
// successor of i. It returns EMPTY_UNIVERSE for a set without nodes.
func (a *AdjacencySet) Matrix() (*matrix.Dense, error) {
	n := a.u.Len()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeEmptyUniverse, "adjacency matrix of an empty universe")
	}
	b, err := matrix.NewBuilder(n, n)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "adjacency matrix")
	}
	a.Edges(func(from, to int) {
		_ = b.Set(from, to, 1)
	})
	return b.Build(), nil
}
