package rank

import (
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// Result is the output of a ranking run.
type Result struct {
	Scores     []float64 // score per node index
	Top        []Entry   // highest scores, descending
	Iterations int       // power-iteration steps applied
	Delta      float64   // L1 change of the last step
	Start      int       // one-hot start index actually used
	Dangling   []int     // node indices without successors
}

// Score returns the score of the node with the given identifier.
func (r *Result) Score(u *seqgraph.Universe, id string) (float64, bool) {
	i, ok := u.Index(id)
	if !ok {
		return 0, false
	}
	return r.Scores[i], true
}

// Run ranks the nodes of adj. Option errors and an empty universe are
// reported before any iteration runs.
func Run(adj *seqgraph.AdjacencySet, opts Options) (*Result, error) {
	a, err := adj.Matrix()
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(adj.Len()); err != nil {
		return nil, err
	}
	it, err := PageRank(Transition(a), opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Scores:     it.Scores,
		Top:        TopK(it.Scores, adj.Universe(), opts.K, opts.Ties),
		Iterations: it.Steps,
		Delta:      it.Delta,
		Start:      it.Start,
		Dangling:   adj.Dangling(),
	}, nil
}
