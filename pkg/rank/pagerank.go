package rank

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/matrix"
)

// Iteration is the outcome of a power iteration.
type Iteration struct {
	Scores []float64 // score per node index, not normalized
	Steps  int       // multiplications applied
	Delta  float64   // L1 change of the last step
	Start  int       // index of the one-hot start vector
}

// TeleportTerm returns the constant added to every entry of beta*P for an
// n-node graph.
func TeleportTerm(n int, beta float64, t Teleport) float64 {
	q := 1 / float64(n)
	if t == TeleportUniform {
		return (1 - beta) * q
	}
	return (1 - beta) * q / float64(n)
}

// UpdateMatrix returns R = beta*P + t, where t is [TeleportTerm] for the
// size of the square matrix p.
func UpdateMatrix(p *matrix.Dense, beta float64, t Teleport) *matrix.Dense {
	term := TeleportTerm(p.Rows(), beta, t)
	return p.Map(func(_, _ int, v float64) float64 {
		return beta*v + term
	})
}

// PageRank builds the update matrix for the transition matrix p and applies
// it to a one-hot start vector. In ModeFixed exactly opts.Iterations steps
// run; in ModeConverge iteration stops at the first step whose L1 change is
// below opts.Tolerance, or after opts.MaxIterations steps.
func PageRank(p *matrix.Dense, opts Options) (Iteration, error) {
	n := p.Rows()
	if n == 0 || p.Cols() != n {
		return Iteration{}, errors.New(errors.ErrCodeEmptyUniverse, "transition matrix is %dx%d", p.Rows(), p.Cols())
	}
	if err := opts.Validate(n); err != nil {
		return Iteration{}, err
	}

	start := opts.Start
	if start == RandomStart {
		start = randomIndex(opts.Rand, n)
	}
	x := make([]float64, n)
	x[start] = 1

	r := UpdateMatrix(p, opts.Beta, opts.Teleport)
	it := Iteration{Start: start}
	for it.Steps < opts.steps() {
		next, err := r.MulVec(x)
		if err != nil {
			return Iteration{}, errors.Wrap(errors.ErrCodeInternal, err, "power iteration step %d", it.Steps+1)
		}
		it.Delta = floats.Distance(next, x, 1)
		it.Steps++
		x = next
		if opts.Mode == ModeConverge && it.Delta < opts.Tolerance {
			break
		}
	}
	it.Scores = x
	return it, nil
}

func randomIndex(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}
