package rank

import (
	"github.com/matzehuels/pathrank/pkg/matrix"
)

// RowNormalize divides every row of a by its sum. A row summing to zero
// (a dangling node) is mapped to all zeros without dividing.
func RowNormalize(a *matrix.Dense) *matrix.Dense {
	sums := make([]float64, a.Rows())
	for i := range sums {
		sums[i] = a.RowSum(i)
	}
	return a.Map(func(i, _ int, v float64) float64 {
		if sums[i] == 0 {
			return 0
		}
		return v / sums[i]
	})
}

// Transition returns the column-stochastic transition matrix of a:
// the transpose of [RowNormalize](a). Entry (j, i) is the probability of
// moving from node i to node j; columns of dangling nodes are zero.
func Transition(a *matrix.Dense) *matrix.Dense {
	return RowNormalize(a).Transpose()
}
