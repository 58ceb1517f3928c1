package matrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilderInvalid(t *testing.T) {
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 2}} {
		_, err := NewBuilder(dims[0], dims[1])
		require.ErrorIs(t, err, ErrInvalidDimensions, "dims %v", dims)
	}
}

func TestBuilderFreezes(t *testing.T) {
	b, err := NewBuilder(2, 2)
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 1, 1))
	require.ErrorIs(t, b.Set(2, 0, 1), ErrIndexOutOfBounds)

	m := b.Build()
	assert.Equal(t, 1.0, m.At(0, 1))
	assert.ErrorIs(t, b.Set(0, 0, 5), ErrFrozen)
	assert.Equal(t, 0.0, m.At(0, 0), "frozen matrix must not observe later writes")

	assert.Same(t, m, b.Build())
}

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 6.0, m.At(1, 2))

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrRaggedRows)

	_, err = FromRows(nil)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestTranspose(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	tr := m.Transpose()
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 2, tr.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			assert.Equal(t, m.At(i, j), tr.At(j, i))
		}
	}
	assert.True(t, tr.Transpose().Equal(m, 0))
}

func TestSums(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	assert.Equal(t, 3.0, m.RowSum(0))
	assert.Equal(t, 7.0, m.RowSum(1))
	assert.Equal(t, 4.0, m.ColSum(0))
	assert.Equal(t, 6.0, m.ColSum(1))
}

func TestMulVec(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2}, {3, 4}, {0, 1}})
	out, err := m.MulVec([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7, 1}, out)

	_, err = m.MulVec([]float64{1})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestMapAndRow(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	doubled := m.Map(func(_, _ int, v float64) float64 { return 2 * v })
	assert.Equal(t, []float64{6, 8}, doubled.Row(1))
	assert.Equal(t, []float64{3, 4}, m.Row(1), "Map must not modify the receiver")

	row := m.Row(0)
	row[0] = 99
	assert.Equal(t, 1.0, m.At(0, 0), "Row must return a copy")
}

func TestEqual(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}})
	b, _ := FromRows([][]float64{{1, 2 + 1e-12}})
	c, _ := FromRows([][]float64{{1}, {2}})
	assert.True(t, a.Equal(b, 1e-9))
	assert.False(t, a.Equal(b, 0))
	assert.False(t, a.Equal(c, 1))
}

func TestAtPanicsOutOfRange(t *testing.T) {
	m, _ := FromRows([][]float64{{1}})
	assert.Panics(t, func() { m.At(1, 0) })
}

func TestString(t *testing.T) {
	m, _ := FromRows([][]float64{{1, 0.5}, {0, 2}})
	assert.Equal(t, "[1, 0.5]\n[0, 2]\n", m.String())
}

func TestZeroValue(t *testing.T) {
	var m Dense
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 0, m.Cols())
	assert.Empty(t, m.String())
	assert.True(t, m.Equal(&Dense{}, 0))

	_, err := m.MulVec(nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestTransposeIsIndependent(t *testing.T) {
	b, err := NewBuilder(2, 3)
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 2, 7))
	m := b.Build()

	tr := m.Transpose()
	mapped := tr.Map(func(_, _ int, v float64) float64 { return v + 1 })
	assert.Equal(t, 7.0, m.At(0, 2))
	assert.Equal(t, 7.0, tr.At(2, 0))
	assert.Equal(t, 8.0, mapped.At(2, 0))
	assert.Equal(t, []float64{1, 1}, mapped.Row(0))
}
