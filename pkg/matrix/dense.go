// Package matrix provides the dense float64 matrices used by the ranking
// pipeline, backed by gonum's [mat.Dense].
//
// Matrices are assembled through a [Builder], which is the only mutable
// stage. [Builder.Build] hands the backing storage over to an immutable
// [Dense] and freezes the builder. Dense exposes read-only accessors and
// returns new matrices from every operation, so a matrix can never be
// mutated after it has been normalized or multiplied.
//
// The package targets graphs small enough for an n×n dense representation.
package matrix

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidDimensions is returned when a requested shape has a
	// non-positive row or column count.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrIndexOutOfBounds is returned by [Builder.Set] when a row or column
	// index is outside the matrix.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrDimensionMismatch is returned when operands have incompatible
	// shapes, e.g. a vector whose length differs from the column count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrFrozen is returned by [Builder.Set] after [Builder.Build] was called.
	ErrFrozen = errors.New("matrix: builder already built")

	// ErrRaggedRows is returned by [FromRows] when rows differ in length.
	ErrRaggedRows = errors.New("matrix: rows have different lengths")
)

// Dense is an immutable matrix of float64 values.
// The zero value is an empty 0×0 matrix.
type Dense struct {
	m *mat.Dense // nil for the zero value; never written after construction
}

// Builder accumulates entries for a Dense matrix.
// It is not safe for concurrent use.
type Builder struct {
	r, c  int
	data  []float64 // row-major, handed to gonum on Build
	built *Dense
}

// NewBuilder returns a builder for a rows×cols matrix initialized to zeros.
func NewBuilder(rows, cols int) (*Builder, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("new builder %dx%d: %w", rows, cols, ErrInvalidDimensions)
	}
	return &Builder{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Set assigns v at (row, col).
func (b *Builder) Set(row, col int, v float64) error {
	if b.data == nil {
		return ErrFrozen
	}
	if row < 0 || row >= b.r || col < 0 || col >= b.c {
		return fmt.Errorf("set (%d,%d) in %dx%d: %w", row, col, b.r, b.c, ErrIndexOutOfBounds)
	}
	b.data[row*b.c+col] = v
	return nil
}

// Build freezes the builder and returns the assembled matrix.
// Later calls return the same matrix; Set fails afterwards.
func (b *Builder) Build() *Dense {
	if b.built == nil {
		b.built = &Dense{m: mat.NewDense(b.r, b.c, b.data)}
		b.data = nil
	}
	return b.built
}

// FromRows builds a Dense matrix from a slice of equally sized rows.
// The input is copied.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), c, ErrRaggedRows)
		}
		data = append(data, row...)
	}
	return &Dense{m: mat.NewDense(len(rows), c, data)}, nil
}

// Rows returns the number of rows.
func (d *Dense) Rows() int {
	if d.m == nil {
		return 0
	}
	r, _ := d.m.Dims()
	return r
}

// Cols returns the number of columns.
func (d *Dense) Cols() int {
	if d.m == nil {
		return 0
	}
	_, c := d.m.Dims()
	return c
}

// At returns the element at (row, col). It panics on out-of-range indices,
// like slice indexing.
func (d *Dense) At(row, col int) float64 {
	if row < 0 || row >= d.Rows() || col < 0 || col >= d.Cols() {
		panic(fmt.Sprintf("matrix: At(%d,%d) out of range for %dx%d", row, col, d.Rows(), d.Cols()))
	}
	return d.m.At(row, col)
}

// Row returns a copy of row i.
func (d *Dense) Row(i int) []float64 {
	return mat.Row(nil, i, d.m)
}

// RowSum returns the sum of row i.
func (d *Dense) RowSum(i int) float64 {
	return mat.Sum(d.m.RowView(i))
}

// ColSum returns the sum of column j.
func (d *Dense) ColSum(j int) float64 {
	return mat.Sum(d.m.ColView(j))
}

// Transpose returns a new matrix with rows and columns swapped.
func (d *Dense) Transpose() *Dense {
	var out mat.Dense
	out.CloneFrom(d.m.T())
	return &Dense{m: &out}
}

// Map returns a new matrix whose entries are fn(i, j, d[i][j]).
func (d *Dense) Map(fn func(i, j int, v float64) float64) *Dense {
	var out mat.Dense
	out.Apply(fn, d.m)
	return &Dense{m: &out}
}

// MulVec returns d·x for a column vector x of length Cols.
func (d *Dense) MulVec(x []float64) ([]float64, error) {
	if len(x) != d.Cols() || len(x) == 0 {
		return nil, fmt.Errorf("mulvec %dx%d by %d: %w", d.Rows(), d.Cols(), len(x), ErrDimensionMismatch)
	}
	var y mat.VecDense
	y.MulVec(d.m, mat.NewVecDense(len(x), x))
	return y.RawVector().Data, nil
}

// Equal reports whether d and o have the same shape and all entries are
// within tol of each other, absolutely or relatively.
func (d *Dense) Equal(o *Dense, tol float64) bool {
	if d.m == nil || o.m == nil {
		return d.m == o.m
	}
	return mat.EqualApprox(d.m, o.m, tol)
}

// String implements fmt.Stringer for debugging, one bracketed row per line.
func (d *Dense) String() string {
	var b strings.Builder
	for i := 0; i < d.Rows(); i++ {
		b.WriteString("[")
		for j, v := range d.m.RawRowView(i) {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", v)
		}
		b.WriteString("]\n")
	}
	return b.String()
}
