// Package trust builds and exposes the row-stochastic trust network that drives
// opinion updates. Entry (i, j) is the weight agent i+1 gives to the opinion of
// agent j+1.
package trust

import (
	"errors"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
	"gonum.org/v1/gonum/mat"
)

const (
	// RowSumTolerance is the allowed deviation of a row sum from 1
	RowSumTolerance = 1e-9
	// MaxSize is the largest network built; a dense network of this size holds 128 MiB of weights
	MaxSize = 4096
)

var (
	// ErrInvalidSize is returned for a network size <= 0 or above MaxSize
	ErrInvalidSize = errors.New("invalid trust network size")
	// ErrNotSquare is returned when explicit weights do not form a square matrix
	ErrNotSquare = errors.New("trust network must be square")
	// ErrNegativeWeight is returned for a negative or non-finite weight
	ErrNegativeWeight = errors.New("trust weights must be finite and non-negative")
	// ErrNotStochastic is returned when a row does not sum to 1
	ErrNotStochastic = errors.New("trust network rows must sum to 1")
)

// Network is an immutable n×n row-stochastic matrix
type Network struct {
	m *mat.Dense
}

// GenerateRandom draws a random trust network of the given size.
// Every row is sampled independently from U[0, 1) and normalized by its sum;
// a row whose draws sum to zero is redrawn.
func GenerateRandom(rng *utils.RandSource, size int) (*Network, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	data := make([]float64, size*size)
	for i := 0; i < size; i++ {
		row := data[i*size : (i+1)*size]
		sum := 0.0
		for sum == 0 {
			for j := range row {
				row[j] = rng.Float64()
			}
			sum = utils.Sum(row)
		}
		for j := range row {
			row[j] /= sum
		}
	}

	return &Network{m: mat.NewDense(size, size, data)}, nil
}

// New builds a network from explicit weights. The rows must form a square,
// non-negative matrix whose rows each sum to 1 within RowSumTolerance.
func New(rows [][]float64) (*Network, error) {
	size := len(rows)
	if err := checkSize(size); err != nil {
		return nil, err
	}

	data := make([]float64, 0, size*size)
	for i, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d entries, expected %d", ErrNotSquare, i, len(row), size)
		}
		for j, w := range row {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: entry (%d, %d) is %g", ErrNegativeWeight, i, j, w)
			}
		}
		if sum := utils.Sum(row); math.Abs(sum-1) > RowSumTolerance {
			return nil, fmt.Errorf("%w: row %d sums to %g", ErrNotStochastic, i, sum)
		}
		data = append(data, row...)
	}

	return &Network{m: mat.NewDense(size, size, data)}, nil
}

func checkSize(size int) error {
	switch {
	case size <= 0:
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidSize, size)
	case size > MaxSize:
		return fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidSize, size, MaxSize)
	}
	return nil
}

// Size returns the number of agents the network covers
func (n *Network) Size() int {
	r, _ := n.m.Dims()
	return r
}

// At returns the weight agent i+1 gives to agent j+1
func (n *Network) At(i, j int) float64 {
	return n.m.At(i, j)
}

// Row returns a copy of row i
func (n *Network) Row(i int) []float64 {
	return mat.Row(nil, i, n.m)
}

// Rows returns a deep copy of the weights, row by row
func (n *Network) Rows() [][]float64 {
	return denseRows(n.m)
}

// Apply computes dst = T·x. dst and x must have length Size() and must not overlap.
func (n *Network) Apply(dst, x []float64) {
	size := n.Size()
	out := mat.NewVecDense(size, dst)
	out.MulVec(n.m, mat.NewVecDense(size, x))
}

// Power returns T^k as a new matrix. Power(0) is the identity.
func (n *Network) Power(k int) *mat.Dense {
	var p mat.Dense
	p.Pow(n.m, k)
	return &p
}

// PowerRows returns T^k as a row-by-row copy
func (n *Network) PowerRows(k int) [][]float64 {
	return denseRows(n.Power(k))
}

func denseRows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
