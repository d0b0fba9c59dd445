package trust

import (
	"errors"
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
)

func assertStochastic(t *testing.T, n *Network) {
	t.Helper()
	size := n.Size()
	for i := 0; i < size; i++ {
		sum := 0.0
		for j := 0; j < size; j++ {
			w := n.At(i, j)
			if w < 0 {
				t.Fatalf("entry (%d, %d) is negative: %g", i, j, w)
			}
			sum += w
		}
		if math.Abs(sum-1) > RowSumTolerance {
			t.Fatalf("row %d sums to %.12f, expected 1", i, sum)
		}
	}
}

func TestGenerateRandomIsRowStochastic(t *testing.T) {
	for _, size := range []int{1, 2, 3, 10, 50} {
		n, err := GenerateRandom(utils.NewRandSource(int64(size)), size)
		if err != nil {
			t.Fatalf("GenerateRandom(%d) failed: %v", size, err)
		}
		if n.Size() != size {
			t.Fatalf("expected size %d, got %d", size, n.Size())
		}
		assertStochastic(t, n)
	}
}

func TestGenerateRandomInvalidSize(t *testing.T) {
	// sizes whose square overflows int must be rejected before allocating
	for _, size := range []int{0, -1, MaxSize + 1, math.MaxInt32, math.MaxInt} {
		_, err := GenerateRandom(utils.NewRandSource(1), size)
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("GenerateRandom(%d) error = %v, expected ErrInvalidSize", size, err)
		}
	}
}

func TestGenerateRandomIsReproducible(t *testing.T) {
	a, err := GenerateRandom(utils.NewRandSource(99), 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateRandom(utils.NewRandSource(99), 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if a.At(i, j) != b.At(i, j) {
				t.Fatalf("same seed produced different entry (%d, %d): %g vs %g", i, j, a.At(i, j), b.At(i, j))
			}
		}
	}
}

func TestNew(t *testing.T) {
	third := 1.0 / 3.0
	tests := []struct {
		name    string
		rows    [][]float64
		wantErr error
	}{
		{"uniform", [][]float64{{third, third, third}, {third, third, third}, {third, third, third}}, nil},
		{"identity", [][]float64{{1, 0}, {0, 1}}, nil},
		{"empty", nil, ErrInvalidSize},
		{"not square", [][]float64{{0.5, 0.5}, {1}}, ErrNotSquare},
		{"negative", [][]float64{{1.5, -0.5}, {0.5, 0.5}}, ErrNegativeWeight},
		{"nan", [][]float64{{math.NaN(), 1}, {0.5, 0.5}}, ErrNegativeWeight},
		{"row sum", [][]float64{{0.5, 0.4}, {0.5, 0.5}}, ErrNotStochastic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, expected %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			assertStochastic(t, n)
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	rows := [][]float64{{1, 0}, {0, 1}}
	n, err := New(rows)
	if err != nil {
		t.Fatal(err)
	}
	rows[0][0] = 42
	if n.At(0, 0) != 1 {
		t.Errorf("network must not alias input rows, got %g", n.At(0, 0))
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	n, err := New([][]float64{{0.25, 0.75}, {0.5, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	rows := n.Rows()
	rows[0][0] = 9
	row := n.Row(1)
	row[0] = 9
	if n.At(0, 0) != 0.25 || n.At(1, 0) != 0.5 {
		t.Error("Rows() and Row() must return copies")
	}
}

func TestApply(t *testing.T) {
	n, err := New([][]float64{{0.5, 0.5, 0}, {0, 1, 0}, {0.25, 0.25, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{2, 4, 8}
	dst := make([]float64, 3)
	n.Apply(dst, x)

	want := []float64{3, 4, 5.5}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Errorf("Apply()[%d] = %g, expected %g", i, dst[i], want[i])
		}
	}
	if x[0] != 2 || x[2] != 8 {
		t.Error("Apply() must not modify its input")
	}
}

func TestPower(t *testing.T) {
	n, err := New([][]float64{{0, 1}, {1, 0}})
	if err != nil {
		t.Fatal(err)
	}

	id := n.PowerRows(0)
	if id[0][0] != 1 || id[0][1] != 0 || id[1][1] != 1 {
		t.Errorf("Power(0) should be identity, got %v", id)
	}

	p2 := n.PowerRows(2)
	if p2[0][0] != 1 || p2[1][1] != 1 {
		t.Errorf("swap squared should be identity, got %v", p2)
	}

	p3 := n.PowerRows(3)
	if p3[0][1] != 1 || p3[1][0] != 1 {
		t.Errorf("swap cubed should be swap, got %v", p3)
	}
}

func TestPowerStaysStochastic(t *testing.T) {
	n, err := GenerateRandom(utils.NewRandSource(5), 6)
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(n.PowerRows(7))
	if err != nil {
		t.Fatalf("T^7 should be row-stochastic: %v", err)
	}
	assertStochastic(t, p)
}
