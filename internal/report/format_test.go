package report

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name       string
		n          float64
		scale      int
		roundIfInt bool
		want       string
	}{
		{"pads decimals", 0.5, 3, true, "0.500"},
		{"integer as integer", 5, 3, true, "5"},
		{"integer padded", 5, 3, false, "5.000"},
		{"rounds to integer", 4.99996, 3, true, "5"},
		{"rounds to integer padded", 4.99996, 3, false, "5.000"},
		{"half even down", 0.0625, 3, true, "0.062"},
		{"half even up", 0.0675, 3, true, "0.068"},
		{"above half", 0.12351, 3, true, "0.124"},
		{"below half", 0.1234, 3, true, "0.123"},
		{"integer half even", 2.5, 0, true, "2"},
		{"integer half odd", 3.5, 0, true, "4"},
		{"scale zero keeps trailing zero", 50, 0, true, "50"},
		{"carry", 9.9995, 3, false, "10.000"},
		{"carry into integer", 9.9995, 3, true, "10"},
		{"zero", 0, 3, true, "0"},
		{"negative", -1.23456, 3, true, "-1.235"},
		{"negative zero", math.Copysign(0, -1), 3, true, "0"},
		{"tiny negative rounds to zero", -0.0001, 3, false, "0.000"},
		{"large", 123456.789, 2, true, "123456.79"},
		{"no rounding needed", 0.25, 5, true, "0.25000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.n, tt.scale, tt.roundIfInt); got != tt.want {
				t.Errorf("Round(%v, %d, %v) = %q, want %q", tt.n, tt.scale, tt.roundIfInt, got, tt.want)
			}
		})
	}
}

func TestRoundNonFinite(t *testing.T) {
	if got := Round(math.NaN(), 3, true); got != "NaN" {
		t.Errorf("Round(NaN) = %q", got)
	}
	if got := Round(math.Inf(1), 3, true); got != "+Inf" {
		t.Errorf("Round(+Inf) = %q", got)
	}
}
