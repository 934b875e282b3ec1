package models

import "fmt"

// Quad is the polynomial A*x^2 + B*x + C.
type Quad struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Identity maps every x onto itself.
var Identity = Quad{A: 0, B: 1, C: 0}

// QuadFromCoefficients builds a Quad from highest-degree-first coefficients.
func QuadFromCoefficients(c []float64) (Quad, error) {
	if len(c) != 3 {
		return Quad{}, fmt.Errorf("quadratic needs 3 coefficients, got %d", len(c))
	}
	return Quad{A: c[0], B: c[1], C: c[2]}, nil
}

func (q Quad) Eval(x float64) float64 {
	return q.A*x*x + q.B*x + q.C
}

// Map evaluates q over xs and returns a new slice of the same length.
func (q Quad) Map(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = q.Eval(x)
	}
	return out
}

// Coefficients returns [A B C].
func (q Quad) Coefficients() []float64 {
	return []float64{q.A, q.B, q.C}
}

func (q Quad) String() string {
	return fmt.Sprintf("[%.4g %.4g %.4g]", q.A, q.B, q.C)
}
