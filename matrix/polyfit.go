package matrix

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var ErrNoPoints = errors.New("no points to fit")

// PolyFit returns the least-squares polynomial coefficients of the given
// degree, highest degree first, so that y ~ c[0]*x^d + ... + c[d].
//
// The fit runs on u = (x-mean)/std and the coefficients are expanded back
// to x, so a large offset in x does not wreck the conditioning. Over-determined
// systems are solved with QR, under-determined ones with LQ (minimum norm in u).
// Rank deficiency surfaces as the solver's error.
func PolyFit(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("polyfit: %d x values but %d y values", len(xs), len(ys))
	}
	if degree < 0 {
		return nil, fmt.Errorf("polyfit: negative degree %d", degree)
	}
	n := len(xs)
	if n == 0 {
		return nil, ErrNoPoints
	}

	mean, scale := 0.0, 1.0
	if n > 1 {
		var sd float64
		mean, sd = stat.PopMeanStdDev(xs, nil)
		if sd > 0 && !math.IsInf(sd, 0) {
			scale = sd
		}
	}

	// Vandermonde in u, columns u^d .. u^0
	cols := degree + 1
	v := mat.NewDense(n, cols, nil)
	for i, x := range xs {
		u := (x - mean) / scale
		for j := 0; j < cols; j++ {
			v.Set(i, j, math.Pow(u, float64(degree-j)))
		}
	}
	y := mat.NewVecDense(n, append([]float64(nil), ys...))

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(v, y); err != nil {
		return nil, fmt.Errorf("polyfit: %w", err)
	}
	q := make([]float64, cols)
	for i := range q {
		q[i] = coeffs.AtVec(i)
	}
	return unscale(q, mean, scale), nil
}

// unscale rewrites p(u), u = (x-mean)/scale, as a polynomial in x. Both
// slices are highest degree first.
func unscale(q []float64, mean, scale float64) []float64 {
	alpha, beta := 1/scale, -mean/scale
	// Horner: acc = acc*(alpha*x + beta) + q[k]
	acc := []float64{q[0]}
	for _, qk := range q[1:] {
		next := make([]float64, len(acc)+1)
		for i, a := range acc {
			next[i] += a * alpha
			next[i+1] += a * beta
		}
		next[len(next)-1] += qk
		acc = next
	}
	return acc
}
