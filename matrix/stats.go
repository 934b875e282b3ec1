package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ZScores returns |x-mean|/std for every value, using the population
// standard deviation of values. A constant input yields NaN scores.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	for i, v := range values {
		out[i] = math.Abs(stat.StdScore(v, mean, std))
	}
	return out
}

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, end)
}

// Sub returns a-b element-wise. Both slices must have the same length.
func Sub(a, b []float64) []float64 {
	return floats.SubTo(make([]float64, len(a)), a, b)
}

// MaxAbs returns the largest absolute value in xs, 0 for an empty slice.
func MaxAbs(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
