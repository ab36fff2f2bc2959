package series

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ReduceFunc collapses one axis of a raw row-major buffer. The result has
// the axis removed and keeps the remaining dims in row-major order.
type ReduceFunc func(buf []float64, shape []int, axis int) []float64

// ReduceAlong adapts a scalar kernel over 1-d slices into a ReduceFunc
// application: the kernel is called once per slice along axis, independently
// for every combination of the remaining dims.
func ReduceAlong(buf []float64, shape []int, axis int, kernel func([]float64) float64) []float64 {
	n := shape[axis]
	outer, inner := outerInner(shape, axis)
	out := make([]float64, outer*inner)
	scratch := make([]float64, n)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			for k := 0; k < n; k++ {
				scratch[k] = buf[(o*n+k)*inner+i]
			}
			out[o*inner+i] = kernel(scratch)
		}
	}
	return out
}

// SumSkipNaN sums the finite values of s. Empty or all-NaN input sums to 0.
func SumSkipNaN(s []float64) float64 {
	valid := make([]float64, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return floats.Sum(valid)
}

// MaxSkipNaN returns the largest finite value of s, or NaN when none exist.
func MaxSkipNaN(s []float64) float64 {
	valid := make([]float64, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	return floats.Max(valid)
}
