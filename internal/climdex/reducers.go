package climdex

import "github.com/tempestat/climdex/internal/series"

// countAtLeast counts the values of each slice that reach threshold.
// NaN never reaches the threshold, so missing days are not counted.
func countAtLeast(threshold float64) series.ReduceFunc {
	return func(buf []float64, shape []int, axis int) []float64 {
		return series.ReduceAlong(buf, shape, axis, func(s []float64) float64 {
			n := 0.0
			for _, v := range s {
				if v >= threshold {
					n++
				}
			}
			return n
		})
	}
}

// wetDayIntensity computes the wet-day intensity ratio of each slice: the
// sum of values on days reaching threshold, divided by the number of such
// days. With zero wet days the divisor is 1, so the result is 0 rather than
// a division by zero.
func wetDayIntensity(threshold float64) series.ReduceFunc {
	return func(buf []float64, shape []int, axis int) []float64 {
		return series.ReduceAlong(buf, shape, axis, func(s []float64) float64 {
			sum, wet := 0.0, 0.0
			for _, v := range s {
				if v >= threshold {
					sum += v
					wet++
				}
			}
			if wet == 0 {
				wet = 1
			}
			return sum / wet
		})
	}
}

// longestRun computes, per slice, the length of the longest run of
// consecutive values satisfying pred. Empty input or no matching value
// yields 0.
func longestRun(pred func(float64) bool) series.ReduceFunc {
	return func(buf []float64, shape []int, axis int) []float64 {
		return series.ReduceAlong(buf, shape, axis, func(s []float64) float64 {
			best, run := 0, 0
			for _, v := range s {
				if pred(v) {
					run++
					if run > best {
						best = run
					}
				} else {
					run = 0
				}
			}
			return float64(best)
		})
	}
}
