package series

import (
	"fmt"
	"math"
)

// Rolling computes a windowed sum along the time dimension. A window needs
// at least minPeriods finite values to produce a result, otherwise NaN.
// With center=true the window is label-centered, so edge points see a
// truncated window; with center=false the window trails the label.
func (a *Array) Rolling(timeDim string, window, minPeriods int, center bool) (*Array, error) {
	axis, err := a.AxisOf(timeDim)
	if err != nil {
		return nil, err
	}
	if window < 1 {
		return nil, fmt.Errorf("array %q: rolling window must be positive, got %d", a.Name, window)
	}
	if minPeriods < 1 {
		minPeriods = 1
	}

	n := a.Shape[axis]
	outer, inner := outerInner(a.Shape, axis)
	out := a.emptyLike(a.Shape)

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			for t := 0; t < n; t++ {
				lo := t - window + 1
				if center {
					lo = t - (window-1)/2
				}
				hi := lo + window - 1
				if lo < 0 {
					lo = 0
				}
				if hi > n-1 {
					hi = n - 1
				}

				sum, count := 0.0, 0
				for k := lo; k <= hi; k++ {
					v := a.Data[(o*n+k)*inner+i]
					if math.IsNaN(v) {
						continue
					}
					sum += v
					count++
				}
				if count < minPeriods {
					out.Data[(o*n+t)*inner+i] = math.NaN()
				} else {
					out.Data[(o*n+t)*inner+i] = sum
				}
			}
		}
	}
	return out, nil
}
