package series

import (
	"fmt"
	"sort"
	"time"
)

// Reduction names a built-in NaN-skipping reduction for Resample.
type Reduction int

const (
	// ReduceSum sums finite values; an all-NaN bucket reduces to 0.
	ReduceSum Reduction = iota
	// ReduceMax takes the largest finite value; an all-NaN bucket reduces to NaN.
	ReduceMax
)

func (r Reduction) kernel() func([]float64) float64 {
	if r == ReduceMax {
		return MaxSkipNaN
	}
	return SumSkipNaN
}

// ResampleDaily groups observations by UTC calendar day and sums each day.
// Input already at daily resolution passes through unchanged in value.
func (a *Array) ResampleDaily(timeDim string) (*Array, error) {
	axis, ts, err := a.timesOf(timeDim)
	if err != nil {
		return nil, err
	}
	labels, buckets := bucketize(ts, dayStart)
	return a.reduceBuckets(axis, timeDim, labels, buckets, func(buf []float64, shape []int, ax int) []float64 {
		return ReduceAlong(buf, shape, ax, SumSkipNaN)
	}), nil
}

// Resample groups observations by calendar period ("1M" or "1y") and applies
// the built-in reduction per bucket.
func (a *Array) Resample(timeDim, period string, red Reduction) (*Array, error) {
	kernel := red.kernel()
	return a.ResampleReduce(timeDim, period, func(buf []float64, shape []int, ax int) []float64 {
		return ReduceAlong(buf, shape, ax, kernel)
	})
}

// ResampleReduce groups observations by calendar period and applies a custom
// reduction to each bucket's sub-array along the time axis.
func (a *Array) ResampleReduce(timeDim, period string, fn ReduceFunc) (*Array, error) {
	axis, ts, err := a.timesOf(timeDim)
	if err != nil {
		return nil, err
	}
	start, err := periodStart(period)
	if err != nil {
		return nil, err
	}
	labels, buckets := bucketize(ts, start)
	return a.reduceBuckets(axis, timeDim, labels, buckets, fn), nil
}

// GroupByYearReduce groups observations by calendar year and applies a custom
// reduction to each year's sub-array along the time axis.
func (a *Array) GroupByYearReduce(timeDim string, fn ReduceFunc) (*Array, error) {
	axis, ts, err := a.timesOf(timeDim)
	if err != nil {
		return nil, err
	}
	labels, buckets := bucketize(ts, yearStart)
	return a.reduceBuckets(axis, timeDim, labels, buckets, fn), nil
}

// reduceBuckets applies fn to each bucket's sub-array and assembles the
// reduced values into an output whose time axis holds one step per bucket.
func (a *Array) reduceBuckets(axis int, timeDim string, labels []time.Time, buckets [][]int, fn ReduceFunc) *Array {
	shape := append([]int(nil), a.Shape...)
	shape[axis] = len(buckets)
	out := a.emptyLike(shape)
	out.Coords[timeDim] = labels

	outer, inner := outerInner(a.Shape, axis)
	nb := len(buckets)
	for b, idx := range buckets {
		sub := a.takeAlong(axis, idx)
		red := fn(sub.Data, sub.Shape, axis)
		for o := 0; o < outer; o++ {
			for i := 0; i < inner; i++ {
				out.Data[(o*nb+b)*inner+i] = red[o*inner+i]
			}
		}
	}
	return out
}

// periodStart maps a period string to its bucket-start function.
func periodStart(period string) (func(time.Time) time.Time, error) {
	switch period {
	case "1M":
		return monthStart, nil
	case "1y":
		return yearStart, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadPeriod, period)
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func yearStart(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// bucketize groups coordinate positions by bucket start, returning the
// sorted bucket labels and the member indices per bucket. Member order
// follows the stored observation order.
func bucketize(ts []time.Time, start func(time.Time) time.Time) ([]time.Time, [][]int) {
	byLabel := make(map[time.Time][]int)
	for i, t := range ts {
		k := start(t)
		byLabel[k] = append(byLabel[k], i)
	}
	labels := make([]time.Time, 0, len(byLabel))
	for k := range byLabel {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Before(labels[j]) })

	buckets := make([][]int, len(labels))
	for i, k := range labels {
		buckets[i] = byLabel[k]
	}
	return labels, buckets
}
