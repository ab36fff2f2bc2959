// Package series implements a small labeled-array engine for calendar
// time-series math: named dimensions over a flat float64 buffer, calendar
// resampling, rolling windows, and axis-wise reductions.
//
// # Data Model
//
// An Array is an N-dimensional row-major buffer with named dimensions.
// A time-like dimension carries per-step time.Time coordinates (UTC).
// Missing values are NaN, and reductions skip NaN unless noted otherwise:
// a sum over only-NaN input is 0, a max over only-NaN input is NaN.
//
// Observations along a time dimension are assumed to be in chronological
// order; resampling preserves the stored order within each bucket.
//
// # Resampling
//
// Calendar buckets are derived from the time coordinates in UTC:
//
//	daily   → midnight of the calendar day
//	"1M"    → first of the month
//	"1y"    → January 1 of the year
//
// Bucket labels are the period start times, sorted ascending. Only periods
// that contain at least one observation appear in the output.
//
// # Custom Reductions
//
// ResampleReduce and GroupByYearReduce accept a ReduceFunc that receives the
// raw buffer, its shape, and the axis to collapse, and returns a buffer with
// that axis removed (row-major). ReduceAlong adapts a scalar kernel over
// 1-d slices into that form.
package series
