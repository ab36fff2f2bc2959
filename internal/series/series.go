package series

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrVarNotFound reports a variable name missing from a Dataset.
	ErrVarNotFound = errors.New("variable not found")
	// ErrDimNotFound reports a dimension name missing from an Array.
	ErrDimNotFound = errors.New("dimension not found")
	// ErrBadPeriod reports an unsupported resampling period string.
	ErrBadPeriod = errors.New("unsupported resampling period")
)

// Array is a labeled N-dimensional float64 array. Data is row-major over
// Shape; Coords maps a time-like dimension name to one time.Time per step.
type Array struct {
	Name   string
	Dims   []string
	Shape  []int
	Data   []float64
	Coords map[string][]time.Time
}

// New builds an Array and validates that the buffer, dims, and shape agree.
func New(name string, data []float64, dims []string, shape []int) (*Array, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("array %q: %d dims for %d shape entries", name, len(dims), len(shape))
	}
	n := 1
	for i, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("array %q: negative length for dimension %q", name, dims[i])
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("array %q: buffer has %d values, shape wants %d", name, len(data), n)
	}
	seen := make(map[string]bool, len(dims))
	for _, d := range dims {
		if seen[d] {
			return nil, fmt.Errorf("array %q: duplicate dimension %q", name, d)
		}
		seen[d] = true
	}
	return &Array{
		Name:   name,
		Dims:   append([]string(nil), dims...),
		Shape:  append([]int(nil), shape...),
		Data:   data,
		Coords: make(map[string][]time.Time),
	}, nil
}

// NewTimeSeries builds a 1-d Array over a single time dimension.
func NewTimeSeries(name, timeDim string, times []time.Time, values []float64) (*Array, error) {
	a, err := New(name, values, []string{timeDim}, []int{len(values)})
	if err != nil {
		return nil, err
	}
	if err := a.SetCoords(timeDim, times); err != nil {
		return nil, err
	}
	return a, nil
}

// SetCoords attaches time coordinates to a dimension.
func (a *Array) SetCoords(dim string, times []time.Time) error {
	axis, err := a.AxisOf(dim)
	if err != nil {
		return err
	}
	if len(times) != a.Shape[axis] {
		return fmt.Errorf("array %q: %d coordinates for dimension %q of length %d",
			a.Name, len(times), dim, a.Shape[axis])
	}
	a.Coords[dim] = append([]time.Time(nil), times...)
	return nil
}

// AxisOf returns the axis index of the named dimension.
func (a *Array) AxisOf(dim string) (int, error) {
	for i, d := range a.Dims {
		if d == dim {
			return i, nil
		}
	}
	return 0, fmt.Errorf("array %q: %w: %q", a.Name, ErrDimNotFound, dim)
}

// Len returns the number of values in the buffer.
func (a *Array) Len() int { return len(a.Data) }

// Where keeps values satisfying pred and masks the rest to NaN.
// NaN inputs stay NaN since pred never sees them as finite matches.
func (a *Array) Where(pred func(float64) bool) *Array {
	out := a.emptyLike(a.Shape)
	for i, v := range a.Data {
		if pred(v) {
			out.Data[i] = v
		} else {
			out.Data[i] = math.NaN()
		}
	}
	return out
}

// timesOf returns the coordinates of a time dimension, failing when the
// dimension is absent or carries no coordinates.
func (a *Array) timesOf(dim string) (int, []time.Time, error) {
	axis, err := a.AxisOf(dim)
	if err != nil {
		return 0, nil, err
	}
	ts, ok := a.Coords[dim]
	if !ok {
		return 0, nil, fmt.Errorf("array %q: dimension %q has no time coordinates", a.Name, dim)
	}
	return axis, ts, nil
}

// emptyLike allocates an Array with the same name and dims but a new shape,
// copying coordinates of dimensions whose length is unchanged.
func (a *Array) emptyLike(shape []int) *Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	out := &Array{
		Name:   a.Name,
		Dims:   append([]string(nil), a.Dims...),
		Shape:  append([]int(nil), shape...),
		Data:   make([]float64, n),
		Coords: make(map[string][]time.Time),
	}
	for dim, ts := range a.Coords {
		axis, _ := a.AxisOf(dim)
		if shape[axis] == a.Shape[axis] {
			out.Coords[dim] = append([]time.Time(nil), ts...)
		}
	}
	return out
}

// takeAlong selects the given positions along axis into a fresh Array.
func (a *Array) takeAlong(axis int, idx []int) *Array {
	shape := append([]int(nil), a.Shape...)
	shape[axis] = len(idx)
	out := a.emptyLike(shape)

	n := a.Shape[axis]
	outer, inner := outerInner(a.Shape, axis)
	for o := 0; o < outer; o++ {
		for k, src := range idx {
			copy(out.Data[(o*len(idx)+k)*inner:(o*len(idx)+k+1)*inner],
				a.Data[(o*n+src)*inner:(o*n+src+1)*inner])
		}
	}

	dim := a.Dims[axis]
	if ts, ok := a.Coords[dim]; ok {
		sel := make([]time.Time, len(idx))
		for k, src := range idx {
			sel[k] = ts[src]
		}
		out.Coords[dim] = sel
	}
	return out
}

// outerInner splits a shape around an axis into the product of the leading
// dims and the product of the trailing dims.
func outerInner(shape []int, axis int) (int, int) {
	outer, inner := 1, 1
	for _, d := range shape[:axis] {
		outer *= d
	}
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	return outer, inner
}

// Dataset is a table of named arrays.
type Dataset map[string]*Array

// Var extracts the named array, or fails with ErrVarNotFound.
func (d Dataset) Var(name string) (*Array, error) {
	a, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVarNotFound, name)
	}
	return a, nil
}
