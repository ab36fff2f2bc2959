package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/tempestat/climdex/internal/series"
)

// IndexValue is the value of one index for one reporting bucket. Bucket is
// the period start (first of the month or January 1). Cell identifies the
// grid cell for multi-dimensional input and is empty for station series.
// NaN serializes as null via the pointer.
type IndexValue struct {
	Bucket time.Time `json:"bucket"`
	Cell   string    `json:"cell,omitempty"`
	Value  *float64  `json:"value"`
}

// IndexReport is the computed output for one observation bundle: every
// configured index, bucketed by the reporting period.
type IndexReport struct {
	StationID  string                  `json:"station_id"`
	Variable   string                  `json:"variable"`
	Unit       string                  `json:"unit"`
	Period     string                  `json:"period"`
	Indices    map[string][]IndexValue `json:"indices"`
	ComputedAt time.Time               `json:"computed_at"`
}

// NewIndexReport builds a report shell for a bundle, stamped with the
// package clock.
func NewIndexReport(b ObservationBundle, period string) IndexReport {
	return IndexReport{
		StationID:  b.StationID,
		Variable:   b.Variable,
		Unit:       b.Unit,
		Period:     period,
		Indices:    make(map[string][]IndexValue),
		ComputedAt: clock.Now().UTC(),
	}
}

// AddIndex records a reduced array under the given index name. The leading
// dimension is the bucket axis; trailing dimensions, if any, identify the
// grid cell and are flattened in row-major order with a dim=position label.
// NaN values are stored as null.
func (r IndexReport) AddIndex(name string, arr *series.Array) error {
	if len(arr.Dims) == 0 {
		return fmt.Errorf("index %s: array %q has no dimensions", name, arr.Name)
	}
	ts, ok := arr.Coords[arr.Dims[0]]
	if !ok {
		return fmt.Errorf("index %s: dimension %q has no time coordinates", name, arr.Dims[0])
	}

	inner := 1
	for _, d := range arr.Shape[1:] {
		inner *= d
	}

	values := make([]IndexValue, len(arr.Data))
	for i, v := range arr.Data {
		iv := IndexValue{Bucket: ts[i/inner]}
		if len(arr.Dims) > 1 {
			iv.Cell = cellLabel(arr.Dims[1:], arr.Shape[1:], i%inner)
		}
		if v == v { // not NaN
			val := v
			iv.Value = &val
		}
		values[i] = iv
	}
	r.Indices[name] = values
	return nil
}

// cellLabel renders the trailing-dimension position of one flattened value,
// e.g. "station=2" or "station=2,level=0".
func cellLabel(dims []string, shape []int, rem int) string {
	parts := make([]string, len(dims))
	for axis := len(dims) - 1; axis >= 0; axis-- {
		parts[axis] = fmt.Sprintf("%s=%d", dims[axis], rem%shape[axis])
		rem /= shape[axis]
	}
	return strings.Join(parts, ",")
}
