// Package ncdf loads precipitation series from NetCDF and CSV files into
// the labeled-array types used by the index calculator.
package ncdf

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/tempestat/climdex/internal/series"
)

// LoadDataset reads every variable dimensioned on timeDim from a NetCDF
// file (classic CDF or HDF5 based) into a Dataset. The time coordinate
// variable must either carry a CF "units" attribute ("<unit> since
// <epoch>") or hold raw unix seconds.
func LoadDataset(path, timeDim string) (series.Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer g.Close()

	times, err := loadTimeCoord(g, timeDim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ds := make(series.Dataset)
	for _, name := range g.ListVariables() {
		if name == timeDim {
			continue
		}
		v, err := g.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("%s: read variable %s: %w", path, name, err)
		}
		if len(v.Dimensions) == 0 || v.Dimensions[0] != timeDim {
			continue
		}

		data, shape, err := flatten(v.Values)
		if err != nil {
			return nil, fmt.Errorf("%s: variable %s: %w", path, name, err)
		}
		if shape[0] != len(times) {
			return nil, fmt.Errorf("%s: variable %s has %d steps on %s, coordinate has %d",
				path, name, shape[0], timeDim, len(times))
		}

		arr, err := series.New(name, data, v.Dimensions, shape)
		if err != nil {
			return nil, fmt.Errorf("%s: variable %s: %w", path, name, err)
		}
		if err := arr.SetCoords(timeDim, times); err != nil {
			return nil, fmt.Errorf("%s: variable %s: %w", path, name, err)
		}
		ds[name] = arr
	}

	if len(ds) == 0 {
		return nil, fmt.Errorf("%s: no variables dimensioned on %q", path, timeDim)
	}
	return ds, nil
}

// loadTimeCoord reads and decodes the time coordinate variable.
func loadTimeCoord(g api.Group, timeDim string) ([]time.Time, error) {
	v, err := g.GetVariable(timeDim)
	if err != nil {
		return nil, fmt.Errorf("time coordinate %q: %w", timeDim, err)
	}

	raw, shape, err := flatten(v.Values)
	if err != nil {
		return nil, fmt.Errorf("time coordinate %q: %w", timeDim, err)
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("time coordinate %q is not 1-dimensional", timeDim)
	}

	epoch, step, err := timeUnits(v.Attributes)
	if err != nil {
		return nil, fmt.Errorf("time coordinate %q: %w", timeDim, err)
	}

	times := make([]time.Time, len(raw))
	for i, offset := range raw {
		times[i] = epoch.Add(time.Duration(offset * float64(step)))
	}
	return times, nil
}

// timeUnits parses a CF units attribute like "days since 1990-01-01" or
// "hours since 1990-01-01 00:00:00" into an epoch and a step duration.
// A missing units attribute means raw unix seconds.
func timeUnits(attrs api.AttributeMap) (time.Time, time.Duration, error) {
	unixEpoch := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	if attrs == nil {
		return unixEpoch, time.Second, nil
	}
	val, ok := attrs.Get("units")
	if !ok {
		return unixEpoch, time.Second, nil
	}
	units, ok := val.(string)
	if !ok {
		return time.Time{}, 0, fmt.Errorf("units attribute is not a string")
	}

	parts := strings.SplitN(units, " since ", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("unsupported time units %q", units)
	}

	var step time.Duration
	switch strings.TrimSpace(parts[0]) {
	case "days":
		step = 24 * time.Hour
	case "hours":
		step = time.Hour
	case "minutes":
		step = time.Minute
	case "seconds":
		step = time.Second
	default:
		return time.Time{}, 0, fmt.Errorf("unsupported time units %q", units)
	}

	epochStr := strings.TrimSpace(parts[1])
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z", "2006-01-02"} {
		if epoch, err := time.Parse(layout, epochStr); err == nil {
			return epoch.UTC(), step, nil
		}
	}
	return time.Time{}, 0, fmt.Errorf("unsupported time epoch %q", epochStr)
}

// flatten converts a possibly nested numeric slice into a flat float64
// buffer in row-major order plus its shape.
func flatten(values any) ([]float64, []int, error) {
	shape, err := shapeOf(values)
	if err != nil {
		return nil, nil, err
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	data := make([]float64, 0, n)
	data, err = appendFlat(data, reflect.ValueOf(values), len(shape))
	if err != nil {
		return nil, nil, err
	}
	return data, shape, nil
}

func shapeOf(values any) ([]int, error) {
	var shape []int
	v := reflect.ValueOf(values)
	for v.Kind() == reflect.Slice {
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	if len(shape) == 0 {
		return nil, fmt.Errorf("values are %T, not a slice", values)
	}
	return shape, nil
}

func appendFlat(dst []float64, v reflect.Value, depth int) ([]float64, error) {
	if depth == 0 {
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			return append(dst, v.Float()), nil
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return append(dst, float64(v.Int())), nil
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return append(dst, float64(v.Uint())), nil
		default:
			return nil, fmt.Errorf("unsupported element type %s", v.Kind())
		}
	}
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("ragged data: expected slice, got %s", v.Kind())
	}
	var err error
	for i := 0; i < v.Len(); i++ {
		dst, err = appendFlat(dst, v.Index(i), depth-1)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}
