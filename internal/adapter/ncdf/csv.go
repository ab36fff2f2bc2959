package ncdf

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/tempestat/climdex/internal/series"
)

// LoadCSV reads a two-column time,value CSV into a labeled time series.
// Times are RFC 3339 or plain dates; an empty value cell marks a missing
// observation. A header row is skipped if the first cell does not parse
// as a time.
func LoadCSV(path, varName, timeDim string) (*series.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	if _, err := parseTimeCell(rows[0][0]); err != nil {
		rows = rows[1:]
	}

	times := make([]time.Time, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimeCell(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		times = append(times, ts)

		if row[1] == "" {
			values = append(values, math.NaN())
			continue
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad value %q", path, i+1, row[1])
		}
		values = append(values, v)
	}

	return series.NewTimeSeries(varName, timeDim, times, values)
}

// WriteCSV writes a 1-d time series as time,value rows with a header.
// NaN values are written as empty cells.
func WriteCSV(path string, arr *series.Array, timeDim string) error {
	times := arr.Coords[timeDim]
	if len(times) != len(arr.Data) {
		return fmt.Errorf("series %s has no %s coordinate", arr.Name, timeDim)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{timeDim, arr.Name}); err != nil {
		return err
	}
	for i, ts := range times {
		cell := ""
		if v := arr.Data[i]; !math.IsNaN(v) {
			cell = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write([]string{ts.UTC().Format(time.RFC3339), cell}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func parseTimeCell(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}
