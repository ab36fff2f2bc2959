package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/series"
)

// RawSeries represents an unprocessed message from the source topic.
type RawSeries struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Observation is a single timestamped precipitation amount. A null value in
// the JSON payload marks a missing observation.
type Observation struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// ObservationBundle is one station's precipitation series as published by
// the collector.
type ObservationBundle struct {
	StationID    string        `json:"station_id"`
	Variable     string        `json:"variable"`
	Unit         string        `json:"unit"`
	Observations []Observation `json:"observations"`
}

// ParseRawSeries deserializes a RawSeries value into an ObservationBundle
// and validates it.
func ParseRawSeries(raw RawSeries) (ObservationBundle, error) {
	var b ObservationBundle
	if err := json.Unmarshal(raw.Value, &b); err != nil {
		return ObservationBundle{}, fmt.Errorf("parse observation bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return ObservationBundle{}, err
	}
	return b, nil
}

// Validate checks the bundle invariants the pipeline relies on.
func (b ObservationBundle) Validate() error {
	if b.StationID == "" {
		return errors.New("bundle missing station_id")
	}
	if b.Variable == "" {
		return errors.New("bundle missing variable")
	}
	if len(b.Observations) == 0 {
		return fmt.Errorf("bundle %s has no observations", b.StationID)
	}
	for i := 1; i < len(b.Observations); i++ {
		if b.Observations[i].Time.Before(b.Observations[i-1].Time) {
			return fmt.Errorf("bundle %s observations out of order at %d", b.StationID, i)
		}
	}
	return nil
}

// ToArray converts the bundle into a labeled time series. Missing
// observations become NaN.
func (b ObservationBundle) ToArray() (*series.Array, error) {
	times := make([]time.Time, len(b.Observations))
	values := make([]float64, len(b.Observations))
	for i, obs := range b.Observations {
		times[i] = obs.Time
		if obs.Value == nil {
			values[i] = math.NaN()
		} else {
			values[i] = *obs.Value
		}
	}
	return series.NewTimeSeries(b.Variable, climdex.DefaultTimeDim, times, values)
}

// ConvertFromMM returns the threshold conversion hook for a bundle unit:
// the hook maps a millimeter literal into the bundle's unit system.
// Supported units: mm (identity), cm, in, and "tenths-mm" (GHCN daily PRCP).
func ConvertFromMM(unit string) (climdex.ConvertFunc, error) {
	switch unit {
	case "", "mm":
		return func(mm float64) float64 { return mm }, nil
	case "cm":
		return func(mm float64) float64 { return mm / 10 }, nil
	case "in":
		return func(mm float64) float64 { return mm / 25.4 }, nil
	case "tenths-mm":
		return func(mm float64) float64 { return mm * 10 }, nil
	default:
		return nil, fmt.Errorf("unsupported precipitation unit %q", unit)
	}
}
