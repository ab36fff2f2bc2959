package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempestat/climdex/internal/series"
)

func TestNewIndexReport_UsesClock(t *testing.T) {
	frozen := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	r := NewIndexReport(validBundle(), "1M")
	assert.Equal(t, frozen, r.ComputedAt)
	assert.Equal(t, "USW00023174", r.StationID)
	assert.Equal(t, "1M", r.Period)
}

func TestAddIndex_NaNSerializesAsNull(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	arr, err := series.NewTimeSeries("PRCP", "time",
		[]time.Time{jan, feb}, []float64{12.5, math.NaN()})
	require.NoError(t, err)

	r := NewIndexReport(validBundle(), "1M")
	require.NoError(t, r.AddIndex("rx1day", arr))

	require.Len(t, r.Indices["rx1day"], 2)
	assert.Equal(t, 12.5, *r.Indices["rx1day"][0].Value)
	assert.Nil(t, r.Indices["rx1day"][1].Value)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":12.5`)
	assert.Contains(t, string(data), `"value":null`)
	assert.NotContains(t, string(data), `"cell"`)
}

func TestAddIndex_GriddedArray(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	arr, err := series.New("PRCP", []float64{1, 2, 3, math.NaN()},
		[]string{"time", "station"}, []int{2, 2})
	require.NoError(t, err)
	require.NoError(t, arr.SetCoords("time", []time.Time{jan, feb}))

	r := NewIndexReport(validBundle(), "1M")
	require.NoError(t, r.AddIndex("rx1day", arr))

	vals := r.Indices["rx1day"]
	require.Len(t, vals, 4)

	assert.Equal(t, jan, vals[0].Bucket)
	assert.Equal(t, "station=0", vals[0].Cell)
	assert.Equal(t, 1.0, *vals[0].Value)

	assert.Equal(t, jan, vals[1].Bucket)
	assert.Equal(t, "station=1", vals[1].Cell)
	assert.Equal(t, 2.0, *vals[1].Value)

	assert.Equal(t, feb, vals[2].Bucket)
	assert.Equal(t, "station=0", vals[2].Cell)
	assert.Equal(t, 3.0, *vals[2].Value)

	assert.Equal(t, feb, vals[3].Bucket)
	assert.Equal(t, "station=1", vals[3].Cell)
	assert.Nil(t, vals[3].Value)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cell":"station=1"`)
}

func TestAddIndex_MultipleCellDims(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	arr, err := series.New("PRCP", []float64{1, 2, 3, 4, 5, 6},
		[]string{"time", "station", "level"}, []int{1, 3, 2})
	require.NoError(t, err)
	require.NoError(t, arr.SetCoords("time", []time.Time{jan}))

	r := NewIndexReport(validBundle(), "1M")
	require.NoError(t, r.AddIndex("prcptot", arr))

	vals := r.Indices["prcptot"]
	require.Len(t, vals, 6)
	assert.Equal(t, "station=0,level=0", vals[0].Cell)
	assert.Equal(t, "station=0,level=1", vals[1].Cell)
	assert.Equal(t, "station=2,level=1", vals[5].Cell)
	assert.Equal(t, 6.0, *vals[5].Value)
}

func TestAddIndex_MissingTimeCoords(t *testing.T) {
	arr, err := series.New("PRCP", []float64{1, 2}, []string{"time"}, []int{2})
	require.NoError(t, err)

	r := NewIndexReport(validBundle(), "1M")
	err = r.AddIndex("rx1day", arr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no time coordinates")
}
