package pipeline_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/domain"
	"github.com/tempestat/climdex/internal/pipeline"
)

func juneBundle(t *testing.T, unit string, values []float64) domain.RawSeries {
	t.Helper()
	obs := make([]domain.Observation, len(values))
	for i, v := range values {
		val := v
		obs[i] = domain.Observation{
			Time:  time.Date(2023, time.June, 1+i, 0, 0, 0, 0, time.UTC),
			Value: &val,
		}
	}
	data, err := json.Marshal(domain.ObservationBundle{
		StationID:    "USW00094728",
		Variable:     "PRCP",
		Unit:         unit,
		Observations: obs,
	})
	require.NoError(t, err)
	return domain.RawSeries{Key: []byte("USW00094728"), Value: data}
}

func TestIndexTransformer_AllIndices(t *testing.T) {
	raw := juneBundle(t, "mm", []float64{0, 12, 25, 0.5, 3, 0, 8})

	tfm := pipeline.NewIndexTransformer(climdex.IndexNames(), "1M", 1.0, slog.Default(), newTestMetrics())
	report, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "USW00094728", report.StationID)
	assert.Equal(t, "PRCP", report.Variable)
	assert.Equal(t, "mm", report.Unit)
	assert.Equal(t, "1M", report.Period)
	assert.Len(t, report.Indices, len(climdex.IndexNames()))

	rx1 := report.Indices[climdex.IndexRx1Day]
	require.Len(t, rx1, 1)
	require.NotNil(t, rx1[0].Value)
	assert.Equal(t, 25.0, *rx1[0].Value)
	assert.Equal(t, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), rx1[0].Bucket)

	r10 := report.Indices[climdex.IndexR10MM]
	require.Len(t, r10, 1)
	require.NotNil(t, r10[0].Value)
	assert.Equal(t, 2.0, *r10[0].Value)

	// wet days: 12, 25, 3, 8
	sdii := report.Indices[climdex.IndexSDII]
	require.Len(t, sdii, 1)
	require.NotNil(t, sdii[0].Value)
	assert.InDelta(t, 12.0, *sdii[0].Value, 1e-9)
}

func TestIndexTransformer_UnitConversion(t *testing.T) {
	// Values in cm; the 10 mm preset becomes 1 cm.
	raw := juneBundle(t, "cm", []float64{0.5, 1.2, 2.5, 0.05})

	tfm := pipeline.NewIndexTransformer([]string{climdex.IndexR10MM, climdex.IndexR20MM}, "1M", 1.0, slog.Default(), newTestMetrics())
	report, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	r10 := report.Indices[climdex.IndexR10MM]
	require.Len(t, r10, 1)
	require.NotNil(t, r10[0].Value)
	assert.Equal(t, 2.0, *r10[0].Value)

	r20 := report.Indices[climdex.IndexR20MM]
	require.Len(t, r20, 1)
	require.NotNil(t, r20[0].Value)
	assert.Equal(t, 1.0, *r20[0].Value)
}

func TestIndexTransformer_InvalidPayload(t *testing.T) {
	tfm := pipeline.NewIndexTransformer(climdex.IndexNames(), "1M", 1.0, slog.Default(), newTestMetrics())
	_, err := tfm.Transform(context.Background(), domain.RawSeries{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestIndexTransformer_UnknownUnit(t *testing.T) {
	raw := juneBundle(t, "furlongs", []float64{1, 2})
	tfm := pipeline.NewIndexTransformer(climdex.IndexNames(), "1M", 1.0, slog.Default(), newTestMetrics())
	_, err := tfm.Transform(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "furlongs")
}

func TestIndexTransformer_UnknownIndex(t *testing.T) {
	raw := juneBundle(t, "mm", []float64{1, 2})
	tfm := pipeline.NewIndexTransformer([]string{"frostdays"}, "1M", 1.0, slog.Default(), newTestMetrics())
	_, err := tfm.Transform(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frostdays")
}
