package climdex_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/series"
)

// dailySeries builds a 1-d daily precipitation array starting at the given day.
func dailySeries(t *testing.T, start time.Time, values []float64) *series.Array {
	t.Helper()
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = start.AddDate(0, 0, i)
	}
	arr, err := series.NewTimeSeries("PRCP", "time", times, values)
	require.NoError(t, err)
	return arr
}

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestAllZeroInput(t *testing.T) {
	calc := climdex.New()
	days := 31
	in := climdex.FromArray(dailySeries(t, jan(1), make([]float64, days)))

	rx1, err := calc.Rx1Day(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, rx1.Data)

	rx5, err := calc.Rx5Day(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, rx5.Data)

	tot, err := calc.PrcpTot(in, "1y", 0, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, tot.Data)

	rn, err := calc.AnnualRnMM(in, 5, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, rn.Data)

	sdii, err := calc.SDII(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, sdii.Data, "no wet days must not divide by zero")

	cwd, err := calc.CWD(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, cwd.Data)

	cdd, err := calc.CDD(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{float64(days)}, cdd.Data, "every zero day is dry")
}

func TestRx1DayNotAboveRx5Day(t *testing.T) {
	values := []float64{0, 3, 12, 0, 7, 1, 0, 25, 2, 2, 0, 9}
	in := climdex.FromArray(dailySeries(t, jan(1), values))
	calc := climdex.New()

	rx1, err := calc.Rx1Day(in, "1M", "")
	require.NoError(t, err)
	rx5, err := calc.Rx5Day(in, "1M", "")
	require.NoError(t, err)

	require.Len(t, rx1.Data, 1)
	require.Len(t, rx5.Data, 1)
	assert.LessOrEqual(t, rx1.Data[0], rx5.Data[0])
}

func TestRx1Day_SubDailyInput(t *testing.T) {
	// Two observations on the same day must be summed before the max.
	times := []time.Time{
		jan(1).Add(6 * time.Hour),
		jan(1).Add(18 * time.Hour),
		jan(2),
	}
	arr, err := series.NewTimeSeries("PRCP", "time", times, []float64{4, 5, 8})
	require.NoError(t, err)

	rx1, err := climdex.New().Rx1Day(climdex.FromArray(arr), "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, rx1.Data)
}

func TestAnnualCountThresholdMonotonicity(t *testing.T) {
	values := []float64{0, 11, 22, 9, 35, 15, 20, 4, 50, 0}
	in := climdex.FromArray(dailySeries(t, jan(1), values))
	calc := climdex.New()

	r10, err := calc.AnnualR10MM(in, "")
	require.NoError(t, err)
	r20, err := calc.AnnualR20MM(in, "")
	require.NoError(t, err)

	require.Len(t, r10.Data, 1)
	assert.Equal(t, 6.0, r10.Data[0])
	assert.Equal(t, 4.0, r20.Data[0])
	assert.GreaterOrEqual(t, r10.Data[0], r20.Data[0])
}

func TestPrcpTotZeroThresholdEqualsPlainSum(t *testing.T) {
	values := []float64{1.5, 0, 3, 0.2, 0, 7}
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	tot, err := climdex.New().PrcpTot(in, "1y", 0, "")
	require.NoError(t, err)

	require.Len(t, tot.Data, 1)
	assert.InDelta(t, 11.7, tot.Data[0], 1e-12)
}

func TestPrcpTotMasksDryDays(t *testing.T) {
	values := []float64{0.5, 2, 0.9, 3}
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	tot, err := climdex.New().PrcpTot(in, "1y", 1.0, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, tot.Data)
}

func TestSDII(t *testing.T) {
	values := []float64{2, 0, 3, 0, 5}
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	sdii, err := climdex.New().SDII(in, "1M", "")
	require.NoError(t, err)

	require.Len(t, sdii.Data, 1)
	assert.InDelta(t, 10.0/3.0, sdii.Data[0], 1e-12)
}

func TestCDDAndCWD(t *testing.T) {
	// wet wet dry dry dry wet dry wet wet wet wet dry
	values := []float64{5, 2, 0, 0.5, 1, 3, 0, 2, 2, 4, 9, 0}
	in := climdex.FromArray(dailySeries(t, jan(1), values))
	calc := climdex.New()

	cdd, err := calc.CDD(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, cdd.Data, "days ≤ 1 mm count as dry")

	cwd, err := calc.CWD(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, cwd.Data)
}

func TestMonthlySplit(t *testing.T) {
	// 31 January days then 5 February days; February's max must not leak
	// into January.
	values := make([]float64, 36)
	values[10] = 12 // Jan 11
	values[33] = 40 // Feb 3
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	rx1, err := climdex.New().Rx1Day(in, "1M", "")
	require.NoError(t, err)

	require.Len(t, rx1.Data, 2)
	assert.Equal(t, 12.0, rx1.Data[0])
	assert.Equal(t, 40.0, rx1.Data[1])
}

func TestConvertUnitsHook(t *testing.T) {
	// Data in centimeters; thresholds are mm literals mapped via mm/10.
	calc := climdex.New(climdex.WithConvertUnits(func(mm float64) float64 { return mm / 10 }))
	values := []float64{1.5, 0.05, 2.0, 0.5} // cm: 15mm, 0.5mm, 20mm, 5mm
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	r10, err := calc.AnnualR10MM(in, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, r10.Data, "10mm literal must compare as 1.0cm")

	r20, err := calc.AnnualR20MM(in, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, r20.Data)

	sdii, err := calc.SDII(in, "1M", "")
	require.NoError(t, err)
	// Wet threshold 1mm → 0.1cm: wet days are 1.5, 2.0, 0.5.
	assert.InDelta(t, 4.0/3.0, sdii.Data[0], 1e-12)

	cdd, err := calc.CDD(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, cdd.Data, "only the 0.05cm day is ≤ 0.1cm")

	cwd, err := calc.CWD(in, "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, cwd.Data)
}

func TestPrcpTotThresholdNotConverted(t *testing.T) {
	// The wet-day threshold stays in input units even when a conversion
	// hook is configured for the other indices.
	calc := climdex.New(climdex.WithConvertUnits(func(mm float64) float64 { return mm / 10 }))
	values := []float64{0.5, 2, 0.9, 3}
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	tot, err := calc.PrcpTot(in, "1y", 1.0, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, tot.Data, "threshold 1.0 applies as-is, not as 0.1")
}

func TestCustomTimeDim(t *testing.T) {
	times := []time.Time{jan(1), jan(2)}
	arr, err := series.NewTimeSeries("PRCP", "t", times, []float64{1, 2})
	require.NoError(t, err)

	calc := climdex.New(climdex.WithTimeDim("t"))
	rx1, err := calc.Rx1Day(climdex.FromArray(arr), "1M", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, rx1.Data)
}

func TestDatasetExtraction(t *testing.T) {
	arr := dailySeries(t, jan(1), []float64{1, 2, 3})
	ds := series.Dataset{"PRCP": arr}
	calc := climdex.New()

	rx1, err := calc.Rx1Day(climdex.FromDataset(ds), "1M", "PRCP")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, rx1.Data)

	_, err = calc.Rx1Day(climdex.FromDataset(ds), "1M", "SNOW")
	require.Error(t, err)
	assert.ErrorIs(t, err, series.ErrVarNotFound)
}

func TestEmptyInput(t *testing.T) {
	_, err := climdex.New().Rx1Day(climdex.Input{}, "1M", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, climdex.ErrNoInput)
}

func TestBadPeriodPropagates(t *testing.T) {
	in := climdex.FromArray(dailySeries(t, jan(1), []float64{1}))
	_, err := climdex.New().SDII(in, "weekly", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, series.ErrBadPeriod)
}

func TestNaNDaysAreMissing(t *testing.T) {
	values := []float64{2, math.NaN(), 5}
	in := climdex.FromArray(dailySeries(t, jan(1), values))

	tot, err := climdex.New().PrcpTot(in, "1y", 0, "")
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, tot.Data)
}
