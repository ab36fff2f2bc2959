package climdex

import (
	"errors"

	"github.com/tempestat/climdex/internal/series"
)

// Default parameter values shared by the index operations.
const (
	DefaultTimeDim = "time"
	DefaultVarName = "PRCP"

	// DefaultPeriod is the reporting period for most indices; PrcpTot
	// reports annually by default.
	DefaultPeriod        = "1M"
	DefaultPrcpTotPeriod = "1y"

	// wetDayMM is the conventional wet/dry day threshold in millimeters.
	wetDayMM = 1.0
)

// ErrNoInput reports an Input with neither an array nor a dataset.
var ErrNoInput = errors.New("no input array or dataset")

// ConvertFunc maps a millimeter threshold literal into the unit system of
// the input data.
type ConvertFunc func(mm float64) float64

// Calculator computes precipitation indices. Configuration is fixed at
// construction and never mutated.
type Calculator struct {
	timeDim string
	convert ConvertFunc
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTimeDim sets the name of the time dimension (default "time").
func WithTimeDim(dim string) Option {
	return func(c *Calculator) {
		if dim != "" {
			c.timeDim = dim
		}
	}
}

// WithConvertUnits sets the threshold unit-conversion hook (default identity).
func WithConvertUnits(fn ConvertFunc) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.convert = fn
		}
	}
}

// New builds a Calculator with the given options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		timeDim: DefaultTimeDim,
		convert: func(mm float64) float64 { return mm },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input is either a single labeled array or a dataset from which a named
// variable is extracted at the start of each operation.
type Input struct {
	array   *series.Array
	dataset series.Dataset
}

// FromArray wraps a single labeled array as an Input.
func FromArray(a *series.Array) Input { return Input{array: a} }

// FromDataset wraps a dataset as an Input; operations extract varname from it.
func FromDataset(d series.Dataset) Input { return Input{dataset: d} }

// extract resolves the input to a single array, failing with the dataset's
// lookup error when varname is absent.
func (in Input) extract(varname string) (*series.Array, error) {
	if in.array != nil {
		return in.array, nil
	}
	if in.dataset != nil {
		if varname == "" {
			varname = DefaultVarName
		}
		return in.dataset.Var(varname)
	}
	return nil, ErrNoInput
}

// daily resolves the input and aggregates it to daily resolution, the shared
// first step of every index.
func (c *Calculator) daily(in Input, varname string) (*series.Array, error) {
	arr, err := in.extract(varname)
	if err != nil {
		return nil, err
	}
	return arr.ResampleDaily(c.timeDim)
}

func orDefault(period, def string) string {
	if period == "" {
		return def
	}
	return period
}

// Rx1Day returns the maximum 1-day precipitation within each reporting
// period (default monthly).
func (c *Calculator) Rx1Day(in Input, period, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	return daily.Resample(c.timeDim, orDefault(period, DefaultPeriod), series.ReduceMax)
}

// Rx5Day returns the maximum centered 5-day precipitation sum within each
// reporting period (default monthly). Edge days contribute a truncated
// window of fewer than five days.
func (c *Calculator) Rx5Day(in Input, period, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	rolled, err := daily.Rolling(c.timeDim, 5, 1, true)
	if err != nil {
		return nil, err
	}
	return rolled.Resample(c.timeDim, orDefault(period, DefaultPeriod), series.ReduceMax)
}

// AnnualRnMM returns, per calendar year, the number of days with
// precipitation of at least nmm millimeters (converted into input units).
func (c *Calculator) AnnualRnMM(in Input, nmm float64, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	return daily.GroupByYearReduce(c.timeDim, countAtLeast(c.convert(nmm)))
}

// AnnualR10MM returns the annual count of days with precipitation ≥ 10 mm.
func (c *Calculator) AnnualR10MM(in Input, varname string) (*series.Array, error) {
	return c.AnnualRnMM(in, 10.0, varname)
}

// AnnualR20MM returns the annual count of days with precipitation ≥ 20 mm.
func (c *Calculator) AnnualR20MM(in Input, varname string) (*series.Array, error) {
	return c.AnnualRnMM(in, 20.0, varname)
}

// PrcpTot returns the total precipitation on days at or above
// wetDayThreshold within each reporting period (default yearly). Days below
// the threshold are treated as missing, not zero.
//
// wetDayThreshold is taken in input units as-is; unlike the other
// thresholds it does not go through the unit-conversion hook.
func (c *Calculator) PrcpTot(in Input, period string, wetDayThreshold float64, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	wet := daily.Where(func(v float64) bool { return v >= wetDayThreshold })
	return wet.Resample(c.timeDim, orDefault(period, DefaultPrcpTotPeriod), series.ReduceSum)
}

// SDII returns the simple precipitation intensity index per reporting
// period (default monthly): total precipitation on wet days divided by the
// number of wet days. A period with no wet days yields 0.
func (c *Calculator) SDII(in Input, period, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	return daily.ResampleReduce(c.timeDim, orDefault(period, DefaultPeriod),
		wetDayIntensity(c.convert(wetDayMM)))
}

// CDD returns the length of the longest run of consecutive dry days
// (precipitation ≤ 1 mm) within each reporting period (default monthly).
func (c *Calculator) CDD(in Input, period, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	threshold := c.convert(wetDayMM)
	return daily.ResampleReduce(c.timeDim, orDefault(period, DefaultPeriod),
		longestRun(func(v float64) bool { return v <= threshold }))
}

// CWD returns the length of the longest run of consecutive wet days
// (precipitation ≥ 1 mm) within each reporting period (default monthly).
func (c *Calculator) CWD(in Input, period, varname string) (*series.Array, error) {
	daily, err := c.daily(in, varname)
	if err != nil {
		return nil, err
	}
	threshold := c.convert(wetDayMM)
	return daily.ResampleReduce(c.timeDim, orDefault(period, DefaultPeriod),
		longestRun(func(v float64) bool { return v >= threshold }))
}
