package climdex

import (
	"fmt"

	"github.com/tempestat/climdex/internal/series"
)

// Index names accepted by the service and CLI surfaces.
const (
	IndexRx1Day  = "rx1day"
	IndexRx5Day  = "rx5day"
	IndexR10MM   = "r10mm"
	IndexR20MM   = "r20mm"
	IndexPrcpTot = "prcptot"
	IndexSDII    = "sdii"
	IndexCDD     = "cdd"
	IndexCWD     = "cwd"
)

// IndexNames returns all supported index names in canonical order.
func IndexNames() []string {
	return []string{
		IndexRx1Day,
		IndexRx5Day,
		IndexR10MM,
		IndexR20MM,
		IndexPrcpTot,
		IndexSDII,
		IndexCDD,
		IndexCWD,
	}
}

// Compute dispatches an index operation by name. The annual count indices
// ignore period; wetDayThreshold only applies to prcptot.
func (c *Calculator) Compute(in Input, name, period string, wetDayThreshold float64, varname string) (*series.Array, error) {
	switch name {
	case IndexRx1Day:
		return c.Rx1Day(in, period, varname)
	case IndexRx5Day:
		return c.Rx5Day(in, period, varname)
	case IndexR10MM:
		return c.AnnualR10MM(in, varname)
	case IndexR20MM:
		return c.AnnualR20MM(in, varname)
	case IndexPrcpTot:
		return c.PrcpTot(in, period, wetDayThreshold, varname)
	case IndexSDII:
		return c.SDII(in, period, varname)
	case IndexCDD:
		return c.CDD(in, period, varname)
	case IndexCWD:
		return c.CWD(in, period, varname)
	default:
		return nil, fmt.Errorf("unknown index %q", name)
	}
}

// KnownIndex reports whether name is a supported index.
func KnownIndex(name string) bool {
	for _, n := range IndexNames() {
		if n == name {
			return true
		}
	}
	return false
}
