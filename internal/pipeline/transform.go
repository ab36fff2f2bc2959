package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/domain"
	"github.com/tempestat/climdex/internal/observability"
)

// IndexTransformer turns an observation bundle into an index report by
// running the configured precipitation indices over the bundle's series.
type IndexTransformer struct {
	indices         []string
	period          string
	wetDayThreshold float64
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewIndexTransformer builds a transformer computing the named indices with
// the given reporting period and wet-day threshold.
func NewIndexTransformer(indices []string, period string, wetDayThreshold float64, logger *slog.Logger, metrics *observability.Metrics) *IndexTransformer {
	return &IndexTransformer{
		indices:         indices,
		period:          period,
		wetDayThreshold: wetDayThreshold,
		logger:          logger,
		metrics:         metrics,
	}
}

// Transform parses the raw message, computes every configured index, and
// assembles the report. A failure in any single index fails the whole bundle
// so the report never carries partial results.
func (t *IndexTransformer) Transform(_ context.Context, raw domain.RawSeries) (domain.IndexReport, error) {
	bundle, err := domain.ParseRawSeries(raw)
	if err != nil {
		return domain.IndexReport{}, err
	}

	arr, err := bundle.ToArray()
	if err != nil {
		return domain.IndexReport{}, fmt.Errorf("bundle %s: %w", bundle.StationID, err)
	}

	convert, err := domain.ConvertFromMM(bundle.Unit)
	if err != nil {
		return domain.IndexReport{}, fmt.Errorf("bundle %s: %w", bundle.StationID, err)
	}

	calc := climdex.New(climdex.WithConvertUnits(convert))
	in := climdex.FromArray(arr)

	report := domain.NewIndexReport(bundle, t.period)
	for _, name := range t.indices {
		start := time.Now()
		result, err := calc.Compute(in, name, t.period, t.wetDayThreshold, bundle.Variable)
		if err != nil {
			return domain.IndexReport{}, fmt.Errorf("bundle %s: compute %s: %w", bundle.StationID, name, err)
		}
		t.metrics.IndicesComputed.WithLabelValues(name).Inc()
		t.metrics.ComputeDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err := report.AddIndex(name, result); err != nil {
			return domain.IndexReport{}, fmt.Errorf("bundle %s: %w", bundle.StationID, err)
		}
	}

	t.logger.Debug("bundle transformed",
		"station_id", bundle.StationID,
		"observations", len(bundle.Observations),
		"indices", len(report.Indices),
	)
	return report, nil
}
