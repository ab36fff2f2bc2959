// Command genmock generates deterministic synthetic precipitation fixtures:
// observation bundles as consumed from Kafka, the matching index reports
// produced by the real transformer, and per-station CSVs for the CLI. A
// fixed seed and a fixed clock make the output reproducible.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -stations 3 -year 2023 \
//	  -bundles-out data/mock/bundles.json \
//	  -reports-out data/mock/reports.json \
//	  -csv-dir data/mock
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tempestat/climdex/internal/adapter/ncdf"
	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/domain"
	"github.com/tempestat/climdex/internal/observability"
	"github.com/tempestat/climdex/internal/pipeline"
)

const seed = 20230601

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stations := flag.Int("stations", 3, "number of synthetic stations")
	year := flag.Int("year", 2023, "calendar year to generate")
	bundlesOut := flag.String("bundles-out", "", "output path for observation bundle JSON fixture")
	reportsOut := flag.String("reports-out", "", "output path for expected index report JSON fixture")
	csvDir := flag.String("csv-dir", "", "optional directory for per-station CSV files")
	flag.Parse()

	if *bundlesOut == "" || *reportsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -bundles-out, -reports-out")
	}

	// Fixed clock for reproducible ComputedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(*year+1, time.January, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(seed))

	bundles := make([]domain.ObservationBundle, 0, *stations)
	for i := 0; i < *stations; i++ {
		bundles = append(bundles, makeBundle(rng, fmt.Sprintf("SYN%05d", i+1), *year))
	}

	transformer := pipeline.NewIndexTransformer(
		climdex.IndexNames(), climdex.DefaultPeriod, 1.0,
		slog.New(slog.NewTextHandler(os.Stderr, nil)),
		observability.NewMetricsForTesting(),
	)

	reports := make([]domain.IndexReport, 0, len(bundles))
	for _, b := range bundles {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal bundle %s: %w", b.StationID, err)
		}
		report, err := transformer.Transform(context.Background(), domain.RawSeries{
			Key:   []byte(b.StationID),
			Value: data,
		})
		if err != nil {
			return fmt.Errorf("transform bundle %s: %w", b.StationID, err)
		}
		reports = append(reports, report)
	}

	if err := writeJSON(*bundlesOut, bundles); err != nil {
		return fmt.Errorf("writing bundle fixture: %w", err)
	}
	log.Printf("wrote %d bundles: %s", len(bundles), *bundlesOut)

	if err := writeJSON(*reportsOut, reports); err != nil {
		return fmt.Errorf("writing report fixture: %w", err)
	}
	log.Printf("wrote %d reports: %s", len(reports), *reportsOut)

	if *csvDir != "" {
		if err := writeCSVs(*csvDir, bundles); err != nil {
			return err
		}
	}

	printStats(bundles)
	return nil
}

// makeBundle generates one station year of daily precipitation: roughly a
// third of days wet with exponentially distributed amounts, and about 2% of
// observations missing.
func makeBundle(rng *rand.Rand, stationID string, year int) domain.ObservationBundle {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var obs []domain.Observation
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		o := domain.Observation{Time: day}
		switch {
		case rng.Float64() < 0.02:
			// missing observation, Value stays nil
		case rng.Float64() < 0.35:
			amount := rng.ExpFloat64() * 6.0
			o.Value = &amount
		default:
			zero := 0.0
			o.Value = &zero
		}
		obs = append(obs, o)
	}

	return domain.ObservationBundle{
		StationID:    stationID,
		Variable:     climdex.DefaultVarName,
		Unit:         "mm",
		Observations: obs,
	}
}

func writeCSVs(dir string, bundles []domain.ObservationBundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, b := range bundles {
		arr, err := b.ToArray()
		if err != nil {
			return fmt.Errorf("bundle %s: %w", b.StationID, err)
		}
		path := filepath.Join(dir, b.StationID+".csv")
		if err := ncdf.WriteCSV(path, arr, climdex.DefaultTimeDim); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("wrote CSV: %s", path)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(bundles []domain.ObservationBundle) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, b := range bundles {
		var wet, dry, missing int
		var total, maxDay float64
		for _, o := range b.Observations {
			switch {
			case o.Value == nil:
				missing++
			case *o.Value >= 1.0:
				wet++
				total += *o.Value
				if *o.Value > maxDay {
					maxDay = *o.Value
				}
			default:
				dry++
			}
		}
		fmt.Printf("%s: days=%d wet=%d dry=%d missing=%d prcptot=%.1f max=%.1f\n",
			b.StationID, len(b.Observations), wet, dry, missing, total, maxDay)
	}
}
