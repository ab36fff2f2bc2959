// Command climdex computes precipitation indices from a NetCDF or CSV file
// and writes the report as JSON.
//
// Usage:
//
//	go run ./cmd/climdex \
//	  -in station.nc -var PRCP -indices rx1day,rx5day,cdd \
//	  -period 1M -out report.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tempestat/climdex/internal/adapter/ncdf"
	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "input file (.nc or .csv)")
	varName := flag.String("var", climdex.DefaultVarName, "variable name")
	timeDim := flag.String("time-dim", climdex.DefaultTimeDim, "time dimension name")
	indicesFlag := flag.String("indices", strings.Join(climdex.IndexNames(), ","), "comma-separated indices to compute")
	period := flag.String("period", climdex.DefaultPeriod, "reporting period: 1M or 1y")
	wetDayThreshold := flag.Float64("wet-day-threshold", 0, "prcptot wet-day threshold in input units (0 sums every day)")
	nmm := flag.Float64("nmm", 0, "extra annual count threshold in millimeters (0 = off)")
	unit := flag.String("unit", "mm", "input unit: mm, cm, in, or tenths-mm")
	out := flag.String("out", "", "output JSON path (default stdout)")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}
	if *period != "1M" && *period != "1y" {
		return fmt.Errorf("-period must be 1M or 1y, got %q", *period)
	}

	indices := splitList(*indicesFlag)
	for _, name := range indices {
		if !climdex.KnownIndex(name) {
			return fmt.Errorf("unknown index %q (supported: %s)", name, strings.Join(climdex.IndexNames(), ", "))
		}
	}

	input, err := loadInput(*in, *varName, *timeDim)
	if err != nil {
		return err
	}

	convert, err := domain.ConvertFromMM(*unit)
	if err != nil {
		return err
	}

	calc := climdex.New(
		climdex.WithTimeDim(*timeDim),
		climdex.WithConvertUnits(convert),
	)

	report := domain.IndexReport{
		StationID:  strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in)),
		Variable:   *varName,
		Unit:       *unit,
		Period:     *period,
		Indices:    make(map[string][]domain.IndexValue),
		ComputedAt: time.Now().UTC(),
	}

	for _, name := range indices {
		arr, err := calc.Compute(input, name, *period, *wetDayThreshold, *varName)
		if err != nil {
			return fmt.Errorf("compute %s: %w", name, err)
		}
		if err := report.AddIndex(name, arr); err != nil {
			return err
		}
	}

	if *nmm > 0 {
		arr, err := calc.AnnualRnMM(input, *nmm, *varName)
		if err != nil {
			return fmt.Errorf("compute r%gmm: %w", *nmm, err)
		}
		if err := report.AddIndex(fmt.Sprintf("r%gmm", *nmm), arr); err != nil {
			return err
		}
	}

	return writeReport(*out, report)
}

func loadInput(path, varName, timeDim string) (climdex.Input, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		arr, err := ncdf.LoadCSV(path, varName, timeDim)
		if err != nil {
			return climdex.Input{}, err
		}
		return climdex.FromArray(arr), nil
	}
	ds, err := ncdf.LoadDataset(path, timeDim)
	if err != nil {
		return climdex.Input{}, err
	}
	return climdex.FromDataset(ds), nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func writeReport(path string, report domain.IndexReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
