// Command validate cross-checks the genmock fixtures: it re-runs the index
// transformer over the bundle fixture and verifies the report fixture
// matches, then checks internal consistency of the reports themselves.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -bundles data/mock/bundles.json \
//	  -reports data/mock/reports.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tempestat/climdex/internal/climdex"
	"github.com/tempestat/climdex/internal/domain"
	"github.com/tempestat/climdex/internal/observability"
	"github.com/tempestat/climdex/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	bundlesPath := flag.String("bundles", "", "path to observation bundle JSON fixture")
	reportsPath := flag.String("reports", "", "path to index report JSON fixture")
	flag.Parse()

	if *bundlesPath == "" || *reportsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*bundlesPath, *reportsPath))
}

func run(bundlesPath, reportsPath string) int {
	fmt.Println("=== Index Fixture Validation ===")
	fmt.Println()

	bundles, err := loadJSON[domain.ObservationBundle](bundlesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load bundles: %v\n", err)
		return 1
	}
	reports, err := loadJSON[domain.IndexReport](reportsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reports: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateBundles(bundles),
		validateReproducibility(bundles, reports),
		validateConsistency(reports),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Printf("\nRecords: %d bundles, %d reports\n", len(bundles), len(reports))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// validateBundles checks every bundle against the domain invariants.
func validateBundles(bundles []domain.ObservationBundle) *phase {
	p := &phase{name: "Phase 1: Bundle Validity"}
	for i, b := range bundles {
		if err := b.Validate(); err != nil {
			p.errorf("bundle %d: %v", i, err)
			continue
		}
		if _, err := domain.ConvertFromMM(b.Unit); err != nil {
			p.errorf("bundle %s: %v", b.StationID, err)
		}
	}
	return p
}

// validateReproducibility re-runs the transformer over each bundle and
// compares every index value against the report fixture.
func validateReproducibility(bundles []domain.ObservationBundle, reports []domain.IndexReport) *phase {
	p := &phase{name: "Phase 2: Report Reproducibility"}

	if len(reports) == 0 {
		p.errorf("no reports to compare")
		return p
	}

	// Pin the clock to the fixture's ComputedAt so regenerated reports
	// carry the same stamp.
	domain.SetClock(clockwork.NewFakeClockAt(reports[0].ComputedAt))
	defer domain.SetClock(nil)

	byStation := make(map[string]domain.IndexReport, len(reports))
	for _, r := range reports {
		byStation[r.StationID] = r
	}

	transformer := pipeline.NewIndexTransformer(
		climdex.IndexNames(), climdex.DefaultPeriod, 1.0,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
	)

	for _, b := range bundles {
		expected, ok := byStation[b.StationID]
		if !ok {
			p.errorf("bundle %s: no report in fixture", b.StationID)
			continue
		}

		data, err := json.Marshal(b)
		if err != nil {
			p.errorf("bundle %s: marshal: %v", b.StationID, err)
			continue
		}
		actual, err := transformer.Transform(context.Background(), domain.RawSeries{
			Key:   []byte(b.StationID),
			Value: data,
		})
		if err != nil {
			p.errorf("bundle %s: transform: %v", b.StationID, err)
			continue
		}

		compareReports(p, expected, actual)
	}
	return p
}

func compareReports(p *phase, expected, actual domain.IndexReport) {
	id := expected.StationID
	for name, want := range expected.Indices {
		got, ok := actual.Indices[name]
		if !ok {
			p.errorf("%s: index %s missing from regenerated report", id, name)
			continue
		}
		if len(want) != len(got) {
			p.errorf("%s/%s: %d buckets in fixture, %d regenerated", id, name, len(want), len(got))
			continue
		}
		for i := range want {
			if !want[i].Bucket.Equal(got[i].Bucket) {
				p.errorf("%s/%s bucket %d: %s vs %s", id, name, i,
					want[i].Bucket.Format(time.RFC3339), got[i].Bucket.Format(time.RFC3339))
			}
			if !ptrFloatEq(want[i].Value, got[i].Value) {
				p.errorf("%s/%s bucket %d: value mismatch", id, name, i)
			}
		}
	}
}

// validateConsistency checks relationships that must hold inside any report.
func validateConsistency(reports []domain.IndexReport) *phase {
	p := &phase{name: "Phase 3: Report Consistency"}

	for _, r := range reports {
		checkRxOrdering(p, r)
		checkCounts(p, r, climdex.IndexR10MM)
		checkCounts(p, r, climdex.IndexR20MM)
		checkCounts(p, r, climdex.IndexCDD)
		checkCounts(p, r, climdex.IndexCWD)
	}
	return p
}

// checkRxOrdering verifies rx1day never exceeds rx5day for the same bucket.
// The 5-day window always contains the 1-day maximum.
func checkRxOrdering(p *phase, r domain.IndexReport) {
	rx1 := r.Indices[climdex.IndexRx1Day]
	rx5 := r.Indices[climdex.IndexRx5Day]
	if len(rx1) != len(rx5) {
		return
	}
	for i := range rx1 {
		if rx1[i].Value == nil || rx5[i].Value == nil {
			continue
		}
		if *rx1[i].Value > *rx5[i].Value+1e-9 {
			p.errorf("%s bucket %s: rx1day %g > rx5day %g", r.StationID,
				rx1[i].Bucket.Format("2006-01"), *rx1[i].Value, *rx5[i].Value)
		}
	}
}

// checkCounts verifies count-valued indices are non-negative integers.
func checkCounts(p *phase, r domain.IndexReport, name string) {
	for _, v := range r.Indices[name] {
		if v.Value == nil {
			continue
		}
		if *v.Value < 0 || *v.Value != math.Trunc(*v.Value) {
			p.errorf("%s/%s bucket %s: %g is not a whole day count", r.StationID, name,
				v.Bucket.Format("2006-01"), *v.Value)
		}
	}
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return math.Abs(*a-*b) < 1e-9
}
