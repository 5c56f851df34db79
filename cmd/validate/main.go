// Command validate parses one orbit file and runs integrity checks on the
// resulting record set: record layout, parameter completeness, fixed-value
// fill, and time ordering. It prints per-parameter summaries and can render
// a quickview PNG of one parameter.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -source awi \
//	  -file data/mock/CS2_021093_20140401T003839_20140401T004248_B001_AWIPROC01.dat \
//	  -def config/awi_field_definition.json \
//	  -plot sea_ice_thickness -plot-out sit.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/couchcryptid/seaice-etl/internal/adapter/awi"
	"github.com/couchcryptid/seaice-etl/internal/adapter/source"
	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/couchcryptid/seaice-etl/internal/fielddef"
	"github.com/couchcryptid/seaice-etl/internal/quickview"
)

// boundsTolerance absorbs float32 rounding of the header bounds.
const boundsTolerance = 1e-3

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
	src := flag.String("source", "awi", "source id: awi or nasa_jpl")
	file := flag.String("file", "", "path to the orbit file")
	def := flag.String("def", "config/awi_field_definition.json", "AWI field definition")
	plotParam := flag.String("plot", "", "parameter to render as a quickview")
	plotOut := flag.String("plot-out", "quickview.png", "quickview output path")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(strings.ToLower(*src), *file, *def, *plotParam, *plotOut))
}

func run(src, file, defPath, plotParam, plotOut string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	registry := source.NewRegistry(fielddef.FileLoader{}, defPath, logger)

	fmt.Println("=== Orbit File Integrity Validation ===")
	fmt.Println()

	req := domain.IngestRequest{Source: src, Path: file}
	parser, err := registry.ParserFor(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	rs, err := parser.ParseFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s error: %v\n", domain.ErrorKind(err), err)
		return 1
	}

	phases := []*phase{
		validateCompleteness(rs),
		validateFixedFill(rs),
		validateTimeOrdering(rs),
	}
	if src == domain.SourceAWI.ID {
		phases = append([]*phase{validateLayout(rs, file)}, phases...)
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Source: %s (%s), orbit %s, %d records\n", rs.SourceLongName, rs.SourceID, rs.OrbitID, rs.NRecords())
	printSummaries(rs)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if plotParam != "" {
		if err := renderQuickview(rs, plotParam, plotOut); err != nil {
			fmt.Fprintf(os.Stderr, "quickview: %v\n", err)
			allPassed = false
		} else {
			fmt.Printf("\nQuickview written to %s\n", plotOut)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

// validateLayout re-derives the record count from the header and file size,
// and checks positions against the header bounds.
func validateLayout(rs *domain.OrbitThicknessRecordSet, file string) *phase {
	p := &phase{name: "Phase 1: Binary layout"}

	h, err := awi.ReadHeader(file)
	if err != nil {
		p.errorf("read header: %v", err)
		return p
	}
	info, err := os.Stat(file)
	if err != nil {
		p.errorf("stat: %v", err)
		return p
	}
	layout, err := awi.NewLayout(h, info.Size())
	if err != nil {
		p.errorf("layout: %v", err)
		return p
	}
	if layout.Records != rs.NRecords() {
		p.errorf("header implies %d records, decoded %d", layout.Records, rs.NRecords())
	}
	if layout.Trailing != 0 {
		p.errorf("%d trailing bytes after the last whole record", layout.Trailing)
	}

	lonMin, lonMax := bounds(h.LonBounds)
	latMin, latMax := bounds(h.LatBounds)
	outside := 0
	for i := 0; i < rs.NRecords(); i++ {
		if rs.Longitude[i] < lonMin-boundsTolerance || rs.Longitude[i] > lonMax+boundsTolerance ||
			rs.Latitude[i] < latMin-boundsTolerance || rs.Latitude[i] > latMax+boundsTolerance {
			outside++
		}
	}
	if outside > 0 {
		p.errorf("%d records outside header bounds lon [%g, %g] lat [%g, %g]", outside, lonMin, lonMax, latMin, latMax)
	}
	return p
}

func validateCompleteness(rs *domain.OrbitThicknessRecordSet) *phase {
	p := &phase{name: "Phase 2: Parameter completeness"}
	if err := rs.Validate(); err != nil {
		p.errorf("%v", err)
	}
	if !rs.HasTimestamp() {
		p.errorf("record set has no timestamps")
	}
	for _, name := range rs.ParameterNames() {
		values, err := rs.Values(name)
		if err != nil {
			p.errorf("%s: %v", name, err)
			continue
		}
		nan := 0
		for _, v := range values {
			if math.IsNaN(v) {
				nan++
			}
		}
		if nan > 0 {
			p.errorf("%s: %d NaN values", name, nan)
		}
	}
	return p
}

func validateFixedFill(rs *domain.OrbitThicknessRecordSet) *phase {
	p := &phase{name: "Phase 3: Fixed parameter fill"}
	src, ok := domain.LookupSource(rs.SourceID)
	if !ok {
		p.errorf("unknown source %q", rs.SourceID)
		return p
	}
	if !src.IceDensityFixed {
		return p
	}
	for i, v := range rs.IceDensity {
		if v != domain.DefaultIceDensity {
			p.errorf("record %d: ice density %g, want %g", i, v, domain.DefaultIceDensity)
		}
	}
	return p
}

func validateTimeOrdering(rs *domain.OrbitThicknessRecordSet) *phase {
	p := &phase{name: "Phase 4: Time ordering"}
	for i := 1; i < len(rs.Timestamp); i++ {
		if rs.Timestamp[i].Before(rs.Timestamp[i-1]) {
			p.errorf("record %d (%s) precedes record %d (%s)",
				i, rs.Timestamp[i].Format("2006-01-02T15:04:05.000"),
				i-1, rs.Timestamp[i-1].Format("2006-01-02T15:04:05.000"))
		}
	}
	return p
}

// ── Output ──

func printSummaries(rs *domain.OrbitThicknessRecordSet) {
	if start, end, ok := rs.TimeRange(); ok {
		fmt.Printf("Time range: %s .. %s\n", start.Format("2006-01-02T15:04:05.000"), end.Format("2006-01-02T15:04:05.000"))
	}
	fmt.Println()
	fmt.Printf("  %-20s %8s %12s %12s %12s\n", "parameter", "count", "min", "max", "mean")
	for _, name := range rs.ParameterNames() {
		if name == domain.ParamTimestamp {
			continue
		}
		s, err := rs.Summary(name)
		if err != nil {
			fmt.Printf("  %-20s %v\n", name, err)
			continue
		}
		fmt.Printf("  %-20s %8d %12.4f %12.4f %12.4f\n", name, s.Count, s.Min, s.Max, s.Mean)
	}
}

func renderQuickview(rs *domain.OrbitThicknessRecordSet, param, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := quickview.Render(f, rs, param, quickview.DefaultOptions); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	return f.Close()
}

func bounds(b [2]float32) (lo, hi float64) {
	lo, hi = float64(b[0]), float64(b[1])
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
