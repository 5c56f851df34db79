// Command genmock writes a synthetic orbit for local runs: an AWI binary
// file, the NASA-JPL text rendition of the same track, the AWI field
// definition, and one ingest request per file.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -orbit 21093 -records 500
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/seaice-etl/internal/adapter/awi"
	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/couchcryptid/seaice-etl/internal/fielddef"
	"github.com/couchcryptid/seaice-etl/internal/julian"
)

// Field names in definition order; the position is the header flag slot.
var fieldNames = []string{
	"time", "lon", "lat", "elev", "mss", "ssh", "sla", "fb",
	"sd", "rho_s", "rho_i", "sit", "sit_unc", "sic", "type",
}

// activeFields are the fields written to the binary file.
var activeFields = []string{"time", "lon", "lat", "fb", "sd", "rho_s", "rho_i", "sit", "sic"}

// sample is one synthetic measurement.
type sample struct {
	time          time.Time
	lon, lat      float64
	freeboard     float64
	snowDepth     float64
	snowDensity   float64
	iceDensity    float64
	thickness     float64
	concentration float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "data/mock", "output directory")
	orbit := flag.Int("orbit", 21093, "orbit number embedded in the AWI file name")
	records := flag.Int("records", 500, "number of records per file")
	startStr := flag.String("start", "2014-04-01T00:38:39Z", "timestamp of the first record (RFC3339)")
	interval := flag.Duration("interval", 500*time.Millisecond, "time between records")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	start, err := time.Parse(time.RFC3339, *startStr)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *records < 1 {
		return fmt.Errorf("-records must be positive")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	samples := synthesize(*records, start.UTC(), *interval, rand.New(rand.NewPCG(*seed, *seed)))

	defPath := filepath.Join(*outDir, "awi_field_definition.json")
	if err := writeDefinition(defPath); err != nil {
		return fmt.Errorf("writing field definition: %w", err)
	}
	log.Printf("wrote field definition: %s", defPath)

	end := samples[len(samples)-1].time
	awiName := fmt.Sprintf("CS2_%06d_%s_%s_B001_AWIPROC01.dat",
		*orbit, start.Format("20060102T150405"), end.Format("20060102T150405"))
	awiPath := filepath.Join(*outDir, awiName)
	if err := writeAWI(awiPath, samples); err != nil {
		return fmt.Errorf("writing awi file: %w", err)
	}
	log.Printf("wrote awi file: %s (%d records)", awiPath, len(samples))

	jplPath := filepath.Join(*outDir, fmt.Sprintf("nasa_jpl_%06d.txt", *orbit))
	if err := writeJPL(jplPath, *orbit, samples); err != nil {
		return fmt.Errorf("writing nasa-jpl file: %w", err)
	}
	log.Printf("wrote nasa-jpl file: %s", jplPath)

	reqPath := filepath.Join(*outDir, "ingest_requests.jsonl")
	reqs := []domain.IngestRequest{
		{Source: domain.SourceAWI.ID, Path: awiPath, FieldDefinition: defPath},
		{Source: domain.SourceNASAJPL.ID, Path: jplPath},
	}
	if err := writeRequests(reqPath, reqs); err != nil {
		return fmt.Errorf("writing ingest requests: %w", err)
	}
	log.Printf("wrote ingest requests: %s", reqPath)
	return nil
}

// synthesize generates a poleward pass with a noisy thickness profile.
func synthesize(n int, start time.Time, interval time.Duration, rng *rand.Rand) []sample {
	out := make([]sample, n)
	for i := range out {
		f := float64(i) / float64(max(n-1, 1))
		sd := 0.05 + 0.3*f + 0.02*rng.NormFloat64()
		rhoS := 300 + 30*rng.Float64()
		rhoI := 882 + 35*rng.Float64()
		fb := 0.1 + 0.25*(1+math.Sin(6*math.Pi*f))/2 + 0.02*rng.NormFloat64()
		out[i] = sample{
			time:          start.Add(time.Duration(i) * interval),
			lon:           -150 + 60*f,
			lat:           70 + 18*f,
			freeboard:     fb,
			snowDepth:     math.Max(sd, 0),
			snowDensity:   rhoS,
			iceDensity:    rhoI,
			thickness:     thickness(fb, math.Max(sd, 0), rhoS, rhoI),
			concentration: 85 + 15*rng.Float64(),
		}
	}
	return out
}

// thickness converts radar freeboard to sea ice thickness assuming
// hydrostatic equilibrium.
func thickness(fb, sd, rhoS, rhoI float64) float64 {
	rhoW := float64(domain.WaterDensity)
	return (rhoW*fb + rhoS*sd) / (rhoW - rhoI)
}

func writeDefinition(path string) error {
	return writeJSON(path, map[string]any{"output": orderedFields(fieldNames)})
}

// orderedFields marshals as a JSON object that keeps the given key order.
type orderedFields []string

func (o orderedFields) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteString(":{}")
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func writeAWI(path string, samples []sample) error {
	def := fielddef.Definition{Path: "genmock"}
	for i, name := range fieldNames {
		def.Fields = append(def.Fields, fielddef.Field{Position: i, Name: name})
	}
	slots := make([]int, len(activeFields))
	for i, name := range activeFields {
		pos, ok := def.Position(name)
		if !ok {
			return fmt.Errorf("field %q is not defined", name)
		}
		slots[i] = pos
	}

	h, err := awi.HeaderFor(
		[2]float32{float32(samples[0].lon), float32(samples[len(samples)-1].lon)},
		[2]float32{float32(samples[0].lat), float32(samples[len(samples)-1].lat)},
		slots...,
	)
	if err != nil {
		return err
	}

	rows := make([][]float64, len(samples))
	for i, s := range samples {
		values := map[string]float64{
			"time":  julian.FromTime(s.time),
			"lon":   s.lon,
			"lat":   s.lat,
			"fb":    s.freeboard,
			"sd":    s.snowDepth,
			"rho_s": s.snowDensity,
			"rho_i": s.iceDensity,
			"sit":   s.thickness,
			"sic":   s.concentration,
		}
		row := make([]float64, len(activeFields))
		for j, name := range activeFields {
			row[j] = values[name]
		}
		rows[i] = row
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := awi.Encode(f, h, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJPL(path string, orbit int, samples []sample) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# NASA-JPL CryoSat-2 sea ice thickness, synthetic orbit %d\n", orbit)
	b.WriteString("# year day_of_year seconds_of_day lat lon sit snow_depth snow_density\n")
	b.WriteString("# ---------------------------------------------------------------------\n")
	for _, s := range samples {
		t := s.time
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Day numbers count from January 1 as day 0.
		fmt.Fprintf(&b, "%d %d %.3f %.5f %.5f %.4f %.4f %.1f\n",
			t.Year(), t.YearDay()-1, t.Sub(midnight).Seconds(),
			s.lat, s.lon, s.thickness, s.snowDepth, s.snowDensity)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeRequests(path string, reqs []domain.IngestRequest) error {
	var b strings.Builder
	for _, r := range reqs {
		line, err := json.Marshal(r)
		if err != nil {
			return err
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
