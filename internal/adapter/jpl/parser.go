// Package jpl parses NASA-JPL sea-ice thickness text files.
//
// A file starts with HeaderLines free-form lines. Every following line is one
// record of whitespace-separated numbers:
//
//	year  day-of-year  seconds-of-day  lat  lon  thickness  snow-depth  snow-density
//
// Extra trailing numeric columns are ignored. Files ending in .gz are decompressed on
// the fly.
package jpl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/klauspost/compress/gzip"
)

const (
	// HeaderLines is the number of leading lines that carry no records.
	HeaderLines = 3

	// MinColumns is the number of values a record line must provide.
	MinColumns = 8

	maxLineBytes = 1 << 20
)

const (
	colYear = iota
	colDayOfYear
	colSeconds
	colLatitude
	colLongitude
	colThickness
	colSnowDepth
	colSnowDensity
)

var errTooFewColumns = errors.New("too few columns")

// Parser reads NASA-JPL text files.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a NASA-JPL parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile opens path and parses it. Unreadable files fail with
// *domain.ReadError, malformed lines with *domain.ParseError.
func (p *Parser) ParseFile(path string) (*domain.OrbitThicknessRecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, &domain.ReadError{Path: path, Err: fmt.Errorf("open gzip stream: %w", err)}
		}
		defer zr.Close()
		r = zr
	}
	return p.Parse(r, path)
}

// Parse reads a NASA-JPL stream. filename is recorded as provenance and used
// in errors.
func (p *Parser) Parse(r io.Reader, filename string) (*domain.OrbitThicknessRecordSet, error) {
	lines, err := readRecordLines(r)
	if err != nil {
		return nil, &domain.ReadError{Path: filename, Err: err}
	}

	rs := domain.NewRecordSet(domain.SourceNASAJPL, filename, len(lines))
	for i, line := range lines {
		lineNo := HeaderLines + i + 1
		values, err := parseValues(line)
		if err != nil {
			return nil, &domain.ParseError{Path: filename, Line: lineNo, Err: err}
		}
		rs.Timestamp[i] = recordTime(values[colYear], values[colDayOfYear], values[colSeconds])
		rs.Latitude[i] = values[colLatitude]
		rs.Longitude[i] = values[colLongitude]
		rs.SeaIceThickness[i] = float32(values[colThickness])
		rs.SnowDepth[i] = float32(values[colSnowDepth])
		rs.SnowDensity[i] = float32(values[colSnowDensity])
		rs.IceDensity[i] = domain.DefaultIceDensity
	}

	p.logger.Debug("parsed nasa-jpl file", "path", filename, "records", rs.NRecords())
	return rs, nil
}

// readRecordLines returns every line after the header.
func readRecordLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var lines []string
	n := 0
	for sc.Scan() {
		n++
		if n <= HeaderLines {
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseValues(line string) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) < MinColumns {
		return nil, fmt.Errorf("%w: have %d, need %d", errTooFewColumns, len(fields), MinColumns)
	}
	values := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// recordTime is January 1 of year plus doy whole days plus the seconds of
// day, truncated to microseconds. The day count is added as is, so day 1 is
// January 2.
func recordTime(year, doy, seconds float64) time.Time {
	wholeSeconds := int64(seconds)
	micros := int64(1e6 * (seconds - float64(wholeSeconds)))
	return time.Date(int(year), time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, int(doy)).
		Add(time.Duration(wholeSeconds)*time.Second + time.Duration(micros)*time.Microsecond)
}
