package awi

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/couchcryptid/seaice-etl/internal/fielddef"
	"github.com/couchcryptid/seaice-etl/internal/julian"
	"github.com/edsrzf/mmap-go"
)

// Field names used by the AWI definition for the record-set parameters.
const (
	FieldTime            = "time"
	FieldLongitude       = "lon"
	FieldLatitude        = "lat"
	FieldIceDensity      = "rho_i"
	FieldSnowDensity     = "rho_s"
	FieldSnowDepth       = "sd"
	FieldSeaIceThickness = "sit"
)

var physicalFields = []struct {
	field string
	param func(rs *domain.OrbitThicknessRecordSet) []float32
}{
	{FieldIceDensity, func(rs *domain.OrbitThicknessRecordSet) []float32 { return rs.IceDensity }},
	{FieldSnowDensity, func(rs *domain.OrbitThicknessRecordSet) []float32 { return rs.SnowDensity }},
	{FieldSnowDepth, func(rs *domain.OrbitThicknessRecordSet) []float32 { return rs.SnowDepth }},
	{FieldSeaIceThickness, func(rs *domain.OrbitThicknessRecordSet) []float32 { return rs.SeaIceThickness }},
}

// Parser decodes AWI binary files against one field definition.
type Parser struct {
	def    fielddef.Definition
	logger *slog.Logger
}

// NewParser creates a parser for files described by def.
func NewParser(def fielddef.Definition, logger *slog.Logger) *Parser {
	return &Parser{def: def, logger: logger}
}

// ParseFile decodes the file at path into a record set.
func (p *Parser) ParseFile(path string) (*domain.OrbitThicknessRecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &domain.ReadError{Path: path, Err: err}
	}
	size := info.Size()
	if size < HeaderSize {
		return nil, &domain.ReadError{
			Path: path,
			Err:  fmt.Errorf("file has %d bytes, header needs %d", size, HeaderSize),
		}
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &domain.ReadError{Path: path, Err: fmt.Errorf("map file: %w", err)}
	}
	defer func() {
		if err := data.Unmap(); err != nil {
			p.logger.Warn("unmap failed", "path", path, "error", err)
		}
	}()

	header, err := ParseHeader(data)
	if err != nil {
		return nil, &domain.ReadError{Path: path, Err: err}
	}
	layout, err := NewLayout(header, size)
	if err != nil {
		return nil, &domain.ConfigurationError{Path: path, Err: err}
	}
	columns, err := p.resolveColumns(layout.Slots)
	if err != nil {
		return nil, &domain.ConfigurationError{Path: path, Err: err}
	}
	for _, required := range []string{FieldTime, FieldLongitude, FieldLatitude} {
		if _, ok := columns[required]; !ok {
			return nil, &domain.ConfigurationError{
				Path: path,
				Err:  fmt.Errorf("field %q is not active in this file", required),
			}
		}
	}
	if layout.Trailing > 0 {
		p.logger.Warn("dropping partial trailing record",
			"path", path,
			"trailing_bytes", layout.Trailing,
			"stride", layout.Stride,
		)
	}

	matrix := decodeMatrix(data[HeaderSize:], layout)
	rs := assemble(matrix, columns, path)

	p.logger.Debug("decoded awi file",
		"path", path,
		"orbit_id", rs.OrbitID,
		"fields", layout.Fields(),
		"records", layout.Records,
	)
	return rs, nil
}

// resolveColumns maps each active field name to its matrix column.
func (p *Parser) resolveColumns(slots []int) (map[string]int, error) {
	columns := make(map[string]int, len(slots))
	for col, slot := range slots {
		name, ok := p.def.Name(slot)
		if !ok {
			return nil, fmt.Errorf("flag position %d is beyond the %d fields of %s", slot, p.def.Len(), p.def.Path)
		}
		columns[name] = col
	}
	return columns, nil
}

func assemble(m Matrix, columns map[string]int, path string) *domain.OrbitThicknessRecordSet {
	rs := domain.NewRecordSet(domain.SourceAWI, path, m.Rows)
	rs.OrbitID = OrbitID(path)

	timeCol := columns[FieldTime]
	lonCol := columns[FieldLongitude]
	latCol := columns[FieldLatitude]
	for r := 0; r < m.Rows; r++ {
		rs.Timestamp[r] = julian.ToTime(m.At(r, timeCol))
		rs.Longitude[r] = m.At(r, lonCol)
		rs.Latitude[r] = m.At(r, latCol)
	}

	for _, pf := range physicalFields {
		col, ok := columns[pf.field]
		if !ok {
			continue
		}
		dst := pf.param(rs)
		for r := range dst {
			dst[r] = float32(m.At(r, col))
		}
	}
	return rs
}

// OrbitID extracts the orbit number from an AWI file name such as
// CS2_021093_20140401T003839_20140401T004237_B001_AWIPROC01.dat. It returns
// domain.NotAvailable when the name does not carry one.
func OrbitID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	tokens := strings.Split(base, "_")
	if len(tokens) < 2 {
		return domain.NotAvailable
	}
	orbit, err := strconv.Atoi(tokens[1])
	if err != nil || orbit < 0 {
		return domain.NotAvailable
	}
	return strconv.Itoa(orbit)
}
