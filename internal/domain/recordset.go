package domain

import (
	"fmt"
	"time"
)

// NotAvailable is the identifier used when a source does not provide one.
const NotAvailable = "n/a"

// OrbitThicknessRecordSet is the normalised content of one input file. All
// parameter arrays have the same length; see NRecords. A record set is
// populated by a parser and must be treated as read-only afterwards.
type OrbitThicknessRecordSet struct {
	SourceID       string `json:"source_id"`
	SourceLongName string `json:"source_longname"`
	TrackID        string `json:"track_id"`
	OrbitID        string `json:"orbit_id"`
	Filename       string `json:"filename"`

	Timestamp       []time.Time `json:"timestamp"`
	Longitude       []float64   `json:"longitude"`
	Latitude        []float64   `json:"latitude"`
	IceDensity      []float32   `json:"ice_density"`
	SnowDensity     []float32   `json:"snow_density"`
	SnowDepth       []float32   `json:"snow_depth"`
	SeaIceThickness []float32   `json:"sea_ice_thickness"`
}

// NewRecordSet allocates every parameter array for n records. Float32
// parameters start at their schema default so that a parser only needs to
// overwrite what its source actually reports.
func NewRecordSet(src Source, filename string, n int) *OrbitThicknessRecordSet {
	rs := &OrbitThicknessRecordSet{
		SourceID:       src.ID,
		SourceLongName: src.LongName,
		TrackID:        NotAvailable,
		OrbitID:        NotAvailable,
		Filename:       filename,
	}
	for _, p := range Parameters {
		switch p.Kind {
		case KindTime:
			rs.Timestamp = make([]time.Time, n)
		case KindFloat64:
			*rs.float64Param(p.Name) = make([]float64, n)
		case KindFloat32:
			arr := make([]float32, n)
			for i := range arr {
				arr[i] = p.Default
			}
			*rs.float32Param(p.Name) = arr
		}
	}
	return rs
}

// NRecords is the number of records, derived from the longitude array.
func (rs *OrbitThicknessRecordSet) NRecords() int {
	return len(rs.Longitude)
}

// HasTimestamp reports whether the record set carries a timestamp per record.
func (rs *OrbitThicknessRecordSet) HasTimestamp() bool {
	return rs.Timestamp != nil && len(rs.Timestamp) == rs.NRecords()
}

// ParameterNames lists the schema parameters in canonical order.
func (rs *OrbitThicknessRecordSet) ParameterNames() []string {
	names := make([]string, len(Parameters))
	for i, p := range Parameters {
		names[i] = p.Name
	}
	return names
}

// HasParameter reports whether name is part of the record-set schema.
func (rs *OrbitThicknessRecordSet) HasParameter(name string) bool {
	_, ok := LookupParameter(name)
	return ok
}

// Validate checks that every parameter array has NRecords entries.
func (rs *OrbitThicknessRecordSet) Validate() error {
	n := rs.NRecords()
	lengths := map[string]int{
		ParamTimestamp:       len(rs.Timestamp),
		ParamLatitude:        len(rs.Latitude),
		ParamIceDensity:      len(rs.IceDensity),
		ParamSnowDensity:     len(rs.SnowDensity),
		ParamSnowDepth:       len(rs.SnowDepth),
		ParamSeaIceThickness: len(rs.SeaIceThickness),
	}
	for _, p := range Parameters {
		got, ok := lengths[p.Name]
		if !ok {
			continue
		}
		if got != n {
			return fmt.Errorf("parameter %s has %d values, want %d", p.Name, got, n)
		}
	}
	return nil
}

// Values returns a float64 view of a parameter, suitable for plotting.
// Timestamps are returned as Unix seconds including the fractional part.
func (rs *OrbitThicknessRecordSet) Values(name string) ([]float64, error) {
	p, ok := LookupParameter(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	switch p.Kind {
	case KindTime:
		out := make([]float64, len(rs.Timestamp))
		for i, ts := range rs.Timestamp {
			out[i] = float64(ts.UnixNano()) / float64(time.Second)
		}
		return out, nil
	case KindFloat64:
		src := *rs.float64Param(name)
		out := make([]float64, len(src))
		copy(out, src)
		return out, nil
	default:
		src := *rs.float32Param(name)
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out, nil
	}
}

// TimeRange returns the earliest and latest timestamp. Records are kept in
// file order, so the range is computed rather than read from the ends.
func (rs *OrbitThicknessRecordSet) TimeRange() (start, end time.Time, ok bool) {
	if !rs.HasTimestamp() || rs.NRecords() == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = rs.Timestamp[0], rs.Timestamp[0]
	for _, ts := range rs.Timestamp[1:] {
		if ts.Before(start) {
			start = ts
		}
		if ts.After(end) {
			end = ts
		}
	}
	return start, end, true
}

// RecordSetSummary is a compact description of a record set for listings.
type RecordSetSummary struct {
	SourceID string    `json:"source_id"`
	OrbitID  string    `json:"orbit_id"`
	TrackID  string    `json:"track_id"`
	Filename string    `json:"filename"`
	NRecords int       `json:"n_records"`
	Start    time.Time `json:"start,omitzero"`
	End      time.Time `json:"end,omitzero"`
}

// Summarize returns the listing view of the record set.
func (rs *OrbitThicknessRecordSet) Summarize() RecordSetSummary {
	s := RecordSetSummary{
		SourceID: rs.SourceID,
		OrbitID:  rs.OrbitID,
		TrackID:  rs.TrackID,
		Filename: rs.Filename,
		NRecords: rs.NRecords(),
	}
	if start, end, ok := rs.TimeRange(); ok {
		s.Start, s.End = start, end
	}
	return s
}

func (rs *OrbitThicknessRecordSet) float64Param(name string) *[]float64 {
	switch name {
	case ParamLongitude:
		return &rs.Longitude
	case ParamLatitude:
		return &rs.Latitude
	}
	panic("domain: not a float64 parameter: " + name)
}

func (rs *OrbitThicknessRecordSet) float32Param(name string) *[]float32 {
	switch name {
	case ParamIceDensity:
		return &rs.IceDensity
	case ParamSnowDensity:
		return &rs.SnowDensity
	case ParamSnowDepth:
		return &rs.SnowDepth
	case ParamSeaIceThickness:
		return &rs.SeaIceThickness
	}
	panic("domain: not a float32 parameter: " + name)
}
