package domain

import (
	"fmt"

	"github.com/viterin/vek"
	"github.com/viterin/vek/vek32"
)

// Stats summarises one numeric parameter.
type Stats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Summary computes count, min, max and mean of a numeric parameter.
// Timestamps are not numeric here; use TimeRange.
func (rs *OrbitThicknessRecordSet) Summary(name string) (Stats, error) {
	p, ok := LookupParameter(name)
	if !ok {
		return Stats{}, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	if rs.NRecords() == 0 {
		return Stats{}, ErrNoData
	}

	switch p.Kind {
	case KindFloat64:
		x := *rs.float64Param(name)
		return Stats{
			Count: len(x),
			Min:   vek.Min(x),
			Max:   vek.Max(x),
			Mean:  vek.Mean(x),
		}, nil
	case KindFloat32:
		x := *rs.float32Param(name)
		return Stats{
			Count: len(x),
			Min:   float64(vek32.Min(x)),
			Max:   float64(vek32.Max(x)),
			Mean:  float64(vek32.Mean(x)),
		}, nil
	default:
		return Stats{}, fmt.Errorf("summary of %s: not a numeric parameter", name)
	}
}
