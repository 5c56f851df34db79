package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Gaps in the provider data arrive as NaN, which encoding/json rejects. On the
// wire every non-finite value is written as null and read back as NaN.

type recordSetFields OrbitThicknessRecordSet

type recordSetWire struct {
	recordSetFields
	Longitude       nullableFloat64s `json:"longitude"`
	Latitude        nullableFloat64s `json:"latitude"`
	IceDensity      nullableFloat32s `json:"ice_density"`
	SnowDensity     nullableFloat32s `json:"snow_density"`
	SnowDepth       nullableFloat32s `json:"snow_depth"`
	SeaIceThickness nullableFloat32s `json:"sea_ice_thickness"`
}

func (rs OrbitThicknessRecordSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordSetWire{
		recordSetFields: recordSetFields(rs),
		Longitude:       rs.Longitude,
		Latitude:        rs.Latitude,
		IceDensity:      rs.IceDensity,
		SnowDensity:     rs.SnowDensity,
		SnowDepth:       rs.SnowDepth,
		SeaIceThickness: rs.SeaIceThickness,
	})
}

func (rs *OrbitThicknessRecordSet) UnmarshalJSON(data []byte) error {
	var w recordSetWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*rs = OrbitThicknessRecordSet(w.recordSetFields)
	rs.Longitude = w.Longitude
	rs.Latitude = w.Latitude
	rs.IceDensity = w.IceDensity
	rs.SnowDensity = w.SnowDensity
	rs.SnowDepth = w.SnowDepth
	rs.SeaIceThickness = w.SeaIceThickness
	return nil
}

type nullableFloat64s []float64

func (s nullableFloat64s) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	b := make([]byte, 0, 2+len(s)*20)
	b = append(b, '[')
	for i, v := range s {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendFloat(b, v, 64)
	}
	return append(b, ']'), nil
}

func (s *nullableFloat64s) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = math.NaN()
		if v != nil {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

type nullableFloat32s []float32

func (s nullableFloat32s) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	b := make([]byte, 0, 2+len(s)*12)
	b = append(b, '[')
	for i, v := range s {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendFloat(b, float64(v), 32)
	}
	return append(b, ']'), nil
}

func (s *nullableFloat32s) UnmarshalJSON(data []byte) error {
	var raw []*float32
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make([]float32, len(raw))
	for i, v := range raw {
		out[i] = float32(math.NaN())
		if v != nil {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

func appendFloat(b []byte, v float64, bitSize int) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(b, "null"...)
	}
	return strconv.AppendFloat(b, v, 'g', -1, bitSize)
}
