package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecordSet(t *testing.T) *OrbitThicknessRecordSet {
	t.Helper()
	rs := NewRecordSet(SourceAWI, "CS2_021093_test.dat", 3)
	base := time.Date(2014, time.April, 1, 0, 38, 39, 0, time.UTC)
	for i := range 3 {
		rs.Timestamp[i] = base.Add(time.Duration(i) * time.Second)
		rs.Longitude[i] = -150 + float64(i)
		rs.Latitude[i] = 80 + float64(i)/10
		rs.SeaIceThickness[i] = float32(i + 1)
	}
	return rs
}

func TestNewRecordSet_AllocatesEveryParameter(t *testing.T) {
	rs := NewRecordSet(SourceNASAJPL, "track.txt", 4)

	assert.Equal(t, 4, rs.NRecords())
	assert.Len(t, rs.Timestamp, 4)
	assert.Len(t, rs.Latitude, 4)
	assert.Len(t, rs.IceDensity, 4)
	assert.Len(t, rs.SnowDensity, 4)
	assert.Len(t, rs.SnowDepth, 4)
	assert.Len(t, rs.SeaIceThickness, 4)
	assert.Equal(t, "nasa_jpl", rs.SourceID)
	assert.Equal(t, "NASA-JPL", rs.SourceLongName)
	assert.Equal(t, NotAvailable, rs.OrbitID)
	assert.Equal(t, NotAvailable, rs.TrackID)
	require.NoError(t, rs.Validate())
}

func TestNewRecordSet_FillsDefaults(t *testing.T) {
	rs := NewRecordSet(SourceAWI, "x.dat", 2)

	assert.Equal(t, []float32{DefaultIceDensity, DefaultIceDensity}, rs.IceDensity)
	assert.Equal(t, []float32{FillValue, FillValue}, rs.SnowDepth)
	assert.Equal(t, []float32{FillValue, FillValue}, rs.SnowDensity)
	assert.Equal(t, []float32{FillValue, FillValue}, rs.SeaIceThickness)
}

func TestNewRecordSet_Empty(t *testing.T) {
	rs := NewRecordSet(SourceAWI, "x.dat", 0)

	assert.Equal(t, 0, rs.NRecords())
	require.NoError(t, rs.Validate())
	_, _, ok := rs.TimeRange()
	assert.False(t, ok)

	_, err := rs.Summary(ParamSeaIceThickness)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestValidate_LengthMismatch(t *testing.T) {
	rs := sampleRecordSet(t)
	rs.SnowDepth = rs.SnowDepth[:2]

	err := rs.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snow_depth")
}

func TestHasTimestamp(t *testing.T) {
	rs := sampleRecordSet(t)
	assert.True(t, rs.HasTimestamp())

	rs.Timestamp = nil
	assert.False(t, rs.HasTimestamp())
}

func TestParameterNames_CanonicalOrder(t *testing.T) {
	rs := sampleRecordSet(t)
	assert.Equal(t, []string{
		"timestamp", "longitude", "latitude", "ice_density",
		"snow_density", "snow_depth", "sea_ice_thickness",
	}, rs.ParameterNames())
	assert.True(t, rs.HasParameter("snow_depth"))
	assert.False(t, rs.HasParameter("freeboard"))
}

func TestValues(t *testing.T) {
	rs := sampleRecordSet(t)

	sit, err := rs.Values(ParamSeaIceThickness)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, sit)

	lon, err := rs.Values(ParamLongitude)
	require.NoError(t, err)
	assert.Equal(t, []float64{-150, -149, -148}, lon)

	// The view is a copy.
	lon[0] = 0
	assert.Equal(t, -150.0, rs.Longitude[0])

	ts, err := rs.Values(ParamTimestamp)
	require.NoError(t, err)
	assert.InDelta(t, float64(rs.Timestamp[0].Unix()), ts[0], 1e-6)

	_, err = rs.Values("freeboard")
	assert.True(t, errors.Is(err, ErrUnknownParameter))
}

func TestSummary(t *testing.T) {
	rs := sampleRecordSet(t)

	s, err := rs.Summary(ParamSeaIceThickness)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 1.0, s.Min, 1e-6)
	assert.InDelta(t, 3.0, s.Max, 1e-6)
	assert.InDelta(t, 2.0, s.Mean, 1e-6)

	lat, err := rs.Summary(ParamLatitude)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, lat.Min, 1e-9)
	assert.InDelta(t, 80.2, lat.Max, 1e-9)

	_, err = rs.Summary(ParamTimestamp)
	assert.Error(t, err)

	_, err = rs.Summary("freeboard")
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestTimeRange_UnorderedRecords(t *testing.T) {
	rs := sampleRecordSet(t)
	rs.Timestamp[0], rs.Timestamp[2] = rs.Timestamp[2], rs.Timestamp[0]

	start, end, ok := rs.TimeRange()
	require.True(t, ok)
	assert.Equal(t, rs.Timestamp[2], start)
	assert.Equal(t, rs.Timestamp[0], end)
}

func TestSummarize(t *testing.T) {
	rs := sampleRecordSet(t)
	rs.OrbitID = "21093"

	s := rs.Summarize()
	assert.Equal(t, "awi", s.SourceID)
	assert.Equal(t, "21093", s.OrbitID)
	assert.Equal(t, 3, s.NRecords)
	assert.Equal(t, rs.Timestamp[0], s.Start)
	assert.Equal(t, rs.Timestamp[2], s.End)
}
