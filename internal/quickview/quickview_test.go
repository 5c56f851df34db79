package quickview

import (
	"bytes"
	"testing"
	"time"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleRecordSet(n int) *domain.OrbitThicknessRecordSet {
	rs := domain.NewRecordSet(domain.SourceAWI, "CS2_021093_x.dat", n)
	rs.OrbitID = "21093"
	start := time.Date(2014, 4, 1, 0, 38, 39, 0, time.UTC)
	for i := 0; i < n; i++ {
		rs.Timestamp[i] = start.Add(time.Duration(i) * time.Second)
		rs.Longitude[i] = -120 + float64(i)*0.01
		rs.Latitude[i] = 81 + float64(i)*0.01
		rs.SeaIceThickness[i] = 1.5 + float32(i%7)*0.1
	}
	return rs
}

func TestTitle(t *testing.T) {
	rs := sampleRecordSet(1)
	assert.Equal(t, "(parameter:sea_ice_thickness, source:awi, orbit:21093)", Title(rs, "sea_ice_thickness"))
}

func TestRender_PNG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleRecordSet(50), domain.ParamSeaIceThickness, Options{Width: 4 * vg.Inch, Height: 2 * vg.Inch})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRender_WithoutTimestamps(t *testing.T) {
	rs := sampleRecordSet(20)
	rs.Timestamp = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rs, domain.ParamLatitude, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRender_NoData(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleRecordSet(0), domain.ParamSeaIceThickness, DefaultOptions)
	assert.ErrorIs(t, err, domain.ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestRender_UnknownParameter(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleRecordSet(3), "freeboard", DefaultOptions)
	assert.ErrorIs(t, err, domain.ErrUnknownParameter)
	assert.Zero(t, buf.Len())
}
