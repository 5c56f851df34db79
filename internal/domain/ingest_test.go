package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngestRequest(t *testing.T) {
	raw := RawEvent{Value: []byte(`{"source":" AWI ","path":"/data/CS2_021093.dat","field_definition":"defs.json"}`)}

	req, err := ParseIngestRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, "awi", req.Source)
	assert.Equal(t, "/data/CS2_021093.dat", req.Path)
	assert.Equal(t, "defs.json", req.FieldDefinition)
}

func TestParseIngestRequest_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":       `not json`,
		"unknown source": `{"source":"esa","path":"/x"}`,
		"missing path":   `{"source":"nasa_jpl"}`,
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIngestRequest(RawEvent{Value: []byte(value)})
			require.Error(t, err)
			assert.Equal(t, "request", ErrorKind(err))
		})
	}
}

func TestIngestRequest_CheckRoots(t *testing.T) {
	roots := []string{"/data/awi", "/data/jpl"}
	tests := []struct {
		name  string
		roots []string
		req   IngestRequest
		ok    bool
	}{
		{"no roots configured", nil, IngestRequest{Path: "/anywhere/x.dat"}, true},
		{"under a root", roots, IngestRequest{Path: "/data/awi/2014/x.dat"}, true},
		{"second root", roots, IngestRequest{Path: "/data/jpl/x.txt"}, true},
		{"sibling with shared prefix", roots, IngestRequest{Path: "/data/awi-old/x.dat"}, false},
		{"dot-dot escape", roots, IngestRequest{Path: "/data/awi/../secret/x.dat"}, false},
		{"object storage", roots, IngestRequest{Path: "gs://cryosat/x.dat"}, true},
		{"definition outside", roots, IngestRequest{Path: "/data/awi/x.dat", FieldDefinition: "/etc/defs.json"}, false},
		{"definition inside", roots, IngestRequest{Path: "/data/awi/x.dat", FieldDefinition: "/data/awi/defs.json"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.CheckRoots(tc.roots)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, "request", ErrorKind(err))
		})
	}
}

func TestSerializeRecordSet(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	rs := sampleRecordSet(t)
	rs.OrbitID = "21093"

	out, err := SerializeRecordSet(rs)
	require.NoError(t, err)
	assert.Equal(t, []byte("awi-21093"), out.Key)
	assert.Equal(t, "awi", out.Headers["source_id"])
	assert.Equal(t, "21093", out.Headers["orbit_id"])
	assert.Equal(t, "3", out.Headers["n_records"])
	assert.Equal(t, "2024-04-26T15:10:00Z", out.Headers["processed_at"])
	assert.Len(t, out.Headers["ingest_id"], 36)

	var roundtrip OrbitThicknessRecordSet
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	assert.Equal(t, rs.NRecords(), roundtrip.NRecords())
	assert.Equal(t, rs.SeaIceThickness, roundtrip.SeaIceThickness)
	assert.True(t, rs.Timestamp[1].Equal(roundtrip.Timestamp[1]))
}

func TestSerializeRecordSet_NonFiniteValuesAsNull(t *testing.T) {
	rs := sampleRecordSet(t)
	rs.SeaIceThickness[1] = float32(math.NaN())
	rs.SnowDepth[2] = float32(math.Inf(1))
	rs.Latitude[0] = math.NaN()
	require.NoError(t, rs.Validate())

	out, err := SerializeRecordSet(rs)
	require.NoError(t, err)
	assert.Contains(t, string(out.Value), `"sea_ice_thickness":[1,null,3]`)
	assert.Contains(t, string(out.Value), `"latitude":[null,80.1,80.2]`)

	var roundtrip OrbitThicknessRecordSet
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	assert.Equal(t, float32(1), roundtrip.SeaIceThickness[0])
	assert.True(t, math.IsNaN(float64(roundtrip.SeaIceThickness[1])))
	assert.True(t, math.IsNaN(float64(roundtrip.SnowDepth[2])))
	assert.True(t, math.IsNaN(roundtrip.Latitude[0]))
	assert.Equal(t, 80.2, roundtrip.Latitude[2])
	assert.Equal(t, rs.SourceID, roundtrip.SourceID)
	assert.Equal(t, 3, roundtrip.NRecords())
}

func TestErrorKind(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, "read", ErrorKind(&ReadError{Path: "a", Err: base}))
	assert.Equal(t, "parse", ErrorKind(fmt.Errorf("wrapped: %w", &ParseError{Path: "a", Line: 4, Err: base})))
	assert.Equal(t, "configuration", ErrorKind(&ConfigurationError{Path: "a", Err: base}))
	assert.Equal(t, "request", ErrorKind(&RequestError{Err: base}))
	assert.Equal(t, "other", ErrorKind(base))
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Path: "track.txt", Line: 7, Err: errors.New("bad token")}
	assert.Equal(t, "parse track.txt:7: bad token", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
