package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectURIScheme prefixes request paths that live in object storage.
const ObjectURIScheme = "gs://"

// Remote reports whether the request points into object storage.
func (r IngestRequest) Remote() bool {
	return strings.HasPrefix(r.Path, ObjectURIScheme)
}

// CheckRoots rejects a request whose local path or field definition lies
// outside every root. Object storage paths and an empty root list pass.
func (r IngestRequest) CheckRoots(roots []string) error {
	if len(roots) == 0 {
		return nil
	}
	if !r.Remote() && !withinRoots(r.Path, roots) {
		return &RequestError{Err: fmt.Errorf("path %q is outside the allowed input roots", r.Path)}
	}
	if r.FieldDefinition != "" && !withinRoots(r.FieldDefinition, roots) {
		return &RequestError{Err: fmt.Errorf("field definition %q is outside the allowed input roots", r.FieldDefinition)}
	}
	return nil
}

func withinRoots(path string, roots []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, root := range roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ParseIngestRequest decodes and validates the JSON request carried by a raw
// event.
func ParseIngestRequest(raw RawEvent) (IngestRequest, error) {
	var req IngestRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return IngestRequest{}, &RequestError{Err: fmt.Errorf("decode: %w", err)}
	}
	req.Source = strings.ToLower(strings.TrimSpace(req.Source))
	req.Path = strings.TrimSpace(req.Path)

	if _, ok := LookupSource(req.Source); !ok {
		return IngestRequest{}, &RequestError{Err: fmt.Errorf("unknown source %q", req.Source)}
	}
	if req.Path == "" {
		return IngestRequest{}, &RequestError{Err: errors.New("path is required")}
	}
	return req, nil
}

// SerializeRecordSet marshals a record set into a sink message. The key groups
// messages per source and orbit so that re-ingesting a file lands on the same
// partition; ingest_id distinguishes individual runs.
func SerializeRecordSet(rs *OrbitThicknessRecordSet) (OutputEvent, error) {
	data, err := json.Marshal(rs)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize record set: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rs.SourceID + "-" + rs.OrbitID),
		Value: data,
		Headers: map[string]string{
			"source_id":    rs.SourceID,
			"orbit_id":     rs.OrbitID,
			"n_records":    strconv.Itoa(rs.NRecords()),
			"ingest_id":    uuid.NewString(),
			"processed_at": clock.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
