package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// IngestRequest asks the service to parse one file. Path is a local path or a
// gs://bucket/object URI. FieldDefinition overrides the configured AWI field
// definition and is ignored for NASA-JPL files.
type IngestRequest struct {
	Source          string `json:"source"`
	Path            string `json:"path"`
	FieldDefinition string `json:"field_definition,omitempty"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
