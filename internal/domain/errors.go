package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned by inspection helpers for an empty record set.
	ErrNoData = errors.New("record set has no records")

	// ErrUnknownParameter is returned when a parameter name is not in the schema.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// ReadError reports a file that is missing, unreadable, or truncated relative
// to its expected layout.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ParseError reports malformed content in a readable file. Line is 1-based
// and zero when the error is not tied to a line.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError reports a field definition or header that cannot
// describe the file being decoded.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration for %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RequestError reports an ingest request that cannot be acted on.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("ingest request: %v", e.Err) }

func (e *RequestError) Unwrap() error { return e.Err }

// ErrorKind classifies err for metric labels and log fields:
// read, parse, configuration, request, or other.
func ErrorKind(err error) string {
	var (
		readErr    *ReadError
		parseErr   *ParseError
		configErr  *ConfigurationError
		requestErr *RequestError
	)
	switch {
	case errors.As(err, &readErr):
		return "read"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &configErr):
		return "configuration"
	case errors.As(err, &requestErr):
		return "request"
	default:
		return "other"
	}
}
