// Package source selects the file parser for an ingest request.
package source

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/seaice-etl/internal/adapter/awi"
	"github.com/couchcryptid/seaice-etl/internal/adapter/jpl"
	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/couchcryptid/seaice-etl/internal/fielddef"
)

// Registry builds parsers by source id. AWI parsers are bound to the
// request's field definition, or the default one when the request names none.
type Registry struct {
	defs       fielddef.Loader
	defaultDef string
	logger     *slog.Logger
}

// NewRegistry creates a registry loading AWI definitions through defs.
func NewRegistry(defs fielddef.Loader, defaultDefinition string, logger *slog.Logger) *Registry {
	return &Registry{defs: defs, defaultDef: defaultDefinition, logger: logger}
}

// ParserFor returns the parser for req.Source.
func (r *Registry) ParserFor(req domain.IngestRequest) (domain.RecordSetParser, error) {
	switch req.Source {
	case domain.SourceAWI.ID:
		path := req.FieldDefinition
		if path == "" {
			path = r.defaultDef
		}
		def, err := r.defs.Load(path)
		if err != nil {
			return nil, err
		}
		return awi.NewParser(def, r.logger.With("source", domain.SourceAWI.ID)), nil
	case domain.SourceNASAJPL.ID:
		return jpl.NewParser(r.logger.With("source", domain.SourceNASAJPL.ID)), nil
	default:
		return nil, &domain.RequestError{Err: fmt.Errorf("unknown source %q", req.Source)}
	}
}
