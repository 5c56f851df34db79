package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	"github.com/couchcryptid/seaice-etl/internal/observability"
)

var errRemoteDisabled = errors.New("object storage input is disabled")

// ParserFactory selects the parser for an ingest request.
type ParserFactory interface {
	ParserFor(req domain.IngestRequest) (domain.RecordSetParser, error)
}

// Localizer makes a remote file available on local disk. cleanup removes
// the local copy.
type Localizer interface {
	Localize(ctx context.Context, uri string) (local string, cleanup func(), err error)
}

// IngestTransformer implements Transformer: it resolves the request's file,
// parses it with the source's parser, and serializes the record set.
type IngestTransformer struct {
	parsers   ParserFactory
	localizer Localizer
	roots     []string
	history   *History
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewTransformer creates an IngestTransformer. A nil localizer rejects
// gs:// paths; a nil history disables the recent-orbit listing.
func NewTransformer(parsers ParserFactory, localizer Localizer, history *History, metrics *observability.Metrics, logger *slog.Logger) *IngestTransformer {
	return &IngestTransformer{
		parsers:   parsers,
		localizer: localizer,
		history:   history,
		metrics:   metrics,
		logger:    logger,
	}
}

// RestrictTo limits local request paths and field definitions to the given
// root directories.
func (t *IngestTransformer) RestrictTo(roots []string) *IngestTransformer {
	t.roots = roots
	return t
}

func (t *IngestTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseIngestRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	rs, err := t.parse(ctx, req)
	if err != nil {
		t.metrics.ParseErrors.WithLabelValues(req.Source, domain.ErrorKind(err)).Inc()
		return domain.OutputEvent{}, err
	}

	out, err := domain.SerializeRecordSet(rs)
	if err != nil {
		t.metrics.ParseErrors.WithLabelValues(req.Source, domain.ErrorKind(err)).Inc()
		return domain.OutputEvent{}, err
	}

	t.metrics.RecordsDecoded.WithLabelValues(req.Source).Add(float64(rs.NRecords()))
	if t.history != nil {
		t.history.Add(rs.Summarize())
	}
	t.logger.Info("record set decoded",
		"source", rs.SourceID,
		"orbit_id", rs.OrbitID,
		"records", rs.NRecords(),
		"path", req.Path,
	)
	return out, nil
}

func (t *IngestTransformer) parse(ctx context.Context, req domain.IngestRequest) (*domain.OrbitThicknessRecordSet, error) {
	if err := req.CheckRoots(t.roots); err != nil {
		return nil, err
	}
	parser, err := t.parsers.ParserFor(req)
	if err != nil {
		return nil, err
	}

	local := req.Path
	if req.Remote() {
		if t.localizer == nil {
			return nil, &domain.RequestError{Err: errRemoteDisabled}
		}
		var cleanup func()
		local, cleanup, err = t.localizer.Localize(ctx, req.Path)
		if err != nil {
			t.metrics.RemoteFetches.WithLabelValues("error").Inc()
			return nil, err
		}
		t.metrics.RemoteFetches.WithLabelValues("success").Inc()
		defer cleanup()
	}

	start := time.Now()
	rs, err := parser.ParseFile(local)
	t.metrics.ParseDuration.WithLabelValues(req.Source).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	// The local copy of a remote file is temporary; keep the request path.
	rs.Filename = req.Path
	return rs, nil
}
