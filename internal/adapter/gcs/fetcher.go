// Package gcs downloads orbit files referenced by gs:// URIs so the file
// parsers can read them from local disk.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/couchcryptid/seaice-etl/internal/domain"
)

const scheme = domain.ObjectURIScheme

const (
	// DownloadTimeout bounds a single object download.
	DownloadTimeout = 50 * time.Second
)

// IsRemote reports whether p is a gs:// URI.
func IsRemote(p string) bool {
	return strings.HasPrefix(p, scheme)
}

// ParseURI splits gs://bucket/object into its parts.
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsRemote(uri) {
		return "", "", fmt.Errorf("not a %s URI: %q", scheme, uri)
	}
	rest := strings.TrimPrefix(uri, scheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", fmt.Errorf("malformed object URI: %q", uri)
	}
	return bucket, object, nil
}

// ObjectOpener opens an object for reading.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type clientOpener struct {
	client *storage.Client
}

func (o clientOpener) Open(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return o.client.Bucket(bucket).Object(object).NewReader(ctx)
}

// Fetcher copies remote objects into a scratch directory.
type Fetcher struct {
	opener     ObjectOpener
	scratchDir string
	logger     *slog.Logger
}

// NewFetcher creates a fetcher backed by a Cloud Storage client.
func NewFetcher(client *storage.Client, scratchDir string, logger *slog.Logger) *Fetcher {
	return NewFetcherWithOpener(clientOpener{client: client}, scratchDir, logger)
}

// NewFetcherWithOpener creates a fetcher reading through opener.
func NewFetcherWithOpener(opener ObjectOpener, scratchDir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{opener: opener, scratchDir: scratchDir, logger: logger}
}

// Localize downloads uri and returns the local path of the copy along with a
// cleanup func that removes it. The object's base name is kept because
// parsers read metadata such as the orbit number from the file name.
func (f *Fetcher) Localize(ctx context.Context, uri string) (string, func(), error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return "", nil, &domain.ReadError{Path: uri, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	rc, err := f.opener.Open(ctx, bucket, object)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			err = fmt.Errorf("object does not exist: %w", err)
		}
		return "", nil, &domain.ReadError{Path: uri, Err: err}
	}
	defer rc.Close()

	dir, err := os.MkdirTemp(f.scratchDir, "seaice-")
	if err != nil {
		return "", nil, &domain.ReadError{Path: uri, Err: fmt.Errorf("create scratch dir: %w", err)}
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			f.logger.Warn("scratch cleanup failed", "dir", dir, "error", err)
		}
	}

	local := filepath.Join(dir, path.Base(object))
	n, err := writeFile(local, rc)
	if err != nil {
		cleanup()
		return "", nil, &domain.ReadError{Path: uri, Err: err}
	}

	f.logger.Debug("object downloaded", "uri", uri, "local", local, "bytes", n)
	return local, cleanup, nil
}

func writeFile(name string, r io.Reader) (int64, error) {
	out, err := os.Create(name)
	if err != nil {
		return 0, fmt.Errorf("create local copy: %w", err)
	}
	n, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("download: %w", err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close local copy: %w", err)
	}
	return n, nil
}
