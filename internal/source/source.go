// Package source opens corpus sources as lazy line sequences.
//
// Supported URIs:
//
//	path/to/arxiv.jsonl            plain file
//	path/to/arxiv.jsonl.gz         gzip (also .zst/.zstd and .lz4)
//	file:///abs/path/arxiv.jsonl   explicit file URI
//	s3://bucket/key.jsonl.zst      S3 object, decompressed by key suffix
//	sqlite:///path/snapshot.db?table=records&column=doc
package source

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/mesh-intelligence/arxivset/internal/jsonl"
	"github.com/mesh-intelligence/arxivset/internal/sqlite"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Source is an open corpus. Lines is single pass for stream-backed
// sources.
type Source interface {
	Lines() iter.Seq2[[]byte, error]
	Close() error
}

// Opener opens sources. The zero value opens local files and SQLite
// snapshots; S3 sources use S3 settings and, if set, NewS3Client.
type Opener struct {
	S3          types.S3Config
	NewS3Client func(ctx context.Context, cfg types.S3Config) (ObjectGetter, error)
}

// Open opens uri with an Opener using cfg for S3 sources.
func Open(ctx context.Context, uri string, cfg types.S3Config) (Source, error) {
	return Opener{S3: cfg}.Open(ctx, uri)
}

// Open opens uri.
func (o Opener) Open(ctx context.Context, uri string) (Source, error) {
	scheme, rest, hasScheme := strings.Cut(uri, "://")
	if !hasScheme {
		return openFile(ctx, uri)
	}

	switch scheme {
	case "file":
		return openFile(ctx, rest)
	case "s3":
		return o.openS3(ctx, rest)
	case "sqlite":
		return openSQLite(ctx, uri)
	default:
		return nil, fmt.Errorf("scheme %q: %w", scheme, types.ErrUnsupportedSource)
	}
}

// readerSource serves lines from a (possibly decompressed) stream.
type readerSource struct {
	ctx     context.Context
	r       io.Reader
	closers []io.Closer
}

func (s *readerSource) Lines() iter.Seq2[[]byte, error] {
	return jsonl.Lines(s.ctx, s.r)
}

// Close closes the decompressor before the underlying stream.
func (s *readerSource) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openFile(ctx context.Context, p string) (Source, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}
	src, err := newReaderSource(ctx, f, p)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// newReaderSource wraps rc in a decompressor chosen by the suffix of name.
func newReaderSource(ctx context.Context, rc io.ReadCloser, name string) (*readerSource, error) {
	src := &readerSource{ctx: ctx, r: rc, closers: []io.Closer{rc}}

	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".gzip":
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream %s: %w", name, err)
		}
		src.r = zr
		src.closers = append(src.closers, zr)
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream %s: %w", name, err)
		}
		src.r = zr
		src.closers = append(src.closers, zr.IOReadCloser())
	case ".lz4":
		src.r = lz4.NewReader(rc)
	}
	return src, nil
}

// snapshotSource adapts a SQLite snapshot.
type snapshotSource struct {
	*sqlite.Snapshot
}

func openSQLite(ctx context.Context, uri string) (Source, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", uri, err)
	}
	p := u.Host + u.Path
	if p == "" {
		return nil, fmt.Errorf("sqlite source without path: %w", types.ErrUnsupportedSource)
	}
	q := u.Query()
	snap, err := sqlite.Open(ctx, p, q.Get("table"), q.Get("column"))
	if err != nil {
		return nil, err
	}
	return snapshotSource{Snapshot: snap}, nil
}
