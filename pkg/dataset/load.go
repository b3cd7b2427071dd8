package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/arxivset/internal/jsonl"
	"github.com/mesh-intelligence/arxivset/internal/logging"
	"github.com/mesh-intelligence/arxivset/internal/metrics"
	"github.com/mesh-intelligence/arxivset/internal/source"
	"github.com/mesh-intelligence/arxivset/internal/table"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	transform types.Transform
	limit     int
	build     table.Options
	opener    source.Opener
	log       *logging.Logger
	metrics   *metrics.Collector
}

func defaultLoadOptions() loadOptions {
	return loadOptions{
		build: table.DefaultOptions(),
		log:   logging.Noop(),
	}
}

// WithTransform rewrites each decoded record before it is counted. A
// transform returning nil discards the record.
func WithTransform(fn types.Transform) Option {
	return func(o *loadOptions) { o.transform = fn }
}

// WithLimit stops reading the source after n kept records. Zero or
// negative means no limit.
func WithLimit(n int) Option {
	return func(o *loadOptions) { o.limit = n }
}

// WithBuildOptions sets the table build options.
func WithBuildOptions(b table.Options) Option {
	return func(o *loadOptions) { o.build = b }
}

// WithS3Config sets the region, endpoint and addressing style for s3://
// sources.
func WithS3Config(cfg types.S3Config) Option {
	return func(o *loadOptions) { o.opener.S3 = cfg }
}

// WithOpener replaces the source opener.
func WithOpener(op source.Opener) Option {
	return func(o *loadOptions) { o.opener = op }
}

// WithLogger sets the logger for the load and for views derived from the
// loaded Dataset.
func WithLogger(l *logging.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records loader and filter counters on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *loadOptions) { o.metrics = m }
}

// WithConfig applies the limit, column settings and S3 settings of cfg.
func WithConfig(cfg types.Config) Option {
	return func(o *loadOptions) {
		o.limit = cfg.Limit
		o.build = table.OptionsFromConfig(cfg)
		o.opener.S3 = cfg.S3
	}
}

// Load reads the corpus at uri and returns a Dataset over all kept
// records. uri is a local path (optionally .gz, .zst or .lz4), an
// s3://bucket/key object or a sqlite:///path snapshot.
//
// Load fails with types.ErrMalformedInput on an undecodable line, with
// types.ErrEmptyInput when no record is kept and with
// types.ErrDuplicateIdentifier when two records share an identifier.
func Load(ctx context.Context, uri string, opts ...Option) (*Dataset, error) {
	o := defaultLoadOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log.WithLoadID(newLoadID()).WithSource(uri)
	start := time.Now()

	src, err := o.opener.Open(ctx, uri)
	if err != nil {
		log.LogLoad(ctx, 0, time.Since(start), err)
		return nil, err
	}
	defer src.Close()

	stream := jsonl.Options{Transform: o.transform, Limit: o.limit}
	if o.metrics != nil {
		stream.Observer = o.metrics
	}
	records, err := jsonl.Collect(jsonl.Stream(src.Lines(), stream))
	if err != nil {
		err = fmt.Errorf("reading %s: %w", uri, err)
		log.LogLoad(ctx, len(records), time.Since(start), err)
		return nil, err
	}

	ds, err := build(ctx, records, o.build, log, o.metrics)
	log.LogLoad(ctx, len(records), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// FromRecords builds a Dataset from already decoded records.
func FromRecords(records []types.Record, opts table.Options) (*Dataset, error) {
	return build(context.Background(), records, opts, logging.Noop(), nil)
}

func build(ctx context.Context, records []types.Record, opts table.Options, log *logging.Logger, m *metrics.Collector) (*Dataset, error) {
	tbl, cats, ids, err := table.Build(records, opts)
	if err != nil {
		log.LogBuild(ctx, 0, 0, err)
		return nil, err
	}
	m.RowsBuilt(tbl.Len())
	log.LogBuild(ctx, tbl.Len(), cats.Len(), nil)
	return newView(tbl, cats, ids, tbl.Order(), log, m), nil
}

// newLoadID returns a time-ordered id for a load run.
func newLoadID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
