// Package dataset provides read-only views over an encoded arXiv table.
//
// A Dataset pairs a table with the category and identifier encoders fitted
// when it was built, plus the set of rows in the current view. Filtering
// with ByCategory or Where returns a new Dataset over the same table and
// the same encoder instances; nothing is copied or re-fitted, so codes
// obtained from one view are valid in every view derived from the same
// load.
//
// Datasets are immutable and safe for concurrent readers.
package dataset

import (
	"context"
	"fmt"
	"maps"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/mesh-intelligence/arxivset/internal/logging"
	"github.com/mesh-intelligence/arxivset/internal/metrics"
	"github.com/mesh-intelligence/arxivset/internal/table"
	"github.com/mesh-intelligence/arxivset/pkg/criterion"
	"github.com/mesh-intelligence/arxivset/pkg/encoder"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Dataset is a view over an encoded table.
type Dataset struct {
	table *table.Table
	cats  *encoder.Encoder[string]
	ids   *encoder.Encoder[string]

	codes   []int           // view rows in source order
	members *roaring.Bitmap // same rows, for membership

	log     *logging.Logger
	metrics *metrics.Collector
}

// New returns a Dataset viewing every row of tbl. cats and ids must be the
// encoders returned by the table.Build call that produced tbl.
func New(tbl *table.Table, cats, ids *encoder.Encoder[string]) *Dataset {
	return newView(tbl, cats, ids, tbl.Order(), logging.Noop(), nil)
}

func newView(tbl *table.Table, cats, ids *encoder.Encoder[string], codes []int, log *logging.Logger, m *metrics.Collector) *Dataset {
	members := roaring.New()
	for _, c := range codes {
		members.Add(uint32(c))
	}
	return &Dataset{
		table:   tbl,
		cats:    cats,
		ids:     ids,
		codes:   codes,
		members: members,
		log:     log,
		metrics: m,
	}
}

// derive builds a child view sharing the receiver's table, encoders,
// logger and metrics.
func (d *Dataset) derive(codes []int) *Dataset {
	return newView(d.table, d.cats, d.ids, codes, d.log, d.metrics)
}

// Indices returns every identifier of the fitted identifier vocabulary in
// code order, regardless of which rows are in the view.
func (d *Dataset) Indices() []string {
	return d.ids.Classes()
}

// Categories returns every label of the fitted category vocabulary in code
// order, regardless of which rows are in the view.
func (d *Dataset) Categories() []string {
	return d.cats.Classes()
}

// Len returns the number of rows in the view.
func (d *Dataset) Len() int {
	return len(d.codes)
}

// Codes returns the encoded identifiers of the view in source order.
func (d *Dataset) Codes() []int {
	out := make([]int, len(d.codes))
	copy(out, d.codes)
	return out
}

// Contains reports whether the row with encoded identifier code is in the
// view.
func (d *Dataset) Contains(code int) bool {
	return code >= 0 && d.members.Contains(uint32(code))
}

// SameEncoders reports whether other shares this Dataset's encoder
// instances.
func (d *Dataset) SameEncoders(other *Dataset) bool {
	return other != nil && d.cats == other.cats && d.ids == other.ids
}

// Row decodes the row with encoded identifier code. It fails with
// types.ErrIndexOutOfRange if the row is not in the view.
func (d *Dataset) Row(code int) (types.DecodedRow, error) {
	if !d.Contains(code) {
		return types.DecodedRow{}, fmt.Errorf("row %d: %w", code, types.ErrIndexOutOfRange)
	}
	row, ok := d.table.Row(code)
	if !ok {
		return types.DecodedRow{}, fmt.Errorf("row %d: %w", code, types.ErrIndexOutOfRange)
	}
	return d.decode(row)
}

// RowByID decodes the row with the given original identifier. Identifiers
// outside the fitted vocabulary fail with types.ErrUnknownLabel; fitted
// identifiers filtered out of the view fail with types.ErrIndexOutOfRange.
func (d *Dataset) RowByID(id string) (types.DecodedRow, error) {
	code, err := d.ids.Encode(id)
	if err != nil {
		return types.DecodedRow{}, fmt.Errorf("row %q: %w", id, err)
	}
	return d.Row(code)
}

// Rows decodes the rows at view positions [start, end).
func (d *Dataset) Rows(start, end int) ([]types.DecodedRow, error) {
	if start < 0 || end > len(d.codes) || start > end {
		return nil, fmt.Errorf("rows [%d, %d) of %d: %w", start, end, len(d.codes), types.ErrIndexOutOfRange)
	}
	return d.decodeAll(d.codes[start:end])
}

// RowsMask decodes the rows of the view whose encoded identifier is set in
// mask, in view order. Codes in mask outside the view are ignored.
func (d *Dataset) RowsMask(mask *roaring.Bitmap) ([]types.DecodedRow, error) {
	if mask == nil {
		return []types.DecodedRow{}, nil
	}
	codes := make([]int, 0, min(len(d.codes), int(mask.GetCardinality())))
	for _, c := range d.codes {
		if mask.Contains(uint32(c)) {
			codes = append(codes, c)
		}
	}
	return d.decodeAll(codes)
}

// ByCategory keeps the rows matching b(names...). A nil b means
// criterion.Any. Labels outside the category vocabulary fail with
// types.ErrUnknownLabel and leave the receiver unchanged.
//
// Filters compose: ds.ByCategory(nil, "a") followed by
// ByCategory(nil, "b") keeps rows carrying both a and b.
func (d *Dataset) ByCategory(b criterion.Builder, names ...string) (*Dataset, error) {
	if b == nil {
		b = criterion.Any
	}
	return d.Where(b(names...))
}

// Where keeps the rows whose categories satisfy c. The result shares the
// receiver's table and encoders.
func (d *Dataset) Where(c criterion.Criterion) (*Dataset, error) {
	ctx := context.Background()

	pred, err := c.Compile(d.cats)
	if err != nil {
		d.log.LogFilter(ctx, c.String(), len(d.codes), 0, err)
		return nil, err
	}

	var kept []int
	for _, code := range d.codes {
		row, _ := d.table.Row(code)
		if pred.Match(row.Categories) {
			kept = append(kept, code)
		}
	}

	d.metrics.FilterEvaluated(c.Kind().String(), len(d.codes))
	d.log.LogFilter(ctx, c.String(), len(d.codes), len(kept), nil)
	return d.derive(kept), nil
}

func (d *Dataset) decodeAll(codes []int) ([]types.DecodedRow, error) {
	out := make([]types.DecodedRow, 0, len(codes))
	for _, code := range codes {
		row, _ := d.table.Row(code)
		dr, err := d.decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, nil
}

// decode maps a row back to labels. Columns are copied so callers cannot
// alter the shared table.
func (d *Dataset) decode(row types.Row) (types.DecodedRow, error) {
	id, err := d.ids.Decode(row.ID)
	if err != nil {
		return types.DecodedRow{}, fmt.Errorf("decoding identifier: %w", err)
	}
	cats, err := d.cats.DecodeMany(row.Categories)
	if err != nil {
		return types.DecodedRow{}, fmt.Errorf("decoding categories of %q: %w", id, err)
	}
	return types.DecodedRow{
		ID:         id,
		Categories: cats,
		Columns:    maps.Clone(row.Columns),
	}, nil
}
