// Package table builds the encoded, id-indexed table from raw records.
// This file implements the table type and the builder that fits the
// identifier and category encoders.
package table

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/arxivset/internal/textproc"
	"github.com/mesh-intelligence/arxivset/pkg/encoder"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Columns with dedicated handling on the arXiv snapshot.
const (
	columnAbstract   = "abstract"
	columnUpdateDate = "update_date"
	updateDateLayout = time.DateOnly
)

// Options controls Build. Nil column lists select the defaults from
// pkg/types; an empty non-nil list selects none.
type Options struct {
	IDField       string
	CategoryField string
	DropColumns   []string
	ParseColumns  []string
	Parser        types.TextParser
}

// DefaultOptions returns Options for the arXiv metadata snapshot.
func DefaultOptions() Options {
	return Options{
		IDField:       types.DefaultIDField,
		CategoryField: types.DefaultCategoryField,
		DropColumns:   slices.Clone(types.DefaultDropColumns),
		ParseColumns:  slices.Clone(types.DefaultParseColumns),
		Parser:        textproc.New(),
	}
}

// OptionsFromConfig derives build options from a Config.
func OptionsFromConfig(cfg types.Config) Options {
	opts := DefaultOptions()
	if cfg.IDField != "" {
		opts.IDField = cfg.IDField
	}
	if cfg.CategoryField != "" {
		opts.CategoryField = cfg.CategoryField
	}
	if cfg.DropColumns != nil {
		opts.DropColumns = slices.Clone(cfg.DropColumns)
	}
	if cfg.ParseColumns != nil {
		opts.ParseColumns = slices.Clone(cfg.ParseColumns)
	}
	return opts
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.IDField == "" {
		o.IDField = def.IDField
	}
	if o.CategoryField == "" {
		o.CategoryField = def.CategoryField
	}
	if o.DropColumns == nil {
		o.DropColumns = def.DropColumns
	}
	if o.ParseColumns == nil {
		o.ParseColumns = def.ParseColumns
	}
	if o.Parser == nil {
		o.Parser = def.Parser
	}
	return o
}

// Table holds encoded rows addressable by encoded identifier. It is never
// modified after Build; rows returned by Row must be treated as read-only.
type Table struct {
	rows  []types.Row
	order []int
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the row with the given encoded identifier.
func (t *Table) Row(id int) (types.Row, bool) {
	if id < 0 || id >= len(t.rows) {
		return types.Row{}, false
	}
	return t.rows[id], true
}

// Order returns the encoded identifiers in source order.
func (t *Table) Order() []int {
	return slices.Clone(t.order)
}

// pendingRow is a row whose identifier and categories are not encoded yet.
type pendingRow struct {
	id      string
	tokens  []string
	columns map[string]any
}

// Build turns records into a Table and fits the category and identifier
// encoders, in that return order. Input records are not modified.
//
// Build fails with types.ErrEmptyInput for no records, with
// types.ErrMissingIdentifier when a record lacks the id field and with
// types.ErrDuplicateIdentifier when two records share an identifier.
func Build(records []types.Record, opts Options) (*Table, *encoder.Encoder[string], *encoder.Encoder[string], error) {
	if len(records) == 0 {
		return nil, nil, nil, types.ErrEmptyInput
	}
	opts = opts.withDefaults()

	pending := make([]pendingRow, 0, len(records))
	seen := make(map[string]int, len(records))
	ids := make([]string, 0, len(records))
	var vocab []string

	for i, rec := range records {
		id, ok := identifier(rec[opts.IDField])
		if !ok {
			return nil, nil, nil, fmt.Errorf("record %d: %w", i, types.ErrMissingIdentifier)
		}
		if first, dup := seen[id]; dup {
			return nil, nil, nil, fmt.Errorf("records %d and %d share %q: %w", first, i, id, types.ErrDuplicateIdentifier)
		}
		seen[id] = i
		ids = append(ids, id)

		tokens := NormalizeCategories(rec[opts.CategoryField])
		vocab = append(vocab, tokens...)

		pending = append(pending, pendingRow{
			id:      id,
			tokens:  tokens,
			columns: buildColumns(rec, opts),
		})
	}

	idEnc := encoder.Fit(ids)
	catEnc := encoder.Fit(vocab)

	t := &Table{
		rows:  make([]types.Row, len(pending)),
		order: make([]int, 0, len(pending)),
	}
	for _, p := range pending {
		code, err := idEnc.Encode(p.id)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encoding identifier: %w", err)
		}
		cats, err := catEnc.EncodeMany(p.tokens)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encoding categories of %q: %w", p.id, err)
		}
		t.rows[code] = types.Row{ID: code, Categories: cats, Columns: p.columns}
		t.order = append(t.order, code)
	}

	return t, catEnc, idEnc, nil
}

// buildColumns copies the business columns of rec, dropping the id,
// category and configured drop columns and parsing free-text columns.
func buildColumns(rec types.Record, opts Options) map[string]any {
	cols := maps.Clone(map[string]any(rec))
	delete(cols, opts.IDField)
	delete(cols, opts.CategoryField)
	for _, c := range opts.DropColumns {
		delete(cols, c)
	}

	if s, ok := cols[columnAbstract].(string); ok {
		cols[columnAbstract] = strings.TrimSpace(s)
	}
	if s, ok := cols[columnUpdateDate].(string); ok {
		if ts, err := time.Parse(updateDateLayout, s); err == nil {
			cols[columnUpdateDate] = ts
		}
	}

	for _, c := range opts.ParseColumns {
		text := textValue(cols[c])
		if text == "" {
			cols[c] = nil
			continue
		}
		if p := opts.Parser.Parse(text); p != nil {
			cols[c] = p
		} else {
			cols[c] = nil
		}
	}
	return cols
}

// NormalizeCategories lower-cases a raw category value and splits it into
// tokens on whitespace and commas. Arrays of strings are joined first.
func NormalizeCategories(v any) []string {
	raw := textValue(v)
	if raw == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// identifier converts a JSON id value to its string form.
func identifier(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case fmt.Stringer:
		s := id.String()
		return s, s != ""
	default:
		return "", false
	}
}

// textValue renders a JSON value as text. Nil becomes "".
func textValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s := textValue(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(x)
	}
}
