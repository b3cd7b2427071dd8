package types

// Record is a raw decoded source line: field name to JSON value. Nested
// values use the decoder's default shapes (map[string]any, []any, string,
// bool, nil) except numbers, which are json.Number.
type Record map[string]any

// Transform rewrites a record before it is counted by the loader. Returning
// nil discards the record.
type Transform func(Record) Record

// Row is an encoded table row.
type Row struct {
	ID         int            // Encoded identifier.
	Categories []int          // Encoded category codes in token order.
	Columns    map[string]any // Remaining business columns.
}

// DecodedRow is a Row mapped back to the original label space.
type DecodedRow struct {
	ID         string         `json:"id"`
	Categories []string       `json:"categories"`
	Columns    map[string]any `json:"columns,omitempty"`
}

// Column returns the named business column and whether it was present.
func (r DecodedRow) Column(name string) (any, bool) {
	v, ok := r.Columns[name]
	return v, ok
}
