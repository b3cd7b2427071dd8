package dataset

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arxivset/internal/table"
	"github.com/mesh-intelligence/arxivset/pkg/criterion"
	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Identifier codes follow sorted order (0001=0 ... 0005=4); source order
// is 0003, 0001, 0004, 0002, 0005. Category codes: a=0 b=1 c=2 d=3.
func testRecords() []types.Record {
	return []types.Record{
		{"id": "2401.0003", "categories": "a c", "title": "three"},
		{"id": "2401.0001", "categories": "b", "title": "one"},
		{"id": "2401.0004", "categories": "A b", "title": "four"},
		{"id": "2401.0002", "categories": "c d", "title": "two"},
		{"id": "2401.0005", "categories": "a, b c", "title": "five"},
	}
}

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := FromRecords(testRecords(), table.Options{ParseColumns: []string{}})
	require.NoError(t, err)
	return ds
}

func ids(t *testing.T, rows []types.DecodedRow) []string {
	t.Helper()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestNewFullView(t *testing.T) {
	ds := testDataset(t)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, []int{2, 0, 3, 1, 4}, ds.Codes())
	assert.Equal(t, []string{"2401.0001", "2401.0002", "2401.0003", "2401.0004", "2401.0005"}, ds.Indices())
	assert.Equal(t, []string{"a", "b", "c", "d"}, ds.Categories())
	for code := range 5 {
		assert.True(t, ds.Contains(code))
	}
	assert.False(t, ds.Contains(5))
	assert.False(t, ds.Contains(-1))
}

func TestEncoderRoundTrip(t *testing.T) {
	ds := testDataset(t)

	for _, id := range ds.Indices() {
		code, err := ds.ids.Encode(id)
		require.NoError(t, err)
		back, err := ds.ids.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, id, back)

		row, err := ds.RowByID(id)
		require.NoError(t, err)
		assert.Equal(t, id, row.ID)
	}
	for _, label := range ds.Categories() {
		code, err := ds.cats.Encode(label)
		require.NoError(t, err)
		back, err := ds.cats.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, label, back)
	}
}

func TestRow(t *testing.T) {
	ds := testDataset(t)

	row, err := ds.Row(2)
	require.NoError(t, err)
	assert.Equal(t, "2401.0003", row.ID)
	assert.Equal(t, []string{"a", "c"}, row.Categories)
	title, ok := row.Column("title")
	assert.True(t, ok)
	assert.Equal(t, "three", title)
	_, ok = row.Column("id")
	assert.False(t, ok, "identifier must not be duplicated into columns")

	row, err = ds.Row(4)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, row.Categories)

	_, err = ds.Row(5)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
	_, err = ds.Row(-1)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
}

func TestRowColumnsAreCopies(t *testing.T) {
	ds := testDataset(t)

	row, err := ds.Row(0)
	require.NoError(t, err)
	row.Columns["title"] = "changed"
	row.Categories[0] = "z"

	again, err := ds.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "one", again.Columns["title"])
	assert.Equal(t, []string{"b"}, again.Categories)
}

func TestRowByID(t *testing.T) {
	ds := testDataset(t)

	row, err := ds.RowByID("2401.0004")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, row.Categories)

	_, err = ds.RowByID("9999.9999")
	assert.ErrorIs(t, err, types.ErrUnknownLabel)
}

func TestRows(t *testing.T) {
	ds := testDataset(t)

	rows, err := ds.Rows(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2401.0001", "2401.0004"}, ids(t, rows))

	rows, err = ds.Rows(5, 5)
	require.NoError(t, err)
	assert.Empty(t, rows)

	tests := []struct {
		name       string
		start, end int
	}{
		{name: "negative start", start: -1, end: 2},
		{name: "inverted", start: 3, end: 2},
		{name: "past end", start: 0, end: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ds.Rows(tt.start, tt.end)
			assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
		})
	}
}

func TestRowsMask(t *testing.T) {
	ds := testDataset(t)

	rows, err := ds.RowsMask(roaring.BitmapOf(0, 4, 99))
	require.NoError(t, err)
	assert.Equal(t, []string{"2401.0001", "2401.0005"}, ids(t, rows))

	withA, err := ds.ByCategory(nil, "a")
	require.NoError(t, err)
	rows, err = withA.RowsMask(roaring.BitmapOf(0, 4))
	require.NoError(t, err)
	assert.Equal(t, []string{"2401.0005"}, ids(t, rows))

	rows, err = ds.RowsMask(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestByCategorySharesEncoders(t *testing.T) {
	ds := testDataset(t)

	withA, err := ds.ByCategory(nil, "a")
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 4}, withA.Codes())
	assert.Equal(t, ds.Categories(), withA.Categories())
	assert.Equal(t, ds.Indices(), withA.Indices())
	assert.True(t, withA.SameEncoders(ds))
	assert.Same(t, ds.table, withA.table)

	for _, code := range withA.Codes() {
		got, err := withA.Row(code)
		require.NoError(t, err)
		want, err := ds.Row(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestByCategoryUnknownLabel(t *testing.T) {
	ds := testDataset(t)
	before := ds.Codes()

	got, err := ds.ByCategory(nil, "a", "not-a-real-category")
	assert.ErrorIs(t, err, types.ErrUnknownLabel)
	assert.Nil(t, got)
	assert.Equal(t, before, ds.Codes())
	assert.Equal(t, 5, ds.Len())
}

func TestByCategoryComposes(t *testing.T) {
	ds := testDataset(t)

	withA, err := ds.ByCategory(criterion.Any, "a")
	require.NoError(t, err)
	withAB, err := withA.ByCategory(criterion.Any, "b")
	require.NoError(t, err)

	withB, err := ds.ByCategory(criterion.Any, "b")
	require.NoError(t, err)
	want := roaring.And(withA.members, withB.members)

	assert.Equal(t, []int{3, 4}, withAB.Codes())
	assert.True(t, want.Equals(withAB.members))
	assert.True(t, withAB.SameEncoders(ds))

	all, err := ds.ByCategory(criterion.All, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, withAB.Codes(), all.Codes())
}

func TestWhere(t *testing.T) {
	ds := testDataset(t)

	tests := []struct {
		name string
		c    criterion.Criterion
		want []int
	}{
		{name: "any", c: criterion.Any("c", "d"), want: []int{2, 1, 4}},
		{name: "all", c: criterion.All("a", "c"), want: []int{2, 4}},
		{name: "not any", c: criterion.Not(criterion.Any("a")), want: []int{0, 1}},
		{name: "not all", c: criterion.Not(criterion.All("a", "b")), want: []int{2, 0, 1}},
		{name: "any empty", c: criterion.Any(), want: nil},
		{name: "all empty", c: criterion.All(), want: []int{2, 0, 3, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.Where(tt.c)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), got.Len())
			if tt.want != nil {
				assert.Equal(t, tt.want, got.Codes())
			}
			assert.True(t, got.SameEncoders(ds))
		})
	}
}

func TestNegatedBuilder(t *testing.T) {
	ds := testDataset(t)

	withoutB, err := ds.ByCategory(criterion.Negate(criterion.Any), "b")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, withoutB.Codes())
}

func TestFilteredViewBounds(t *testing.T) {
	ds := testDataset(t)

	withD, err := ds.ByCategory(nil, "d")
	require.NoError(t, err)
	require.Equal(t, []int{1}, withD.Codes())

	_, err = withD.Row(0)
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)
	_, err = withD.RowByID("2401.0001")
	assert.ErrorIs(t, err, types.ErrIndexOutOfRange)

	row, err := withD.RowByID("2401.0002")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, row.Categories)
}

func TestSameEncodersAcrossBuilds(t *testing.T) {
	a := testDataset(t)
	b := testDataset(t)

	assert.False(t, a.SameEncoders(b))
	assert.False(t, a.SameEncoders(nil))
	assert.Equal(t, a.Categories(), b.Categories())
}

func TestFromRecordsEmpty(t *testing.T) {
	_, err := FromRecords(nil, table.DefaultOptions())
	assert.ErrorIs(t, err, types.ErrEmptyInput)
}
