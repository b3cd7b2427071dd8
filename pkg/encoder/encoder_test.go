package encoder

import (
	"testing"

	"github.com/mesh-intelligence/arxivset/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitAssignsDenseSortedCodes(t *testing.T) {
	enc := Fit([]string{"math.co", "cs.ai", "hep-ph", "cs.ai"})

	assert.Equal(t, 3, enc.Len())
	assert.Equal(t, []string{"cs.ai", "hep-ph", "math.co"}, enc.Classes())

	for want, label := range enc.Classes() {
		got, err := enc.Encode(label)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
	}{
		{name: "identifiers", labels: []string{"0704.0001", "0704.0002", "math/0406123", "1001.0001"}},
		{name: "categories", labels: []string{"a", "b", "c", "d"}},
		{name: "single label", labels: []string{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := Fit(tt.labels)
			for _, l := range tt.labels {
				code, err := enc.Encode(l)
				require.NoError(t, err)
				back, err := enc.Decode(code)
				require.NoError(t, err)
				assert.Equal(t, l, back)
			}
			for code := range enc.Len() {
				l, err := enc.Decode(code)
				require.NoError(t, err)
				again, err := enc.Encode(l)
				require.NoError(t, err)
				assert.Equal(t, code, again)
			}
		})
	}
}

func TestEncodeUnknownLabel(t *testing.T) {
	enc := Fit([]string{"a", "b"})

	_, err := enc.Encode("z")
	assert.ErrorIs(t, err, types.ErrUnknownLabel)
	assert.False(t, enc.Contains("z"))
	assert.True(t, enc.Contains("a"))

	_, err = enc.EncodeMany([]string{"a", "z"})
	assert.ErrorIs(t, err, types.ErrUnknownLabel)
}

func TestDecodeOutOfRange(t *testing.T) {
	enc := Fit([]string{"a", "b"})

	for _, code := range []int{-1, 2, 100} {
		_, err := enc.Decode(code)
		assert.ErrorIs(t, err, types.ErrUnknownLabel, "code %d", code)
	}

	_, err := enc.DecodeMany([]int{0, 5})
	assert.ErrorIs(t, err, types.ErrUnknownLabel)
}

func TestManyPreservesOrderAndDuplicates(t *testing.T) {
	enc := Fit([]string{"c", "a", "b"})

	codes, err := enc.EncodeMany([]string{"c", "a", "c"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 2}, codes)

	labels, err := enc.DecodeMany(codes)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "c"}, labels)
}

func TestClassesReturnsCopy(t *testing.T) {
	enc := Fit([]string{"a", "b"})
	classes := enc.Classes()
	classes[0] = "mutated"

	l, err := enc.Decode(0)
	require.NoError(t, err)
	assert.Equal(t, "a", l)
}

func TestFitDoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a", "b"}
	Fit(in)
	assert.Equal(t, []string{"b", "a", "b"}, in)
}

func TestEmptyVocabulary(t *testing.T) {
	enc := Fit[string](nil)
	assert.Equal(t, 0, enc.Len())
	_, err := enc.Decode(0)
	assert.ErrorIs(t, err, types.ErrUnknownLabel)

	codes, err := enc.EncodeMany(nil)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestIntegerLabels(t *testing.T) {
	enc := Fit([]int{30, 10, 20})
	code, err := enc.Encode(20)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}
