package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.Decoded()
	c.Decoded()
	c.Discarded()
	c.Yielded()
	c.RowsBuilt(5)
	c.FilterEvaluated("any", 5)
	c.FilterEvaluated("any", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.decoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.discarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.yielded))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.rowsBuilt))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.evaluations.WithLabelValues("any")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestCollectorDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Decoded()
		c.Discarded()
		c.Yielded()
		c.RowsBuilt(1)
		c.FilterEvaluated("all", 1)
	})
}

func TestUnregistered(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	c.Yielded()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.yielded))
}
