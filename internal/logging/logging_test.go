package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mesh-intelligence/arxivset/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr error
	}{
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", wantErr: types.ErrLogLevelUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := types.Config{LogLevel: "debug", LogFormat: types.LogFormatJSON}

	l, err := FromConfig(&buf, cfg)
	require.NoError(t, err)

	l.WithLoadID("run-1").LogBuild(context.Background(), 3, 2, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "table built", entry["msg"])
	assert.Equal(t, "run-1", entry["load_id"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestFromConfigRejectsUnknownFormat(t *testing.T) {
	_, err := FromConfig(&bytes.Buffer{}, types.Config{LogFormat: "xml"})
	assert.ErrorIs(t, err, types.ErrLogFormatUnknown)
}

func TestLogLoadLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewText(&buf, slog.LevelInfo)
	ctx := context.Background()

	l.WithSource("arxiv.jsonl").LogLoad(ctx, 10, time.Second, nil)
	assert.Contains(t, buf.String(), "load completed")
	assert.Contains(t, buf.String(), "source=arxiv.jsonl")

	buf.Reset()
	l.LogLoad(ctx, 0, time.Second, errors.New("boom"))
	assert.Contains(t, buf.String(), "load failed")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	l.LogFilter(ctx, "any(a)", 10, 4, nil)
	assert.Empty(t, buf.String(), "filter success logs at debug")
}

func TestNoop(t *testing.T) {
	l := Noop()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
