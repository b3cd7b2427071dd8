package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Source = "arxiv.jsonl"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "defaults with a source are valid",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "empty source returns ErrSourceEmpty",
			mutate:  func(c *Config) { c.Source = "" },
			wantErr: ErrSourceEmpty,
		},
		{
			name:    "empty id field returns ErrFieldEmpty",
			mutate:  func(c *Config) { c.IDField = "" },
			wantErr: ErrFieldEmpty,
		},
		{
			name:    "empty category field returns ErrFieldEmpty",
			mutate:  func(c *Config) { c.CategoryField = "" },
			wantErr: ErrFieldEmpty,
		},
		{
			name:    "negative limit returns ErrLimitInvalid",
			mutate:  func(c *Config) { c.Limit = -1 },
			wantErr: ErrLimitInvalid,
		},
		{
			name:    "unknown log format returns ErrLogFormatUnknown",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: ErrLogFormatUnknown,
		},
		{
			name:    "unknown log level returns ErrLogLevelUnknown",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "zero limit means unbounded",
			mutate:  func(c *Config) { c.Limit = 0 },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.DropColumns = append([]string(nil), valid.DropColumns...)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigCopiesColumnLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DropColumns[0] = "changed"
	if DefaultDropColumns[0] == "changed" {
		t.Fatal("DefaultConfig must not alias DefaultDropColumns")
	}
}
