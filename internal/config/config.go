// Package config reads and writes config.yaml in the arxivset
// configuration directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. ARXIVSET_LIMIT or
	// ARXIVSET_S3_REGION.
	EnvPrefix = "ARXIVSET"
)

// Config keys.
const (
	KeySource        = "source"
	KeyIDField       = "id_field"
	KeyCategoryField = "category_field"
	KeyDropColumns   = "drop_columns"
	KeyParseColumns  = "parse_columns"
	KeyLimit         = "limit"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyS3Region      = "s3.region"
	KeyS3Endpoint    = "s3.endpoint"
	KeyS3PathStyle   = "s3.use_path_style"
)

const fileHeader = `# arxivset configuration
#
# source may be a local path (.jsonl, .jsonl.gz, .jsonl.zst, .jsonl.lz4),
# s3://bucket/key or sqlite:///path/snapshot.db?table=records&column=doc.
`

// New returns a Viper instance with arxivset defaults and environment
// overrides, reading config.yaml from dir.
func New(dir string) *viper.Viper {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(KeySource, def.Source)
	v.SetDefault(KeyIDField, def.IDField)
	v.SetDefault(KeyCategoryField, def.CategoryField)
	v.SetDefault(KeyDropColumns, def.DropColumns)
	v.SetDefault(KeyParseColumns, def.ParseColumns)
	v.SetDefault(KeyLimit, def.Limit)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyS3Region, def.S3.Region)
	v.SetDefault(KeyS3Endpoint, def.S3.Endpoint)
	v.SetDefault(KeyS3PathStyle, def.S3.UsePathStyle)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	if dir != "" {
		v.AddConfigPath(dir)
	}
	return v
}

// Load reads config.yaml from dir into a types.Config. A missing file is
// not an error; defaults and environment overrides still apply. Load does
// not require a source, so callers validate once the source is known.
func Load(dir string) (types.Config, error) {
	v := New(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals v into a types.Config.
func Decode(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// WriteDefault creates dir and writes a default config.yaml with the given
// source. An existing file is left untouched. It returns the file path and
// whether the file was created.
func WriteDefault(dir, source string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(dir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := types.DefaultConfig()
	cfg.Source = source
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}
	return path, true, nil
}
