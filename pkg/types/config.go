package types

import "errors"

// Config describes where a corpus is read from and how it is turned into a
// table. Field tags match the keys in config.yaml.
type Config struct {
	Source        string   `json:"source" yaml:"source" mapstructure:"source"`
	IDField       string   `json:"id_field" yaml:"id_field" mapstructure:"id_field"`
	CategoryField string   `json:"category_field" yaml:"category_field" mapstructure:"category_field"`
	DropColumns   []string `json:"drop_columns" yaml:"drop_columns" mapstructure:"drop_columns"`
	ParseColumns  []string `json:"parse_columns" yaml:"parse_columns" mapstructure:"parse_columns"`
	Limit         int      `json:"limit" yaml:"limit" mapstructure:"limit"`
	LogLevel      string   `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat     string   `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
	S3            S3Config `json:"s3" yaml:"s3" mapstructure:"s3"`
}

// S3Config holds object storage settings used for s3:// sources.
type S3Config struct {
	Region       string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Endpoint     string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	UsePathStyle bool   `json:"use_path_style,omitempty" yaml:"use_path_style,omitempty" mapstructure:"use_path_style"`
}

// Default column and field names for the arXiv metadata snapshot.
const (
	DefaultIDField       = "id"
	DefaultCategoryField = "categories"
)

// DefaultDropColumns lists versioning, author-detail and licensing metadata
// that is not needed once the table is built.
var DefaultDropColumns = []string{"versions", "authors_parsed", "doi", "license", "report-no"}

// DefaultParseColumns lists the free-text columns handed to the text parser.
var DefaultParseColumns = []string{"abstract", "authors", "title", "comments", "submitter", "journal-ref"}

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config validation errors.
var (
	ErrSourceEmpty      = errors.New("source must not be empty")
	ErrFieldEmpty       = errors.New("id and category fields must not be empty")
	ErrLimitInvalid     = errors.New("limit must not be negative")
	ErrLogFormatUnknown = errors.New("unknown log format")
	ErrLogLevelUnknown  = errors.New("unknown log level")
)

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns a Config populated with the arXiv snapshot defaults
// and no source.
func DefaultConfig() Config {
	return Config{
		IDField:       DefaultIDField,
		CategoryField: DefaultCategoryField,
		DropColumns:   append([]string(nil), DefaultDropColumns...),
		ParseColumns:  append([]string(nil), DefaultParseColumns...),
		LogLevel:      "info",
		LogFormat:     LogFormatText,
	}
}

// Validate checks that the Config is usable for a load. It returns a
// sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.Source == "" {
		return ErrSourceEmpty
	}
	if c.IDField == "" || c.CategoryField == "" {
		return ErrFieldEmpty
	}
	if c.Limit < 0 {
		return ErrLimitInvalid
	}
	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return ErrLogFormatUnknown
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
