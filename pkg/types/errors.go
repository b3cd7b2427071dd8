package types

import "errors"

// Loading and table construction errors.
var (
	ErrMalformedInput      = errors.New("malformed input line")
	ErrEmptyInput          = errors.New("no records to build a table from")
	ErrDuplicateIdentifier = errors.New("duplicate record identifier")
	ErrMissingIdentifier   = errors.New("record has no identifier")
	ErrUnsupportedSource   = errors.New("unsupported source")
)

// Query errors.
var (
	ErrUnknownLabel    = errors.New("unknown label")
	ErrIndexOutOfRange = errors.New("index out of range")
)
