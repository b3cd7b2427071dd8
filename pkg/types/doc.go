// Package types defines the record, row and configuration types shared by the
// arxivset loader, table builder and dataset, together with the standard
// error values callers match with errors.Is.
package types
