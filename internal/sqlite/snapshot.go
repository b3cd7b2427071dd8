// Package sqlite reads corpus snapshots stored in SQLite databases.
// A snapshot is a table with one JSON document per row; rows are streamed
// in rowid order as if they were lines of a JSONL file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"regexp"

	_ "modernc.org/sqlite"
)

// Default snapshot table layout.
const (
	DefaultTable  = "records"
	DefaultColumn = "doc"
)

// reIdent restricts table and column names, which cannot be bound as
// query parameters.
var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// layout applies the default names and validates them.
func layout(table, column string) (string, string, error) {
	if table == "" {
		table = DefaultTable
	}
	if column == "" {
		column = DefaultColumn
	}
	if !reIdent.MatchString(table) || !reIdent.MatchString(column) {
		return "", "", fmt.Errorf("invalid snapshot table %q or column %q", table, column)
	}
	return table, column, nil
}

// Snapshot is an open SQLite snapshot.
type Snapshot struct {
	ctx    context.Context
	db     *sql.DB
	table  string
	column string
}

// Open opens the database at path read-only and checks that table and
// column exist. Empty names select DefaultTable and DefaultColumn.
func Open(ctx context.Context, path, table, column string) (*Snapshot, error) {
	table, column, err := layout(table, column)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	probe := fmt.Sprintf("SELECT %s FROM %s LIMIT 0", column, table)
	rows, err := db.QueryContext(ctx, probe)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checking snapshot %s.%s: %w", table, column, err)
	}
	rows.Close()

	return &Snapshot{ctx: ctx, db: db, table: table, column: column}, nil
}

// Lines streams the document column in rowid order. NULL and empty
// documents are skipped. Each call runs a new query.
func (s *Snapshot) Lines() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", s.column, s.table)
		rows, err := s.db.QueryContext(s.ctx, query)
		if err != nil {
			yield(nil, fmt.Errorf("querying snapshot: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var doc sql.NullString
			if err := rows.Scan(&doc); err != nil {
				yield(nil, fmt.Errorf("scanning snapshot row: %w", err))
				return
			}
			if !doc.Valid || doc.String == "" {
				continue
			}
			if !yield([]byte(doc.String), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterating snapshot: %w", err))
		}
	}
}

// Count returns the number of rows in the snapshot table.
func (s *Snapshot) Count() (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(s.ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshot rows: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Snapshot) Close() error {
	return s.db.Close()
}
