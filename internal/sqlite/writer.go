package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Write stores lines as a new snapshot at path, one document per row in
// line order. Every line must be a JSON object; the first other line fails
// with types.ErrMalformedInput. The snapshot is built in a temporary file
// and renamed into place, so path is either fully written or untouched.
// Empty names select DefaultTable and DefaultColumn. It returns the number
// of rows written.
func Write(ctx context.Context, path, table, column string, lines iter.Seq2[[]byte, error]) (int, error) {
	table, column, err := layout(table, column)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.db")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	n, err := writeDB(ctx, tmpName, table, column, lines)
	if err != nil {
		os.Remove(tmpName)
		return 0, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}

func writeDB(ctx context.Context, path, table, column string, lines iter.Seq2[[]byte, error]) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning write transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, snapshotDDL(table, column)); err != nil {
		return 0, fmt.Errorf("creating snapshot table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, snapshotInsert(table, column))
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for line, err := range lines {
		if err != nil {
			return 0, err
		}
		if !isObject(line) {
			return 0, fmt.Errorf("line %d: %w", n+1, types.ErrMalformedInput)
		}
		if _, err := stmt.ExecContext(ctx, string(line)); err != nil {
			return 0, fmt.Errorf("inserting line %d: %w", n+1, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}
	return n, nil
}

// isObject reports whether line is a single valid JSON object.
func isObject(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(line)
}
