package sqlite

import "fmt"

// createSnapshot is the DDL for a snapshot table. The table and column
// names are substituted after validation with reIdent.
const createSnapshot = `CREATE TABLE %s (
    %s TEXT NOT NULL
);`

// insertSnapshot inserts one document.
const insertSnapshot = `INSERT INTO %s (%s) VALUES (?)`

func snapshotDDL(table, column string) string {
	return fmt.Sprintf(createSnapshot, table, column)
}

func snapshotInsert(table, column string) string {
	return fmt.Sprintf(insertSnapshot, table, column)
}
