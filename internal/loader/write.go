package loader

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
	"github.com/KaramelBytes/sessionlens-cli/internal/utils"
)

// WriteCSV writes t with a header row. Booleans are True/False, missing cells
// are empty and numbers use the shortest round-trip form. The file is replaced
// atomically.
func WriteCSV(path string, t *table.Table) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		if err := w.Write(t.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteSQLite replaces tableName in the SQLite database at path with the
// contents of t. Numeric columns become REAL, booleans INTEGER 0/1 and the
// rest TEXT; missing cells are NULL.
func WriteSQLite(ctx context.Context, path, tableName string, t *table.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	cols := t.Columns()
	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.Name)
		defs[i] = names[i] + " " + sqliteType(c.Kind)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(tableName)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+quoteIdent(tableName)+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+quoteIdent(tableName)+` (`+strings.Join(names, ", ")+`) VALUES (`+ph+`)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	args := make([]any, len(cols))
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range cols {
			args[j] = sqliteValue(c, i)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func sqliteType(k table.Kind) string {
	switch k {
	case table.Numeric:
		return "REAL"
	case table.Boolean:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func sqliteValue(c *table.Column, i int) any {
	if c.IsMissing(i) {
		return nil
	}
	switch c.Kind {
	case table.Numeric:
		return c.Nums[i]
	case table.Boolean:
		if c.Bools[i] {
			return 1
		}
		return 0
	default:
		return c.Strs[i]
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
