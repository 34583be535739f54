package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/xo/dburl"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// SQL reads tables through database/sql, for DSNs pgx does not cover.
type SQL struct {
	db *sqlx.DB
}

// OpenDSN opens a database from a URL such as postgres://... or mysql://...
func OpenDSN(dsn string) (*SQL, error) {
	u, err := dburl.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	db, err := dburl.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u.Driver, err)
	}
	return NewSQL(db, u.Driver), nil
}

// NewSQL wraps an open handle. driver selects identifier quoting.
func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: sqlx.NewDb(db, driver)}
}

// Close releases the handle.
func (s *SQL) Close() error { return s.db.Close() }

// Fetch runs SELECT * against name and returns every row.
func (s *SQL) Fetch(ctx context.Context, name string) (*table.Table, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+quoteName(s.db.DriverName(), name))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", name, err)
	}
	var out [][]any
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return buildTable(name, header, out)
}

func quoteName(driver, name string) string {
	q := `"`
	if driver == "mysql" {
		q = "`"
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}
