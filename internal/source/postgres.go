package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Postgres reads whole tables over a single pgx connection.
type Postgres struct {
	URL string
}

// Fetch runs SELECT * against name (optionally schema-qualified) and returns
// every row. The connection is closed before returning.
func (p Postgres) Fetch(ctx context.Context, name string) (*table.Table, error) {
	conn, err := pgx.Connect(ctx, p.URL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	query := "SELECT * FROM " + pgx.Identifier(strings.Split(name, ".")).Sanitize()
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
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
