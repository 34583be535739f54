// Package source pulls the customer activity table out of a relational
// database and hands it over as a typed table.
package source

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

// Credentials are the connection parameters read from the credentials file.
type Credentials struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// URL renders a postgres connection URL with escaped user info.
func (c Credentials) URL() string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:   "/" + c.Database,
	}
	return u.String()
}

// Validate reports the first missing connection field.
func (c Credentials) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("credentials: host is required")
	case c.Database == "":
		return fmt.Errorf("credentials: database is required")
	case c.User == "":
		return fmt.Errorf("credentials: user is required")
	}
	return nil
}

func buildTable(name string, header []string, rows [][]any) (*table.Table, error) {
	records := make([][]string, len(rows))
	for i, r := range rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = cellString(v)
		}
		records[i] = rec
	}
	t, err := table.FromRecords(header, records)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	return t, nil
}

// cellString renders a driver value the way it would appear in the CSV export.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return table.FormatBool(x)
	case float64:
		return table.FormatFloat(x)
	case float32:
		return table.FormatFloat(float64(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case time.Time:
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		if !x.Valid {
			return ""
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid || math.IsNaN(f.Float64) {
			return ""
		}
		return table.FormatFloat(f.Float64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
