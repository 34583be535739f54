package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sessionlens-cli/internal/loader"
	"github.com/KaramelBytes/sessionlens-cli/internal/source"
	"github.com/KaramelBytes/sessionlens-cli/internal/table"
)

var (
	inDelimiter  string
	inSheetName  string
	inSheetIndex int
)

// addInputFlags registers the file-reading flags shared by commands that load a table.
func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',', ';', or 'tab' (auto-detect by default)")
	c.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to load")
	c.Flags().IntVar(&inSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func inputOptions() (loader.Options, error) {
	opt := loader.Options{Sheet: inSheetName, SheetIndex: inSheetIndex}
	switch strings.ToLower(inDelimiter) {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", inDelimiter)
	}
	return opt, nil
}

// loadInput reads a CSV, TSV or XLSX file into a table.
func loadInput(path string) (*table.Table, error) {
	opt, err := inputOptions()
	if err != nil {
		return nil, err
	}
	t, err := loader.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{"file": path, "rows": t.NumRows(), "columns": t.NumCols()}).Debug("loaded file")
	return t, nil
}

// fetchTable pulls name from the database: through dsn when given, otherwise
// over pgx with the configured RDS credentials.
func fetchTable(ctx context.Context, dsn, name string) (*table.Table, error) {
	if dsn != "" {
		db, err := source.OpenDSN(dsn)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Fetch(ctx, name)
	}
	if cfgErr != nil {
		return nil, fmt.Errorf("load credentials: %w", cfgErr)
	}
	c := settings()
	creds := source.Credentials{
		Host:     c.RDSHost,
		Port:     c.RDSPort,
		Database: c.RDSDatabase,
		User:     c.RDSUser,
		Password: c.RDSPassword,
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{"host": creds.Host, "database": creds.Database, "table": name}).Info("fetching table")
	return source.Postgres{URL: creds.URL()}.Fetch(ctx, name)
}
