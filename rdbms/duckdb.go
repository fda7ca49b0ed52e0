package rdbms

import (
	"context"
	"database/sql"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/rdbms/shared"
)

// newDuckDBConnection opens a local DuckDB database file, or an in-memory database if the DSN names no file.
func newDuckDBConnection(ctx context.Context, log logger.Logger, d shared.DsnConnectionDetails) (shared.Connector, error) {
	path, err := shared.DuckDBParseDSN(d.Dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // statements run one at a time
	return pingConnection(ctx, log, shared.NewSqlConnection(db, d.Dialect), d)
}
