package rdbms

import (
	"context"
	"database/sql"

	_ "github.com/snowflakedb/gosnowflake"

	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/rdbms/shared"
)

// newSnowflakeConnection opens the Snowflake database connection specified in d.
func newSnowflakeConnection(ctx context.Context, log logger.Logger, d shared.DsnConnectionDetails) (shared.Connector, error) {
	if _, err := shared.SnowflakeParseDSN(d.Dsn); err != nil {
		return nil, err
	}
	db, err := sql.Open("snowflake", shared.SnowflakeTrimDSN(d.Dsn))
	if err != nil {
		return nil, err
	}
	return pingConnection(ctx, log, shared.NewSqlConnection(db, d.Dialect), d)
}
