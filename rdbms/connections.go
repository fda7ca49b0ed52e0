package rdbms

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/xo/dburl"

	"github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/logger"
	"github.com/relloyd/starpipe/rdbms/shared"
)

// OpenDbConnection opens and pings a warehouse connection using the supplied DsnConnectionDetails.
func OpenDbConnection(ctx context.Context, log logger.Logger, d shared.DsnConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", d.Dialect) // don't log password details in d.Dsn!
	switch d.Dialect {
	case constants.DialectRedshift:
		db, err = newConnectionWithDsn(ctx, log, d)
	case constants.DialectSnowflake:
		db, err = newSnowflakeConnection(ctx, log, d)
	case constants.DialectDuckDB:
		db, err = newDuckDBConnection(ctx, log, d)
	default:
		err = fmt.Errorf("unsupported database type, %q", d.Dialect)
	}
	return
}

// newConnectionWithDsn opens the connection using the driver that dburl selects for the DSN scheme.
// redshift:// DSNs use the postgres driver.
func newConnectionWithDsn(ctx context.Context, log logger.Logger, d shared.DsnConnectionDetails) (shared.Connector, error) {
	log.Info("Opening database connection: ", d)
	u, err := dburl.Parse(d.Dsn)
	if err != nil { // if the DSN could not be parsed...
		return nil, fmt.Errorf("error parsing DSN %q: %w", d, err)
	}
	db, err := sql.Open(u.Driver, u.DSN)
	if err != nil {
		return nil, err
	}
	return pingConnection(ctx, log, shared.NewSqlConnection(db, d.Dialect), d)
}

// pingConnection tests the connection and closes it on failure.
func pingConnection(ctx context.Context, log logger.Logger, conn *shared.SqlConnection, d shared.DsnConnectionDetails) (shared.Connector, error) {
	if err := conn.DbSql.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "unable to connect to %v", d)
	}
	log.Info("Successful connection to: ", d)
	return conn, nil
}
