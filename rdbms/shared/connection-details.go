package shared

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xo/dburl"

	"github.com/relloyd/starpipe/constants"
)

// DsnConnectionDetails holds the warehouse dialect and its data source name.
type DsnConnectionDetails struct {
	Dialect string `errorTxt:"warehouse dialect" mandatory:"yes"`
	Dsn     string `errorTxt:"data source name i.e. connect string" mandatory:"yes"`
}

// String returns the DSN with redacted password.
func (d DsnConnectionDetails) String() string {
	switch d.Dialect {
	case constants.DialectSnowflake:
		s, err := SnowflakeParseDSN(d.Dsn)
		if err != nil {
			return "snowflake://<unparseable DSN>"
		}
		return s.String()
	case constants.DialectDuckDB:
		return d.Dsn // no credentials
	default:
		u, err := dburl.Parse(d.Dsn)
		if err != nil {
			return "<unparseable DSN>"
		}
		return u.Redacted()
	}
}

// Parse validates the DSN for the dialect.
func (d DsnConnectionDetails) Parse() error {
	if d.Dsn == "" { // if the Dsn is invalid...
		return errors.New("DSN not found")
	}
	switch d.Dialect {
	case constants.DialectSnowflake:
		_, err := SnowflakeParseDSN(d.Dsn)
		return err
	case constants.DialectDuckDB:
		_, err := DuckDBParseDSN(d.Dsn)
		return err
	case constants.DialectRedshift:
		u, err := dburl.Parse(d.Dsn)
		if err != nil {
			return errors.Wrap(err, "DSN could not be parsed")
		}
		if u.Driver != "postgres" {
			return fmt.Errorf("expected a redshift:// or postgres:// DSN but got scheme %q", u.OriginalScheme)
		}
		return nil
	default:
		return fmt.Errorf("unsupported dialect %q", d.Dialect)
	}
}

// DuckDBParseDSN returns the database file named by a duckdb: DSN.
// An empty file name selects an in-memory database.
func DuckDBParseDSN(dsn string) (string, error) {
	for _, prefix := range []string{"duckdb://", "duckdb:"} {
		if strings.HasPrefix(dsn, prefix) {
			return strings.TrimPrefix(dsn, prefix), nil
		}
	}
	return "", fmt.Errorf("expected DuckDB DSN of the form duckdb:<file>, got %q", dsn)
}
