package shared

import (
	"context"
	"database/sql"
)

// SqlConnection is a wrapper around Go native sql.DB that remembers the dialect it talks to.
type SqlConnection struct {
	DbSql  *sql.DB
	DbType string
}

func NewSqlConnection(db *sql.DB, dbType string) *SqlConnection {
	return &SqlConnection{DbSql: db, DbType: dbType}
}

func (c *SqlConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *SqlConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *SqlConnection) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *SqlConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DbSql.QueryContext(ctx, query, args...)
}

func (c *SqlConnection) Close() {
	_ = c.DbSql.Close()
}

func (c *SqlConnection) GetType() string {
	return c.DbType
}
