package tabledefinition

import (
	"fmt"
	"strings"
)

// ColumnTypeFunc renders the type clause of a column; dialects use it to render identity columns.
type ColumnTypeFunc func(t Table, col Column) string

// TableRenderer produces the statements that create or remove a table.
// A dialect may need more than one statement per table.
type TableRenderer interface {
	CreateTable(t Table) []string
	DropTable(t Table) []string
}

// CreateTableSQL renders an idempotent CREATE TABLE statement.
func CreateTableSQL(t Table, fnType ColumnTypeFunc) string {
	fields := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		var constraint string
		switch {
		case col.PrimaryKey:
			constraint = " PRIMARY KEY"
		case !col.Nullable && !col.Identity:
			constraint = " NOT NULL"
		}
		fields = append(fields, fmt.Sprintf("    %v %v%v", col.Name, fnType(t, col), constraint))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %v (\n%v\n)", t.Name, strings.Join(fields, ",\n"))
}

// DropTableSQL renders an idempotent DROP TABLE statement.
func DropTableSQL(t Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %v", t.Name)
}

// MapperColumnType returns a ColumnTypeFunc that maps every column with m and renders identity
// columns with fnIdentity.
func MapperColumnType(m Mapper, fnIdentity ColumnTypeFunc) ColumnTypeFunc {
	return func(t Table, col Column) string {
		if col.Identity && fnIdentity != nil {
			return fnIdentity(t, col)
		}
		return m.Map(col.Type)
	}
}

// CreateStatements returns the statements that create every table in registry order.
func (r *Registry) CreateStatements(tr TableRenderer) []string {
	retval := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		retval = append(retval, tr.CreateTable(t)...)
	}
	return retval
}

// DropStatements returns the statements that remove every table in registry order.
func (r *Registry) DropStatements(tr TableRenderer) []string {
	retval := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		retval = append(retval, tr.DropTable(t)...)
	}
	return retval
}
