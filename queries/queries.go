// Package queries builds the statements that create, load and transform the warehouse.
package queries

import (
	"github.com/relloyd/starpipe/dialect"
	td "github.com/relloyd/starpipe/table-definition"
)

// Statement is a named SQL statement without a terminator.
type Statement struct {
	Name string
	SQL  string
}

// CreateTableStatements returns the statements that create every registered table.
func CreateTableStatements(d dialect.Dialect, r *td.Registry) []Statement {
	retval := make([]Statement, 0)
	for _, t := range r.Tables() {
		for _, s := range d.CreateTable(t) {
			retval = append(retval, Statement{Name: t.Name, SQL: s})
		}
	}
	return retval
}

// DropTableStatements returns the statements that remove every registered table.
func DropTableStatements(d dialect.Dialect, r *td.Registry) []Statement {
	retval := make([]Statement, 0)
	for _, t := range r.Tables() {
		for _, s := range d.DropTable(t) {
			retval = append(retval, Statement{Name: t.Name, SQL: s})
		}
	}
	return retval
}
