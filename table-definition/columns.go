package tabledefinition

import (
	"fmt"
	"strings"
)

// DataType is the engine independent type of a column.
type DataType int

const (
	Text DataType = iota
	Integer
	Float
	Timestamp
)

func (d DataType) String() string {
	switch d {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("DataType(%d)", int(d))
	}
}

// Column defines a single table column.
type Column struct {
	Name       string
	Type       DataType
	Nullable   bool
	PrimaryKey bool
	Identity   bool // value generated by the warehouse starting at 0, step 1
}

// Table is an ordered set of columns.
// Staging tables receive raw bulk loaded data and carry no constraints.
type Table struct {
	Name    string
	Staging bool
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	retval := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		retval = append(retval, c.Name)
	}
	return retval
}

// InsertColumns returns the columns an INSERT must supply, which excludes identity columns.
func (t Table) InsertColumns() []string {
	retval := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Identity {
			retval = append(retval, c.Name)
		}
	}
	return retval
}

// Column looks up a column by name, ignoring case.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the name of the primary key column or "" if the table has none.
func (t Table) PrimaryKey() string {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c.Name
		}
	}
	return ""
}

// IdentityColumn returns the identity column if there is one.
func (t Table) IdentityColumn() (Column, bool) {
	for _, c := range t.Columns {
		if c.Identity {
			return c, true
		}
	}
	return Column{}, false
}

func (t Table) String() string {
	return t.Name
}
