// Package jsonpaths reads Redshift JSONPaths documents and pairs their paths with staging table columns.
package jsonpaths

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cevaris/ordered_map"
	"github.com/pkg/errors"

	"github.com/relloyd/starpipe/constants"
	td "github.com/relloyd/starpipe/table-definition"
)

// Path is a single JSONPath expression reduced to the object keys it selects.
type Path struct {
	Expression string
	Keys       []string
}

// Field returns the keys joined by ".".
func (p Path) Field() string {
	return strings.Join(p.Keys, ".")
}

var (
	bracketKey = regexp.MustCompile(`^\[\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\s*\]`)
	dotKey     = regexp.MustCompile(`^\.([A-Za-z_][A-Za-z0-9_]*)`)
)

// ParsePath converts expressions like $['artist'], $["user"]["id"] or $.auth into a Path.
// Array subscripts and wildcards are not supported.
func ParsePath(expr string) (Path, error) {
	retval := Path{Expression: expr}
	s := strings.TrimSpace(expr)
	if !strings.HasPrefix(s, "$") {
		return retval, fmt.Errorf("JSONPath %q must start with $", expr)
	}
	s = s[1:]
	for len(s) > 0 {
		if m := bracketKey.FindStringSubmatch(s); m != nil {
			k := m[1]
			if k == "" {
				k = m[2]
			}
			retval.Keys = append(retval.Keys, unescape(k))
			s = s[len(m[0]):]
			continue
		}
		if m := dotKey.FindStringSubmatch(s); m != nil {
			retval.Keys = append(retval.Keys, m[1])
			s = s[len(m[0]):]
			continue
		}
		return retval, fmt.Errorf("unsupported JSONPath %q near %q", expr, s)
	}
	if len(retval.Keys) == 0 {
		return retval, fmt.Errorf("JSONPath %q does not select a field", expr)
	}
	return retval, nil
}

func unescape(s string) string {
	return strings.NewReplacer(`\'`, `'`, `\"`, `"`, `\\`, `\`).Replace(s)
}

type document struct {
	JsonPaths *[]string `json:"jsonpaths"`
}

// Parse reads a JSONPaths document: {"jsonpaths": ["$['artist']", ...]}.
func Parse(data []byte) ([]Path, error) {
	doc := document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "error parsing JSONPaths document")
	}
	if doc.JsonPaths == nil {
		return nil, fmt.Errorf("JSONPaths document is missing the %q array", constants.JsonPathsDocumentField)
	}
	retval := make([]Path, 0, len(*doc.JsonPaths))
	for idx, expr := range *doc.JsonPaths {
		p, err := ParsePath(expr)
		if err != nil {
			return nil, errors.Wrapf(err, "JSONPaths element %v", idx)
		}
		retval = append(retval, p)
	}
	return retval, nil
}

// Entry pairs a table column with the path that populates it.
type Entry struct {
	Column td.Column
	Path   Path
}

// Mapping is the ordered column to path assignment for one table.
type Mapping struct {
	Location string // where the document was read from; bulk loaders that reference the document directly use it
	Table    string
	entries  *ordered_map.OrderedMap
}

// Map pairs paths with the columns of t by position.
// The number of paths must equal the number of columns.
func Map(t td.Table, location string, paths []Path) (*Mapping, error) {
	if len(paths) != len(t.Columns) {
		return nil, fmt.Errorf("JSONPaths document %v has %v paths but table %v has %v columns", location, len(paths), t.Name, len(t.Columns))
	}
	m := &Mapping{Location: location, Table: t.Name, entries: ordered_map.NewOrderedMap()}
	for idx, col := range t.Columns {
		m.entries.Set(col.Name, Entry{Column: col, Path: paths[idx]})
	}
	return m, nil
}

func (m *Mapping) Len() int {
	return m.entries.Len()
}

// Entries returns the pairs in column order.
func (m *Mapping) Entries() []Entry {
	retval := make([]Entry, 0, m.entries.Len())
	iter := m.entries.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(Entry))
	}
	return retval
}

// Get returns the entry for a column name.
func (m *Mapping) Get(column string) (Entry, bool) {
	v, ok := m.entries.Get(column)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}
