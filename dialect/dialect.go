// Package dialect renders the engine specific SQL used to build and load the warehouse.
package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/jsonpaths"
	td "github.com/relloyd/starpipe/table-definition"
)

type Dialect interface {
	td.TableRenderer
	Name() string
	Mapper() td.Mapper
	// EpochMillisToTimestamp converts an expression holding milliseconds since the epoch into a
	// timestamp truncated to whole seconds.
	EpochMillisToTimestamp(expr string) string
	// BulkLoad renders the statement that copies source files into a staging table.
	BulkLoad(b BulkLoad) (string, error)
	// NeedsResolvedPaths is true if BulkLoad requires the parsed JSONPaths document rather than
	// just its location.
	NeedsResolvedPaths() bool
}

// Format chooses how JSON fields are matched to staging columns.
// The zero value matches fields to columns by name.
type Format struct {
	JSONPathsLocation string
	Mapping           *jsonpaths.Mapping
}

func (f Format) IsAuto() bool {
	return f.JSONPathsLocation == "" && f.Mapping == nil
}

// BulkLoad describes one staging load. Parts that an engine has no equivalent for are ignored.
type BulkLoad struct {
	Table      td.Table
	Source     string // object storage URL or, for local engines, a file path or glob
	Credential string // IAM role ARN
	Region     string
	Stage      string // external stage that holds the source files
	Format     Format
}

var dialects = map[string]func() Dialect{
	constants.DialectRedshift:  func() Dialect { return NewRedshift() },
	constants.DialectSnowflake: func() Dialect { return NewSnowflake() },
	constants.DialectDuckDB:    func() Dialect { return NewDuckDB() },
}

// Get returns the dialect by name. An empty name selects Redshift.
func Get(name string) (Dialect, error) {
	if name == "" {
		name = constants.DialectRedshift
	}
	fn, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q, expected one of %v", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	return []string{constants.DialectRedshift, constants.DialectSnowflake, constants.DialectDuckDB}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

func checkIdentifier(kind, s string) error {
	if !identifier.MatchString(s) {
		return fmt.Errorf("invalid %v name %q", kind, s)
	}
	return nil
}

func requireSource(b BulkLoad) error {
	if b.Source == "" {
		return fmt.Errorf("missing source location for bulk load into %v", b.Table.Name)
	}
	return nil
}
