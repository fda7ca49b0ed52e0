package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/helper"
	td "github.com/relloyd/starpipe/table-definition"
)

// DuckDB runs the warehouse locally. Sources are local paths or globs; s3:// sources need the
// httpfs extension to be loaded on the connection.
type DuckDB struct{}

func NewDuckDB() *DuckDB {
	return &DuckDB{}
}

func (d *DuckDB) Name() string {
	return constants.DialectDuckDB
}

func (d *DuckDB) Mapper() td.Mapper {
	return td.DuckDBDataTypeMapping
}

// SequenceName returns the name of the sequence that feeds identity column col.
func SequenceName(t td.Table, col td.Column) string {
	return fmt.Sprintf("%v_%v_seq", t.Name, col.Name)
}

// CreateTable emits a sequence ahead of any table with an identity column since DuckDB has no
// IDENTITY clause.
func (d *DuckDB) CreateTable(t td.Table) []string {
	retval := make([]string, 0, 2)
	if col, ok := t.IdentityColumn(); ok {
		retval = append(retval, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %v START WITH 0 INCREMENT BY 1 MINVALUE 0", SequenceName(t, col)))
	}
	retval = append(retval, td.CreateTableSQL(t, td.MapperColumnType(d.Mapper(), func(t td.Table, col td.Column) string {
		return fmt.Sprintf("BIGINT DEFAULT nextval(%v)", helper.QuoteLiteral(SequenceName(t, col)))
	})))
	return retval
}

func (d *DuckDB) DropTable(t td.Table) []string {
	retval := []string{td.DropTableSQL(t)}
	if col, ok := t.IdentityColumn(); ok {
		retval = append(retval, fmt.Sprintf("DROP SEQUENCE IF EXISTS %v", SequenceName(t, col)))
	}
	return retval
}

func (d *DuckDB) EpochMillisToTimestamp(expr string) string {
	return fmt.Sprintf("epoch_ms(CAST(%v AS BIGINT) // 1000 * 1000)", expr)
}

func (d *DuckDB) NeedsResolvedPaths() bool {
	return true
}

// sourceGlob expands a directory into a recursive glob of JSON files.
func sourceGlob(source string) string {
	if strings.ContainsAny(source, "*?[") || strings.HasSuffix(strings.ToLower(source), ".json") {
		return source
	}
	return strings.TrimRight(source, "/") + "/**/*.json"
}

var simpleKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func duckDBJsonPath(keys []string) string {
	sb := strings.Builder{}
	sb.WriteString("$")
	for _, k := range keys {
		if simpleKey.MatchString(k) {
			sb.WriteString("." + k)
		} else {
			sb.WriteString("." + helper.QuoteIdentifier(k))
		}
	}
	return sb.String()
}

// BulkLoad renders an INSERT from the JSON reader table functions.
// Automatic format loads read each column by name; JSONPaths loads extract each path from the
// raw objects. Values that do not convert to the column type become NULL.
func (d *DuckDB) BulkLoad(b BulkLoad) (string, error) {
	if err := requireSource(b); err != nil {
		return "", err
	}
	glob := helper.QuoteLiteral(sourceGlob(b.Source))
	cols := strings.Join(b.Table.ColumnNames(), ", ")
	if b.Format.IsAuto() {
		types := make([]string, 0, len(b.Table.Columns))
		for _, c := range b.Table.Columns {
			types = append(types, fmt.Sprintf("%v: %v", helper.QuoteLiteral(c.Name), helper.QuoteLiteral(d.Mapper().Map(c.Type))))
		}
		return fmt.Sprintf("INSERT INTO %v (%v)\nSELECT %v\nFROM read_json(%v, format = 'auto', columns = {%v})",
			b.Table.Name, cols, cols, glob, strings.Join(types, ", ")), nil
	}
	if b.Format.Mapping == nil {
		return "", fmt.Errorf("JSONPaths document %v must be resolved before loading %v", b.Format.JSONPathsLocation, b.Table.Name)
	}
	entries := b.Format.Mapping.Entries()
	insertCols := make([]string, 0, len(entries))
	fields := make([]string, 0, len(entries))
	for _, e := range entries {
		insertCols = append(insertCols, e.Column.Name)
		expr := fmt.Sprintf("json_extract_string(json, %v)", helper.QuoteLiteral(duckDBJsonPath(e.Path.Keys)))
		if e.Column.Type != td.Text {
			expr = fmt.Sprintf("TRY_CAST(%v AS %v)", expr, d.Mapper().Map(e.Column.Type))
		}
		fields = append(fields, expr)
	}
	return fmt.Sprintf("INSERT INTO %v (%v)\nSELECT %v\nFROM read_ndjson_objects(%v)",
		b.Table.Name, strings.Join(insertCols, ", "), strings.Join(fields, ",\n       "), glob), nil
}
