package tabledefinition

import (
	"fmt"

	"github.com/relloyd/starpipe/constants"
)

// Mapper converts an engine independent data type into the type used in CREATE TABLE DDL.
type Mapper interface {
	Map(dt DataType) string
}

type dataTypeMap map[DataType]string

func (m dataTypeMap) Map(dt DataType) string {
	v, ok := m[dt]
	if !ok {
		panic(fmt.Sprintf("unsupported data type %v during conversion", dt))
	}
	return v
}

// Redshift VARCHAR without a length is VARCHAR(256) and FLOAT is FLOAT8.
var RedshiftDataTypeMapping = dataTypeMap{
	Text:      "VARCHAR",
	Integer:   "INTEGER",
	Float:     "FLOAT",
	Timestamp: "TIMESTAMP",
}

var SnowflakeDataTypeMapping = dataTypeMap{
	Text:      "VARCHAR",
	Integer:   "INTEGER",
	Float:     "FLOAT",
	Timestamp: "TIMESTAMP_NTZ",
}

// DuckDB FLOAT is single precision so use DOUBLE to hold coordinates and durations.
var DuckDBDataTypeMapping = dataTypeMap{
	Text:      "VARCHAR",
	Integer:   "INTEGER",
	Float:     "DOUBLE",
	Timestamp: "TIMESTAMP",
}

var dataTypeMappings = map[string]dataTypeMap{
	constants.DialectRedshift:  RedshiftDataTypeMapping,
	constants.DialectSnowflake: SnowflakeDataTypeMapping,
	constants.DialectDuckDB:    DuckDBDataTypeMapping,
}

// GetMapper returns the data type Mapper for the given dialect name.
func GetMapper(dialectName string) (Mapper, error) {
	m, ok := dataTypeMappings[dialectName]
	if !ok {
		return nil, fmt.Errorf("unable to find data type mapper for dialect %q", dialectName)
	}
	return m, nil
}
