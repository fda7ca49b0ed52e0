package dialect

import (
	"fmt"
	"strings"

	"github.com/relloyd/starpipe/aws/s3"
	"github.com/relloyd/starpipe/constants"
	"github.com/relloyd/starpipe/helper"
	td "github.com/relloyd/starpipe/table-definition"
)

type Snowflake struct{}

func NewSnowflake() *Snowflake {
	return &Snowflake{}
}

func (s *Snowflake) Name() string {
	return constants.DialectSnowflake
}

func (s *Snowflake) Mapper() td.Mapper {
	return td.SnowflakeDataTypeMapping
}

func (s *Snowflake) CreateTable(t td.Table) []string {
	return []string{td.CreateTableSQL(t, td.MapperColumnType(s.Mapper(), func(td.Table, td.Column) string {
		return "INTEGER IDENTITY(0,1)"
	}))}
}

func (s *Snowflake) DropTable(t td.Table) []string {
	return []string{td.DropTableSQL(t)}
}

func (s *Snowflake) EpochMillisToTimestamp(expr string) string {
	return fmt.Sprintf("TO_TIMESTAMP_NTZ(FLOOR(CAST(%v AS BIGINT) / 1000))", expr)
}

func (s *Snowflake) NeedsResolvedPaths() bool {
	return true
}

// stagePath converts the source URL into a path on the external stage.
// The stage is expected to point at the root of the source bucket.
func stagePath(stage, source string) (string, error) {
	stage = strings.TrimPrefix(stage, "@")
	if err := checkIdentifier("stage", stage); err != nil {
		return "", err
	}
	key := source
	if s3.IsURL(source) {
		loc, err := s3.ParseURL(source)
		if err != nil {
			return "", err
		}
		key = loc.Key
	}
	key = strings.Trim(key, "/")
	if strings.ContainsAny(key, " ';") {
		return "", fmt.Errorf("unsupported characters in stage path %q", key)
	}
	if key == "" {
		return "@" + stage, nil
	}
	return fmt.Sprintf("@%v/%v", stage, key), nil
}

// BulkLoad renders a COPY INTO from the external stage.
// Automatic format loads match JSON keys to columns by name; JSONPaths loads select each field
// from the variant with a cast to the column type.
func (s *Snowflake) BulkLoad(b BulkLoad) (string, error) {
	if err := requireSource(b); err != nil {
		return "", err
	}
	if b.Stage == "" {
		return "", fmt.Errorf("missing stage for bulk load into %v", b.Table.Name)
	}
	from, err := stagePath(b.Stage, b.Source)
	if err != nil {
		return "", err
	}
	if b.Format.IsAuto() {
		return fmt.Sprintf("COPY INTO %v\nFROM %v\nFILE_FORMAT = (TYPE = JSON)\nMATCH_BY_COLUMN_NAME = CASE_INSENSITIVE", b.Table.Name, from), nil
	}
	if b.Format.Mapping == nil {
		return "", fmt.Errorf("JSONPaths document %v must be resolved before loading %v", b.Format.JSONPathsLocation, b.Table.Name)
	}
	entries := b.Format.Mapping.Entries()
	cols := make([]string, 0, len(entries))
	fields := make([]string, 0, len(entries))
	for _, e := range entries {
		keys := make([]string, 0, len(e.Path.Keys))
		for _, k := range e.Path.Keys {
			keys = append(keys, helper.QuoteIdentifier(k))
		}
		cols = append(cols, e.Column.Name)
		expr := fmt.Sprintf("$1:%v::VARCHAR", strings.Join(keys, "."))
		if e.Column.Type != td.Text { // empty strings such as a logged out userId load as NULL.
			expr = fmt.Sprintf("TRY_CAST(%v AS %v)", expr, s.Mapper().Map(e.Column.Type))
		}
		fields = append(fields, expr)
	}
	return fmt.Sprintf("COPY INTO %v (%v)\nFROM (\n    SELECT %v\n    FROM %v\n)\nFILE_FORMAT = (TYPE = JSON)",
		b.Table.Name,
		strings.Join(cols, ", "),
		strings.Join(fields, ",\n        "),
		from), nil
}

// Stage describes an external Snowflake stage over S3.
// Supply either a storage integration or an AWS key pair.
type Stage struct {
	Name               string
	URL                string
	StorageIntegration string
	KeyID              string
	Secret             string
}

// StageDDL returns the statements that create the external stage used by BulkLoad.
func StageDDL(stg Stage) ([]string, error) {
	name := strings.TrimPrefix(stg.Name, "@")
	if err := checkIdentifier("stage", name); err != nil {
		return nil, err
	}
	loc, err := s3.ParseURL("s3://" + strings.TrimPrefix(stg.URL, "s3://")) // ensure 's3://' leading string.
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("s3://%v/", loc.Bucket)
	var auth string
	switch {
	case stg.StorageIntegration != "":
		if err = checkIdentifier("storage integration", stg.StorageIntegration); err != nil {
			return nil, err
		}
		auth = "STORAGE_INTEGRATION = " + stg.StorageIntegration
	case stg.KeyID != "" && stg.Secret != "":
		auth = fmt.Sprintf("CREDENTIALS = (AWS_KEY_ID = %v AWS_SECRET_KEY = %v)", helper.QuoteLiteral(stg.KeyID), helper.QuoteLiteral(stg.Secret))
	case stg.KeyID == "" && stg.Secret == "":
		auth = "" // public bucket
	default:
		return nil, fmt.Errorf("both AWS key id and secret key are required for stage %v", name)
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("CREATE STAGE IF NOT EXISTS %v\n  URL = %v\n", name, helper.QuoteLiteral(url)))
	if auth != "" {
		sb.WriteString("  " + auth + "\n")
	}
	sb.WriteString(fmt.Sprintf("  FILE_FORMAT = (TYPE = JSON)\n  COMMENT = %v", helper.QuoteLiteral(constants.ServiceName+" command-line tool")))
	return []string{sb.String()}, nil
}

// DropStageDDL returns the statement that removes the external stage.
func DropStageDDL(name string) ([]string, error) {
	name = strings.TrimPrefix(name, "@")
	if err := checkIdentifier("stage", name); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("DROP STAGE IF EXISTS %v", name)}, nil
}
